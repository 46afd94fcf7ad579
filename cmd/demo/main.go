package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"glscene/core"
	"glscene/input"
	"glscene/internal/opengl"
	"glscene/renderer"
	"glscene/scene"
)

func main() {
	settingsPath := flag.String("settings", "settings.json", "optional JSON settings file")
	manifest := flag.String("manifest", "", "scene manifest path or URL (overrides settings)")
	remote := flag.String("remote", "", "listen address for websocket input, e.g. :8080 (overrides settings)")
	fps := flag.Int("fps", -1, "frame rate limit, 0 for none (overrides settings)")
	flag.Parse()

	settings, err := loadSettings(*settingsPath)
	if err != nil {
		log.Fatalf("settings: %v", err)
	}
	if *manifest != "" {
		settings.Scene.Manifest = *manifest
	}
	if *remote != "" {
		settings.Remote.Addr = *remote
	}
	if *fps >= 0 {
		settings.Window.FPS = *fps
	}

	if err := run(settings); err != nil {
		log.Fatal(err)
	}
}

func run(settings Settings) error {
	windowConfig := core.DefaultWindowConfig()
	windowConfig.Title = settings.Window.Title
	windowConfig.Width = settings.Window.Width
	windowConfig.Height = settings.Window.Height
	windowConfig.VSync = settings.Window.VSync

	window, err := core.NewWindow(windowConfig)
	if err != nil {
		return err
	}
	defer window.Destroy()

	device, err := opengl.NewDevice()
	if err != nil {
		return err
	}
	defer device.Close()
	log.Printf("OpenGL %s", device.Version())

	width, height := window.GetFramebufferSize()
	loader := scene.NewLoader(nil,
		scene.WithDevice(device),
		scene.WithWorkers(settings.Scene.Workers),
		scene.WithViewport(width, height),
		scene.WithOrbitConfig(settings.Orbit.config()),
	)
	defer loader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, report, err := loader.Load(ctx, settings.Scene.Manifest)
	if err != nil {
		return err
	}
	defer s.Dispose(device)
	if len(report.Errors) > 0 {
		log.Printf("scene loaded with %d errors", len(report.Errors))
	}
	if len(settings.Scene.Background) > 0 {
		s.Background = core.ColorFromSlice(settings.Scene.Background)
	}

	r, err := renderer.NewSceneRenderer(device, s, nil)
	if err != nil {
		return err
	}
	r.FrustumCulling = settings.Window.Cull

	collector := input.NewCollector()
	source := input.NewWindowSource(window, collector)

	g, ctx := errgroup.WithContext(ctx)
	if settings.Remote.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle(settings.Remote.Path, input.NewRemoteHandler(collector))
		srv := &http.Server{Addr: settings.Remote.Addr, Handler: mux}

		g.Go(func() error {
			log.Printf("remote input on ws://%s%s", settings.Remote.Addr, settings.Remote.Path)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("remote input server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}

	frameLoop(ctx, window, r, s, source, collector, settings)
	cancel()
	return g.Wait()
}

// frameLoop runs on the main thread until the window closes or ctx is done.
func frameLoop(ctx context.Context, window *core.Window, r *renderer.SceneRenderer, s *scene.Scene,
	source *input.WindowSource, collector *input.Collector, settings Settings) {
	timer := core.NewFrameTimer(settings.Window.FPS)
	start := window.Time()
	lastTitle := start
	resetWasDown := false

	for !window.ShouldClose() && ctx.Err() == nil {
		window.PollEvents()
		source.Update()

		if window.IsKeyPressed(core.KeyEscape) {
			window.Handle.SetShouldClose(true)
		}
		resetDown := window.IsKeyPressed(core.KeyR)
		if resetDown && !resetWasDown {
			s.Orbit.Reset()
		}
		resetWasDown = resetDown

		now := window.Time()
		dt, ok := timer.Step(now)
		if !ok {
			time.Sleep(time.Millisecond)
			continue
		}

		fbw, fbh := window.GetFramebufferSize()
		if w, h := s.Camera.Viewport(); fbw > 0 && fbh > 0 && (w != fbw || h != fbh) {
			if err := r.Resize(fbw, fbh); err != nil {
				log.Printf("resize: %v", err)
			}
		}

		s.Orbit.Update(dt, collector.Drain())
		if err := r.Render(float32(now - start)); err != nil {
			log.Printf("render: %v", err)
		}
		window.SwapBuffers()

		if now-lastTitle >= 1 {
			st := r.Stats()
			window.SetTitle(fmt.Sprintf("%s | %d FPS | %d objects | %d tris",
				settings.Window.Title, timer.FPS(), st.Objects, st.Triangles))
			lastTitle = now
		}
	}
}
