package renderer

import (
	"fmt"
	"log"
	"os"

	"glscene/core"
	"glscene/scene"
)

// Stats describes the most recent Render call.
type Stats struct {
	Objects   int
	Vertices  int
	Triangles int
	Culled    int
	Skipped   int // meshes that were not uploaded or had no compiled shader
}

// SceneRenderer draws a Scene through a core.Device. It must be used from
// the goroutine that owns the graphics context.
type SceneRenderer struct {
	Scene          *scene.Scene
	FrustumCulling bool // skip meshes whose world bounds miss the view

	device core.Device
	logger *log.Logger
	stats  Stats

	// uniform failures already logged, keyed by shader and uniform name
	warned map[string]bool
}

// NewSceneRenderer creates a renderer for s. A nil logger writes to stderr.
func NewSceneRenderer(device core.Device, s *scene.Scene, logger *log.Logger) (*SceneRenderer, error) {
	if device == nil {
		return nil, fmt.Errorf("renderer needs a device")
	}
	if logger == nil {
		logger = log.New(os.Stderr, "[renderer] ", log.LstdFlags)
	}
	return &SceneRenderer{
		Scene:  s,
		device: device,
		logger: logger,
		warned: make(map[string]bool),
	}, nil
}

func (r *SceneRenderer) SetScene(s *scene.Scene) {
	r.Scene = s
}

// Resize updates the camera viewport. The next Render applies it to the
// device.
func (r *SceneRenderer) Resize(width, height int) error {
	if r.Scene == nil || r.Scene.Camera == nil {
		return fmt.Errorf("no scene or camera")
	}
	return r.Scene.Camera.SetViewport(width, height)
}

// Render clears to the scene background and draws every mesh in insertion
// order. elapsed is fed to shaders that declare u_time.
func (r *SceneRenderer) Render(elapsed float32) error {
	if r.Scene == nil || r.Scene.Camera == nil {
		return fmt.Errorf("no scene or camera")
	}
	cam := r.Scene.Camera

	w, h := cam.Viewport()
	r.device.SetViewport(core.Viewport{Width: w, Height: h})
	r.device.Clear(r.Scene.Background)

	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix()
	vp := view.Mul(proj)
	frame := frameUniforms{
		view:           core.Mat4(view),
		projection:     core.Mat4(proj),
		viewProjection: core.Mat4(vp),
		time:           core.Float(elapsed),
	}
	frustum := scene.FrustumFromVP(vp)

	var stats Stats
	for _, mesh := range r.Scene.Meshes() {
		if r.FrustumCulling && mesh.Data != nil && !mesh.WorldAABB().IntersectsFrustum(&frustum) {
			stats.Culled++
			continue
		}
		if !r.drawMesh(mesh, &frame) {
			stats.Skipped++
			continue
		}
		stats.Objects++
		stats.Vertices += len(mesh.Data.Vertices)
		if mesh.Data.Mode == core.DrawTriangles {
			stats.Triangles += mesh.ElementCount() / 3
		}
	}
	r.stats = stats
	return nil
}

// Stats returns the counters from the most recent Render call.
func (r *SceneRenderer) Stats() Stats {
	return r.stats
}

type frameUniforms struct {
	view           core.UniformValue
	projection     core.UniformValue
	viewProjection core.UniformValue
	time           core.UniformValue
}

func (r *SceneRenderer) drawMesh(mesh *scene.Mesh, frame *frameUniforms) bool {
	if !mesh.Uploaded() {
		return false
	}
	mat := mesh.Material
	if mat == nil {
		mat = r.Scene.DefaultMaterial()
	}
	if mat == nil || mat.Shader == nil || !mat.Shader.Compiled() {
		return false
	}
	sh := mat.Shader
	r.device.UseProgram(sh.Program)

	useTexture := int32(0)
	if mat.Textured() && mat.Texture.Handle != 0 {
		r.device.BindTexture(0, mat.Texture.Handle)
		useTexture = 1
	}

	builtins := []struct {
		name  string
		value core.UniformValue
	}{
		{scene.UniformModel, core.Mat4(mesh.Transform.Mat())},
		{scene.UniformView, frame.view},
		{scene.UniformProjection, frame.projection},
		{scene.UniformViewProjection, frame.viewProjection},
		{scene.UniformColor, core.ColorValue(mat.Color)},
		{scene.UniformUseTexture, core.Int(useTexture)},
		{scene.UniformTexture, core.Int(0)},
		{scene.UniformTime, frame.time},
	}
	for _, u := range builtins {
		if !sh.Declares(u.name) {
			continue
		}
		err := r.device.SetUniform(sh.Program, u.name, u.value)
		// Without a declared list every built-in is tried and the ones the
		// program lacks are expected to fail.
		if err != nil && len(sh.Uniforms) > 0 {
			r.warnOnce(sh.Name, u.name, err)
		}
	}
	for _, u := range mat.Uniforms {
		if err := r.device.SetUniform(sh.Program, u.Name, u.Value); err != nil {
			r.warnOnce(sh.Name, u.Name, err)
		}
	}

	r.device.Draw(mesh.Handle)
	return true
}

func (r *SceneRenderer) warnOnce(shader, uniform string, err error) {
	key := shader + "/" + uniform
	if r.warned[key] {
		return
	}
	r.warned[key] = true
	r.logger.Printf("shader %q: uniform %q: %v", shader, uniform, err)
}
