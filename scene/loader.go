package scene

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"glscene/core"
	"glscene/io"
)

const (
	DefaultLoaderWorkers = 4
	DefaultViewportSize  = 500

	taskQueueSize   = 256
	workerIdleAfter = 1 * time.Second
)

// ErrAssetPanic marks an entry whose fetch or decode panicked.
var ErrAssetPanic = errors.New("asset task panicked")

// AssetError is a non-fatal failure tied to one manifest entry. Err is one
// of *io.ValidationError, *io.NetworkError, *core.CompileError,
// *core.LinkError or a decode error.
type AssetError struct {
	Kind string
	Name string
	Err  error
}

func (e *AssetError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Kind, e.Name, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}

// Report summarises a load. Counts exclude the built-in default shader and
// material.
type Report struct {
	Shaders   int
	Textures  int
	Materials int
	Meshes    int

	Errors []error
}

// Err joins every reported error, or returns nil when the load was clean.
func (r *Report) Err() error {
	return errors.Join(r.Errors...)
}

func (r *Report) Loaded() int {
	return r.Shaders + r.Textures + r.Materials + r.Meshes
}

type LoaderOption func(*Loader)

// WithDevice compiles and uploads assets while assembling. Without a device
// the scene holds CPU data only.
func WithDevice(device core.Device) LoaderOption {
	return func(l *Loader) { l.device = device }
}

func WithLogger(logger *log.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithWorkers bounds the number of concurrent fetches.
func WithWorkers(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

func WithViewport(width, height int) LoaderOption {
	return func(l *Loader) { l.width, l.height = width, height }
}

func WithOrbitConfig(config OrbitConfig) LoaderOption {
	return func(l *Loader) { l.orbit = config }
}

// Loader assembles a Scene from a manifest. Fetches run on a worker pool;
// compilation, uploads and registry inserts happen on the goroutine that
// called Load, after every fetch has finished.
type Loader struct {
	fetcher io.Fetcher
	device  core.Device
	logger  *log.Logger
	workers int
	width   int
	height  int
	orbit   OrbitConfig

	mu   sync.Mutex
	pool worker.DynamicWorkerPool
}

// NewLoader creates a loader. A nil fetcher reads http(s) references over
// the network and everything else from the working directory.
func NewLoader(fetcher io.Fetcher, opts ...LoaderOption) *Loader {
	if fetcher == nil {
		fetcher = &io.RoutingFetcher{
			Remote: io.NewHTTPFetcher(30 * time.Second),
			Local:  &io.FileFetcher{FS: os.DirFS(".")},
		}
	}
	l := &Loader{
		fetcher: fetcher,
		logger:  log.New(os.Stderr, "[scene] ", log.LstdFlags),
		workers: DefaultLoaderWorkers,
		width:   DefaultViewportSize,
		height:  DefaultViewportSize,
		orbit:   DefaultOrbitConfig(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// workerPool returns the loader's fetch pool, starting it on first use.
// Every Load on the same loader shares it.
func (l *Loader) workerPool() worker.DynamicWorkerPool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pool == nil {
		l.pool = worker.NewDynamicWorkerPool(l.workers, taskQueueSize, workerIdleAfter)
	}
	return l.pool
}

// Close stops the fetch workers. A later Load starts a new pool.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pool != nil {
		l.pool.Stop()
		l.pool = nil
	}
}

type shaderResult struct {
	sources []core.ShaderSource
	err     error
}

type textureResult struct {
	texture *Texture
	err     error
}

type materialResult struct {
	data *io.MaterialData
	err  error
}

type meshResult struct {
	data *core.MeshData
	err  error
}

// Load fetches the manifest at manifestURL and every asset it lists. Only a
// manifest that cannot be fetched or parsed, or an invalid viewport or orbit
// configuration, fails the load. Every other problem is collected in the
// report and the offending entry is skipped.
//
// ctx is passed to each fetch. Cancelling it does not stop the load early;
// the remaining fetches fail and are reported.
func (l *Loader) Load(ctx context.Context, manifestURL string) (*Scene, *Report, error) {
	doc, err := l.fetcher.Fetch(ctx, manifestURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	manifest, problems, err := io.ParseManifest(doc)
	if err != nil {
		return nil, nil, err
	}

	s, err := NewScene(l.width, l.height, l.orbit)
	if err != nil {
		return nil, nil, err
	}

	report := &Report{}
	for _, p := range problems {
		var ve *io.ValidationError
		if errors.As(p, &ve) {
			l.reportError(report, ve.Kind, ve.Name, ve)
			continue
		}
		l.reportError(report, "manifest", "", p)
	}

	shaders := make([]shaderResult, len(manifest.Shaders))
	textures := make([]textureResult, len(manifest.Textures))
	materials := make([]materialResult, len(manifest.Materials))
	meshes := make([]meshResult, len(manifest.Meshes))

	pool := l.workerPool()
	var wg sync.WaitGroup
	taskID := 0
	// A panicking decoder only fails its own entry.
	submit := func(do func(), fail func(error)) {
		wg.Add(1)
		id := taskID
		taskID++
		pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				defer func() {
					if p := recover(); p != nil {
						fail(fmt.Errorf("%w: %v", ErrAssetPanic, p))
					}
				}()
				do()
				return nil, nil
			},
		})
	}

	for i, e := range manifest.Shaders {
		submit(func() { shaders[i] = l.fetchShader(ctx, manifestURL, e) },
			func(err error) { shaders[i] = shaderResult{err: err} })
	}
	for i, e := range manifest.Textures {
		submit(func() { textures[i] = l.fetchTexture(ctx, manifestURL, e) },
			func(err error) { textures[i] = textureResult{err: err} })
	}
	for i, e := range manifest.Materials {
		submit(func() { materials[i] = l.fetchMaterial(ctx, manifestURL, e) },
			func(err error) { materials[i] = materialResult{err: err} })
	}
	for i, e := range manifest.Meshes {
		submit(func() { meshes[i] = l.fetchMesh(ctx, manifestURL, e) },
			func(err error) { meshes[i] = meshResult{err: err} })
	}
	wg.Wait()

	if err := s.DefaultShader().Compile(l.device); err != nil {
		l.reportError(report, "shader", io.ReservedName, err)
	}
	l.assembleShaders(s, report, manifest.Shaders, shaders)
	l.assembleTextures(s, report, manifest.Textures, textures)
	l.assembleMaterials(s, report, manifest.Materials, materials)
	l.assembleMeshes(s, report, manifest.Meshes, meshes)

	l.logger.Printf("loaded %s: %d shaders, %d textures, %d materials, %d meshes, %d errors",
		manifestURL, report.Shaders, report.Textures, report.Materials, report.Meshes, len(report.Errors))
	return s, report, nil
}

func (l *Loader) reportError(r *Report, kind, name string, err error) {
	ae := &AssetError{Kind: kind, Name: name, Err: err}
	r.Errors = append(r.Errors, ae)
	l.logger.Printf("skipping %v", ae)
}

func (l *Loader) fetchShader(ctx context.Context, base string, e io.ShaderEntry) shaderResult {
	sources := make([]core.ShaderSource, 0, len(e.Src))
	for _, src := range e.Src {
		code, err := l.fetcher.Fetch(ctx, io.Resolve(base, src))
		if err != nil {
			return shaderResult{err: err}
		}
		sources = append(sources, core.ShaderSource{Stage: e.Stage(src), Code: string(code)})
	}
	return shaderResult{sources: sources}
}

func (l *Loader) fetchTexture(ctx context.Context, base string, e io.TextureEntry) textureResult {
	data, err := l.fetcher.Fetch(ctx, io.Resolve(base, e.Src))
	if err != nil {
		return textureResult{err: err}
	}
	tex, err := DecodeTexture(e.Name, data)
	return textureResult{texture: tex, err: err}
}

func (l *Loader) fetchMaterial(ctx context.Context, base string, e io.MaterialEntry) materialResult {
	raw := []byte(e.Data)
	if url, ok := e.DataURL(); ok {
		doc, err := l.fetcher.Fetch(ctx, io.Resolve(base, url))
		if err != nil {
			return materialResult{err: err}
		}
		raw = doc
	}
	data, err := io.ParseMaterialData(e.Type, raw)
	return materialResult{data: data, err: err}
}

func (l *Loader) fetchMesh(ctx context.Context, base string, e io.MeshEntry) meshResult {
	var data *core.MeshData
	var err error
	switch e.Type {
	case io.MeshModel:
		var doc []byte
		doc, err = l.fetcher.Fetch(ctx, io.Resolve(base, e.URL))
		if err != nil {
			return meshResult{err: err}
		}
		data, err = DecodeModel(doc)
	case io.MeshGeometry:
		data, err = GenerateGeometry(e.Geometry)
	default:
		err = fmt.Errorf("%w: unknown mesh type %q", io.ErrInvalidField, e.Type)
	}
	if err != nil {
		return meshResult{err: err}
	}
	data.Mode = e.DrawMode
	return meshResult{data: data}
}

func (l *Loader) duplicate(kind, name string) {
	l.logger.Printf("duplicate %s %q ignored, keeping the first one", kind, name)
}

func (l *Loader) assembleShaders(s *Scene, r *Report, entries []io.ShaderEntry, results []shaderResult) {
	for i, e := range entries {
		res := results[i]
		if res.err != nil {
			l.reportError(r, "shader", e.Name, res.err)
			continue
		}
		if _, exists := s.Shader(e.Name); exists {
			l.duplicate("shader", e.Name)
			continue
		}
		sh := &Shader{Name: e.Name, Sources: res.sources, Uniforms: e.Uniforms}
		if err := sh.Compile(l.device); err != nil {
			l.reportError(r, "shader", e.Name, err)
			continue
		}
		s.AddShader(sh)
		r.Shaders++
	}
}

func (l *Loader) assembleTextures(s *Scene, r *Report, entries []io.TextureEntry, results []textureResult) {
	for i, e := range entries {
		res := results[i]
		if res.err != nil {
			l.reportError(r, "texture", e.Name, res.err)
			continue
		}
		if _, exists := s.Texture(e.Name); exists {
			l.duplicate("texture", e.Name)
			continue
		}
		if l.device != nil {
			handle, err := l.device.CreateTexture(res.texture.Image)
			if err != nil {
				l.reportError(r, "texture", e.Name, err)
				continue
			}
			res.texture.Handle = handle
		}
		s.AddTexture(res.texture)
		r.Textures++
	}
}

func (l *Loader) assembleMaterials(s *Scene, r *Report, entries []io.MaterialEntry, results []materialResult) {
	for i, e := range entries {
		res := results[i]
		if res.err != nil {
			l.reportError(r, "material", e.Name, res.err)
			continue
		}
		if _, exists := s.Material(e.Name); exists {
			l.duplicate("material", e.Name)
			continue
		}

		shader, ok := s.Shader(e.ShaderName())
		if !ok {
			l.reportError(r, "material", e.Name, &io.ValidationError{
				Kind: "material", Index: e.Index, Name: e.Name,
				Err: fmt.Errorf("%w: unknown shader %q", io.ErrInvalidField, e.ShaderName()),
			})
			continue
		}

		m := NewMaterial(e.Name, e.Type, shader, res.data)
		if e.Type == io.MaterialTextured {
			tex, ok := s.Texture(res.data.Texture)
			if !ok {
				l.reportError(r, "material", e.Name, &io.ValidationError{
					Kind: "material", Index: e.Index, Name: e.Name,
					Err: fmt.Errorf("%w: unknown texture %q", io.ErrInvalidField, res.data.Texture),
				})
				continue
			}
			m.Texture = tex
		}
		for _, u := range m.Uniforms {
			if !shader.Declares(u.Name) {
				l.logger.Printf("material %q sets %s which shader %q does not declare", e.Name, u.Name, shader.Name)
			}
		}
		s.AddMaterial(m)
		r.Materials++
	}
}

func (l *Loader) assembleMeshes(s *Scene, r *Report, entries []io.MeshEntry, results []meshResult) {
	for i, e := range entries {
		res := results[i]
		if res.err != nil {
			l.reportError(r, "mesh", e.Name, res.err)
			continue
		}
		if _, exists := s.Mesh(e.Name); exists {
			l.duplicate("mesh", e.Name)
			continue
		}

		material, ok := s.Material(e.MaterialName())
		if !ok {
			l.reportError(r, "mesh", e.Name, &io.ValidationError{
				Kind: "mesh", Index: e.Index, Name: e.Name,
				Err: fmt.Errorf("%w: unknown material %q", io.ErrInvalidField, e.MaterialName()),
			})
			continue
		}

		m := NewMesh(e.Name, res.data, material)
		if l.device != nil {
			handle, err := l.device.CreateMesh(res.data)
			if err != nil {
				l.reportError(r, "mesh", e.Name, err)
				continue
			}
			m.Handle = handle
		}
		s.AddMesh(m)
		r.Meshes++
	}
}
