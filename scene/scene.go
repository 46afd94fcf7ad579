package scene

import (
	"glscene/core"
	"glscene/io"
	"glscene/math"
)

// DefaultCameraPosition is where a new scene's camera starts, looking at
// the origin.
var DefaultCameraPosition = math.NewVec3(0, 2, 5)

// Scene owns the assembled assets, the camera and its orbit controller.
// Registries keep the first entry inserted under a name; later inserts with
// the same name are ignored.
type Scene struct {
	Camera     *Camera
	Orbit      *OrbitController
	Background core.Color

	meshes    registry[*Mesh]
	textures  registry[*Texture]
	materials registry[*Material]
	shaders   registry[*Shader]
}

// registry is a name index that also remembers insertion order, so draws
// happen in manifest order.
type registry[T any] struct {
	items map[string]T
	order []string
}

func (r *registry[T]) add(name string, item T) bool {
	if r.items == nil {
		r.items = make(map[string]T)
	}
	if _, ok := r.items[name]; ok {
		return false
	}
	r.items[name] = item
	r.order = append(r.order, name)
	return true
}

func (r *registry[T]) get(name string) (T, bool) {
	item, ok := r.items[name]
	return item, ok
}

func (r *registry[T]) all() []T {
	out := make([]T, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.items[name])
	}
	return out
}

// NewScene creates a scene with a perspective camera for a width x height
// viewport and the built-in default shader and material.
func NewScene(width, height int, orbit OrbitConfig) (*Scene, error) {
	camera, err := NewCamera(nil, width, height, DefaultPerspective())
	if err != nil {
		return nil, err
	}
	camera.Transform.Position = DefaultCameraPosition
	camera.LookAt(math.Vec3Zero)

	controller, err := NewOrbitController(camera, orbit)
	if err != nil {
		return nil, err
	}

	s := &Scene{
		Camera:     camera,
		Orbit:      controller,
		Background: core.Color{R: 0.1, G: 0.1, B: 0.12, A: 1},
	}
	shader := DefaultShader()
	s.shaders.add(shader.Name, shader)
	material := DefaultMaterial(shader)
	s.materials.add(material.Name, material)
	return s, nil
}

func (s *Scene) AddMesh(m *Mesh) bool         { return s.meshes.add(m.Name, m) }
func (s *Scene) AddTexture(t *Texture) bool   { return s.textures.add(t.Name, t) }
func (s *Scene) AddMaterial(m *Material) bool { return s.materials.add(m.Name, m) }
func (s *Scene) AddShader(sh *Shader) bool    { return s.shaders.add(sh.Name, sh) }

func (s *Scene) Mesh(name string) (*Mesh, bool)         { return s.meshes.get(name) }
func (s *Scene) Texture(name string) (*Texture, bool)   { return s.textures.get(name) }
func (s *Scene) Material(name string) (*Material, bool) { return s.materials.get(name) }
func (s *Scene) Shader(name string) (*Shader, bool)     { return s.shaders.get(name) }

// Meshes returns every mesh in insertion order.
func (s *Scene) Meshes() []*Mesh        { return s.meshes.all() }
func (s *Scene) Textures() []*Texture   { return s.textures.all() }
func (s *Scene) Materials() []*Material { return s.materials.all() }
func (s *Scene) Shaders() []*Shader     { return s.shaders.all() }

func (s *Scene) DefaultShader() *Shader {
	sh, _ := s.shaders.get(io.ReservedName)
	return sh
}

func (s *Scene) DefaultMaterial() *Material {
	m, _ := s.materials.get(io.ReservedName)
	return m
}

// Bounds returns the world-space box around every mesh, and false when the
// scene has no geometry.
func (s *Scene) Bounds() (AABB, bool) {
	var box AABB
	found := false
	for _, m := range s.Meshes() {
		if m.Data == nil || len(m.Data.Vertices) == 0 {
			continue
		}
		world := m.WorldAABB()
		if !found {
			box, found = world, true
			continue
		}
		box = box.Union(world)
	}
	return box, found
}

// Dispose releases every GPU object the scene owns. The scene stays usable
// as CPU data and can be uploaded again.
func (s *Scene) Dispose(device core.Device) {
	for _, m := range s.Meshes() {
		m.Destroy(device)
	}
	for _, t := range s.Textures() {
		t.Destroy(device)
	}
	for _, sh := range s.Shaders() {
		sh.Destroy(device)
	}
}
