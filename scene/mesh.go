package scene

import (
	"glscene/core"
	"glscene/math"
)

// Mesh holds CPU-side vertex/index data and, once uploaded, the device
// handle of its GPU copy.
type Mesh struct {
	Name      string
	Data      *core.MeshData
	Transform *core.Transform

	// Material is never nil for meshes owned by a Scene; unset references
	// resolve to the default material.
	Material *Material

	// Handle is set by the loader after Device.CreateMesh. Zero means the
	// mesh only exists on the CPU.
	Handle core.Handle

	// Cached local-space bounds.
	LocalAABB AABB
}

// AABB is an axis aligned box in mesh space.
type AABB struct {
	Min, Max math.Vec3
}

// Center returns the midpoint of the box.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Extent is the length of the box diagonal.
func (b AABB) Extent() float32 {
	return b.Max.Sub(b.Min).Length()
}

// NewMesh wraps data and pre-computes its bounds.
func NewMesh(name string, data *core.MeshData, material *Material) *Mesh {
	m := &Mesh{
		Name:      name,
		Data:      data,
		Transform: core.NewTransform(),
		Material:  material,
	}
	if data != nil {
		lo, hi := data.Bounds()
		m.LocalAABB = AABB{Min: lo, Max: hi}
	}
	return m
}

// ElementCount is the number of indices, or vertices for unindexed data.
func (m *Mesh) ElementCount() int {
	if m.Data == nil {
		return 0
	}
	if len(m.Data.Indices) > 0 {
		return len(m.Data.Indices)
	}
	return len(m.Data.Vertices)
}

func (m *Mesh) Uploaded() bool {
	return m.Handle != 0
}

// Destroy frees the GPU copy. CPU data is left to the garbage collector.
func (m *Mesh) Destroy(device core.Device) {
	if device != nil && m.Handle != 0 {
		device.DeleteMesh(m.Handle)
	}
	m.Handle = 0
}
