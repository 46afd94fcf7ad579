// Package devicetest provides an in-memory core.Device for tests.
package devicetest

import (
	"fmt"
	"image"
	"strings"
	"sync"

	"glscene/core"
)

// FailMarker makes CreateProgram reject any source containing it with a
// *core.CompileError.
const FailMarker = "#error"

// Call is one recorded device call.
type Call struct {
	Op     string
	Handle core.Handle
	Name   string
	Value  core.UniformValue
	Unit   int
}

// Recorder implements core.Device without a GPU. Handles are allocated
// sequentially from 1 and every call is appended to Calls.
type Recorder struct {
	mu      sync.Mutex
	next    core.Handle
	live    map[core.Handle]string
	Calls   []Call
	Meshes  map[core.Handle]*core.MeshData
	Cleared []core.Color
	View    core.Viewport
}

func NewRecorder() *Recorder {
	return &Recorder{
		live:   make(map[core.Handle]string),
		Meshes: make(map[core.Handle]*core.MeshData),
	}
}

func (r *Recorder) alloc(kind string) core.Handle {
	r.next++
	r.live[r.next] = kind
	return r.next
}

func (r *Recorder) record(c Call) {
	r.Calls = append(r.Calls, c)
}

func (r *Recorder) CreateMesh(data *core.MeshData) (core.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if data == nil || len(data.Vertices) == 0 {
		return 0, fmt.Errorf("empty mesh")
	}
	h := r.alloc("mesh")
	r.Meshes[h] = data
	r.record(Call{Op: "CreateMesh", Handle: h})
	return h, nil
}

func (r *Recorder) DeleteMesh(mesh core.Handle) {
	r.release("DeleteMesh", mesh)
}

func (r *Recorder) CreateTexture(img *image.RGBA) (core.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if img == nil {
		return 0, fmt.Errorf("nil image")
	}
	h := r.alloc("texture")
	r.record(Call{Op: "CreateTexture", Handle: h})
	return h, nil
}

func (r *Recorder) DeleteTexture(texture core.Handle) {
	r.release("DeleteTexture", texture)
}

func (r *Recorder) CreateProgram(sources []core.ShaderSource) (core.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var vertex, fragment bool
	for _, src := range sources {
		if strings.Contains(src.Code, FailMarker) {
			return 0, &core.CompileError{Stage: src.Stage, Log: "0:1: " + FailMarker + " directive"}
		}
		vertex = vertex || src.Stage == core.StageVertex
		fragment = fragment || src.Stage == core.StageFragment
	}
	if !vertex || !fragment {
		return 0, &core.LinkError{Log: "program needs a vertex and a fragment stage"}
	}
	h := r.alloc("program")
	r.record(Call{Op: "CreateProgram", Handle: h})
	return h, nil
}

func (r *Recorder) DeleteProgram(program core.Handle) {
	r.release("DeleteProgram", program)
}

func (r *Recorder) UseProgram(program core.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Call{Op: "UseProgram", Handle: program})
}

func (r *Recorder) SetUniform(program core.Handle, name string, value core.UniformValue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.live[program] != "program" {
		return fmt.Errorf("program %d does not exist", program)
	}
	r.record(Call{Op: "SetUniform", Handle: program, Name: name, Value: value})
	return nil
}

func (r *Recorder) BindTexture(unit int, texture core.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Call{Op: "BindTexture", Handle: texture, Unit: unit})
}

func (r *Recorder) Draw(mesh core.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Call{Op: "Draw", Handle: mesh})
}

func (r *Recorder) SetViewport(vp core.Viewport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.View = vp
	r.record(Call{Op: "SetViewport"})
}

func (r *Recorder) Clear(color core.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Cleared = append(r.Cleared, color)
	r.record(Call{Op: "Clear"})
}

func (r *Recorder) release(op string, h core.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.live, h)
	delete(r.Meshes, h)
	r.record(Call{Op: op, Handle: h})
}

// Live returns the number of handles of the given kind ("mesh", "texture"
// or "program") not yet deleted.
func (r *Recorder) Live(kind string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, k := range r.live {
		if k == kind {
			n++
		}
	}
	return n
}

// Ops returns the recorded operations with the given name.
func (r *Recorder) Ops(op string) []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Uniforms returns the last value set for each uniform name on program.
func (r *Recorder) Uniforms(program core.Handle) map[string]core.UniformValue {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]core.UniformValue)
	for _, c := range r.Calls {
		if c.Op == "SetUniform" && c.Handle == program {
			out[c.Name] = c.Value
		}
	}
	return out
}
