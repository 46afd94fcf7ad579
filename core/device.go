package core

import (
	"image"
)

// Handle identifies a GPU object owned by a Device. Zero is never a valid
// handle.
type Handle uint32

type ShaderStage int

const (
	StageVertex ShaderStage = iota
	StageFragment
)

func (s ShaderStage) String() string {
	if s == StageVertex {
		return "vertex"
	}
	return "fragment"
}

type ShaderSource struct {
	Stage ShaderStage
	Code  string
}

// Device is the GPU collaborator. All calls must come from the goroutine
// that owns the graphics context.
type Device interface {
	CreateMesh(data *MeshData) (Handle, error)
	DeleteMesh(mesh Handle)

	CreateTexture(img *image.RGBA) (Handle, error)
	DeleteTexture(texture Handle)

	// CreateProgram compiles and links every source. Failures are
	// *CompileError or *LinkError.
	CreateProgram(sources []ShaderSource) (Handle, error)
	DeleteProgram(program Handle)
	UseProgram(program Handle)
	SetUniform(program Handle, name string, value UniformValue) error

	BindTexture(unit int, texture Handle)
	Draw(mesh Handle)

	SetViewport(vp Viewport)
	Clear(color Color)
}
