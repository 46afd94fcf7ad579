package scene

import (
	"glscene/core"
	"glscene/io"
)

// Material pairs a shader with the values fed to it before a draw.
type Material struct {
	Name   string
	Type   string // basic, textured or uniforms
	Shader *Shader

	// Color is uploaded as u_color.
	Color core.Color

	// Texture is bound to unit 0 and sampled through u_texture.
	Texture *Texture

	// Uniforms are uploaded in order after the built-in ones.
	Uniforms []io.NamedUniform
}

// DefaultMaterial returns the plain white material that draws with shader.
func DefaultMaterial(shader *Shader) *Material {
	return &Material{
		Name:   io.ReservedName,
		Type:   io.MaterialBasic,
		Shader: shader,
		Color:  core.ColorWhite,
	}
}

// NewMaterial builds a material from decoded manifest data.
func NewMaterial(name, typ string, shader *Shader, data *io.MaterialData) *Material {
	m := &Material{
		Name:   name,
		Type:   typ,
		Shader: shader,
		Color:  core.ColorWhite,
	}
	if data != nil {
		m.Color = data.Color
		m.Uniforms = data.Uniforms
	}
	return m
}

// Textured reports whether the material samples a texture.
func (m *Material) Textured() bool {
	return m.Texture != nil
}
