package scene

import (
	"slices"

	"glscene/core"
	"glscene/io"
)

// Attribute locations shared by every program.
const (
	PositionLocation = 0
	NormalLocation   = 1
	UVLocation       = 2
)

// Uniforms the renderer sets on every draw when the program declares them.
const (
	UniformModel          = "u_model"
	UniformView           = "u_view"
	UniformProjection     = "u_projection"
	UniformViewProjection = "u_viewProjection"
	UniformColor          = "u_color"
	UniformTexture        = "u_texture"
	UniformUseTexture     = "u_useTexture"
	UniformTime           = "u_time"
)

const defaultVertexShader = `#version 410 core
layout(location = 0) in vec3 a_position;
layout(location = 1) in vec3 a_normal;
layout(location = 2) in vec2 a_uv;

uniform mat4 u_model;
uniform mat4 u_viewProjection;

out vec3 v_normal;
out vec2 v_uv;

void main() {
    v_normal = mat3(u_model) * a_normal;
    v_uv = a_uv;
    gl_Position = u_viewProjection * u_model * vec4(a_position, 1.0);
}
`

const defaultFragmentShader = `#version 410 core
in vec3 v_normal;
in vec2 v_uv;

uniform vec4 u_color;
uniform sampler2D u_texture;
uniform bool u_useTexture;

out vec4 fragColor;

void main() {
    vec4 base = u_color;
    if (u_useTexture) {
        base *= texture(u_texture, v_uv);
    }
    // Headlight shading so unlit scenes still show their shape.
    float light = 0.35 + 0.65 * abs(normalize(v_normal).z);
    if (length(v_normal) < 0.001) {
        light = 1.0;
    }
    fragColor = vec4(base.rgb * light, base.a);
}
`

// Shader is a program built from one vertex and one or more fragment
// sources.
type Shader struct {
	Name    string
	Sources []core.ShaderSource

	// Uniforms lists the names the program is expected to declare. Empty
	// means unknown, and the renderer then sets every built-in uniform.
	Uniforms []string

	// Program is set once the sources are compiled and linked.
	Program core.Handle
}

// DefaultShader returns the built-in program used by the default material.
func DefaultShader() *Shader {
	return &Shader{
		Name: io.ReservedName,
		Sources: []core.ShaderSource{
			{Stage: core.StageVertex, Code: defaultVertexShader},
			{Stage: core.StageFragment, Code: defaultFragmentShader},
		},
		Uniforms: []string{
			UniformModel,
			UniformViewProjection,
			UniformColor,
			UniformTexture,
			UniformUseTexture,
		},
	}
}

// Declares reports whether a uniform should be set on this program.
func (s *Shader) Declares(name string) bool {
	return len(s.Uniforms) == 0 || slices.Contains(s.Uniforms, name)
}

// Compile builds the program on device. It is a no-op once compiled.
func (s *Shader) Compile(device core.Device) error {
	if s.Program != 0 || device == nil {
		return nil
	}
	program, err := device.CreateProgram(s.Sources)
	if err != nil {
		return err
	}
	s.Program = program
	return nil
}

func (s *Shader) Compiled() bool {
	return s.Program != 0
}

func (s *Shader) Destroy(device core.Device) {
	if device != nil && s.Program != 0 {
		device.DeleteProgram(s.Program)
	}
	s.Program = 0
}
