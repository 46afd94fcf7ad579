package opengl

import (
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"glscene/core"
)

// ── Shader helpers ────────────────────────────────────────────────────────────

func newProgram(sources []core.ShaderSource) (uint32, error) {
	shaders := make([]uint32, 0, len(sources))
	defer func() {
		for _, s := range shaders {
			gl.DeleteShader(s)
		}
	}()

	for _, src := range sources {
		shader, err := compileShader(src)
		if err != nil {
			return 0, err
		}
		shaders = append(shaders, shader)
	}

	prog := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(prog, s)
	}
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, &core.LinkError{Log: strings.TrimRight(log, "\x00\n")}
	}

	for _, s := range shaders {
		gl.DetachShader(prog, s)
	}
	return prog, nil
}

func compileShader(src core.ShaderSource) (uint32, error) {
	shaderType := uint32(gl.FRAGMENT_SHADER)
	if src.Stage == core.StageVertex {
		shaderType = gl.VERTEX_SHADER
	}

	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src.Code + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, &core.CompileError{Stage: src.Stage, Log: strings.TrimRight(log, "\x00\n")}
	}
	return shader, nil
}
