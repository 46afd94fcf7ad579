package opengl

import (
	"fmt"
	"image"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"glscene/core"
)

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	Count      int32
	HasIndices bool
	Primitive  uint32
}

type program struct {
	id        uint32
	locations map[string]int32
}

// Device implements core.Device on an OpenGL 4.1 core context. Handles are
// the GL object names: the VAO for meshes, the texture and program names
// otherwise.
type Device struct {
	meshes   map[core.Handle]*GPUMesh
	textures map[core.Handle]uint32
	programs map[core.Handle]*program
}

// NewDevice initialises OpenGL.
// Must be called after the GLFW window context is made current.
func NewDevice() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	return &Device{
		meshes:   make(map[core.Handle]*GPUMesh),
		textures: make(map[core.Handle]uint32),
		programs: make(map[core.Handle]*program),
	}, nil
}

// Version returns the driver's GL version string.
func (d *Device) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (d *Device) CreateMesh(data *core.MeshData) (core.Handle, error) {
	if data == nil || len(data.Vertices) == 0 {
		return 0, fmt.Errorf("mesh has no vertices")
	}

	stride := int32(unsafe.Sizeof(core.Vertex{}))
	gpu := &GPUMesh{
		Count:      int32(len(data.Vertices)),
		HasIndices: len(data.Indices) > 0,
		Primitive:  primitive(data.Mode),
	}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER,
		len(data.Vertices)*int(stride),
		gl.Ptr(data.Vertices),
		gl.STATIC_DRAW)

	var v core.Vertex
	posOff := int(unsafe.Offsetof(v.Position))
	normOff := int(unsafe.Offsetof(v.Normal))
	uvOff := int(unsafe.Offsetof(v.UV))

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(posOff))

	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(normOff))

	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(uvOff))

	if gpu.HasIndices {
		gpu.Count = int32(len(data.Indices))
		gl.GenBuffers(1, &gpu.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER,
			len(data.Indices)*4,
			gl.Ptr(data.Indices),
			gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)

	h := core.Handle(gpu.VAO)
	d.meshes[h] = gpu
	return h, nil
}

func (d *Device) DeleteMesh(mesh core.Handle) {
	gpu, ok := d.meshes[mesh]
	if !ok {
		return
	}
	gl.DeleteVertexArrays(1, &gpu.VAO)
	gl.DeleteBuffers(1, &gpu.VBO)
	if gpu.EBO != 0 {
		gl.DeleteBuffers(1, &gpu.EBO)
	}
	delete(d.meshes, mesh)
}

func (d *Device) Draw(mesh core.Handle) {
	gpu, ok := d.meshes[mesh]
	if !ok {
		return
	}
	gl.BindVertexArray(gpu.VAO)
	if gpu.HasIndices {
		gl.DrawElements(gpu.Primitive, gpu.Count, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gpu.Primitive, 0, gpu.Count)
	}
	gl.BindVertexArray(0)
}

// CreateTexture uploads RGBA8 pixels with mipmaps and repeat wrapping.
func (d *Device) CreateTexture(img *image.RGBA) (core.Handle, error) {
	if img == nil || len(img.Pix) == 0 {
		return 0, fmt.Errorf("texture has no pixel data")
	}
	b := img.Bounds()

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	// Rows may be padded when img is a sub-image.
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA,
		int32(b.Dx()),
		int32(b.Dy()),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		unsafe.Pointer(&img.Pix[0]),
	)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.BindTexture(gl.TEXTURE_2D, 0)

	h := core.Handle(id)
	d.textures[h] = id
	return h, nil
}

func (d *Device) DeleteTexture(texture core.Handle) {
	id, ok := d.textures[texture]
	if !ok {
		return
	}
	gl.DeleteTextures(1, &id)
	delete(d.textures, texture)
}

func (d *Device) BindTexture(unit int, texture core.Handle) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, d.textures[texture])
}

func (d *Device) CreateProgram(sources []core.ShaderSource) (core.Handle, error) {
	id, err := newProgram(sources)
	if err != nil {
		return 0, err
	}
	h := core.Handle(id)
	d.programs[h] = &program{id: id, locations: make(map[string]int32)}
	return h, nil
}

func (d *Device) DeleteProgram(p core.Handle) {
	prog, ok := d.programs[p]
	if !ok {
		return
	}
	gl.DeleteProgram(prog.id)
	delete(d.programs, p)
}

func (d *Device) UseProgram(p core.Handle) {
	if prog, ok := d.programs[p]; ok {
		gl.UseProgram(prog.id)
		return
	}
	gl.UseProgram(0)
}

// SetUniform writes through glProgramUniform so the program does not need
// to be bound. Unknown names are an error.
func (d *Device) SetUniform(p core.Handle, name string, value core.UniformValue) error {
	prog, ok := d.programs[p]
	if !ok {
		return fmt.Errorf("unknown program %d", p)
	}
	loc, ok := prog.locations[name]
	if !ok {
		loc = gl.GetUniformLocation(prog.id, gl.Str(name+"\x00"))
		prog.locations[name] = loc
	}
	if loc < 0 {
		return fmt.Errorf("program %d has no active uniform %q", p, name)
	}

	id := prog.id
	switch value.Kind {
	case core.UniformFloat:
		gl.ProgramUniform1f(id, loc, value.Float)
	case core.UniformInt:
		gl.ProgramUniform1i(id, loc, value.Int)
	case core.UniformVec2:
		gl.ProgramUniform2fv(id, loc, 1, &value.Vec2[0])
	case core.UniformVec3:
		gl.ProgramUniform3fv(id, loc, 1, &value.Vec3[0])
	case core.UniformVec4:
		gl.ProgramUniform4fv(id, loc, 1, &value.Vec4[0])
	case core.UniformMat2:
		gl.ProgramUniformMatrix2fv(id, loc, 1, false, &value.Mat2[0])
	case core.UniformMat3:
		gl.ProgramUniformMatrix3fv(id, loc, 1, false, &value.Mat3[0])
	case core.UniformMat4:
		gl.ProgramUniformMatrix4fv(id, loc, 1, false, &value.Mat4[0])
	default:
		return fmt.Errorf("unsupported uniform kind %v", value.Kind)
	}
	return nil
}

func (d *Device) SetViewport(vp core.Viewport) {
	gl.Viewport(int32(vp.X), int32(vp.Y), int32(vp.Width), int32(vp.Height))
}

func (d *Device) Clear(color core.Color) {
	gl.ClearColor(color.R, color.G, color.B, color.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Close deletes every object still owned by the device.
func (d *Device) Close() {
	for h := range d.meshes {
		d.DeleteMesh(h)
	}
	for h := range d.textures {
		d.DeleteTexture(h)
	}
	for h := range d.programs {
		d.DeleteProgram(h)
	}
}

func primitive(mode core.DrawMode) uint32 {
	switch mode {
	case core.DrawLines:
		return gl.LINES
	case core.DrawLineStrip:
		return gl.LINE_STRIP
	case core.DrawPoints:
		return gl.POINTS
	case core.DrawTriangleStrip:
		return gl.TRIANGLE_STRIP
	default:
		return gl.TRIANGLES
	}
}
