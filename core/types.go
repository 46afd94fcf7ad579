package core

import (
	"glscene/math"
)

type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite  = Color{1, 1, 1, 1}
	ColorBlack  = Color{0, 0, 0, 1}
	ColorRed    = Color{1, 0, 0, 1}
	ColorGreen  = Color{0, 1, 0, 1}
	ColorBlue   = Color{0, 0, 1, 1}
	ColorYellow = Color{1, 1, 0, 1}
)

// ColorFromSlice reads up to four channels; missing alpha defaults to 1.
func ColorFromSlice(v []float32) Color {
	c := Color{A: 1}
	ch := []*float32{&c.R, &c.G, &c.B, &c.A}
	for i := 0; i < len(v) && i < 4; i++ {
		*ch[i] = v[i]
	}
	return c
}

type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	UV       math.Vec2
}

// DrawMode is the primitive assembly used when a mesh is drawn.
type DrawMode int

const (
	DrawTriangles DrawMode = iota
	DrawLines
	DrawLineStrip
	DrawPoints
	DrawTriangleStrip
)

func (m DrawMode) String() string {
	switch m {
	case DrawLines:
		return "lines"
	case DrawLineStrip:
		return "line_strip"
	case DrawPoints:
		return "points"
	case DrawTriangleStrip:
		return "triangle_strip"
	default:
		return "triangles"
	}
}

// ParseDrawMode maps a manifest mode name. The empty string means triangles.
func ParseDrawMode(s string) (DrawMode, bool) {
	switch s {
	case "", "triangles":
		return DrawTriangles, true
	case "lines":
		return DrawLines, true
	case "line_strip":
		return DrawLineStrip, true
	case "points":
		return DrawPoints, true
	case "triangle_strip":
		return DrawTriangleStrip, true
	}
	return DrawTriangles, false
}

type MeshData struct {
	Vertices []Vertex
	Indices  []uint32
	Mode     DrawMode
}

// Bounds returns the axis aligned box around every vertex.
func (d *MeshData) Bounds() (lo, hi math.Vec3) {
	if len(d.Vertices) == 0 {
		return math.Vec3Zero, math.Vec3Zero
	}
	lo, hi = d.Vertices[0].Position, d.Vertices[0].Position
	for _, v := range d.Vertices[1:] {
		p := v.Position
		lo = math.NewVec3(min(lo.X, p.X), min(lo.Y, p.Y), min(lo.Z, p.Z))
		hi = math.NewVec3(max(hi.X, p.X), max(hi.Y, p.Y), max(hi.Z, p.Z))
	}
	return lo, hi
}

type Viewport struct {
	X, Y, Width, Height int
}
