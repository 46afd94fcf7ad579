package scene

import (
	"fmt"

	"github.com/chewxy/math32"

	"glscene/core"
	"glscene/io"
	"glscene/math"
)

// CreatePlane generates a width x height grid in the XY plane facing +Z,
// centered on the origin. Segment counts below one are raised to one.
func CreatePlane(width, height float32, widthSegments, heightSegments int) *core.MeshData {
	gridX := max(widthSegments, 1)
	gridY := max(heightSegments, 1)
	gridX1 := gridX + 1
	gridY1 := gridY + 1

	segmentWidth := width / float32(gridX)
	segmentHeight := height / float32(gridY)
	halfW, halfH := width/2, height/2

	data := &core.MeshData{
		Vertices: make([]core.Vertex, 0, gridX1*gridY1),
		Indices:  make([]uint32, 0, gridX*gridY*6),
		Mode:     core.DrawTriangles,
	}

	for iy := 0; iy < gridY1; iy++ {
		y := float32(iy)*segmentHeight - halfH
		for ix := 0; ix < gridX1; ix++ {
			x := float32(ix)*segmentWidth - halfW
			data.Vertices = append(data.Vertices, core.Vertex{
				Position: math.NewVec3(x, -y, 0),
				Normal:   math.Vec3Front,
				UV:       math.NewVec2(float32(ix)/float32(gridX), 1-float32(iy)/float32(gridY)),
			})
		}
	}

	for iy := 0; iy < gridY; iy++ {
		for ix := 0; ix < gridX; ix++ {
			a := uint32(ix + gridX1*iy)
			b := uint32(ix + gridX1*(iy+1))
			c := uint32(ix + 1 + gridX1*(iy+1))
			d := uint32(ix + 1 + gridX1*iy)
			data.Indices = append(data.Indices, a, b, d, b, c, d)
		}
	}
	return data
}

// SphereParams describes a UV sphere, or a slice of one. Phi runs around the
// Y axis and theta from the north pole down.
type SphereParams struct {
	Radius         float32
	WidthSegments  int
	HeightSegments int
	PhiStart       float32
	PhiLength      float32
	ThetaStart     float32
	ThetaLength    float32
}

func DefaultSphereParams() SphereParams {
	return SphereParams{
		Radius:         50,
		WidthSegments:  8,
		HeightSegments: 6,
		PhiLength:      math.TwoPi,
		ThetaLength:    math.Pi,
	}
}

// CreateSphere generates a UV sphere. A zero radius means 50, and the
// segment counts are raised to at least 3 around and 2 from pole to pole.
// Degenerate triangles at closed poles are skipped.
func CreateSphere(p SphereParams) *core.MeshData {
	if p.Radius == 0 {
		p.Radius = 50
	}
	if p.WidthSegments == 0 {
		p.WidthSegments = 8
	}
	if p.HeightSegments == 0 {
		p.HeightSegments = 6
	}
	p.WidthSegments = max(p.WidthSegments, 3)
	p.HeightSegments = max(p.HeightSegments, 2)
	thetaEnd := p.ThetaStart + p.ThetaLength

	data := &core.MeshData{Mode: core.DrawTriangles}
	grid := make([][]uint32, 0, p.HeightSegments+1)

	for iy := 0; iy <= p.HeightSegments; iy++ {
		row := make([]uint32, 0, p.WidthSegments+1)
		v := float32(iy) / float32(p.HeightSegments)
		theta := p.ThetaStart + v*p.ThetaLength
		for ix := 0; ix <= p.WidthSegments; ix++ {
			u := float32(ix) / float32(p.WidthSegments)
			phi := p.PhiStart + u*p.PhiLength

			pos := math.NewVec3(
				-p.Radius*math32.Cos(phi)*math32.Sin(theta),
				p.Radius*math32.Cos(theta),
				p.Radius*math32.Sin(phi)*math32.Sin(theta),
			)
			row = append(row, uint32(len(data.Vertices)))
			data.Vertices = append(data.Vertices, core.Vertex{
				Position: pos,
				Normal:   pos.Normalize(),
				UV:       math.NewVec2(u, 1-v),
			})
		}
		grid = append(grid, row)
	}

	for iy := 0; iy < p.HeightSegments; iy++ {
		for ix := 0; ix < p.WidthSegments; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			if iy != 0 || p.ThetaStart > 0 {
				data.Indices = append(data.Indices, a, b, d)
			}
			if iy != p.HeightSegments-1 || thetaEnd < math.Pi {
				data.Indices = append(data.Indices, b, c, d)
			}
		}
	}
	return data
}

// GenerateGeometry runs the generator named by a manifest geometry entry.
func GenerateGeometry(g *io.GeometryData) (*core.MeshData, error) {
	if g == nil {
		return nil, fmt.Errorf("no geometry data")
	}
	switch g.Type {
	case "plane":
		return CreatePlane(
			g.Param("width", 1),
			g.Param("height", 1),
			segments(g, "widthSegments", 1),
			segments(g, "heightSegments", 1),
		), nil
	case "sphere":
		def := DefaultSphereParams()
		return CreateSphere(SphereParams{
			Radius:         g.Param("radius", def.Radius),
			WidthSegments:  segments(g, "widthSegments", def.WidthSegments),
			HeightSegments: segments(g, "heightSegments", def.HeightSegments),
			PhiStart:       g.Param("phiStart", def.PhiStart),
			PhiLength:      g.Param("phiLength", def.PhiLength),
			ThetaStart:     g.Param("thetaStart", def.ThetaStart),
			ThetaLength:    g.Param("thetaLength", def.ThetaLength),
		}), nil
	}
	return nil, fmt.Errorf("%w: unknown geometry type %q", io.ErrInvalidField, g.Type)
}

// segments reads a segment count clamped to [0, io.MaxGeometrySegments].
func segments(g *io.GeometryData, name string, def int) int {
	v := g.Param(name, float32(def))
	if !(v >= 0) {
		return 0
	}
	return int(min(v, io.MaxGeometrySegments))
}
