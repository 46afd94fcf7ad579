package scene

import (
	"bytes"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"glscene/core"
	"glscene/io"
	"glscene/math"
)

func TestCreatePlane(t *testing.T) {
	data := CreatePlane(2, 4, 2, 1)

	if len(data.Vertices) != 6 || len(data.Indices) != 12 {
		t.Fatalf("expected 6 vertices and 12 indices, got %d and %d", len(data.Vertices), len(data.Indices))
	}
	first := data.Vertices[0]
	if first.Position != math.NewVec3(-1, 2, 0) || first.UV != math.NewVec2(0, 1) {
		t.Errorf("expected the first vertex top-left, got %+v", first)
	}
	last := data.Vertices[5]
	if last.Position != math.NewVec3(1, -2, 0) || last.UV != math.NewVec2(1, 0) {
		t.Errorf("expected the last vertex bottom-right, got %+v", last)
	}
	for _, v := range data.Vertices {
		if v.Normal != math.Vec3Front {
			t.Fatalf("expected +Z normals, got %v", v.Normal)
		}
	}

	// Counter-clockwise seen from +Z.
	a, b, c := data.Vertices[data.Indices[0]], data.Vertices[data.Indices[1]], data.Vertices[data.Indices[2]]
	n := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position))
	if n.Z <= 0 {
		t.Errorf("expected front-facing triangles, got normal %v", n)
	}

	if degenerate := CreatePlane(1, 1, 0, -3); len(degenerate.Vertices) != 4 {
		t.Errorf("expected segment counts raised to 1, got %d vertices", len(degenerate.Vertices))
	}
}

func TestCreateSphere(t *testing.T) {
	data := CreateSphere(SphereParams{Radius: 2, WidthSegments: 8, HeightSegments: 6, PhiLength: math.TwoPi, ThetaLength: math.Pi})

	if len(data.Vertices) != 9*7 {
		t.Fatalf("expected 63 vertices, got %d", len(data.Vertices))
	}
	// Closed poles drop one triangle per segment on each cap.
	if want := (8*6*2 - 2*8) * 3; len(data.Indices) != want {
		t.Errorf("expected %d indices, got %d", want, len(data.Indices))
	}
	for i, v := range data.Vertices {
		if !approx(v.Position.Length(), 2, 1e-4) {
			t.Fatalf("vertex %d: expected radius 2, got %v", i, v.Position.Length())
		}
		if !v.Normal.ApproxEqual(v.Position.Normalize(), 1e-5) {
			t.Fatalf("vertex %d: normal %v does not point outwards", i, v.Normal)
		}
	}
	if top := data.Vertices[0].Position; !top.ApproxEqual(math.NewVec3(0, 2, 0), 1e-5) {
		t.Errorf("expected the first row at the north pole, got %v", top)
	}

	def := CreateSphere(SphereParams{PhiLength: math.TwoPi, ThetaLength: math.Pi})
	if len(def.Vertices) != 9*7 || !approx(def.Vertices[0].Position.Y, 50, 1e-3) {
		t.Errorf("expected the default radius 50 and 8x6 segments, got %d vertices", len(def.Vertices))
	}

	tiny := CreateSphere(SphereParams{Radius: 1, WidthSegments: 1, HeightSegments: 1, PhiLength: math.TwoPi, ThetaLength: math.Pi})
	if len(tiny.Vertices) != 4*3 {
		t.Errorf("expected at least 3x2 segments, got %d vertices", len(tiny.Vertices))
	}

	// An open band keeps both caps.
	band := CreateSphere(SphereParams{Radius: 1, WidthSegments: 4, HeightSegments: 2, PhiLength: math.TwoPi, ThetaStart: 0.5, ThetaLength: 1})
	if len(band.Indices) != 4*2*2*3 {
		t.Errorf("expected a full band of %d indices, got %d", 4*2*2*3, len(band.Indices))
	}
}

func TestGenerateGeometry(t *testing.T) {
	plane, err := GenerateGeometry(&io.GeometryData{Type: "plane"})
	if err != nil || len(plane.Vertices) != 4 {
		t.Errorf("plane: expected a single quad, got %v", err)
	}

	sphere, err := GenerateGeometry(&io.GeometryData{Type: "sphere", Params: map[string]float32{"radius": 3, "widthSegments": 4}})
	if err != nil {
		t.Fatalf("sphere: %v", err)
	}
	if len(sphere.Vertices) != 5*7 || !approx(sphere.Vertices[0].Position.Length(), 3, 1e-4) {
		t.Errorf("sphere: unexpected geometry with %d vertices", len(sphere.Vertices))
	}

	if _, err := GenerateGeometry(&io.GeometryData{Type: "torus"}); err == nil {
		t.Error("torus: expected an error")
	}
}

func triangleGLB(t *testing.T) []byte {
	t.Helper()
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Meshes = []*gltf.Mesh{{
		Name: "triangle",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{gltf.POSITION: pos},
		}},
	}}

	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		t.Fatalf("gltf encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeModel(t *testing.T) {
	glb, err := DecodeModel(triangleGLB(t))
	if err != nil {
		t.Fatalf("glb: %v", err)
	}
	if len(glb.Vertices) != 3 || len(glb.Indices) != 3 {
		t.Errorf("glb: expected one triangle, got %d vertices", len(glb.Vertices))
	}
	if n := glb.Vertices[0].Normal; !n.ApproxEqual(math.NewVec3(0, 0, 1), 1e-5) {
		t.Errorf("glb: expected generated +Z normals, got %v", n)
	}

	bg, err := DecodeModel([]byte(`{"vertices": {"data": [0,0,0, 1,0,0, 0,1,0]}, "indices": [0, 1, 2]}`))
	if err != nil || len(bg.Vertices) != 3 {
		t.Errorf("buffer geometry: expected 3 vertices, got %v", err)
	}

	obj, err := DecodeModel([]byte("v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n"))
	if err != nil || len(obj.Indices) != 6 {
		t.Errorf("obj: expected two triangles, got %v", err)
	}

	if _, err := DecodeModel([]byte(`{"asset": {"version": "2.0"}}`)); err == nil {
		t.Error("gltf without meshes: expected an error")
	}
	if _, err := DecodeModel([]byte(`{"name": "nothing"}`)); err == nil {
		t.Error("unknown JSON: expected an error")
	}
}

func TestDecodeModelDanglingAccessors(t *testing.T) {
	for name, doc := range map[string]string{
		"position": `{"asset":{"version":"2.0"},"meshes":[{"primitives":[{"attributes":{"POSITION":7}}]}]}`,
		"negative": `{"asset":{"version":"2.0"},"meshes":[{"primitives":[{"attributes":{"POSITION":-1}}]}]}`,
		"indices":  `{"asset":{"version":"2.0"},"meshes":[{"primitives":[{"attributes":{"POSITION":0},"indices":3}]}],"accessors":[{"componentType":5126,"count":0,"type":"VEC3"}]}`,
		"null":     `{"asset":{"version":"2.0"},"meshes":[null]}`,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeModel([]byte(doc)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestTexture(t *testing.T) {
	tex, err := DecodeTexture("checker", checkerPNG(t))
	if err != nil {
		t.Fatalf("DecodeTexture: %v", err)
	}
	if got := tex.Image.RGBAAt(1, 0); got.R != 0 || got.A != 255 {
		t.Errorf("expected a black texel at (1,0), got %v", got)
	}

	if _, err := DecodeTexture("junk", []byte("not an image")); err == nil {
		t.Error("expected a decode error")
	}

	solid := NewSolidTexture("red", 4, 4, core.ColorRed)
	solid.FillRect(2, 2, 10, 10, core.ColorBlue)
	if got := solid.Image.RGBAAt(0, 0); got.R != 255 || got.B != 0 {
		t.Errorf("expected red at (0,0), got %v", got)
	}
	if got := solid.Image.RGBAAt(3, 3); got.B != 255 || got.R != 0 {
		t.Errorf("expected the clipped rectangle to be blue, got %v", got)
	}
}

func TestGenerateGeometryClampsSegments(t *testing.T) {
	sphere, err := GenerateGeometry(&io.GeometryData{Type: "sphere", Params: map[string]float32{"widthSegments": 1e30, "heightSegments": 2}})
	if err != nil {
		t.Fatalf("sphere: %v", err)
	}
	if want := (io.MaxGeometrySegments + 1) * 3; len(sphere.Vertices) != want {
		t.Errorf("expected %d vertices, got %d", want, len(sphere.Vertices))
	}
}
