package io

import (
	"errors"
	"testing"

	"glscene/core"
)

const sampleManifest = `{
	"shaders": [
		{"name": "phong", "src": ["shaders/phong.vert", "shaders/phong.frag"], "uniforms": ["u_color"]},
		{"name": "default", "src": ["a.vert", "a.frag"]},
		{"name": "half", "src": ["only.vert"]}
	],
	"textures": [
		{"name": "checker", "src": "textures/checker.png"},
		{"src": "textures/nameless.png"}
	],
	"materials": [
		{"name": "red", "type": "basic", "data": {"color": [1, 0, 0]}},
		{"name": "remote", "type": "uniforms", "data": "materials/remote.json", "shader": "phong"},
		{"name": "default", "type": "basic", "data": {}},
		{"name": "wood", "type": "textured", "data": {"color": [1, 1, 1, 0.5]}}
	],
	"meshes": [
		{"name": "ground", "type": "geometry", "data": {"type": "plane", "params": {"width": 10}}, "material": "red"},
		{"name": "teapot", "type": "model", "data": "models/teapot.obj", "mode": "lines"},
		{"name": "broken", "type": "banana", "data": {}},
		{"name": "cube", "type": "geometry", "data": {"type": "cube"}},
		{"name": "dots", "type": "geometry", "data": {"type": "sphere"}, "mode": "quads"},
		42
	]
}`

func TestParseManifest(t *testing.T) {
	m, problems, err := ParseManifest([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}

	if len(m.Shaders) != 1 || m.Shaders[0].Name != "phong" {
		t.Errorf("expected only the phong shader, got %+v", m.Shaders)
	}
	if len(m.Textures) != 1 || m.Textures[0].Name != "checker" {
		t.Errorf("expected only the checker texture, got %+v", m.Textures)
	}
	if len(m.Materials) != 2 || m.Materials[0].Name != "red" || m.Materials[1].Name != "remote" {
		t.Errorf("expected red and remote materials, got %+v", m.Materials)
	}
	if len(m.Meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %+v", m.Meshes)
	}

	ground, teapot := m.Meshes[0], m.Meshes[1]
	if ground.Geometry == nil || ground.Geometry.Type != "plane" || ground.Geometry.Param("width", 1) != 10 {
		t.Errorf("ground: unexpected geometry %+v", ground.Geometry)
	}
	if ground.MaterialName() != "red" || ground.DrawMode != core.DrawTriangles {
		t.Errorf("ground: expected red triangles, got %q %v", ground.MaterialName(), ground.DrawMode)
	}
	if teapot.URL != "models/teapot.obj" || teapot.DrawMode != core.DrawLines || teapot.MaterialName() != ReservedName {
		t.Errorf("teapot: unexpected entry %+v", teapot)
	}

	// default shader, half shader, nameless texture, default material,
	// wood without texture, banana, cube, quads and the bare number.
	if len(problems) != 9 {
		t.Fatalf("expected 9 problems, got %d: %v", len(problems), problems)
	}
	for _, p := range problems {
		var ve *ValidationError
		if !errors.As(p, &ve) {
			t.Errorf("expected *ValidationError, got %T", p)
		}
	}
	reserved := 0
	for _, p := range problems {
		if errors.Is(p, ErrReservedName) {
			reserved++
		}
	}
	if reserved != 2 {
		t.Errorf("expected 2 reserved name errors, got %d", reserved)
	}
}

func TestParseManifestFatal(t *testing.T) {
	if _, _, err := ParseManifest([]byte(`{"shaders": `)); err == nil {
		t.Error("expected error for truncated manifest")
	}
	if _, _, err := ParseManifest([]byte(`{"meshes": {}}`)); err == nil {
		t.Error("expected error when a list is not an array")
	}
}

func TestParseManifestEmpty(t *testing.T) {
	m, problems, err := ParseManifest([]byte(`{}`))
	if err != nil || len(problems) != 0 {
		t.Fatalf("ParseManifest: %v %v", err, problems)
	}
	if len(m.Shaders)+len(m.Textures)+len(m.Materials)+len(m.Meshes) != 0 {
		t.Errorf("expected empty manifest, got %+v", m)
	}
}

func TestShaderStage(t *testing.T) {
	var e ShaderEntry
	cases := map[string]core.ShaderStage{
		"a.vert":        core.StageVertex,
		"a.vs":          core.StageVertex,
		"a.vert?v=2":    core.StageVertex,
		"a.frag":        core.StageFragment,
		"a.fs":          core.StageFragment,
		"shader.glsl":   core.StageFragment,
		"http://x/y.vs": core.StageVertex,
	}
	for src, want := range cases {
		if got := e.Stage(src); got != want {
			t.Errorf("Stage(%q): expected %v, got %v", src, want, got)
		}
	}
}

func TestParseMaterialData(t *testing.T) {
	md, err := ParseMaterialData(MaterialUniforms, []byte(`{"uniforms": [
		{"name": "u_time", "type": "float", "value": 0.5},
		{"name": "u_tint", "type": "vec3", "value": [1, 0.5, 0]},
		{"name": "u_steps", "type": "int", "value": 4}
	]}`))
	if err != nil {
		t.Fatalf("ParseMaterialData: %v", err)
	}
	if len(md.Uniforms) != 3 {
		t.Fatalf("expected 3 uniforms, got %d", len(md.Uniforms))
	}
	if md.Uniforms[0].Value.Float != 0.5 || md.Uniforms[1].Value.Vec3[1] != 0.5 || md.Uniforms[2].Value.Int != 4 {
		t.Errorf("unexpected uniform values %+v", md.Uniforms)
	}
	if md.Color != core.ColorWhite {
		t.Errorf("expected default white, got %v", md.Color)
	}

	bad := []struct {
		typ  string
		data string
	}{
		{MaterialTextured, `{}`},
		{MaterialUniforms, `{"uniforms": []}`},
		{MaterialUniforms, `{"uniforms": [{"name": "x", "type": "vec9", "value": 1}]}`},
		{MaterialUniforms, `{"uniforms": [{"name": "x", "type": "vec2", "value": [1]}]}`},
		{MaterialBasic, `{"color": [1]}`},
		{"phong", `{}`},
	}
	for _, c := range bad {
		if _, err := ParseMaterialData(c.typ, []byte(c.data)); err == nil {
			t.Errorf("ParseMaterialData(%s, %s): expected error", c.typ, c.data)
		}
	}
}

func TestParseManifestSegmentLimit(t *testing.T) {
	m, problems, err := ParseManifest([]byte(`{"meshes": [
		{"name": "fine", "type": "geometry", "data": {"type": "sphere", "params": {"widthSegments": 1024, "heightSegments": 0}}},
		{"name": "huge", "type": "geometry", "data": {"type": "sphere", "params": {"widthSegments": 1e9}}},
		{"name": "overflow", "type": "geometry", "data": {"type": "plane", "params": {"heightSegments": 1e38}}},
		{"name": "negative", "type": "geometry", "data": {"type": "plane", "params": {"widthSegments": -4}}}
	]}`))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if len(m.Meshes) != 1 || m.Meshes[0].Name != "fine" {
		t.Errorf("expected only the fine mesh, got %+v", m.Meshes)
	}
	if len(problems) != 3 {
		t.Fatalf("expected 3 problems, got %d: %v", len(problems), problems)
	}
	for _, p := range problems {
		if !errors.Is(p, ErrInvalidField) {
			t.Errorf("expected an invalid field error, got %v", p)
		}
	}
}
