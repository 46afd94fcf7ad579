package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"glscene/core"
)

// Manifest lists the assets of a scene. Only entries that passed validation
// are kept.
type Manifest struct {
	Shaders   []ShaderEntry   `json:"shaders,omitempty"`
	Textures  []TextureEntry  `json:"textures,omitempty"`
	Materials []MaterialEntry `json:"materials,omitempty"`
	Meshes    []MeshEntry     `json:"meshes,omitempty"`
}

type ShaderEntry struct {
	Name     string   `json:"name"`
	Src      []string `json:"src"`
	Uniforms []string `json:"uniforms,omitempty"`

	// Index is the position of the entry in the manifest document.
	Index int `json:"-"`
}

// Stage guesses the pipeline stage of a source from its extension.
func (e ShaderEntry) Stage(src string) core.ShaderStage {
	if i := strings.IndexAny(src, "?#"); i >= 0 {
		src = src[:i]
	}
	if strings.HasSuffix(src, ".vert") || strings.HasSuffix(src, ".vs") {
		return core.StageVertex
	}
	return core.StageFragment
}

type TextureEntry struct {
	Name  string `json:"name"`
	Src   string `json:"src"`
	Index int    `json:"-"`
}

// MaterialEntry data is either an inline object or the URL of one.
type MaterialEntry struct {
	Name   string          `json:"name"`
	Type   string          `json:"type"`
	Shader string          `json:"shader,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
	Index  int             `json:"-"`
}

// DataURL returns the document URL when Data is a string.
func (e MaterialEntry) DataURL() (string, bool) {
	return stringData(e.Data)
}

// ShaderName is the referenced shader, or the built-in one.
func (e MaterialEntry) ShaderName() string {
	if e.Shader == "" {
		return ReservedName
	}
	return e.Shader
}

const (
	MeshModel    = "model"
	MeshGeometry = "geometry"
)

type MeshEntry struct {
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Data     json.RawMessage `json:"data"`
	Mode     string          `json:"mode,omitempty"`
	Material string          `json:"material,omitempty"`

	// Filled in by validation.
	Index    int           `json:"-"`
	URL      string        `json:"-"`
	Geometry *GeometryData `json:"-"`
	DrawMode core.DrawMode `json:"-"`
}

// MaterialName is the referenced material, or the built-in one.
func (e MeshEntry) MaterialName() string {
	if e.Material == "" {
		return ReservedName
	}
	return e.Material
}

// GeometryData selects a procedural generator.
type GeometryData struct {
	Type   string             `json:"type"`
	Params map[string]float32 `json:"params,omitempty"`
}

// Param returns the named parameter or def when absent.
func (g *GeometryData) Param(name string, def float32) float32 {
	if v, ok := g.Params[name]; ok {
		return v
	}
	return def
}

var geometryTypes = map[string]bool{"plane": true, "sphere": true}

// MaxGeometrySegments bounds the segment counts of generated geometry.
const MaxGeometrySegments = 1024

var segmentParams = []string{"widthSegments", "heightSegments"}

func (g *GeometryData) validate() error {
	if !geometryTypes[g.Type] {
		return fmt.Errorf("%w: unknown geometry type %q", ErrInvalidField, g.Type)
	}
	for _, name := range segmentParams {
		v, ok := g.Params[name]
		// Written so NaN fails too.
		if ok && !(v >= 0 && v <= MaxGeometrySegments) {
			return fmt.Errorf("%w: %s must be in [0, %d], got %v", ErrInvalidField, name, MaxGeometrySegments, v)
		}
	}
	return nil
}

type rawManifest struct {
	Shaders   []json.RawMessage `json:"shaders"`
	Textures  []json.RawMessage `json:"textures"`
	Materials []json.RawMessage `json:"materials"`
	Meshes    []json.RawMessage `json:"meshes"`
}

// ParseManifest decodes a manifest document. The error is non-nil only when
// the document itself is unreadable. Invalid entries are dropped and each
// one is returned as a *ValidationError in the problems slice.
func ParseManifest(data []byte) (*Manifest, []error, error) {
	var raw rawManifest
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	m := &Manifest{}
	var problems []error
	report := func(kind string, index int, name string, err error) {
		problems = append(problems, &ValidationError{Kind: kind, Index: index, Name: name, Err: err})
	}

	for i, msg := range raw.Shaders {
		var e ShaderEntry
		if err := decodeEntry(msg, &e); err != nil {
			report("shader", i, "", err)
			continue
		}
		if err := e.validate(); err != nil {
			report("shader", i, e.Name, err)
			continue
		}
		e.Index = i
		m.Shaders = append(m.Shaders, e)
	}

	for i, msg := range raw.Textures {
		var e TextureEntry
		if err := decodeEntry(msg, &e); err != nil {
			report("texture", i, "", err)
			continue
		}
		if err := e.validate(); err != nil {
			report("texture", i, e.Name, err)
			continue
		}
		e.Index = i
		m.Textures = append(m.Textures, e)
	}

	for i, msg := range raw.Materials {
		var e MaterialEntry
		if err := decodeEntry(msg, &e); err != nil {
			report("material", i, "", err)
			continue
		}
		if err := e.validate(); err != nil {
			report("material", i, e.Name, err)
			continue
		}
		e.Index = i
		m.Materials = append(m.Materials, e)
	}

	for i, msg := range raw.Meshes {
		var e MeshEntry
		if err := decodeEntry(msg, &e); err != nil {
			report("mesh", i, "", err)
			continue
		}
		if err := e.validate(); err != nil {
			report("mesh", i, e.Name, err)
			continue
		}
		e.Index = i
		m.Meshes = append(m.Meshes, e)
	}

	return m, problems, nil
}

func decodeEntry(msg json.RawMessage, v any) error {
	if err := json.Unmarshal(msg, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidField, err)
	}
	return nil
}

func checkName(name string, reserved bool) error {
	if name == "" {
		return fmt.Errorf("%w: name", ErrMissingField)
	}
	if reserved && name == ReservedName {
		return fmt.Errorf("%w: %q", ErrReservedName, name)
	}
	return nil
}

func (e *ShaderEntry) validate() error {
	if err := checkName(e.Name, true); err != nil {
		return err
	}
	if len(e.Src) < 2 {
		return fmt.Errorf("%w: src needs at least a vertex and a fragment source", ErrMissingField)
	}
	for i, src := range e.Src {
		if src == "" {
			return fmt.Errorf("%w: src[%d] is empty", ErrInvalidField, i)
		}
	}
	return nil
}

func (e *TextureEntry) validate() error {
	if err := checkName(e.Name, false); err != nil {
		return err
	}
	if e.Src == "" {
		return fmt.Errorf("%w: src", ErrMissingField)
	}
	return nil
}

func (e *MaterialEntry) validate() error {
	if err := checkName(e.Name, true); err != nil {
		return err
	}
	if !materialTypes[e.Type] {
		if e.Type == "" {
			return fmt.Errorf("%w: type", ErrMissingField)
		}
		return fmt.Errorf("%w: unknown material type %q", ErrInvalidField, e.Type)
	}
	if isNull(e.Data) {
		return fmt.Errorf("%w: data", ErrMissingField)
	}
	if _, isURL := e.DataURL(); isURL {
		return nil
	}
	_, err := ParseMaterialData(e.Type, e.Data)
	return err
}

func (e *MeshEntry) validate() error {
	if err := checkName(e.Name, false); err != nil {
		return err
	}
	mode, ok := core.ParseDrawMode(e.Mode)
	if !ok {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidField, e.Mode)
	}
	e.DrawMode = mode

	if isNull(e.Data) {
		return fmt.Errorf("%w: data", ErrMissingField)
	}

	switch e.Type {
	case MeshModel:
		url, ok := stringData(e.Data)
		if !ok || url == "" {
			return fmt.Errorf("%w: model data must be a URL", ErrInvalidField)
		}
		e.URL = url
	case MeshGeometry:
		var g GeometryData
		if err := json.Unmarshal(e.Data, &g); err != nil {
			return fmt.Errorf("%w: geometry data: %v", ErrInvalidField, err)
		}
		if err := g.validate(); err != nil {
			return err
		}
		e.Geometry = &g
	case "":
		return fmt.Errorf("%w: type", ErrMissingField)
	default:
		return fmt.Errorf("%w: unknown mesh type %q", ErrInvalidField, e.Type)
	}
	return nil
}

func isNull(msg json.RawMessage) bool {
	trimmed := bytes.TrimSpace(msg)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func stringData(msg json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(msg, &s); err != nil {
		return "", false
	}
	return s, true
}
