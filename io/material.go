package io

import (
	"bytes"
	"encoding/json"
	"fmt"

	"glscene/core"
)

const (
	MaterialBasic    = "basic"
	MaterialTextured = "textured"
	MaterialUniforms = "uniforms"
)

var materialTypes = map[string]bool{
	MaterialBasic:    true,
	MaterialTextured: true,
	MaterialUniforms: true,
}

// MaterialData is the decoded data member of a material entry.
type MaterialData struct {
	Color    core.Color
	Texture  string
	Uniforms []NamedUniform
}

type NamedUniform struct {
	Name  string
	Value core.UniformValue
}

type rawMaterialData struct {
	Color    []float32    `json:"color"`
	Texture  string       `json:"texture"`
	Uniforms []rawUniform `json:"uniforms"`
}

type rawUniform struct {
	Name  string          `json:"name"`
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// ParseMaterialData decodes and checks the data of a material of the given
// type. Colors default to opaque white.
func ParseMaterialData(typ string, data []byte) (*MaterialData, error) {
	var raw rawMaterialData
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: material data: %v", ErrInvalidField, err)
	}

	md := &MaterialData{Color: core.ColorWhite}
	if raw.Color != nil {
		if len(raw.Color) < 3 {
			return nil, fmt.Errorf("%w: color needs 3 or 4 channels", ErrInvalidField)
		}
		md.Color = core.ColorFromSlice(raw.Color)
	}

	switch typ {
	case MaterialBasic:
	case MaterialTextured:
		if raw.Texture == "" {
			return nil, fmt.Errorf("%w: texture", ErrMissingField)
		}
		md.Texture = raw.Texture
	case MaterialUniforms:
		if len(raw.Uniforms) == 0 {
			return nil, fmt.Errorf("%w: uniforms", ErrMissingField)
		}
		for i, u := range raw.Uniforms {
			value, err := u.decode()
			if err != nil {
				return nil, fmt.Errorf("uniform #%d: %w", i, err)
			}
			md.Uniforms = append(md.Uniforms, NamedUniform{Name: u.Name, Value: value})
		}
	default:
		return nil, fmt.Errorf("%w: unknown material type %q", ErrInvalidField, typ)
	}
	return md, nil
}

func (u rawUniform) decode() (core.UniformValue, error) {
	if u.Name == "" {
		return core.UniformValue{}, fmt.Errorf("%w: name", ErrMissingField)
	}
	kind, ok := core.ParseUniformKind(u.Type)
	if !ok {
		return core.UniformValue{}, fmt.Errorf("%w: unknown uniform type %q", ErrInvalidField, u.Type)
	}

	var values []float32
	trimmed := bytes.TrimSpace(u.Value)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &values); err != nil {
			return core.UniformValue{}, fmt.Errorf("%w: value: %v", ErrInvalidField, err)
		}
	} else {
		var v float32
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return core.UniformValue{}, fmt.Errorf("%w: value: %v", ErrInvalidField, err)
		}
		values = []float32{v}
	}

	value, err := core.NewUniformValue(kind, values)
	if err != nil {
		return core.UniformValue{}, fmt.Errorf("%w: %v", ErrInvalidField, err)
	}
	return value, nil
}
