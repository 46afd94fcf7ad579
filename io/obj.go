package io

import (
	"bufio"
	"fmt"
	stdio "io"
	"strconv"
	"strings"

	"glscene/core"
	"glscene/math"
)

// DecodeOBJ parses Wavefront OBJ text into a single indexed mesh. Every
// object and group is merged, n-gons are fan triangulated and material
// statements are ignored. Vertices without normals get area weighted
// smooth normals.
func DecodeOBJ(r stdio.Reader) (*core.MeshData, error) {
	var positions []math.Vec3
	var normals []math.Vec3
	var uvs []math.Vec2

	data := &core.MeshData{Mode: core.DrawTriangles}
	vertexMap := make(map[string]uint32) // "v/vt/vn" -> vertex index
	missingNormals := false

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		switch parts[0] {
		case "v", "vn":
			v, err := parseFloats(parts[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("obj line %d: %w", lineNo, err)
			}
			vec := math.NewVec3(v[0], v[1], v[2])
			if parts[0] == "v" {
				positions = append(positions, vec)
			} else {
				normals = append(normals, vec)
			}
		case "vt":
			v, err := parseFloats(parts[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("obj line %d: %w", lineNo, err)
			}
			uvs = append(uvs, math.NewVec2(v[0], v[1]))
		case "f":
			if len(parts) < 4 {
				return nil, fmt.Errorf("obj line %d: face needs at least 3 vertices", lineNo)
			}
			face := make([]uint32, 0, len(parts)-1)
			for _, spec := range parts[1:] {
				if idx, ok := vertexMap[spec]; ok {
					face = append(face, idx)
					continue
				}
				vertex, hasNormal, err := parseFaceVertex(spec, positions, normals, uvs)
				if err != nil {
					return nil, fmt.Errorf("obj line %d: %w", lineNo, err)
				}
				missingNormals = missingNormals || !hasNormal
				idx := uint32(len(data.Vertices))
				data.Vertices = append(data.Vertices, vertex)
				vertexMap[spec] = idx
				face = append(face, idx)
			}
			for i := 2; i < len(face); i++ {
				data.Indices = append(data.Indices, face[0], face[i-1], face[i])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read obj: %w", err)
	}

	if len(data.Indices) == 0 {
		return nil, fmt.Errorf("no faces found in obj document")
	}
	if missingNormals {
		GenerateNormals(data)
	}
	return data, nil
}

// GenerateNormals replaces every vertex normal with the area weighted
// average of the adjacent triangle normals.
func GenerateNormals(data *core.MeshData) {
	accum := make([]math.Vec3, len(data.Vertices))
	for i := 0; i+2 < len(data.Indices); i += 3 {
		i0, i1, i2 := data.Indices[i], data.Indices[i+1], data.Indices[i+2]
		v0 := data.Vertices[i0].Position
		v1 := data.Vertices[i1].Position
		v2 := data.Vertices[i2].Position
		n := v1.Sub(v0).Cross(v2.Sub(v0))
		accum[i0] = accum[i0].Add(n)
		accum[i1] = accum[i1].Add(n)
		accum[i2] = accum[i2].Add(n)
	}
	for i := range data.Vertices {
		data.Vertices[i].Normal = accum[i].Normalize()
	}
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseFaceVertex resolves a "v/vt/vn" spec. Negative indices count back
// from the latest element.
func parseFaceVertex(spec string, positions, normals []math.Vec3, uvs []math.Vec2) (core.Vertex, bool, error) {
	var v core.Vertex
	parts := strings.Split(spec, "/")

	idx, err := objIndex(parts[0], len(positions))
	if err != nil {
		return v, false, fmt.Errorf("position %q: %w", spec, err)
	}
	v.Position = positions[idx]

	if len(parts) >= 2 && parts[1] != "" {
		idx, err := objIndex(parts[1], len(uvs))
		if err != nil {
			return v, false, fmt.Errorf("uv %q: %w", spec, err)
		}
		v.UV = uvs[idx]
	}

	hasNormal := false
	if len(parts) >= 3 && parts[2] != "" {
		idx, err := objIndex(parts[2], len(normals))
		if err != nil {
			return v, false, fmt.Errorf("normal %q: %w", spec, err)
		}
		v.Normal = normals[idx]
		hasNormal = true
	}
	return v, hasNormal, nil
}

func objIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		i = count + i + 1
	}
	if i <= 0 || i > count {
		return 0, fmt.Errorf("index %s out of range", s)
	}
	return i - 1, nil
}
