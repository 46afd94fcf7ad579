package scene

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"glscene/core"
	"glscene/io"
	"glscene/math"
)

var glbMagic = []byte("glTF")

// DecodeModel turns a model document into mesh data. Binary glTF and glTF
// JSON (recognised by its "asset" member) go through the glTF decoder, other
// JSON documents are read as buffer geometry, anything else as Wavefront OBJ.
func DecodeModel(doc []byte) (*core.MeshData, error) {
	if bytes.HasPrefix(doc, glbMagic) {
		return decodeGLTF(doc)
	}

	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var probe struct {
			Asset json.RawMessage `json:"asset"`
		}
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return nil, fmt.Errorf("failed to parse model document: %w", err)
		}
		if probe.Asset != nil {
			return decodeGLTF(doc)
		}
		if io.IsBufferGeometry(trimmed) {
			return io.DecodeBufferGeometry(trimmed)
		}
		return nil, fmt.Errorf("unrecognised JSON model document")
	}

	return io.DecodeOBJ(bytes.NewReader(doc))
}

// decodeGLTF merges every primitive of the first mesh into one indexed
// triangle list. Buffers must be embedded; external URIs are not fetched.
func decodeGLTF(raw []byte) (*core.MeshData, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(raw)).Decode(doc); err != nil {
		return nil, fmt.Errorf("gltf decode: %w", err)
	}
	if len(doc.Meshes) == 0 || doc.Meshes[0] == nil {
		return nil, fmt.Errorf("gltf document has no meshes")
	}

	data := &core.MeshData{Mode: core.DrawTriangles}
	missingNormals := false
	for pi, prim := range doc.Meshes[0].Primitives {
		if prim == nil || prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		hasNormals, err := appendGLTFPrimitive(doc, prim, data)
		if err != nil {
			return nil, fmt.Errorf("gltf primitive %d: %w", pi, err)
		}
		missingNormals = missingNormals || !hasNormals
	}
	if len(data.Vertices) == 0 {
		return nil, fmt.Errorf("gltf mesh has no triangle primitives")
	}
	if missingNormals {
		io.GenerateNormals(data)
	}
	return data, nil
}

func appendGLTFPrimitive(doc *gltf.Document, prim *gltf.Primitive, data *core.MeshData) (bool, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return false, fmt.Errorf("no POSITION attribute")
	}
	posAcc, err := accessor(doc, posIdx)
	if err != nil {
		return false, fmt.Errorf("positions: %w", err)
	}
	positions, err := modeler.ReadPosition(doc, posAcc, nil)
	if err != nil {
		return false, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		acc, err := accessor(doc, idx)
		if err != nil {
			return false, fmt.Errorf("normals: %w", err)
		}
		normals, err = modeler.ReadNormal(doc, acc, nil)
		if err != nil {
			return false, fmt.Errorf("normals: %w", err)
		}
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		acc, err := accessor(doc, idx)
		if err != nil {
			return false, fmt.Errorf("uvs: %w", err)
		}
		uvs, err = modeler.ReadTextureCoord(doc, acc, nil)
		if err != nil {
			return false, fmt.Errorf("uvs: %w", err)
		}
	}

	base := uint32(len(data.Vertices))
	for i, p := range positions {
		v := core.Vertex{Position: math.NewVec3(p[0], p[1], p[2])}
		if i < len(normals) {
			n := normals[i]
			v.Normal = math.NewVec3(n[0], n[1], n[2])
		}
		if i < len(uvs) {
			v.UV = math.NewVec2(uvs[i][0], uvs[i][1])
		}
		data.Vertices = append(data.Vertices, v)
	}

	if prim.Indices != nil {
		acc, err := accessor(doc, *prim.Indices)
		if err != nil {
			return false, fmt.Errorf("indices: %w", err)
		}
		indices, err := modeler.ReadIndices(doc, acc, nil)
		if err != nil {
			return false, fmt.Errorf("indices: %w", err)
		}
		for _, idx := range indices {
			if int(idx) >= len(positions) {
				return false, fmt.Errorf("index %d out of range for %d vertices", idx, len(positions))
			}
			data.Indices = append(data.Indices, base+idx)
		}
	} else {
		for i := range positions {
			data.Indices = append(data.Indices, base+uint32(i))
		}
	}
	return len(normals) >= len(positions), nil
}

func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) || doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("accessor %d out of range for %d accessors", idx, len(doc.Accessors))
	}
	return doc.Accessors[idx], nil
}
