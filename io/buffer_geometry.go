package io

import (
	"encoding/json"
	"fmt"

	"glscene/core"
	"glscene/math"
)

type attributeArray struct {
	ItemSize int       `json:"itemSize"`
	Array    []float32 `json:"array"`
}

type bufferGeometryDoc struct {
	Data *struct {
		Attributes struct {
			Position *attributeArray `json:"position"`
			Normal   *attributeArray `json:"normal"`
			UV       *attributeArray `json:"uv"`
		} `json:"attributes"`
		Index *struct {
			Array []uint32 `json:"array"`
		} `json:"index"`
	} `json:"data"`
}

type vertexStream struct {
	Data      []float32 `json:"data"`
	Dimension int       `json:"dimension"`
}

type streamDoc struct {
	Vertices *vertexStream `json:"vertices"`
	Normals  *vertexStream `json:"normals"`
	UVs      *vertexStream `json:"uvs"`
	Indices  []uint32      `json:"indices"`
}

// IsBufferGeometry reports whether doc looks like a JSON mesh document that
// DecodeBufferGeometry understands.
func IsBufferGeometry(doc []byte) bool {
	var probe struct {
		Data     json.RawMessage `json:"data"`
		Vertices json.RawMessage `json:"vertices"`
	}
	if err := json.Unmarshal(doc, &probe); err != nil {
		return false
	}
	return probe.Data != nil || probe.Vertices != nil
}

// DecodeBufferGeometry reads a JSON mesh document. Two layouts are accepted:
// the attribute layout {"data": {"attributes": {"position": {"array": [...]}},
// "index": {"array": [...]}}} and the stream layout {"vertices": {"data":
// [...], "dimension": 3}, "normals": ..., "uvs": ..., "indices": [...]}.
// The vertex count is the shortest of the present streams.
func DecodeBufferGeometry(doc []byte) (*core.MeshData, error) {
	var bg bufferGeometryDoc
	if err := json.Unmarshal(doc, &bg); err != nil {
		return nil, fmt.Errorf("failed to parse mesh document: %w", err)
	}
	if bg.Data != nil && bg.Data.Attributes.Position != nil {
		a := bg.Data.Attributes
		var indices []uint32
		if bg.Data.Index != nil {
			indices = bg.Data.Index.Array
		}
		return assembleStreams(
			stream(a.Position, 3),
			stream(a.Normal, 3),
			stream(a.UV, 2),
			indices,
		)
	}

	var sd streamDoc
	if err := json.Unmarshal(doc, &sd); err != nil {
		return nil, fmt.Errorf("failed to parse mesh document: %w", err)
	}
	if sd.Vertices == nil {
		return nil, fmt.Errorf("mesh document has no positions")
	}
	return assembleStreams(
		vertexStreamOf(sd.Vertices, 3),
		vertexStreamOf(sd.Normals, 3),
		vertexStreamOf(sd.UVs, 2),
		sd.Indices,
	)
}

type flatStream struct {
	data []float32
	size int
}

func (s flatStream) count() int {
	if s.size == 0 {
		return 0
	}
	return len(s.data) / s.size
}

func stream(a *attributeArray, def int) flatStream {
	if a == nil {
		return flatStream{}
	}
	size := a.ItemSize
	if size <= 0 {
		size = def
	}
	return flatStream{data: a.Array, size: size}
}

func vertexStreamOf(v *vertexStream, def int) flatStream {
	if v == nil {
		return flatStream{}
	}
	size := v.Dimension
	if size <= 0 {
		size = def
	}
	return flatStream{data: v.Data, size: size}
}

func assembleStreams(pos, nrm, uv flatStream, indices []uint32) (*core.MeshData, error) {
	if pos.size < 2 {
		return nil, fmt.Errorf("positions need at least 2 components, got %d", pos.size)
	}
	if nrm.size < 3 {
		nrm = flatStream{}
	}
	if uv.size < 2 {
		uv = flatStream{}
	}
	count := pos.count()
	if nrm.size > 0 {
		count = min(count, nrm.count())
	}
	if uv.size > 0 {
		count = min(count, uv.count())
	}
	if count == 0 {
		return nil, fmt.Errorf("mesh document has no vertices")
	}

	data := &core.MeshData{
		Vertices: make([]core.Vertex, count),
		Mode:     core.DrawTriangles,
	}
	for i := 0; i < count; i++ {
		v := &data.Vertices[i]
		v.Position = vec3At(pos, i)
		if nrm.size > 0 {
			v.Normal = vec3At(nrm, i)
		}
		if uv.size >= 2 {
			v.UV = math.NewVec2(uv.data[i*uv.size], uv.data[i*uv.size+1])
		}
	}

	for _, idx := range indices {
		if int(idx) >= count {
			return nil, fmt.Errorf("index %d out of range for %d vertices", idx, count)
		}
	}
	data.Indices = indices
	return data, nil
}

func vec3At(s flatStream, i int) math.Vec3 {
	base := i * s.size
	v := math.Vec3{X: s.data[base], Y: s.data[base+1]}
	if s.size >= 3 {
		v.Z = s.data[base+2]
	}
	return v
}
