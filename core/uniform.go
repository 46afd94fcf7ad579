package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"glscene/math"
)

type UniformKind int

const (
	UniformFloat UniformKind = iota
	UniformInt
	UniformVec2
	UniformVec3
	UniformVec4
	UniformMat2
	UniformMat3
	UniformMat4
)

var uniformKindNames = map[UniformKind]string{
	UniformFloat: "float",
	UniformInt:   "int",
	UniformVec2:  "vec2",
	UniformVec3:  "vec3",
	UniformVec4:  "vec4",
	UniformMat2:  "mat2",
	UniformMat3:  "mat3",
	UniformMat4:  "mat4",
}

func (k UniformKind) String() string {
	if name, ok := uniformKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("UniformKind(%d)", int(k))
}

// Components is the number of floats a value of this kind holds.
func (k UniformKind) Components() int {
	switch k {
	case UniformVec2:
		return 2
	case UniformVec3:
		return 3
	case UniformVec4, UniformMat2:
		return 4
	case UniformMat3:
		return 9
	case UniformMat4:
		return 16
	default:
		return 1
	}
}

func ParseUniformKind(s string) (UniformKind, bool) {
	for k, name := range uniformKindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// UniformValue is a tagged shader uniform. Only the field selected by Kind
// is meaningful. Matrices are column-major.
type UniformValue struct {
	Kind  UniformKind
	Float float32
	Int   int32
	Vec2  mgl32.Vec2
	Vec3  mgl32.Vec3
	Vec4  mgl32.Vec4
	Mat2  mgl32.Mat2
	Mat3  mgl32.Mat3
	Mat4  mgl32.Mat4
}

func Float(v float32) UniformValue { return UniformValue{Kind: UniformFloat, Float: v} }
func Int(v int32) UniformValue     { return UniformValue{Kind: UniformInt, Int: v} }

func Vec2(v math.Vec2) UniformValue {
	return UniformValue{Kind: UniformVec2, Vec2: mgl32.Vec2{v.X, v.Y}}
}

func Vec3(v math.Vec3) UniformValue {
	return UniformValue{Kind: UniformVec3, Vec3: mgl32.Vec3{v.X, v.Y, v.Z}}
}

func Vec4(v math.Vec4) UniformValue {
	return UniformValue{Kind: UniformVec4, Vec4: mgl32.Vec4{v.X, v.Y, v.Z, v.W}}
}

func ColorValue(c Color) UniformValue {
	return UniformValue{Kind: UniformVec4, Vec4: mgl32.Vec4{c.R, c.G, c.B, c.A}}
}

func Mat4(m math.Mat4) UniformValue {
	var out mgl32.Mat4
	copy(out[:], m.Elements())
	return UniformValue{Kind: UniformMat4, Mat4: out}
}

// NewUniformValue builds a value of kind from its flat components.
func NewUniformValue(kind UniformKind, values []float32) (UniformValue, error) {
	if want := kind.Components(); len(values) != want {
		return UniformValue{}, fmt.Errorf("%s uniform needs %d components, got %d", kind, want, len(values))
	}

	u := UniformValue{Kind: kind}
	switch kind {
	case UniformFloat:
		u.Float = values[0]
	case UniformInt:
		u.Int = int32(values[0])
	case UniformVec2:
		copy(u.Vec2[:], values)
	case UniformVec3:
		copy(u.Vec3[:], values)
	case UniformVec4:
		copy(u.Vec4[:], values)
	case UniformMat2:
		copy(u.Mat2[:], values)
	case UniformMat3:
		copy(u.Mat3[:], values)
	case UniformMat4:
		copy(u.Mat4[:], values)
	default:
		return UniformValue{}, fmt.Errorf("unknown uniform kind %v", kind)
	}
	return u, nil
}
