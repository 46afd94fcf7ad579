package math

import (
	"fmt"

	"github.com/chewxy/math32"
)

// EulerOrder names the axis sequence of an Euler rotation. XYZ rotates about
// X first in the intrinsic frame, which is the same matrix as Rx·Ry·Rz.
type EulerOrder int

const (
	EulerXYZ EulerOrder = iota
	EulerYXZ
	EulerZXY
	EulerZYX
	EulerYZX
	EulerXZY
)

// EulerOrders lists every supported order.
var EulerOrders = []EulerOrder{EulerXYZ, EulerYXZ, EulerZXY, EulerZYX, EulerYZX, EulerXZY}

func (o EulerOrder) String() string {
	switch o {
	case EulerXYZ:
		return "XYZ"
	case EulerYXZ:
		return "YXZ"
	case EulerZXY:
		return "ZXY"
	case EulerZYX:
		return "ZYX"
	case EulerYZX:
		return "YZX"
	case EulerXZY:
		return "XZY"
	default:
		return fmt.Sprintf("EulerOrder(%d)", int(o))
	}
}

func ParseEulerOrder(s string) (EulerOrder, error) {
	for _, o := range EulerOrders {
		if o.String() == s {
			return o, nil
		}
	}
	return EulerXYZ, fmt.Errorf("unknown euler order %q", s)
}

// gimbalLimit is the |sin| above which the middle angle is treated as ±90°.
const gimbalLimit = 0.99999

// QuaternionFromEuler converts angles in radians to a unit quaternion. The
// half-angle pairs always come from euler.X, euler.Y and euler.Z regardless
// of order.
func QuaternionFromEuler(euler Vec3, order EulerOrder) Quaternion {
	c1, s1 := math32.Cos(euler.X/2), math32.Sin(euler.X/2)
	c2, s2 := math32.Cos(euler.Y/2), math32.Sin(euler.Y/2)
	c3, s3 := math32.Cos(euler.Z/2), math32.Sin(euler.Z/2)

	var q Quaternion
	switch order {
	case EulerYXZ:
		q = Quaternion{
			X: s1*c2*c3 + c1*s2*s3,
			Y: c1*s2*c3 - s1*c2*s3,
			Z: c1*c2*s3 - s1*s2*c3,
			W: c1*c2*c3 + s1*s2*s3,
		}
	case EulerZXY:
		q = Quaternion{
			X: s1*c2*c3 - c1*s2*s3,
			Y: c1*s2*c3 + s1*c2*s3,
			Z: c1*c2*s3 + s1*s2*c3,
			W: c1*c2*c3 - s1*s2*s3,
		}
	case EulerZYX:
		q = Quaternion{
			X: s1*c2*c3 - c1*s2*s3,
			Y: c1*s2*c3 + s1*c2*s3,
			Z: c1*c2*s3 - s1*s2*c3,
			W: c1*c2*c3 + s1*s2*s3,
		}
	case EulerYZX:
		q = Quaternion{
			X: s1*c2*c3 + c1*s2*s3,
			Y: c1*s2*c3 + s1*c2*s3,
			Z: c1*c2*s3 - s1*s2*c3,
			W: c1*c2*c3 - s1*s2*s3,
		}
	case EulerXZY:
		q = Quaternion{
			X: s1*c2*c3 - c1*s2*s3,
			Y: c1*s2*c3 - s1*c2*s3,
			Z: c1*c2*s3 + s1*s2*c3,
			W: c1*c2*c3 + s1*s2*s3,
		}
	default:
		q = Quaternion{
			X: s1*c2*c3 + c1*s2*s3,
			Y: c1*s2*c3 - s1*c2*s3,
			Z: c1*c2*s3 + s1*s2*c3,
			W: c1*c2*c3 - s1*s2*s3,
		}
	}
	return q.Normalize()
}

// EulerFromRotationMatrix extracts angles in radians from the unscaled upper
// 3x3 of m. When the middle angle reaches ±90° the third angle of the order
// is fixed to 0 and the remaining one absorbs the whole rotation.
func EulerFromRotationMatrix(m Mat4, order EulerOrder) Vec3 {
	m11, m12, m13 := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	m21, m22, m23 := m.At(1, 0), m.At(1, 1), m.At(1, 2)
	m31, m32, m33 := m.At(2, 0), m.At(2, 1), m.At(2, 2)

	var e Vec3
	switch order {
	case EulerYXZ:
		e.X = math32.Asin(-Clamp(m23, -1, 1))
		if math32.Abs(m23) < gimbalLimit {
			e.Y = math32.Atan2(m13, m33)
			e.Z = math32.Atan2(m21, m22)
		} else {
			e.Y = math32.Atan2(-m31, m11)
		}
	case EulerZXY:
		e.X = math32.Asin(Clamp(m32, -1, 1))
		if math32.Abs(m32) < gimbalLimit {
			e.Y = math32.Atan2(-m31, m33)
			e.Z = math32.Atan2(-m12, m22)
		} else {
			e.Z = math32.Atan2(m21, m11)
		}
	case EulerZYX:
		e.Y = math32.Asin(-Clamp(m31, -1, 1))
		if math32.Abs(m31) < gimbalLimit {
			e.X = math32.Atan2(m32, m33)
			e.Z = math32.Atan2(m21, m11)
		} else {
			e.Z = math32.Atan2(-m12, m22)
		}
	case EulerYZX:
		e.Z = math32.Asin(Clamp(m21, -1, 1))
		if math32.Abs(m21) < gimbalLimit {
			e.X = math32.Atan2(-m23, m22)
			e.Y = math32.Atan2(-m31, m11)
		} else {
			e.Y = math32.Atan2(m13, m33)
		}
	case EulerXZY:
		e.Z = math32.Asin(-Clamp(m12, -1, 1))
		if math32.Abs(m12) < gimbalLimit {
			e.X = math32.Atan2(m32, m22)
			e.Y = math32.Atan2(m13, m11)
		} else {
			e.X = math32.Atan2(-m23, m33)
		}
	default:
		e.Y = math32.Asin(Clamp(m13, -1, 1))
		if math32.Abs(m13) < gimbalLimit {
			e.X = math32.Atan2(-m23, m33)
			e.Z = math32.Atan2(-m12, m11)
		} else {
			e.X = math32.Atan2(m32, m22)
		}
	}
	return e
}

func EulerFromQuaternion(q Quaternion, order EulerOrder) Vec3 {
	return EulerFromRotationMatrix(q.Normalize().ToMat4(), order)
}
