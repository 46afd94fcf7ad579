package math

import (
	"math"
	"testing"
)

func approx(a, b, tolerance float32) bool {
	return math.Abs(float64(a-b)) <= float64(tolerance)
}

// gimbalAxes returns the component holding the middle rotation of the order
// and the component forced to 0 at the gimbal limit.
func gimbalAxes(order EulerOrder) (middle, zeroed int) {
	switch order {
	case EulerXYZ:
		return 1, 2
	case EulerYXZ:
		return 0, 2
	case EulerZXY:
		return 0, 1
	case EulerZYX:
		return 1, 0
	case EulerYZX:
		return 2, 0
	default:
		return 2, 1
	}
}

func component(v Vec3, i int) float32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func withComponent(v Vec3, i int, value float32) Vec3 {
	switch i {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	default:
		v.Z = value
	}
	return v
}

func sameRotation(t *testing.T, label string, a, b Quaternion, tolerance float32) {
	t.Helper()
	probes := []Vec3{Vec3Right, Vec3Up, Vec3Back, NewVec3(0.3, -0.7, 0.64)}
	for _, p := range probes {
		ra, rb := a.RotateVector(p), b.RotateVector(p)
		if !ra.ApproxEqual(rb, tolerance) {
			t.Errorf("%s: rotations differ on %v: %v vs %v", label, p, ra, rb)
		}
	}
}

func TestEulerOrderString(t *testing.T) {
	for _, order := range EulerOrders {
		parsed, err := ParseEulerOrder(order.String())
		if err != nil || parsed != order {
			t.Errorf("ParseEulerOrder(%q): got %v, %v", order.String(), parsed, err)
		}
	}
	if _, err := ParseEulerOrder("XXY"); err == nil {
		t.Error("ParseEulerOrder: expected error for unknown order")
	}
}

func TestEulerQuaternionRoundTrip(t *testing.T) {
	angles := []Vec3{
		NewVec3(0.5, -0.3, 1.1),
		NewVec3(-1.2, 0.8, -1.5),
		NewVec3(1.3, -0.2, 0.1),
		NewVec3(0, 0, 0),
	}

	for _, order := range EulerOrders {
		for _, e := range angles {
			q := QuaternionFromEuler(e, order)
			if !approx(q.Length(), 1, 1e-5) {
				t.Errorf("%v %v: expected unit quaternion, got length %v", order, e, q.Length())
			}

			got := EulerFromQuaternion(q, order)
			if !got.ApproxEqual(e, 1e-4) {
				t.Errorf("%v: expected %v, got %v", order, e, got)
			}
		}
	}
}

func TestEulerMatchesAxisComposition(t *testing.T) {
	e := NewVec3(0.7, -0.4, 1.9)
	qx := QuaternionFromAxisAngle(Vec3Right, e.X)
	qy := QuaternionFromAxisAngle(Vec3Up, e.Y)
	qz := QuaternionFromAxisAngle(Vec3Front, e.Z)

	sameRotation(t, "XYZ", QuaternionFromEuler(e, EulerXYZ), qx.Mul(qy).Mul(qz), 1e-5)
	sameRotation(t, "ZYX", QuaternionFromEuler(e, EulerZYX), qz.Mul(qy).Mul(qx), 1e-5)
	sameRotation(t, "YXZ", QuaternionFromEuler(e, EulerYXZ), qy.Mul(qx).Mul(qz), 1e-5)
}

func TestEulerGimbalLock(t *testing.T) {
	base := NewVec3(0.3, -0.45, 0.2)

	for _, order := range EulerOrders {
		middle, zeroed := gimbalAxes(order)

		for _, deg := range []float32{90, -90, 89.9, -89.9} {
			e := withComponent(base, middle, DegToRad(deg))
			q := QuaternionFromEuler(e, order)

			got := EulerFromQuaternion(q, order)
			if component(got, zeroed) != 0 {
				t.Errorf("%v at %v°: expected component %d to be 0, got %v", order, deg, zeroed, got)
			}
			sameRotation(t, order.String(), q, QuaternionFromEuler(got, order), 2e-3)
		}
	}
}

func TestEulerNearGimbalStaysGeneric(t *testing.T) {
	base := NewVec3(0.3, -0.45, 0.2)

	for _, order := range EulerOrders {
		middle, _ := gimbalAxes(order)
		for _, deg := range []float32{89, -89} {
			e := withComponent(base, middle, DegToRad(deg))
			got := EulerFromQuaternion(QuaternionFromEuler(e, order), order)
			if !got.ApproxEqual(e, 1e-3) {
				t.Errorf("%v at %v°: expected %v, got %v", order, deg, e, got)
			}
		}
	}
}

func TestQuaternionFromRotationMatrix(t *testing.T) {
	rotations := []Quaternion{
		QuaternionIdentity(),
		QuaternionFromAxisAngle(Vec3Up, Pi),
		QuaternionFromAxisAngle(Vec3Right, Pi),
		QuaternionFromAxisAngle(Vec3Front, Pi*0.99),
		QuaternionFromEuler(NewVec3(1, 2, 3), EulerZXY),
	}
	for _, q := range rotations {
		got := QuaternionFromRotationMatrix(q.ToMat4())
		if !got.ApproxEqual(q, 1e-5) {
			t.Errorf("FromRotationMatrix: expected %v, got %v", q, got)
		}
	}
}

func TestQuaternionFromUnitVectors(t *testing.T) {
	cases := []struct {
		from, to Vec3
	}{
		{Vec3Right, Vec3Up},
		{Vec3Up, Vec3Back},
		{Vec3Up, Vec3Up},
		{Vec3Up, Vec3Down},
		{Vec3Right, Vec3Left},
		{Vec3Front, Vec3Back},
		{NewVec3(1, 2, 3).Normalize(), NewVec3(-3, 0.5, 1).Normalize()},
	}

	for _, c := range cases {
		q := QuaternionFromUnitVectors(c.from, c.to)
		if !approx(q.Length(), 1, 1e-5) {
			t.Errorf("FromUnitVectors(%v, %v): expected unit quaternion, got %v", c.from, c.to, q)
		}
		got := q.RotateVector(c.from)
		if !got.ApproxEqual(c.to, 1e-4) {
			t.Errorf("FromUnitVectors(%v, %v): rotated to %v", c.from, c.to, got)
		}
	}
}
