package core

import (
	"glscene/math"
)

// Transform is a position, rotation and scale plus the local basis the
// rotation is applied to. The default basis is up +Y, right +X and
// forward -Z.
type Transform struct {
	Position math.Vec3
	Rotation math.Quaternion
	Scale    math.Vec3

	up      math.Vec3
	right   math.Vec3
	forward math.Vec3
}

func NewTransform() *Transform {
	return &Transform{
		Position: math.Vec3Zero,
		Rotation: math.QuaternionIdentity(),
		Scale:    math.Vec3One,
		up:       math.Vec3Up,
		right:    math.Vec3Right,
		forward:  math.Vec3Back,
	}
}

// NewTransformWithBasis uses up and forward as the local axes.
func NewTransformWithBasis(up, forward math.Vec3) *Transform {
	t := NewTransform()
	t.SetDirectionalVectors(up, forward)
	return t
}

// SetDirectionalVectors replaces the local basis. forward wins when the two
// are not perpendicular; up is re-derived from it.
func (t *Transform) SetDirectionalVectors(up, forward math.Vec3) {
	f := forward.Normalize()
	r := f.Cross(up.Normalize()).Normalize()
	t.forward = f
	t.right = r
	t.up = r.Cross(f)
}

// Mat returns T·R·S.
func (t *Transform) Mat() math.Mat4 {
	return math.Mat4TRS(t.Position, t.Rotation, t.Scale)
}

func (t *Transform) Up() math.Vec3 {
	return t.Rotation.RotateVector(t.up)
}

func (t *Transform) Right() math.Vec3 {
	return t.Rotation.RotateVector(t.right)
}

func (t *Transform) Forward() math.Vec3 {
	return t.Rotation.RotateVector(t.forward)
}

func (t *Transform) LocalUp() math.Vec3      { return t.up }
func (t *Transform) LocalRight() math.Vec3   { return t.right }
func (t *Transform) LocalForward() math.Vec3 { return t.forward }

func (t *Transform) EulerAngles(order math.EulerOrder) math.Vec3 {
	return math.EulerFromQuaternion(t.Rotation, order)
}

func (t *Transform) SetEulerAngles(angles math.Vec3, order math.EulerOrder) {
	t.Rotation = math.QuaternionFromEuler(angles, order)
}

// LookAt rotates the transform so Forward points at target and Up lies in
// the plane of worldUp. Looking along worldUp falls back to any
// perpendicular up.
func (t *Transform) LookAt(target, worldUp math.Vec3) {
	f := target.Sub(t.Position)
	if f.LengthSqr() < math.EPS {
		return
	}
	f = f.Normalize()

	r := f.Cross(worldUp)
	if r.LengthSqr() < math.EPS {
		r = f.Cross(perpendicular(f))
	}
	r = r.Normalize()
	u := r.Cross(f)

	// World basis W maps the local basis L, so R = W·Lᵀ.
	world := basisMat(r, u, f)
	local := basisMat(t.right, t.up, t.forward)
	t.Rotation = math.QuaternionFromRotationMatrix(local.Transpose().Mul(world))
}

// basisMat stores the axes as rows, which is a column basis in the
// column-vector convention.
func basisMat(r, u, f math.Vec3) math.Mat4 {
	return math.Mat4{
		{r.X, r.Y, r.Z, 0},
		{u.X, u.Y, u.Z, 0},
		{f.X, f.Y, f.Z, 0},
		{0, 0, 0, 1},
	}
}

func perpendicular(v math.Vec3) math.Vec3 {
	ax, ay, az := v.X*v.X, v.Y*v.Y, v.Z*v.Z
	switch {
	case ax <= ay && ax <= az:
		return math.Vec3Right
	case ay <= az:
		return math.Vec3Up
	default:
		return math.Vec3Front
	}
}
