package math

import "github.com/chewxy/math32"

// Spherical is a point in spherical coordinates. Phi is the polar angle
// measured from +Y and Theta the azimuth around +Y measured from +Z.
type Spherical struct {
	Radius float32
	Phi    float32
	Theta  float32
}

func NewSpherical(radius, phi, theta float32) Spherical {
	return Spherical{Radius: radius, Phi: phi, Theta: theta}
}

// SphericalFromVector is a convenience wrapper around SetFromVector.
func SphericalFromVector(v Vec3) Spherical {
	var s Spherical
	s.SetFromVector(v)
	return s
}

// SetFromVector replaces s with the coordinates of v. The zero vector maps
// to all zeros. Phi is not made safe.
func (s *Spherical) SetFromVector(v Vec3) {
	s.Radius = v.Length()
	if s.Radius == 0 {
		s.Theta = 0
		s.Phi = 0
		return
	}
	s.Theta = math32.Atan2(v.X, v.Z)
	s.Phi = math32.Acos(Clamp(v.Y/s.Radius, -1, 1))
}

func (s Spherical) ToVector() Vec3 {
	sinPhi := math32.Sin(s.Phi)
	return Vec3{
		X: s.Radius * sinPhi * math32.Sin(s.Theta),
		Y: s.Radius * math32.Cos(s.Phi),
		Z: s.Radius * sinPhi * math32.Cos(s.Theta),
	}
}

// MakeSafe keeps Phi strictly inside (0, π) so the view direction never
// becomes parallel to the pole.
func (s *Spherical) MakeSafe() {
	s.Phi = Clamp(s.Phi, EPS, math32.Pi-EPS)
}
