package math

import "testing"

func TestSphericalRoundTrip(t *testing.T) {
	vectors := []Vec3{
		NewVec3(1, 2, 3),
		NewVec3(-4, 0.5, -2),
		NewVec3(0, -7, 0.5),
		NewVec3(10, 0, 0),
	}
	for _, v := range vectors {
		s := SphericalFromVector(v)
		got := s.ToVector()
		if !got.ApproxEqual(v, 1e-4) {
			t.Errorf("Spherical round trip: expected %v, got %v (%+v)", v, got, s)
		}
	}
}

func TestSphericalZeroVector(t *testing.T) {
	s := NewSpherical(3, 1, 2)
	s.SetFromVector(Vec3Zero)
	if s != (Spherical{}) {
		t.Errorf("Spherical zero: expected all zeros, got %+v", s)
	}
}

func TestSphericalOnPole(t *testing.T) {
	s := SphericalFromVector(NewVec3(0, 5, 0))
	if s.Radius != 5 || s.Phi != 0 || s.Theta != 0 {
		t.Errorf("Spherical pole: expected {5 0 0}, got %+v", s)
	}

	s.MakeSafe()
	if s.Phi != EPS {
		t.Errorf("MakeSafe: expected phi = EPS, got %v", s.Phi)
	}

	s.Phi = 4
	s.MakeSafe()
	if s.Phi != Pi-EPS {
		t.Errorf("MakeSafe: expected phi = Pi-EPS, got %v", s.Phi)
	}
}

func TestScalarHelpers(t *testing.T) {
	if Clamp(5, 0, 1) != 1 || Clamp(-5, 0, 1) != 0 || Clamp(0.5, 0, 1) != 0.5 {
		t.Error("Clamp: unexpected result")
	}
	if Lerp(2, 4, 0.5) != 3 || Lerp(2, 4, 2) != 6 {
		t.Error("Lerp: expected unclamped interpolation")
	}
	if !approx(Mod(-1, 4), 3, 1e-6) || !approx(Mod(9, 4), 1, 1e-6) {
		t.Errorf("Mod: got %v and %v", Mod(-1, 4), Mod(9, 4))
	}
	if !approx(RadToDeg(DegToRad(85)), 85, 1e-4) {
		t.Error("DegToRad/RadToDeg: round trip failed")
	}
}
