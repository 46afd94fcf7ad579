package scene

import (
	stdmath "math"
	"testing"

	"glscene/input"
	"glscene/math"
)

func newOrbit(t *testing.T, position math.Vec3, config OrbitConfig) *OrbitController {
	t.Helper()
	cam, err := NewCamera(nil, 100, 100, Perspective{FOV: 90, Near: 0.1, Far: 1000, Zoom: 1})
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}
	cam.Transform.Position = position
	cam.LookAt(math.Vec3Zero)

	c, err := NewOrbitController(cam, config)
	if err != nil {
		t.Fatalf("NewOrbitController: %v", err)
	}
	return c
}

func TestOrbitConfigValidate(t *testing.T) {
	if err := DefaultOrbitConfig().Validate(); err != nil {
		t.Fatalf("DefaultOrbitConfig: %v", err)
	}

	bad := []func(*OrbitConfig){
		func(c *OrbitConfig) { c.MinDistance = -1 },
		func(c *OrbitConfig) { c.MinDistance, c.MaxDistance = 10, 5 },
		func(c *OrbitConfig) { c.MaxPolarAngle = 4 },
		func(c *OrbitConfig) { c.MinPolarAngle, c.MaxPolarAngle = 2, 1 },
		func(c *OrbitConfig) { c.MinAzimuthAngle, c.MaxAzimuthAngle = 1, -1 },
		func(c *OrbitConfig) { c.EnableDamping, c.DampingFactor = true, 0 },
	}
	for i, mutate := range bad {
		cfg := DefaultOrbitConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("case %d: expected an error for %+v", i, cfg)
		}
	}

	if _, err := NewOrbitController(nil, DefaultOrbitConfig()); err == nil {
		t.Error("NewOrbitController: expected an error without a camera")
	}
}

func TestOrbitPoleStart(t *testing.T) {
	c := newOrbit(t, math.NewVec3(0, 5, 0), DefaultOrbitConfig())
	c.Update(0, input.Snapshot{})

	s := c.Spherical()
	if s.Phi < math.EPS || s.Phi > math.Pi-math.EPS {
		t.Errorf("pole: expected phi made safe, got %v", s.Phi)
	}
	if !approx(s.Radius, 5, 1e-4) {
		t.Errorf("pole: expected radius 5, got %v", s.Radius)
	}
	p := c.Camera().Position()
	for _, v := range []float32{p.X, p.Y, p.Z} {
		if stdmath.IsNaN(float64(v)) || stdmath.IsInf(float64(v), 0) {
			t.Fatalf("pole: camera position not finite: %v", p)
		}
	}
	if !approx(p.Y, 5, 1e-4) {
		t.Errorf("pole: expected the camera to stay above the target, got %v", p)
	}
}

func TestOrbitClampInvariants(t *testing.T) {
	cfg := DefaultOrbitConfig()
	cfg.MinPolarAngle, cfg.MaxPolarAngle = 0.4, 2.2
	cfg.MinAzimuthAngle, cfg.MaxAzimuthAngle = -1, 1
	cfg.MinDistance, cfg.MaxDistance = 2, 20
	c := newOrbit(t, math.NewVec3(0, 3, 8), cfg)

	deltas := []struct{ left, up, dolly float32 }{
		{0.3, 5, 1},
		{-7, -9, 0.1},
		{12, 0.2, 10},
		{0, -3, 3},
		{-0.5, 4, 0.05},
		{2, 2, 1.5},
	}
	for i, d := range deltas {
		c.RotateLeft(d.left)
		c.RotateUp(d.up)
		c.DollyIn(d.dolly)
		c.Update(0, input.Snapshot{})

		s := c.Spherical()
		if s.Phi < cfg.MinPolarAngle-1e-5 || s.Phi > cfg.MaxPolarAngle+1e-5 {
			t.Errorf("step %d: phi %v outside [%v, %v]", i, s.Phi, cfg.MinPolarAngle, cfg.MaxPolarAngle)
		}
		if s.Theta < cfg.MinAzimuthAngle-1e-5 || s.Theta > cfg.MaxAzimuthAngle+1e-5 {
			t.Errorf("step %d: theta %v outside [%v, %v]", i, s.Theta, cfg.MinAzimuthAngle, cfg.MaxAzimuthAngle)
		}
		if s.Radius < cfg.MinDistance-1e-4 || s.Radius > cfg.MaxDistance+1e-4 {
			t.Errorf("step %d: radius %v outside [%v, %v]", i, s.Radius, cfg.MinDistance, cfg.MaxDistance)
		}
		dist := c.Camera().Position().Distance(c.Target())
		if !approx(dist, s.Radius, 1e-3) {
			t.Errorf("step %d: camera is %v from the target, expected %v", i, dist, s.Radius)
		}
	}
}

func TestOrbitDampedDecay(t *testing.T) {
	cfg := DefaultOrbitConfig()
	cfg.EnableDamping = true
	cfg.DampingFactor = 0.25
	c := newOrbit(t, math.NewVec3(0, 2, 10), cfg)

	c.RotateLeft(1)
	c.RotateUp(-0.5)
	prevTheta := stdmath.Abs(float64(c.SphericalDelta().Theta))
	prevPhi := stdmath.Abs(float64(c.SphericalDelta().Phi))

	for i := 0; i < 20; i++ {
		c.Update(0, input.Snapshot{})
		d := c.SphericalDelta()
		if d.Theta >= 0 || d.Phi <= 0 {
			t.Fatalf("frame %d: delta changed sign: %+v", i, d)
		}
		theta, phi := stdmath.Abs(float64(d.Theta)), stdmath.Abs(float64(d.Phi))
		if theta >= prevTheta || phi >= prevPhi {
			t.Fatalf("frame %d: delta did not shrink: %v -> %v, %v -> %v", i, prevTheta, theta, prevPhi, phi)
		}
		if !approx(float32(theta), float32(prevTheta)*0.75, 1e-6) {
			t.Errorf("frame %d: expected theta delta %v, got %v", i, prevTheta*0.75, theta)
		}
		prevTheta, prevPhi = theta, phi
	}
}

func TestOrbitUndampedConsumesDelta(t *testing.T) {
	c := newOrbit(t, math.NewVec3(0, 0, 10), DefaultOrbitConfig())
	c.Update(0, input.Snapshot{})

	c.RotateLeft(-stdmath.Pi / 2)
	c.Update(0, input.Snapshot{})

	if d := c.SphericalDelta(); d.Theta != 0 || d.Phi != 0 {
		t.Errorf("expected the delta to be consumed, got %+v", d)
	}
	// Theta grows from +Z towards +X.
	if p := c.Camera().Position(); !p.ApproxEqual(math.NewVec3(10, 0, 0), 1e-3) {
		t.Errorf("expected camera at (10,0,0), got %v", p)
	}
	if f := c.Camera().Transform.Forward(); !f.ApproxEqual(math.NewVec3(-1, 0, 0), 1e-3) {
		t.Errorf("expected the camera to face the target, forward %v", f)
	}
}

func TestOrbitDirtyFlag(t *testing.T) {
	c := newOrbit(t, math.NewVec3(0, 2, 5), DefaultOrbitConfig())

	if !c.Update(0, input.Snapshot{}) {
		t.Error("first update: expected a change")
	}
	for i := 0; i < 3; i++ {
		if c.Update(0, input.Snapshot{}) {
			t.Errorf("idle update %d: expected no change", i)
		}
	}
	c.RotateLeft(0.1)
	if !c.Update(0, input.Snapshot{}) {
		t.Error("rotate: expected a change")
	}
}

func TestOrbitAutoRotate(t *testing.T) {
	cfg := DefaultOrbitConfig()
	cfg.AutoRotate = true
	c := newOrbit(t, math.NewVec3(0, 0, 10), cfg)

	c.Update(1.0/60, input.Snapshot{})
	before := c.Spherical().Theta
	c.Update(1.0/60, input.Snapshot{})
	after := c.Spherical().Theta

	want := -2 * math.Pi / 3600 * cfg.AutoRotateSpeed
	if !approx(after-before, want, 1e-5) {
		t.Errorf("auto rotate: expected %v per 60 Hz frame, got %v", want, after-before)
	}

	// Twice the frame time rotates twice as far.
	c.Update(2.0/60, input.Snapshot{})
	if !approx(c.Spherical().Theta-after, 2*want, 1e-5) {
		t.Errorf("auto rotate: expected %v for a 30 Hz frame, got %v", 2*want, c.Spherical().Theta-after)
	}

	// No auto rotation while the user drags.
	held := input.Snapshot{}
	held.Buttons[input.ButtonLeft] = true
	theta := c.Spherical().Theta
	c.Update(1.0/60, held)
	if !approx(c.Spherical().Theta, theta, 1e-6) {
		t.Errorf("auto rotate: expected no rotation while dragging, got %v", c.Spherical().Theta-theta)
	}
}

func TestOrbitDolly(t *testing.T) {
	cfg := DefaultOrbitConfig()
	cfg.MinDistance = 8
	c := newOrbit(t, math.NewVec3(0, 0, 10), cfg)

	c.DollyOut(2)
	c.Update(0, input.Snapshot{})
	if !approx(c.Spherical().Radius, 20, 1e-3) {
		t.Errorf("DollyOut: expected radius 20, got %v", c.Spherical().Radius)
	}

	c.DollyIn(4)
	c.Update(0, input.Snapshot{})
	if !approx(c.Spherical().Radius, 8, 1e-3) {
		t.Errorf("DollyIn: expected radius clamped to 8, got %v", c.Spherical().Radius)
	}

	c.DollyOut(1.25)
	c.Update(0, input.Snapshot{Wheel: 1})
	if !approx(c.Spherical().Radius, 9.5, 1e-3) {
		t.Errorf("wheel: expected radius 9.5, got %v", c.Spherical().Radius)
	}
}

func TestOrbitPan(t *testing.T) {
	c := newOrbit(t, math.NewVec3(0, 0, 10), DefaultOrbitConfig())

	// fov 90 at distance 10 spans 20 units over 100 pixels.
	c.Pan(10, 0)
	c.Update(0, input.Snapshot{})
	if !c.Target().ApproxEqual(math.NewVec3(-2, 0, 0), 1e-4) {
		t.Errorf("Pan: expected target (-2,0,0), got %v", c.Target())
	}
	if p := c.Camera().Position(); !p.ApproxEqual(math.NewVec3(-2, 0, 10), 1e-3) {
		t.Errorf("Pan: expected camera (-2,0,10), got %v", p)
	}

	up := input.Snapshot{Keys: input.KeyUp}
	c.Update(0, up)
	want := float32(2 * 7 * 10.0 / 100)
	if !approx(c.Target().Y, want, 1e-4) {
		t.Errorf("key pan: expected target y %v, got %v", want, c.Target().Y)
	}
}

func TestOrbitInputStates(t *testing.T) {
	c := newOrbit(t, math.NewVec3(0, 0, 10), DefaultOrbitConfig())

	cases := []struct {
		in   input.Snapshot
		want OrbitState
	}{
		{input.Snapshot{}, StateIdle},
		{input.Snapshot{Buttons: [3]bool{true, false, false}}, StateRotating},
		{input.Snapshot{Buttons: [3]bool{false, true, false}}, StateDollying},
		{input.Snapshot{Buttons: [3]bool{false, false, true}}, StatePanning},
		{input.Snapshot{Touches: 1}, StateTouchRotating},
		{input.Snapshot{Touches: 2, Pinch: 1}, StateTouchDollying},
		{input.Snapshot{Touches: 3}, StateTouchPanning},
		{input.Snapshot{Touches: 4}, StateIdle},
	}
	for _, tc := range cases {
		c.Update(0, tc.in)
		if c.State() != tc.want {
			t.Errorf("%+v: expected %v, got %v", tc.in, tc.want, c.State())
		}
	}

	cfg := DefaultOrbitConfig()
	cfg.EnableRotate = false
	if err := c.SetConfig(cfg); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	c.Update(0, input.Snapshot{Buttons: [3]bool{true, false, false}, DX: 50})
	if c.State() != StateIdle {
		t.Errorf("rotate disabled: expected idle, got %v", c.State())
	}
}

func TestOrbitDragRotates(t *testing.T) {
	c := newOrbit(t, math.NewVec3(0, 0, 10), DefaultOrbitConfig())
	c.Update(0, input.Snapshot{})

	// A drag across the full height is one revolution.
	drag := input.Snapshot{DX: 25}
	drag.Buttons[input.ButtonLeft] = true
	c.Update(0, drag)
	if !approx(c.Spherical().Theta, -math.Pi/2, 1e-4) {
		t.Errorf("drag: expected theta -pi/2, got %v", c.Spherical().Theta)
	}
}

func TestOrbitResetAndRealign(t *testing.T) {
	c := newOrbit(t, math.NewVec3(0, 0, 10), DefaultOrbitConfig())
	c.RotateLeft(1)
	c.Pan(30, 30)
	c.Update(0, input.Snapshot{})

	c.Reset()
	if !c.Target().ApproxEqual(math.Vec3Zero, 1e-5) {
		t.Errorf("Reset: expected target at origin, got %v", c.Target())
	}
	if p := c.Camera().Position(); !p.ApproxEqual(math.NewVec3(0, 0, 10), 1e-3) {
		t.Errorf("Reset: expected camera back at (0,0,10), got %v", p)
	}

	// A camera whose up is +Z orbits around the Z axis once realigned.
	c.Camera().Transform.SetDirectionalVectors(math.NewVec3(0, 0, 1), math.NewVec3(0, -1, 0))
	c.Camera().Transform.Position = math.NewVec3(0, -10, 0)
	c.Realign()
	c.Update(0, input.Snapshot{})
	c.RotateLeft(-stdmath.Pi / 2)
	c.Update(0, input.Snapshot{})
	if p := c.Camera().Position(); !approx(p.Z, 0, 1e-3) || !approx(p.Length(), 10, 1e-3) {
		t.Errorf("Realign: expected the orbit to stay in the XY plane, got %v", p)
	}
}
