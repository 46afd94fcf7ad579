package scene

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"

	"glscene/input"
	reMath "glscene/math"
)

type OrbitState int

const (
	StateIdle OrbitState = iota
	StateRotating
	StateDollying
	StatePanning
	StateTouchRotating
	StateTouchDollying
	StateTouchPanning
)

func (s OrbitState) String() string {
	switch s {
	case StateRotating:
		return "rotating"
	case StateDollying:
		return "dollying"
	case StatePanning:
		return "panning"
	case StateTouchRotating:
		return "touch-rotating"
	case StateTouchDollying:
		return "touch-dollying"
	case StateTouchPanning:
		return "touch-panning"
	default:
		return "idle"
	}
}

// OrbitConfig holds the limits and speeds of an OrbitController. Angles are
// in radians.
type OrbitConfig struct {
	MinDistance float32
	MaxDistance float32

	MinPolarAngle float32
	MaxPolarAngle float32

	MinAzimuthAngle float32
	MaxAzimuthAngle float32

	EnableDamping bool
	DampingFactor float32

	EnableZoom bool
	ZoomSpeed  float32

	EnableRotate bool
	RotateSpeed  float32

	EnablePan bool
	PanSpeed  float32

	// AutoRotateSpeed 2 is one revolution every 30 seconds.
	AutoRotate      bool
	AutoRotateSpeed float32

	EnableKeys  bool
	KeyPanSpeed float32 // pixels per key press
}

func DefaultOrbitConfig() OrbitConfig {
	return OrbitConfig{
		MinDistance:     0,
		MaxDistance:     math32.Inf(1),
		MinPolarAngle:   0,
		MaxPolarAngle:   reMath.Pi,
		MinAzimuthAngle: math32.Inf(-1),
		MaxAzimuthAngle: math32.Inf(1),
		EnableDamping:   false,
		DampingFactor:   0.25,
		EnableZoom:      true,
		ZoomSpeed:       1,
		EnableRotate:    true,
		RotateSpeed:     1,
		EnablePan:       true,
		PanSpeed:        1,
		AutoRotate:      false,
		AutoRotateSpeed: 2,
		EnableKeys:      true,
		KeyPanSpeed:     7,
	}
}

func (c OrbitConfig) Validate() error {
	if c.MinDistance < 0 || c.MaxDistance < c.MinDistance {
		return fmt.Errorf("invalid distance range [%v, %v]", c.MinDistance, c.MaxDistance)
	}
	if c.MinPolarAngle < 0 || c.MaxPolarAngle > reMath.Pi || c.MaxPolarAngle < c.MinPolarAngle {
		return fmt.Errorf("invalid polar range [%v, %v]", c.MinPolarAngle, c.MaxPolarAngle)
	}
	if c.MaxAzimuthAngle < c.MinAzimuthAngle {
		return fmt.Errorf("invalid azimuth range [%v, %v]", c.MinAzimuthAngle, c.MaxAzimuthAngle)
	}
	if c.EnableDamping && (c.DampingFactor <= 0 || c.DampingFactor > 1) {
		return fmt.Errorf("damping factor must be in (0, 1], got %v", c.DampingFactor)
	}
	return nil
}

// OrbitController keeps a camera facing a target point and moves it over
// a sphere around that point. Call Update once per frame from the goroutine
// that owns the camera.
type OrbitController struct {
	camera *Camera
	config OrbitConfig

	target         reMath.Vec3
	spherical      reMath.Spherical
	sphericalDelta reMath.Spherical
	scale          float32
	panOffset      reMath.Vec3

	// q maps the camera's local up onto +Y so the angles are measured
	// around a vertical axis.
	q        reMath.Quaternion
	qInverse reMath.Quaternion

	lastPosition   reMath.Vec3
	lastQuaternion reMath.Quaternion

	state OrbitState

	target0   reMath.Vec3
	position0 reMath.Vec3
}

func NewOrbitController(camera *Camera, config OrbitConfig) (*OrbitController, error) {
	if camera == nil {
		return nil, fmt.Errorf("orbit controller needs a camera")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &OrbitController{
		camera: camera,
		config: config,
		scale:  1,
	}
	c.Realign()
	c.SaveState()
	return c, nil
}

// Realign recomputes the up alignment from the camera's current local up.
// The alignment is otherwise fixed at construction.
func (c *OrbitController) Realign() {
	up := c.camera.Transform.LocalUp().Normalize()
	c.q = reMath.QuaternionFromUnitVectors(up, reMath.Vec3Up)
	c.qInverse = c.q.Inverse()
}

func (c *OrbitController) Camera() *Camera             { return c.camera }
func (c *OrbitController) Config() OrbitConfig         { return c.config }
func (c *OrbitController) State() OrbitState           { return c.state }
func (c *OrbitController) Target() reMath.Vec3         { return c.target }
func (c *OrbitController) Spherical() reMath.Spherical { return c.spherical }

// SphericalDelta is the rotation still pending for the next updates.
func (c *OrbitController) SphericalDelta() reMath.Spherical {
	return c.sphericalDelta
}

func (c *OrbitController) SetConfig(config OrbitConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}
	c.config = config
	return nil
}

func (c *OrbitController) SetTarget(target reMath.Vec3) {
	c.target = target
}

// SaveState remembers the current target and camera position for Reset.
func (c *OrbitController) SaveState() {
	c.target0 = c.target
	c.position0 = c.camera.Transform.Position
}

// Reset restores the saved state and drops every pending motion.
func (c *OrbitController) Reset() {
	c.target = c.target0
	c.camera.Transform.Position = c.position0
	c.sphericalDelta = reMath.Spherical{}
	c.panOffset = reMath.Vec3Zero
	c.scale = 1
	c.state = StateIdle
	c.update(0)
}

// RotateLeft orbits around the vertical axis by angle radians.
func (c *OrbitController) RotateLeft(angle float32) {
	c.sphericalDelta.Theta -= angle
}

func (c *OrbitController) RotateUp(angle float32) {
	c.sphericalDelta.Phi -= angle
}

// DollyIn moves the camera closer, dividing the distance by ratio.
func (c *OrbitController) DollyIn(ratio float32) {
	if ratio > 0 {
		c.scale /= ratio
	}
}

// DollyOut moves the camera away, multiplying the distance by ratio.
func (c *OrbitController) DollyOut(ratio float32) {
	if ratio > 0 {
		c.scale *= ratio
	}
}

// Pan shifts the target by a pixel delta in screen space.
func (c *OrbitController) Pan(dx, dy float32) {
	_, height := c.camera.Viewport()
	t := c.camera.Transform

	var left, up float32
	switch c.camera.Projection().(type) {
	case Perspective:
		distance := t.Position.Sub(c.target).Length()
		distance *= math32.Tan(reMath.DegToRad(c.camera.EffectiveFOV()) / 2)
		left = 2 * dx * distance / float32(height)
		up = 2 * dy * distance / float32(height)
	default:
		left, up = dx, dy
	}

	speed := c.config.PanSpeed
	c.panOffset = c.panOffset.
		Add(t.Right().Mul(-left * speed)).
		Add(t.Up().Mul(up * speed))
}

func (c *OrbitController) zoomRatio() float32 {
	return math32.Pow(0.95, -c.config.ZoomSpeed)
}

func (c *OrbitController) autoRotationAngle(dt float32) float32 {
	angle := reMath.TwoPi / 3600 * c.config.AutoRotateSpeed
	if dt > 0 {
		angle *= dt * 60
	}
	return angle
}

// Update consumes one frame of input and moves the camera. It reports
// whether the camera moved enough to need a redraw.
func (c *OrbitController) Update(dt float32, in input.Snapshot) bool {
	c.handleInput(in)
	return c.update(dt)
}

func (c *OrbitController) handleInput(in input.Snapshot) {
	cfg := c.config
	c.state = StateIdle

	switch {
	case in.Touches == 1 && cfg.EnableRotate:
		c.state = StateTouchRotating
	case in.Touches == 2 && cfg.EnableZoom:
		c.state = StateTouchDollying
	case in.Touches == 3 && cfg.EnablePan:
		c.state = StateTouchPanning
	case in.Touches > 0:
	case in.Down(input.ButtonLeft) && cfg.EnableRotate:
		c.state = StateRotating
	case in.Down(input.ButtonMiddle) && cfg.EnableZoom:
		c.state = StateDollying
	case in.Down(input.ButtonRight) && cfg.EnablePan:
		c.state = StatePanning
	}

	_, height := c.camera.Viewport()
	switch c.state {
	case StateRotating, StateTouchRotating:
		h := float32(height)
		c.RotateLeft(reMath.TwoPi * in.DX / h * cfg.RotateSpeed)
		c.RotateUp(reMath.TwoPi * in.DY / h * cfg.RotateSpeed)
	case StateDollying:
		if in.DY > 0 {
			c.DollyOut(c.zoomRatio())
		} else if in.DY < 0 {
			c.DollyIn(c.zoomRatio())
		}
	case StateTouchDollying:
		if in.Pinch > 0 && in.Pinch != 1 {
			c.DollyIn(math32.Pow(in.Pinch, cfg.ZoomSpeed))
		}
	case StatePanning, StateTouchPanning:
		c.Pan(in.DX, in.DY)
	}

	if cfg.EnableZoom && in.Wheel != 0 {
		c.DollyIn(math32.Pow(c.zoomRatio(), in.Wheel))
	}

	if cfg.EnableKeys && cfg.EnablePan && in.Keys != 0 {
		step := cfg.KeyPanSpeed
		if in.Pressed(input.KeyUp) {
			c.Pan(0, step)
		}
		if in.Pressed(input.KeyDown) {
			c.Pan(0, -step)
		}
		if in.Pressed(input.KeyLeft) {
			c.Pan(step, 0)
		}
		if in.Pressed(input.KeyRight) {
			c.Pan(-step, 0)
		}
	}
}

func (c *OrbitController) update(dt float32) bool {
	cfg := c.config
	t := c.camera.Transform

	offset := c.q.RotateVector(t.Position.Sub(c.target))
	c.spherical.SetFromVector(offset)

	if cfg.AutoRotate && c.state == StateIdle {
		c.RotateLeft(c.autoRotationAngle(dt))
	}

	if cfg.EnableDamping {
		c.spherical.Theta += c.sphericalDelta.Theta * cfg.DampingFactor
		c.spherical.Phi += c.sphericalDelta.Phi * cfg.DampingFactor
	} else {
		c.spherical.Theta += c.sphericalDelta.Theta
		c.spherical.Phi += c.sphericalDelta.Phi
	}

	c.spherical.Theta = reMath.Clamp(c.spherical.Theta, cfg.MinAzimuthAngle, cfg.MaxAzimuthAngle)
	c.spherical.Phi = reMath.Clamp(c.spherical.Phi, cfg.MinPolarAngle, cfg.MaxPolarAngle)
	c.spherical.MakeSafe()

	c.spherical.Radius = reMath.Clamp(c.spherical.Radius*c.scale, cfg.MinDistance, cfg.MaxDistance)

	if cfg.EnableDamping {
		c.target = c.target.Add(c.panOffset.Mul(cfg.DampingFactor))
	} else {
		c.target = c.target.Add(c.panOffset)
	}

	offset = c.qInverse.RotateVector(c.spherical.ToVector())
	t.Position = c.target.Add(offset)
	c.camera.LookAt(c.target)

	if cfg.EnableDamping {
		decay := 1 - cfg.DampingFactor
		c.sphericalDelta.Theta *= decay
		c.sphericalDelta.Phi *= decay
		c.panOffset = c.panOffset.Mul(decay)
	} else {
		c.sphericalDelta = reMath.Spherical{}
		c.panOffset = reMath.Vec3Zero
	}
	c.scale = 1

	if c.lastPosition.DistanceSqr(t.Position) > reMath.EPS ||
		rotationChanged(c.lastQuaternion, t.Rotation) {
		c.lastPosition = t.Position
		c.lastQuaternion = t.Rotation
		return true
	}
	return false
}

// rotationChanged reports whether 8(1 - a·b) exceeds EPS, computed in
// float64 on the normalized quaternions.
func rotationChanged(a, b reMath.Quaternion) bool {
	dot := func(p, q reMath.Quaternion) float64 {
		return float64(p.X)*float64(q.X) + float64(p.Y)*float64(q.Y) +
			float64(p.Z)*float64(q.Z) + float64(p.W)*float64(q.W)
	}
	la, lb := math.Sqrt(dot(a, a)), math.Sqrt(dot(b, b))
	if la == 0 || lb == 0 {
		return la != lb
	}
	return 8*(1-dot(a, b)/(la*lb)) > float64(reMath.EPS)
}
