package scene

import (
	"fmt"

	"github.com/chewxy/math32"

	"glscene/core"
	reMath "glscene/math"
)

const (
	DefaultFOV  float32 = 85
	DefaultNear float32 = 0.1
	DefaultFar  float32 = 1000
)

// Projection is either Perspective or Orthographic.
type Projection interface {
	isProjection()
}

// Perspective projects with a vertical field of view in degrees. Zoom
// narrows the effective field of view.
type Perspective struct {
	FOV  float32
	Near float32
	Far  float32
	Zoom float32
}

// Orthographic maps one world unit to one pixel with the origin at the
// bottom-left corner of the viewport.
type Orthographic struct {
	Near float32
	Far  float32
}

func (Perspective) isProjection()  {}
func (Orthographic) isProjection() {}

func DefaultPerspective() Perspective {
	return Perspective{FOV: DefaultFOV, Near: DefaultNear, Far: DefaultFar, Zoom: 1}
}

func validateProjection(p Projection) error {
	switch p := p.(type) {
	case Perspective:
		if p.FOV <= 0 || p.FOV >= 180 {
			return fmt.Errorf("fov must be in (0, 180), got %v", p.FOV)
		}
		if p.Near <= 0 {
			return fmt.Errorf("near plane must be positive, got %v", p.Near)
		}
		if p.Far <= p.Near {
			return fmt.Errorf("far plane %v must be beyond near plane %v", p.Far, p.Near)
		}
		if p.Zoom <= 0 {
			return fmt.Errorf("zoom must be positive, got %v", p.Zoom)
		}
	case Orthographic:
		if p.Far <= p.Near {
			return fmt.Errorf("far plane %v must be beyond near plane %v", p.Far, p.Near)
		}
	default:
		return fmt.Errorf("unsupported projection %T", p)
	}
	return nil
}

// Camera pairs a transform with a projection. The projection matrix is
// rebuilt before every setter returns.
type Camera struct {
	Transform *core.Transform

	projection       Projection
	width, height    int
	projectionMatrix reMath.Mat4
}

// NewCamera creates a camera for a width x height viewport. A nil transform
// gets the default one.
func NewCamera(transform *core.Transform, width, height int, projection Projection) (*Camera, error) {
	if transform == nil {
		transform = core.NewTransform()
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid viewport %dx%d", width, height)
	}
	if err := validateProjection(projection); err != nil {
		return nil, err
	}

	c := &Camera{
		Transform:  transform,
		projection: projection,
		width:      width,
		height:     height,
	}
	c.updateProjection()
	return c, nil
}

func (c *Camera) Projection() Projection {
	return c.projection
}

func (c *Camera) SetProjection(p Projection) error {
	if err := validateProjection(p); err != nil {
		return err
	}
	c.projection = p
	c.updateProjection()
	return nil
}

func (c *Camera) SetViewport(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", width, height)
	}
	c.width, c.height = width, height
	c.updateProjection()
	return nil
}

func (c *Camera) Viewport() (int, int) {
	return c.width, c.height
}

func (c *Camera) Aspect() float32 {
	return float32(c.width) / float32(c.height)
}

// SetFOV changes the vertical field of view in degrees. Only valid for a
// perspective camera.
func (c *Camera) SetFOV(fov float32) error {
	p, ok := c.projection.(Perspective)
	if !ok {
		return fmt.Errorf("fov needs a perspective projection")
	}
	p.FOV = fov
	return c.SetProjection(p)
}

// SetZoom changes the perspective zoom factor.
func (c *Camera) SetZoom(zoom float32) error {
	p, ok := c.projection.(Perspective)
	if !ok {
		return fmt.Errorf("zoom needs a perspective projection")
	}
	p.Zoom = zoom
	return c.SetProjection(p)
}

func (c *Camera) SetClipPlanes(near, far float32) error {
	switch p := c.projection.(type) {
	case Perspective:
		p.Near, p.Far = near, far
		return c.SetProjection(p)
	case Orthographic:
		p.Near, p.Far = near, far
		return c.SetProjection(p)
	}
	return fmt.Errorf("unsupported projection %T", c.projection)
}

// EffectiveFOV is the vertical field of view in degrees after zoom, or 0 for
// an orthographic camera.
func (c *Camera) EffectiveFOV() float32 {
	p, ok := c.projection.(Perspective)
	if !ok {
		return 0
	}
	half := math32.Tan(reMath.DegToRad(p.FOV)/2) / p.Zoom
	return reMath.RadToDeg(2 * math32.Atan(half))
}

func (c *Camera) updateProjection() {
	switch p := c.projection.(type) {
	case Perspective:
		top := p.Near * math32.Tan(reMath.DegToRad(p.FOV)/2) / p.Zoom
		right := top * c.Aspect()
		c.projectionMatrix = reMath.Mat4Frustum(-right, right, -top, top, p.Near, p.Far)
	case Orthographic:
		// Pixel centers at 0 and size-1 land on the clip edges.
		w := max(float32(c.width-1), 1)
		h := max(float32(c.height-1), 1)
		c.projectionMatrix = reMath.Mat4Orthographic(0, w, 0, h, p.Near, p.Far)
	}
}

func (c *Camera) ProjectionMatrix() reMath.Mat4 {
	return c.projectionMatrix
}

// WorldMatrix places the camera in the world.
func (c *Camera) WorldMatrix() reMath.Mat4 {
	return c.Transform.Mat()
}

// ViewMatrix maps world space into camera space.
func (c *Camera) ViewMatrix() reMath.Mat4 {
	return c.Transform.Mat().Inverse()
}

func (c *Camera) ViewProjectionMatrix() reMath.Mat4 {
	return c.ViewMatrix().Mul(c.projectionMatrix)
}

func (c *Camera) Position() reMath.Vec3 {
	return c.Transform.Position
}

// LookAt aims the camera at target keeping its local up as the world up.
func (c *Camera) LookAt(target reMath.Vec3) {
	c.Transform.LookAt(target, c.Transform.LocalUp())
}
