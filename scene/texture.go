package scene

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"

	"glscene/core"
)

// Texture holds CPU-side RGBA8 pixels for a 2D texture.
type Texture struct {
	Name  string
	Image *image.RGBA

	// Handle is set by the loader after Device.CreateTexture.
	Handle core.Handle
}

// DecodeTexture decodes a PNG or JPEG document into an RGBA8 texture.
func DecodeTexture(name string, data []byte) (*Texture, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", name, err)
	}

	rgba, ok := img.(*image.RGBA)
	if !ok {
		bounds := img.Bounds()
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	return &Texture{Name: name, Image: rgba}, nil
}

// NewSolidTexture creates a width x height texture filled with c.
func NewSolidTexture(name string, width, height int, c core.Color) *Texture {
	t := &Texture{
		Name:  name,
		Image: image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1))),
	}
	t.FillRect(0, 0, width, height, c)
	return t
}

// FillRect paints a rectangle clipped to the texture bounds.
func (t *Texture) FillRect(x, y, width, height int, c core.Color) {
	r := image.Rect(x, y, x+width, y+height).Intersect(t.Image.Bounds())
	draw.Draw(t.Image, r, image.NewUniform(toRGBA(c)), image.Point{}, draw.Src)
}

func (t *Texture) Width() int  { return t.Image.Bounds().Dx() }
func (t *Texture) Height() int { return t.Image.Bounds().Dy() }

func (t *Texture) Destroy(device core.Device) {
	if device != nil && t.Handle != 0 {
		device.DeleteTexture(t.Handle)
	}
	t.Handle = 0
}

func toRGBA(c core.Color) color.RGBA {
	channel := func(v float32) uint8 {
		return uint8(min(max(v, 0), 1)*255 + 0.5)
	}
	return color.RGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: channel(c.A)}
}
