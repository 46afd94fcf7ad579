// Package input turns pointer, wheel, touch and key events into one
// immutable Snapshot per frame.
package input

import "sync"

type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// Key is a bitmask of the keys the orbit controls react to.
type Key uint32

const (
	KeyLeft Key = 1 << iota
	KeyUp
	KeyRight
	KeyDown
)

// Snapshot is the input of one frame. Deltas are in pixels and accumulate
// over every event since the previous frame. Pinch is the ratio between the
// current and previous two-finger distance, 1 when no pinch happened.
type Snapshot struct {
	X, Y    float32
	DX, DY  float32
	Wheel   float32
	Buttons [3]bool
	Touches int
	Pinch   float32
	Keys    Key
}

func (s Snapshot) Down(b Button) bool {
	return b >= 0 && int(b) < len(s.Buttons) && s.Buttons[b]
}

func (s Snapshot) Pressed(k Key) bool {
	return s.Keys&k != 0
}

// Collector accumulates events from any goroutine. The frame goroutine
// calls Drain once per frame.
type Collector struct {
	mu      sync.Mutex
	cur     Snapshot
	started bool
}

func NewCollector() *Collector {
	return &Collector{cur: Snapshot{Pinch: 1}}
}

// MoveTo records an absolute pointer position. The first position only
// anchors the deltas.
func (c *Collector) MoveTo(x, y float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		c.cur.DX += x - c.cur.X
		c.cur.DY += y - c.cur.Y
	}
	c.started = true
	c.cur.X, c.cur.Y = x, y
}

// MoveBy records a relative pointer movement.
func (c *Collector) MoveBy(dx, dy float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur.DX += dx
	c.cur.DY += dy
	c.cur.X += dx
	c.cur.Y += dy
}

func (c *Collector) SetButton(b Button, down bool) {
	if b < 0 || int(b) >= len(c.cur.Buttons) {
		return
	}
	c.mu.Lock()
	c.cur.Buttons[b] = down
	c.mu.Unlock()
}

// Scroll adds wheel steps. Positive values move the camera closer.
func (c *Collector) Scroll(delta float32) {
	c.mu.Lock()
	c.cur.Wheel += delta
	c.mu.Unlock()
}

func (c *Collector) SetTouches(n int) {
	c.mu.Lock()
	c.cur.Touches = max(n, 0)
	c.mu.Unlock()
}

// Pinch multiplies in a distance ratio. Ratios below or at zero are dropped.
func (c *Collector) Pinch(ratio float32) {
	if ratio <= 0 {
		return
	}
	c.mu.Lock()
	c.cur.Pinch *= ratio
	c.mu.Unlock()
}

func (c *Collector) PressKey(k Key) {
	c.mu.Lock()
	c.cur.Keys |= k
	c.mu.Unlock()
}

// Peek returns the pending snapshot without clearing it.
func (c *Collector) Peek() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur
}

// Drain returns the frame snapshot and clears the per-frame deltas. Button
// and touch state persist.
func (c *Collector) Drain() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.cur
	c.cur.DX, c.cur.DY = 0, 0
	c.cur.Wheel = 0
	c.cur.Pinch = 1
	c.cur.Keys = 0
	return s
}
