package core

import "math"

// FrameTimer paces a render loop. With a positive limit a frame only runs
// once at least 1/fps seconds have passed since the previous one.
type FrameTimer struct {
	limit float64
	last  float64
	fps   int
	begun bool
}

func NewFrameTimer(fps int) *FrameTimer {
	t := &FrameTimer{}
	if fps > 0 {
		t.limit = 1 / float64(fps)
	}
	return t
}

// Step is called with the current time in seconds. It reports whether a
// frame should run now and the seconds elapsed since the last frame that ran.
// The first call only records the start time.
func (t *FrameTimer) Step(now float64) (float32, bool) {
	if !t.begun {
		t.begun = true
		t.last = now
		return 0, false
	}

	delta := now - t.last
	if delta < t.limit || delta <= 0 {
		return 0, false
	}

	t.fps = int(math.Round(1 / delta))
	t.last = now
	return float32(delta), true
}

// FPS is the rate implied by the last frame interval.
func (t *FrameTimer) FPS() int {
	return t.fps
}
