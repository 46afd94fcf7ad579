package input

import (
	"glscene/core"
)

// Poller is the part of a window the WindowSource reads from.
type Poller interface {
	GetCursorPos() (float64, float64)
	IsMouseButtonPressed(button int) bool
	IsKeyPressed(key int) bool
	SetScrollCallback(cb core.ScrollCallback)
}

var windowButtons = map[Button]int{
	ButtonLeft:   core.MouseButtonLeft,
	ButtonMiddle: core.MouseButtonMiddle,
	ButtonRight:  core.MouseButtonRight,
}

var windowKeys = map[Key]int{
	KeyLeft:  core.KeyLeft,
	KeyUp:    core.KeyUp,
	KeyRight: core.KeyRight,
	KeyDown:  core.KeyDown,
}

// WindowSource polls a desktop window once per frame and feeds a Collector.
type WindowSource struct {
	window    Poller
	collector *Collector
	keysPrev  Key
}

// NewWindowSource also installs the scroll callback on window.
func NewWindowSource(window Poller, collector *Collector) *WindowSource {
	ws := &WindowSource{window: window, collector: collector}
	window.SetScrollCallback(func(xoff, yoff float64) {
		collector.Scroll(float32(yoff))
	})
	return ws
}

// Update should be called once per frame after events were processed.
func (ws *WindowSource) Update() {
	x, y := ws.window.GetCursorPos()
	ws.collector.MoveTo(float32(x), float32(y))

	for b, id := range windowButtons {
		ws.collector.SetButton(b, ws.window.IsMouseButtonPressed(id))
	}

	var keys Key
	for k, id := range windowKeys {
		if ws.window.IsKeyPressed(id) {
			keys |= k
		}
	}
	// Only report keys on the frame they went down.
	if pressed := keys &^ ws.keysPrev; pressed != 0 {
		ws.collector.PressKey(pressed)
	}
	ws.keysPrev = keys
}
