package input

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

// Event is one message of the remote input protocol.
//
//	{"type": "pointermove", "x": 10, "y": 20}
//	{"type": "pointerdown", "button": 0}
//	{"type": "wheel", "delta": 1}
//	{"type": "touch", "touches": 2}
//	{"type": "pinch", "ratio": 1.1}
//	{"type": "key", "key": "left"}
type Event struct {
	Type    string  `json:"type"`
	X       float32 `json:"x,omitempty"`
	Y       float32 `json:"y,omitempty"`
	DX      float32 `json:"dx,omitempty"`
	DY      float32 `json:"dy,omitempty"`
	Button  int     `json:"button,omitempty"`
	Delta   float32 `json:"delta,omitempty"`
	Touches int     `json:"touches,omitempty"`
	Ratio   float32 `json:"ratio,omitempty"`
	Key     string  `json:"key,omitempty"`
}

var remoteKeys = map[string]Key{
	"left":  KeyLeft,
	"up":    KeyUp,
	"right": KeyRight,
	"down":  KeyDown,
}

// Apply feeds e into c. It reports false for unknown events.
func (e Event) Apply(c *Collector) bool {
	switch e.Type {
	case "pointermove":
		if e.DX != 0 || e.DY != 0 {
			c.MoveBy(e.DX, e.DY)
		} else {
			c.MoveTo(e.X, e.Y)
		}
	case "pointerdown", "pointerup":
		if e.Button < 0 || e.Button > int(ButtonRight) {
			return false
		}
		c.SetButton(Button(e.Button), e.Type == "pointerdown")
	case "wheel":
		c.Scroll(e.Delta)
	case "touch":
		c.SetTouches(e.Touches)
	case "pinch":
		c.Pinch(e.Ratio)
	case "key":
		k, ok := remoteKeys[e.Key]
		if !ok {
			return false
		}
		c.PressKey(k)
	default:
		return false
	}
	return true
}

// RemoteHandler accepts websocket connections carrying JSON input events,
// for example from a phone or a browser page driving the viewer.
type RemoteHandler struct {
	collector *Collector
	upgrader  websocket.Upgrader
}

func NewRemoteHandler(collector *Collector) *RemoteHandler {
	return &RemoteHandler{
		collector: collector,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *RemoteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("remote input: upgrade error:", err)
		return
	}
	defer conn.Close()

	for {
		var e Event
		if err := conn.ReadJSON(&e); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Println("remote input: read error:", err)
			}
			return
		}
		if !e.Apply(h.collector) {
			log.Printf("remote input: ignoring event %q", e.Type)
		}
	}
}
