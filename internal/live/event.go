// Package live drives the interactive regions of a page over one websocket:
// the client reports pointer and input events, the server owns the state and
// pushes re-rendered regions back.
package live

// Client event types.
const (
	EventPointerDown  = "pointerdown"
	EventPointerEnter = "pointerenter"
	EventPointerLeave = "pointerleave"
	EventClick        = "click"
	EventInput        = "input"
)

// Event is what the browser sends. Target is the DOM id of the element the
// event landed on (or its closest ancestor with an id).
type Event struct {
	Type   string `json:"type"`
	Target string `json:"target"`
	Value  string `json:"value,omitempty"`
}

// Push replaces the element with id Region by HTML.
type Push struct {
	Region string `json:"region"`
	HTML   string `json:"html"`
}

// Tick is a carousel timer that came due.
type Tick struct {
	Carousel string
	Gen      uint64
}

// dirty collects region ids in first-seen order.
type dirty []string

func (d *dirty) add(ids ...string) {
	for _, id := range ids {
		if !d.has(id) {
			*d = append(*d, id)
		}
	}
}

func (d dirty) has(id string) bool {
	for _, x := range d {
		if x == id {
			return true
		}
	}
	return false
}
