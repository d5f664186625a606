package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyward/internal/input/host"
	"github.com/dshills/keyward/internal/input/key"
)

// EventType distinguishes the events the dispatcher looks at.
type EventType uint8

const (
	// EventOther is any event the dispatcher does not handle.
	EventOther EventType = iota
	// EventKeyPress is a key press.
	EventKeyPress
	// EventFocusIn reports that a widget received keyboard focus.
	EventFocusIn
)

// String returns a string representation of the event type.
func (t EventType) String() string {
	switch t {
	case EventKeyPress:
		return "key"
	case EventFocusIn:
		return "focus-in"
	default:
		return "other"
	}
}

// Event is a single input event offered to the dispatcher.
type Event struct {
	Type EventType

	// Key is the encoded key for EventKeyPress.
	Key key.Code

	// Target is the widget receiving focus for EventFocusIn.
	Target host.Widget
}

// KeyPress returns a key press event.
func KeyPress(code key.Code) Event {
	return Event{Type: EventKeyPress, Key: code}
}

// FocusIn returns a focus event for target.
func FocusIn(target host.Widget) Event {
	return Event{Type: EventFocusIn, Target: target}
}

// FromTcell converts a terminal event. Events other than key presses
// become EventOther.
func FromTcell(ev tcell.Event) Event {
	if kev, ok := ev.(*tcell.EventKey); ok {
		return KeyPress(key.FromTcell(kev))
	}
	return Event{}
}
