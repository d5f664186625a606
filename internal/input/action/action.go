package action

import (
	"github.com/dshills/keyward/internal/input/host"
	"github.com/dshills/keyward/internal/input/key"
)

// Func is the body of an action. It returns true when the key press was
// handled and must not reach the focused widget.
type Func func(ctx *Context) bool

// Action is a named operation that a key can be bound to.
type Action struct {
	// Name is the identifier used in key binding configuration.
	Name string

	// Description is a one-line summary shown on help screens.
	Description string

	fn Func
}

// New creates an action.
func New(name, description string, fn Func) *Action {
	return &Action{Name: name, Description: description, fn: fn}
}

// Invoke runs the action. Actions without a body report false.
func (a *Action) Invoke(ctx *Context) bool {
	if a == nil || a.fn == nil {
		return false
	}
	return a.fn(ctx)
}

// String returns the action name.
func (a *Action) String() string {
	if a == nil {
		return "<nil>"
	}
	return a.Name
}

// Guard is held while key filtering is suspended.
// Release restores filtering; calling it more than once has no effect.
type Guard interface {
	Release()
}

// FilterControl suspends key filtering, for example while a modal prompt
// owns the keyboard.
type FilterControl interface {
	DisableFiltering() Guard
}

// Context is passed to an action when it is invoked from a key press.
type Context struct {
	// Window is the main window the key press was delivered to.
	Window host.Window

	// Focused is the widget that had keyboard focus, possibly nil.
	Focused host.Widget

	// Key is the encoded key press that resolved to the action.
	Key key.Code

	// Mode names the key map the binding was found in.
	Mode string

	// Control suspends key filtering for the duration of a guard.
	Control FilterControl
}
