package browser

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Browser runs a Window in a terminal application.
type Browser struct {
	app *tview.Application
	win *Window
}

// New creates the application and its window. Every key event is offered
// to d before tview routes it to the focused primitive.
func New(d Dispatcher, opts ...Option) *Browser {
	b := &Browser{app: tview.NewApplication()}
	opts = append(opts, WithQuitFunc(b.app.Stop))
	b.win = NewWindow(b.app, d, opts...)

	b.app.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		return b.win.HandleKey(ev)
	})
	b.app.SetRoot(b.win.Root(), true)
	b.win.FocusTabs()
	return b
}

// SetScreen replaces the terminal screen, for example with a simulation
// screen.
func (b *Browser) SetScreen(s tcell.Screen) {
	b.app.SetScreen(s)
}

// Window returns the browser window.
func (b *Browser) Window() *Window {
	return b.win
}

// Run starts the event loop and blocks until Stop.
func (b *Browser) Run() error {
	return b.app.Run()
}

// Stop ends the event loop.
func (b *Browser) Stop() {
	b.app.Stop()
}

// QueueUpdate runs fn on the event loop and redraws.
func (b *Browser) QueueUpdate(fn func()) {
	b.app.QueueUpdateDraw(fn)
}
