package browser

import (
	"github.com/rivo/tview"

	"github.com/dshills/keyward/internal/input/host"
)

// The types below present tview primitives to the dispatcher. tview has no
// parent links, so each wrapper knows its container.

// tabContainer wraps the pages holding the tabs.
type tabContainer struct {
	win *Window
}

func (c *tabContainer) Parent() host.Widget { return nil }

// CurrentView returns the view of the current tab, or nil without tabs.
func (c *tabContainer) CurrentView() host.View {
	t := c.win.Current()
	if t == nil {
		return nil
	}
	return t.view
}

// pageView wraps the text view of one tab.
type pageView struct {
	tab *Tab
}

func (v *pageView) Parent() host.Widget { return v.tab.win.container }

// FocusView moves keyboard focus to the page text.
func (v *pageView) FocusView() {
	v.tab.win.setFocus(v.tab.text)
}

// pageField wraps the text field inside a page.
type pageField struct {
	tab *Tab
}

func (f *pageField) Parent() host.Widget { return f.tab.view }

// addressBar wraps the address input. Typing there must reach the field.
type addressBar struct{}

func (addressBar) Parent() host.Widget   { return nil }
func (addressBar) PassthroughKeys() bool { return true }

// track registers the widget presented for a primitive.
func (w *Window) track(p tview.Primitive, widget host.Widget) {
	w.widgets[p] = widget
}

func (w *Window) untrack(p tview.Primitive) {
	delete(w.widgets, p)
}

// Focused returns the widget with keyboard focus, or nil when focus is on
// a primitive the dispatcher does not know.
func (w *Window) Focused() host.Widget {
	p := w.focus.GetFocus()
	if p == nil {
		return nil
	}
	if widget, ok := w.widgets[p]; ok {
		return widget
	}
	return nil
}

func (w *Window) setFocus(p tview.Primitive) {
	w.focus.SetFocus(p)
}
