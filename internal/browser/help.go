package browser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/dshills/keyward/internal/input"
	"github.com/dshills/keyward/internal/input/action"
	"github.com/dshills/keyward/internal/input/keymap"
)

// helpPage lists the key bindings of both modes. Key filtering is
// suspended while it is shown.
type helpPage struct {
	win     *Window
	text    *tview.TextView
	guard   action.Guard
	visible bool
}

func newHelpPage(w *Window) *helpPage {
	h := &helpPage{win: w}
	h.text = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	h.text.SetBorder(true).
		SetTitle(" Keys (Esc or q to close) ").
		SetBorderColor(tcell.ColorYellow)
	h.text.SetInputCapture(h.capture)
	return h
}

// ShowHelp opens the help page. guard, if not nil, is released when the
// page closes.
func (w *Window) ShowHelp(guard action.Guard) {
	h := w.help
	if h.guard != nil {
		h.guard.Release()
	}
	h.guard = guard
	h.text.SetText(helpText(w.dispatcher))
	h.text.ScrollToBeginning()
	h.visible = true
	w.overlay.ShowPage(pageHelp)
	w.setFocus(h.text)
}

// HideHelp closes the help page.
func (w *Window) HideHelp() {
	h := w.help
	h.visible = false
	w.overlay.HidePage(pageHelp)
	if h.guard != nil {
		h.guard.Release()
		h.guard = nil
	}
	w.FocusTabs()
}

// HelpVisible reports whether the help page is shown.
func (w *Window) HelpVisible() bool {
	return w.help.visible
}

func (h *helpPage) capture(ev *tcell.EventKey) *tcell.EventKey {
	if ev.Key() == tcell.KeyEscape || (ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == '?')) {
		h.win.HideHelp()
		return nil
	}
	return ev
}

// helpText renders the bindings of each mode, grouped by action.
func helpText(d Dispatcher) string {
	var b strings.Builder
	for _, mode := range keymap.Modes() {
		fmt.Fprintf(&b, "[yellow::b]%s mode[-:-:-]\n", mode)
		km := d.KeyMap(mode)
		if km.Len() == 0 {
			b.WriteString("  (no bindings)\n\n")
			continue
		}

		type row struct {
			name, desc string
			keys       []string
		}
		var rows []row
		for _, bnd := range km.Bindings() {
			if n := len(rows); n > 0 && rows[n-1].name == bnd.Action.Name {
				rows[n-1].keys = append(rows[n-1].keys, bnd.Keys())
				continue
			}
			rows = append(rows, row{name: bnd.Action.Name, desc: bnd.Action.Description, keys: []string{bnd.Keys()}})
		}
		for _, r := range rows {
			fmt.Fprintf(&b, "  [white]%-24s[-] %-20s %s\n",
				tview.Escape(strings.Join(r.keys, ", ")), r.name, tview.Escape(r.desc))
		}
		b.WriteString("\n")
	}

	if m := d.Metrics(); m != nil {
		snap := m.Snapshot()
		fmt.Fprintf(&b, "[yellow::b]dispatch[-:-:-]\n  %d events, %d consumed, %d actions, %d panics\n",
			snap.EventsTotal, snap.ConsumedTotal, snap.ActionsTotal, snap.Panics)
		outcomes := make([]string, 0, len(snap.ByOutcome))
		for name := range snap.ByOutcome {
			outcomes = append(outcomes, name)
		}
		sort.Strings(outcomes)
		for _, name := range outcomes {
			fmt.Fprintf(&b, "  %-20s %d\n", name, snap.ByOutcome[name])
		}
	}
	return b.String()
}

var _ Dispatcher = (*input.Dispatcher)(nil)
