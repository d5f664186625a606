package browser

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/sahilm/fuzzy"

	"github.com/dshills/keyward/internal/input/host"
	"github.com/dshills/keyward/internal/input/key"
)

// askDialog is a modal one-line prompt with completion cycling. It is the
// dispatcher's helper dialog: Tab and Shift+Tab typed into its entry are
// handed to HandleKey instead of moving focus.
type askDialog struct {
	win   *Window
	root  tview.Primitive
	frame *tview.Flex
	input *tview.InputField
	entry *askEntry

	completions []string
	matches     []string
	index       int
	setting     bool
	done        func(text string, ok bool)
	open        bool
}

// askEntry presents the dialog's input field to the dispatcher.
type askEntry struct {
	dlg *askDialog
}

func (e *askEntry) Parent() host.Widget             { return e.dlg }
func (e *askEntry) HelperDialog() host.HelperDialog { return e.dlg }

func newAskDialog(w *Window) *askDialog {
	d := &askDialog{win: w, index: -1}
	d.entry = &askEntry{dlg: d}

	d.input = tview.NewInputField().SetFieldWidth(0)
	d.input.SetDoneFunc(d.finish)
	d.input.SetChangedFunc(func(string) {
		// Typing starts a new completion cycle.
		if !d.setting {
			d.index = -1
		}
	})

	d.frame = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(d.input, 1, 0, true)
	d.frame.SetBorder(true)

	// Center the frame.
	d.root = tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(d.frame, 3, 0, true).
			AddItem(nil, 0, 1, false), 0, 3, true).
		AddItem(nil, 0, 1, false)

	w.track(d.input, d.entry)
	return d
}

func (d *askDialog) Parent() host.Widget { return nil }

// IsDialog marks the prompt as modal so the dispatcher leaves its keys
// alone.
func (d *askDialog) IsDialog() bool { return true }

// HandleKey cycles through the completions matching the typed text:
// Tab forward, Shift+Tab back.
func (d *askDialog) HandleKey(code key.Code) {
	if d.index < 0 {
		d.matches = rankCompletions(d.input.GetText(), d.completions)
	}
	n := len(d.matches)
	if n == 0 {
		return
	}
	if code.Modifiers().Has(key.ModShift) {
		d.index--
		if d.index < 0 {
			d.index = n - 1
		}
	} else {
		d.index = (d.index + 1) % n
	}
	d.setting = true
	d.input.SetText(d.matches[d.index])
	d.setting = false
}

// rankCompletions returns the items fuzzy-matching pattern, best first.
// An empty pattern matches every item in order.
func rankCompletions(pattern string, items []string) []string {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return append([]string(nil), items...)
	}
	found := fuzzy.Find(pattern, items)
	out := make([]string, len(found))
	for i, m := range found {
		out[i] = m.Str
	}
	return out
}

// Ask opens the prompt. done is called once with the entered text, or
// with ok false when the prompt was cancelled.
func (w *Window) Ask(title, initial string, completions []string, done func(text string, ok bool)) {
	d := w.dialog
	d.completions = completions
	d.matches = nil
	d.index = -1
	d.done = done
	d.open = true
	d.frame.SetTitle(" " + title + " ")
	d.input.SetText(initial)

	w.overlay.ShowPage(pageDialog)
	w.setFocus(d.input)
}

// Asking reports whether the prompt is open.
func (w *Window) Asking() bool {
	return w.dialog.open
}

func (d *askDialog) finish(k tcell.Key) {
	if !d.open {
		return
	}
	d.open = false
	d.win.overlay.HidePage(pageDialog)

	done := d.done
	d.done = nil
	text := d.input.GetText()
	d.input.SetText("")
	d.win.FocusTabs()

	if done != nil {
		done(text, k == tcell.KeyEnter)
	}
}
