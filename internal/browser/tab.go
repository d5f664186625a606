package browser

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/rivo/tview"

	"github.com/dshills/keyward/internal/input/key"
)

var passthroughExit = key.MustParse("Ctrl+Z")

// Tab is one page of the window. It implements host.Tab.
type Tab struct {
	ID uuid.UUID

	win    *Window
	layout *tview.Flex
	text   *tview.TextView
	field  *tview.InputField
	view   *pageView
	fieldW *pageField

	history []string
	pos     int
	page    page

	following bool
	hints     []string
	typed     string

	passthrough bool
}

func newTab(w *Window, address string) *Tab {
	t := &Tab{
		ID:  uuid.New(),
		win: w,
		pos: -1,
	}
	t.view = &pageView{tab: t}
	t.fieldW = &pageField{tab: t}

	t.text = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true)
	t.field = tview.NewInputField().
		SetLabel("find: ").
		SetFieldWidth(0)
	t.field.SetDoneFunc(t.fieldDone)

	t.layout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.text, 0, 1, true).
		AddItem(t.field, 1, 0, false)
	t.layout.SetInputCapture(t.capture)

	w.track(t.text, t.view)
	w.track(t.field, t.fieldW)

	t.Navigate(address)
	return t
}

// ForcePassthrough reports whether every key goes to the page.
func (t *Tab) ForcePassthrough() bool { return t.passthrough }

// SetPassthrough switches passthrough mode.
func (t *Tab) SetPassthrough(on bool) {
	t.passthrough = on
	if on {
		t.win.SetStatus("-- PASSTHROUGH -- (Ctrl+Z to leave)")
	} else {
		t.win.SetStatus("")
	}
}

// FollowLinkPending reports whether link hints are shown.
func (t *Tab) FollowLinkPending() bool { return t.following }

// StartFollow shows hint labels for every link on the page. It reports
// false when there is nothing to follow.
func (t *Tab) StartFollow() bool {
	if len(t.page.links) == 0 {
		t.win.SetStatus("no links to follow")
		return false
	}
	t.following = true
	t.typed = ""
	t.hints = hintLabels(len(t.page.links), hintAlphabet)
	t.render()
	return true
}

// FollowLink offers a key to the hint overlay. Escape cancels. A key that
// extends the typed prefix is used; one that completes a label opens its
// link. Anything else is left for the key maps.
func (t *Tab) FollowLink(code key.Code) bool {
	if isEscape(code) {
		t.stopFollow()
		return true
	}
	if !code.Modifiers().IsEmpty() {
		return false
	}
	r := code.Rune()
	if r == 0 {
		return false
	}

	typed := t.typed + strings.ToLower(string(r))
	i, prefix := matchHint(t.hints, typed)
	switch {
	case i >= 0:
		link := t.page.links[i]
		t.stopFollow()
		t.Navigate(link)
	case prefix:
		t.typed = typed
		t.render()
	default:
		return false
	}
	return true
}

func (t *Tab) stopFollow() {
	t.following = false
	t.typed = ""
	t.hints = nil
	t.render()
}

// TextInputFocused reports whether the page text field has focus.
func (t *Tab) TextInputFocused() bool {
	return t.win.focus.GetFocus() == t.field
}

// URL returns the current address.
func (t *Tab) URL() string {
	if t.pos < 0 {
		return ""
	}
	return t.history[t.pos]
}

// Title returns the page title.
func (t *Tab) Title() string { return t.page.title }

// Navigate loads address, dropping forward history.
func (t *Tab) Navigate(address string) {
	address = normalizeAddress(address)
	if address == "" {
		return
	}
	t.history = append(t.history[:t.pos+1], address)
	t.pos = len(t.history) - 1
	t.load()
}

// Back goes one step back in history. It reports false at the start.
func (t *Tab) Back() bool {
	if t.pos <= 0 {
		return false
	}
	t.pos--
	t.load()
	return true
}

// Forward goes one step forward in history. It reports false at the end.
func (t *Tab) Forward() bool {
	if t.pos >= len(t.history)-1 {
		return false
	}
	t.pos++
	t.load()
	return true
}

// Reload renders the current address again.
func (t *Tab) Reload() {
	t.load()
}

// Scroll moves the page text by lines.
func (t *Tab) Scroll(lines int) {
	row, col := t.text.GetScrollOffset()
	row += lines
	if row < 0 {
		row = 0
	}
	t.text.ScrollTo(row, col)
}

func (t *Tab) load() {
	t.following = false
	t.typed = ""
	t.hints = nil
	t.page = loadPage(t.URL(), t.win.quickmarks)
	t.render()
	t.text.ScrollToBeginning()
	t.win.tabsChanged()
}

func (t *Tab) render() {
	var b strings.Builder
	b.WriteString(tview.Escape(t.page.body))
	if len(t.page.links) > 0 {
		b.WriteString("\nLinks:\n")
		for i, link := range t.page.links {
			if t.following {
				label := t.hints[i]
				if strings.HasPrefix(label, t.typed) {
					th := t.win.theme
					fmt.Fprintf(&b, "  %s%s%s%s[-:-:-] %s\n",
						th.typedTag(), t.typed, th.hintTag(), label[len(t.typed):], tview.Escape(link))
					continue
				}
				fmt.Fprintf(&b, "  %s %s\n", strings.Repeat(" ", len(label)), tview.Escape(link))
				continue
			}
			fmt.Fprintf(&b, "  - %s\n", tview.Escape(link))
		}
	}
	t.text.SetText(b.String())
}

// capture leaves passthrough mode. While passthrough is on the dispatcher
// lets every key through, so the tab catches the exit key itself.
func (t *Tab) capture(ev *tcell.EventKey) *tcell.EventKey {
	if t.passthrough && key.FromTcell(ev) == passthroughExit {
		t.SetPassthrough(false)
		return nil
	}
	return ev
}

func (t *Tab) fieldDone(k tcell.Key) {
	if k == tcell.KeyEnter {
		if q := strings.TrimSpace(t.field.GetText()); q != "" {
			t.win.SetStatus(fmt.Sprintf("find %q: no matches", q))
		}
	}
	t.win.FocusTabs()
}

func (t *Tab) release() {
	t.win.untrack(t.text)
	t.win.untrack(t.field)
}
