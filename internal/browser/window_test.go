package browser

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/dshills/keyward/internal/input"
	"github.com/dshills/keyward/internal/input/action"
	"github.com/dshills/keyward/internal/input/keymap"
)

type fakeFocus struct {
	p tview.Primitive
}

func (f *fakeFocus) SetFocus(p tview.Primitive) *tview.Application {
	f.p = p
	return nil
}

func (f *fakeFocus) GetFocus() tview.Primitive { return f.p }

var (
	testNormalKeys = keymap.Source{
		"close_tab":          "D",
		"new_tab":            "Ctrl+T",
		"next_tab":           "Shift+J",
		"prev_tab":           "Shift+K",
		"choose_tab":         "Shift+T",
		"quickmark":          "G",
		"quickmark_newtab":   "Shift+G",
		"follow_link":        "F",
		"focus_input":        "I",
		"open_url":           "O",
		"focus_address_bar":  "Ctrl+L",
		"back":               "Shift+H",
		"forward":            "Shift+L",
		"reload":             "R",
		"scroll_down":        "J",
		"scroll_up":          "K",
		"toggle_passthrough": "Ctrl+Z",
		"show_help":          "F1",
		"quit":               "Ctrl+Q",
	}
	testInsertKeys = keymap.Source{
		"exit_text_input": "Esc",
		"close_tab":       "Ctrl+W",
	}
	testMarks = map[string]string{
		"g": "https://github.com",
		"n": "https://news.example",
		"N": "https://north.example",
		"1": "https://one.example",
	}
)

type harness struct {
	t     *testing.T
	win   *Window
	disp  *input.Dispatcher
	focus *fakeFocus
	quits int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	reg := action.NewRegistry()
	if err := RegisterActions(reg); err != nil {
		t.Fatalf("RegisterActions() error = %v", err)
	}
	normal, report := keymap.BuildWithReport(keymap.ModeNormal, testNormalKeys, nil, reg)
	if !report.Clean() {
		t.Fatalf("normal report = %+v", report)
	}
	insert := keymap.Build(keymap.ModeInsert, testInsertKeys, nil, reg)

	h := &harness{t: t, focus: &fakeFocus{}}
	h.disp = input.New(normal, insert, input.WithMetrics(input.NewMetrics()))
	h.win = NewWindow(h.focus, h.disp,
		WithQuickmarks(testMarks),
		WithQuitFunc(func() { h.quits++ }))
	return h
}

// press sends a key and reports whether the dispatcher consumed it.
func (h *harness) press(k tcell.Key, r rune, mods tcell.ModMask) bool {
	return h.win.HandleKey(tcell.NewEventKey(k, r, mods)) == nil
}

func (h *harness) rune(r rune) bool {
	return h.press(tcell.KeyRune, r, tcell.ModNone)
}

func (h *harness) ctrl(r rune) bool {
	return h.press(tcell.KeyRune, r, tcell.ModCtrl)
}

func (h *harness) url() string {
	return h.win.Current().URL()
}

func TestNewWindow(t *testing.T) {
	h := newHarness(t)
	if h.win.TabCount() != 1 || h.url() != HomePage {
		t.Fatalf("tabs = %d, url = %q", h.win.TabCount(), h.url())
	}
	if h.focus.p != h.win.Current().text {
		t.Error("page view does not have focus")
	}
	if h.win.Focused() != h.win.Current().view {
		t.Error("Focused() is not the page view")
	}
}

func TestTabActions(t *testing.T) {
	h := newHarness(t)

	h.ctrl('t')
	h.ctrl('t')
	if h.win.TabCount() != 3 || h.win.CurrentIndex() != 2 {
		t.Fatalf("after new_tab: tabs = %d, current = %d", h.win.TabCount(), h.win.CurrentIndex())
	}

	h.rune('K')
	if h.win.CurrentIndex() != 1 {
		t.Errorf("prev_tab: current = %d", h.win.CurrentIndex())
	}
	h.rune('J')
	h.rune('J')
	if h.win.CurrentIndex() != 0 {
		t.Errorf("next_tab wrap: current = %d", h.win.CurrentIndex())
	}

	if !h.rune('d') {
		t.Fatal("d not consumed")
	}
	if h.win.TabCount() != 2 {
		t.Errorf("close_tab: tabs = %d", h.win.TabCount())
	}

	h.rune('d')
	h.rune('d')
	if h.win.TabCount() != 1 || h.url() != HomePage {
		t.Errorf("closing the last tab: tabs = %d, url = %q", h.win.TabCount(), h.url())
	}
}

func TestQuickmark(t *testing.T) {
	h := newHarness(t)

	if !h.rune('g') || !h.win.QuickmarkPending() {
		t.Fatal("quickmark not pending after g")
	}
	if !h.rune('n') {
		t.Fatal("mark key not consumed")
	}
	if h.win.QuickmarkPending() || h.url() != "https://news.example" {
		t.Errorf("pending = %v, url = %q", h.win.QuickmarkPending(), h.url())
	}

	h.rune('g')
	h.rune('N')
	if h.url() != "https://north.example" {
		t.Errorf("shifted mark: url = %q", h.url())
	}

	h.rune('g')
	h.rune('z')
	if !strings.Contains(h.win.Status(), "no quickmark z") {
		t.Errorf("status = %q", h.win.Status())
	}

	h.rune('G')
	h.rune('1')
	if h.win.TabCount() != 2 || h.url() != "https://one.example" {
		t.Errorf("quickmark_newtab: tabs = %d, url = %q", h.win.TabCount(), h.url())
	}

	h.rune('g')
	h.press(tcell.KeyEscape, 0, tcell.ModNone)
	if h.win.QuickmarkPending() || h.url() != "https://one.example" {
		t.Error("Escape did not cancel the quickmark")
	}
}

func TestChooseTab(t *testing.T) {
	h := newHarness(t)
	h.ctrl('t')
	h.ctrl('t')

	h.rune('T')
	if !h.win.ChooseTabPending() {
		t.Fatal("choose tab not pending")
	}
	h.rune('1')
	if h.win.ChooseTabPending() || h.win.CurrentIndex() != 0 {
		t.Errorf("pending = %v, current = %d", h.win.ChooseTabPending(), h.win.CurrentIndex())
	}

	h.rune('T')
	h.rune('9')
	if h.win.CurrentIndex() != 0 || !strings.Contains(h.win.Status(), "no tab") {
		t.Errorf("unknown label: current = %d, status = %q", h.win.CurrentIndex(), h.win.Status())
	}
}

func TestFollowLink(t *testing.T) {
	h := newHarness(t)
	tab := h.win.Current()

	h.rune('f')
	if !tab.FollowLinkPending() {
		t.Fatal("follow not pending")
	}
	if len(tab.hints) != len(tab.page.links) {
		t.Fatalf("hints = %v for %d links", tab.hints, len(tab.page.links))
	}
	target := tab.page.links[1]

	// "s" is the second label.
	if !h.rune('s') {
		t.Fatal("hint key not consumed")
	}
	if tab.FollowLinkPending() || tab.URL() != target {
		t.Errorf("pending = %v, url = %q, want %q", tab.FollowLinkPending(), tab.URL(), target)
	}

	// Keys that match no hint fall through to the key map.
	h.rune('f')
	if !h.rune('j') {
		t.Fatal("j not consumed")
	}
	if !tab.FollowLinkPending() {
		t.Error("non-hint key ended following")
	}
	h.press(tcell.KeyEscape, 0, tcell.ModNone)
	if tab.FollowLinkPending() {
		t.Error("Escape did not cancel following")
	}
}

func TestHistory(t *testing.T) {
	h := newHarness(t)
	h.win.Open("example.com")
	h.win.Open("example.org")

	h.rune('H')
	if h.url() != "https://example.com" {
		t.Errorf("back: url = %q", h.url())
	}
	h.rune('L')
	if h.url() != "https://example.org" {
		t.Errorf("forward: url = %q", h.url())
	}
	h.rune('L')
	if !strings.Contains(h.win.Status(), "end of history") {
		t.Errorf("status = %q", h.win.Status())
	}

	h.rune('H')
	h.win.Open("example.net")
	if h.win.Current().Forward() {
		t.Error("navigating did not drop forward history")
	}
	if !h.rune('r') {
		t.Error("reload not consumed")
	}
}

func TestTextInput(t *testing.T) {
	h := newHarness(t)
	tab := h.win.Current()

	h.rune('i')
	if !tab.TextInputFocused() {
		t.Fatal("page field not focused")
	}

	// Unbound keys reach the field; bound insert keys act.
	if h.rune('d') {
		t.Error("d consumed in text input")
	}
	if h.win.TabCount() != 1 {
		t.Error("normal binding fired in text input")
	}
	if !h.press(tcell.KeyEscape, 0, tcell.ModNone) {
		t.Fatal("Esc not consumed")
	}
	if tab.TextInputFocused() || h.focus.p != tab.text {
		t.Error("focus did not return to the page view")
	}

	snap := h.disp.Metrics().Snapshot()
	if snap.ByOutcome[input.OutcomeFocusRedirect.String()] == 0 {
		t.Errorf("no focus redirect recorded: %v", snap.ByOutcome)
	}
}

func TestAddressBar(t *testing.T) {
	h := newHarness(t)

	h.ctrl('l')
	if h.focus.p != h.win.address || h.win.address.GetText() != HomePage {
		t.Fatal("address bar not focused")
	}
	if h.rune('d') {
		t.Error("key consumed while editing the address")
	}

	h.win.address.SetText("example.com")
	h.win.addressDone(tcell.KeyEnter)
	if h.url() != "https://example.com" || h.focus.p != h.win.Current().text {
		t.Errorf("url = %q, focus = %T", h.url(), h.focus.p)
	}
}

func TestPassthrough(t *testing.T) {
	h := newHarness(t)
	tab := h.win.Current()

	h.ctrl('z')
	if !tab.ForcePassthrough() {
		t.Fatal("passthrough not on")
	}
	if h.rune('d') || h.ctrl('z') {
		t.Error("key consumed in passthrough")
	}

	if tab.capture(tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModCtrl)) != nil {
		t.Error("tab did not take the exit key")
	}
	if tab.ForcePassthrough() {
		t.Error("passthrough still on")
	}
	if tab.capture(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)) == nil {
		t.Error("tab swallowed a key outside passthrough")
	}
}

func TestOpenURLDialog(t *testing.T) {
	h := newHarness(t)

	h.rune('o')
	if !h.win.Asking() || h.focus.p != h.win.dialog.input {
		t.Fatal("dialog not open")
	}

	// Tab cycles completions through the helper dialog.
	if !h.press(tcell.KeyTab, 0, tcell.ModNone) {
		t.Fatal("Tab not consumed")
	}
	first := h.win.dialog.input.GetText()
	h.press(tcell.KeyTab, 0, tcell.ModNone)
	h.press(tcell.KeyBacktab, 0, tcell.ModNone)
	if h.win.dialog.input.GetText() != first || first == "" {
		t.Errorf("completion = %q, want %q", h.win.dialog.input.GetText(), first)
	}

	// Everything else reaches the dialog's field.
	if h.rune('d') {
		t.Error("d consumed inside the dialog")
	}

	h.win.dialog.finish(tcell.KeyEnter)
	if h.win.Asking() || h.win.TabCount() != 2 || h.url() != first {
		t.Errorf("asking = %v, tabs = %d, url = %q", h.win.Asking(), h.win.TabCount(), h.url())
	}

	h.rune('o')
	h.win.dialog.finish(tcell.KeyEscape)
	if h.win.TabCount() != 2 {
		t.Error("cancelled dialog opened a tab")
	}
}

func TestHelp(t *testing.T) {
	h := newHarness(t)

	h.press(tcell.KeyF1, 0, tcell.ModNone)
	if !h.win.HelpVisible() || !h.disp.Disabled() {
		t.Fatal("help not shown with filtering suspended")
	}
	text := h.win.help.text.GetText(true)
	if !strings.Contains(text, "close_tab") || !strings.Contains(text, "exit_text_input") {
		t.Errorf("help text missing bindings:\n%s", text)
	}
	if h.rune('d') {
		t.Error("key consumed while help is shown")
	}

	h.win.help.capture(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	if h.win.HelpVisible() || h.disp.Disabled() {
		t.Error("help still shown or filtering still suspended")
	}
	if !h.rune('d') {
		t.Error("filtering not restored")
	}
}

func TestQuit(t *testing.T) {
	h := newHarness(t)
	h.ctrl('q')
	if h.quits != 1 {
		t.Errorf("quits = %d", h.quits)
	}
}

func TestScroll(t *testing.T) {
	h := newHarness(t)
	tab := h.win.Current()
	h.rune('j')
	h.rune('j')
	if row, _ := tab.text.GetScrollOffset(); row != 2 {
		t.Errorf("row = %d after two scroll_down", row)
	}
	h.rune('k')
	h.rune('k')
	h.rune('k')
	if row, _ := tab.text.GetScrollOffset(); row != 0 {
		t.Errorf("row = %d after scrolling past the top", row)
	}
}

func TestSetQuickmarks(t *testing.T) {
	h := newHarness(t)
	h.win.SetQuickmarks(map[string]string{"x": "https://x.example", "bad": "ignored"})
	h.rune('g')
	h.rune('x')
	if h.url() != "https://x.example" {
		t.Errorf("url = %q", h.url())
	}
	if got := h.win.Quickmarks(); len(got) != 1 {
		t.Errorf("Quickmarks() = %v", got)
	}
}

func TestActionsOutsideWindow(t *testing.T) {
	for _, a := range Actions() {
		if a.Invoke(&action.Context{}) {
			t.Errorf("%s returned true without a window", a.Name)
		}
		if a.Invoke(nil) {
			t.Errorf("%s returned true for a nil context", a.Name)
		}
	}
}

func TestOpenURLDialogFiltersByTypedText(t *testing.T) {
	h := newHarness(t)

	h.rune('o')
	h.win.dialog.input.SetText("north")
	h.press(tcell.KeyTab, 0, tcell.ModNone)
	if got := h.win.dialog.input.GetText(); got != "https://north.example" {
		t.Errorf("completion = %q", got)
	}

	h.win.dialog.input.SetText("zzzz")
	h.press(tcell.KeyTab, 0, tcell.ModNone)
	if got := h.win.dialog.input.GetText(); got != "zzzz" {
		t.Errorf("text without matches changed to %q", got)
	}
}

func TestRankCompletions(t *testing.T) {
	items := []string{"https://news.example", "https://github.com", "https://one.example"}

	if got := rankCompletions("  ", items); len(got) != 3 || got[0] != items[0] {
		t.Errorf("empty pattern = %v", got)
	}
	got := rankCompletions("gh", items)
	if len(got) != 1 || got[0] != "https://github.com" {
		t.Errorf("rankCompletions(gh) = %v", got)
	}
	if got := rankCompletions("qqq", items); len(got) != 0 {
		t.Errorf("rankCompletions(qqq) = %v", got)
	}
}
