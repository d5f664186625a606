package browser

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/dshills/keyward/internal/input"
	"github.com/dshills/keyward/internal/input/host"
	"github.com/dshills/keyward/internal/input/key"
	"github.com/dshills/keyward/internal/input/keymap"
)

// Dispatcher is the part of the key dispatcher the window uses.
type Dispatcher interface {
	Filter(ev input.Event, active host.Window, focused host.Widget) bool
	KeyMap(mode keymap.Mode) *keymap.KeyMap
	Metrics() *input.Metrics
}

// Focuser moves keyboard focus between primitives. *tview.Application
// implements it.
type Focuser interface {
	SetFocus(p tview.Primitive) *tview.Application
	GetFocus() tview.Primitive
}

// Logger receives window diagnostics.
type Logger interface {
	Debug(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Error(string, ...any) {}

type markMode uint8

const (
	markNone markMode = iota
	markOpen
	markNewTab
)

// maxTitleWidth is the widest tab title shown in the tab bar.
const maxTitleWidth = 24

// Overlay page names.
const (
	pageMain   = "main"
	pageDialog = "dialog"
	pageHelp   = "help"
)

// Window is the main browser window.
type Window struct {
	focus      Focuser
	dispatcher Dispatcher
	logger     Logger
	onQuit     func()

	homePage   string
	quickmarks map[rune]string
	theme      Theme

	overlay *tview.Pages
	tabBar  *tview.TextView
	pages   *tview.Pages
	address *tview.InputField
	status  *tview.TextView

	container *tabContainer
	widgets   map[tview.Primitive]host.Widget

	tabs    []*Tab
	current int

	marking  markMode
	choosing bool

	dialog *askDialog
	help   *helpPage
}

// Option configures a Window.
type Option func(*Window)

// WithHomePage sets the address of new tabs.
func WithHomePage(address string) Option {
	return func(w *Window) {
		if address != "" {
			w.homePage = address
		}
	}
}

// WithQuickmarks sets the initial quickmarks.
func WithQuickmarks(marks map[string]string) Option {
	return func(w *Window) {
		w.quickmarks = convertMarks(marks)
	}
}

// WithTheme sets the highlight colors.
func WithTheme(th Theme) Option {
	return func(w *Window) {
		w.theme = th
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l Logger) Option {
	return func(w *Window) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithQuitFunc sets the function the quit action calls.
func WithQuitFunc(fn func()) Option {
	return func(w *Window) {
		w.onQuit = fn
	}
}

// NewWindow builds the window with one tab on the home page.
func NewWindow(focus Focuser, d Dispatcher, opts ...Option) *Window {
	w := &Window{
		focus:      focus,
		dispatcher: d,
		logger:     nopLogger{},
		onQuit:     func() {},
		homePage:   HomePage,
		theme:      DefaultTheme(),
		quickmarks: make(map[rune]string),
		widgets:    make(map[tview.Primitive]host.Widget),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.container = &tabContainer{win: w}

	w.tabBar = tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	w.pages = tview.NewPages()
	w.address = tview.NewInputField().SetLabel(" url: ").SetFieldWidth(0)
	w.address.SetDoneFunc(w.addressDone)
	w.status = tview.NewTextView().SetDynamicColors(true)

	w.track(w.pages, w.container)
	w.track(w.address, addressBar{})

	main := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(w.tabBar, 1, 0, false).
		AddItem(w.pages, 0, 1, true).
		AddItem(w.address, 1, 0, false).
		AddItem(w.status, 1, 0, false)

	w.dialog = newAskDialog(w)
	w.help = newHelpPage(w)

	w.overlay = tview.NewPages().
		AddPage(pageMain, main, true, true).
		AddPage(pageDialog, w.dialog.root, true, false).
		AddPage(pageHelp, w.help.text, true, false)

	w.OpenTab(w.homePage, false)
	return w
}

// Root returns the primitive to install as the application root.
func (w *Window) Root() tview.Primitive {
	return w.overlay
}

// HandleKey offers a terminal key event to the dispatcher. It returns nil
// when the dispatcher consumed the key.
func (w *Window) HandleKey(ev *tcell.EventKey) *tcell.EventKey {
	if w.dispatcher.Filter(input.FromTcell(ev), w, w.Focused()) {
		return nil
	}
	return ev
}

// FocusTabs returns focus to the tab area. The dispatcher hands it to the
// current page view; without one the container itself keeps it.
func (w *Window) FocusTabs() {
	if !w.dispatcher.Filter(input.FocusIn(w.container), w, w.Focused()) {
		w.setFocus(w.pages)
	}
}

// QuickmarkPending reports whether the next key selects a quickmark.
func (w *Window) QuickmarkPending() bool { return w.marking != markNone }

// StartQuickmark waits for a quickmark key, opening the mark in a new tab
// when newTab is set.
func (w *Window) StartQuickmark(newTab bool) {
	w.marking = markOpen
	if newTab {
		w.marking = markNewTab
	}
	w.SetStatus("quickmark: press a mark (0-9, a-z, A-Z), Esc to cancel")
}

// Quickmark consumes the key selecting a quickmark.
func (w *Window) Quickmark(code key.Code) {
	mode := w.marking
	w.marking = markNone
	if isEscape(code) {
		w.SetStatus("")
		return
	}

	mark, ok := MarkForCode(code)
	if !ok {
		w.SetStatus(fmt.Sprintf("%s is not a quickmark key", key.Display(code)))
		return
	}
	address, ok := w.quickmarks[mark]
	if !ok {
		w.SetStatus(fmt.Sprintf("no quickmark %c", mark))
		return
	}
	w.SetStatus("")
	if mode == markNewTab {
		w.OpenTab(address, false)
		return
	}
	w.Open(address)
}

// ChooseTabPending reports whether the next key selects a tab.
func (w *Window) ChooseTabPending() bool { return w.choosing }

// StartChooseTab labels the tabs and waits for a label key.
func (w *Window) StartChooseTab() {
	w.choosing = true
	w.SetStatus("choose tab: press its label, Esc to cancel")
	w.tabsChanged()
}

// ChooseTab consumes the key selecting a tab.
func (w *Window) ChooseTab(code key.Code) {
	w.choosing = false
	defer w.tabsChanged()

	if isEscape(code) {
		w.SetStatus("")
		return
	}
	var i int
	label, ok := MarkForCode(code)
	if ok {
		i, ok = tabIndex(label)
	}
	if !ok || i >= len(w.tabs) {
		w.SetStatus(fmt.Sprintf("no tab %s", key.Display(code)))
		return
	}
	w.SetStatus("")
	w.Select(i)
}

// CurrentTab returns the active tab, or nil when no tab is open.
func (w *Window) CurrentTab() host.Tab {
	t := w.Current()
	if t == nil {
		return nil
	}
	return t
}

// Current returns the active tab.
func (w *Window) Current() *Tab {
	if w.current < 0 || w.current >= len(w.tabs) {
		return nil
	}
	return w.tabs[w.current]
}

// Tabs returns the open tabs in order.
func (w *Window) Tabs() []*Tab {
	return append([]*Tab(nil), w.tabs...)
}

// TabCount returns the number of open tabs.
func (w *Window) TabCount() int { return len(w.tabs) }

// CurrentIndex returns the position of the active tab.
func (w *Window) CurrentIndex() int { return w.current }

// OpenTab opens address in a new tab after the current one. Background
// tabs do not become current.
func (w *Window) OpenTab(address string, background bool) *Tab {
	t := newTab(w, address)
	at := len(w.tabs)
	if len(w.tabs) > 0 {
		at = w.current + 1
	}
	w.tabs = append(w.tabs, nil)
	copy(w.tabs[at+1:], w.tabs[at:])
	w.tabs[at] = t
	w.pages.AddPage(t.ID.String(), t.layout, true, false)

	if !background || len(w.tabs) == 1 {
		w.Select(at)
	} else {
		if at <= w.current {
			w.current++
		}
		w.tabsChanged()
	}
	w.logger.Debug("tab opened", "id", t.ID.String(), "url", t.URL())
	return t
}

// CloseTab closes the tab at index i. Closing the last tab opens the home
// page in its place.
func (w *Window) CloseTab(i int) {
	if i < 0 || i >= len(w.tabs) {
		return
	}
	t := w.tabs[i]
	w.tabs = append(w.tabs[:i], w.tabs[i+1:]...)
	w.pages.RemovePage(t.ID.String())
	t.release()
	w.logger.Debug("tab closed", "id", t.ID.String())

	if len(w.tabs) == 0 {
		w.current = 0
		w.OpenTab(w.homePage, false)
		return
	}
	if w.current > i || w.current >= len(w.tabs) {
		w.current--
	}
	w.Select(w.current)
}

// Select makes the tab at index i current and focuses its view.
func (w *Window) Select(i int) {
	if i < 0 || i >= len(w.tabs) {
		return
	}
	w.current = i
	t := w.tabs[i]
	w.pages.SwitchToPage(t.ID.String())
	w.tabsChanged()
	w.FocusTabs()
}

// Cycle moves the current tab by delta, wrapping around.
func (w *Window) Cycle(delta int) {
	n := len(w.tabs)
	if n == 0 {
		return
	}
	w.Select(((w.current+delta)%n + n) % n)
}

// Open loads address in the current tab.
func (w *Window) Open(address string) {
	if t := w.Current(); t != nil {
		t.Navigate(address)
		return
	}
	w.OpenTab(address, false)
}

// SetQuickmarks replaces the quickmarks.
func (w *Window) SetQuickmarks(marks map[string]string) {
	w.quickmarks = convertMarks(marks)
}

// Quickmarks returns the quickmark addresses in mark order.
func (w *Window) Quickmarks() []string {
	return markLinks(w.quickmarks)
}

// FocusAddress puts focus in the address bar, filled with the current
// address.
func (w *Window) FocusAddress() {
	if t := w.Current(); t != nil {
		w.address.SetText(t.URL())
	}
	w.setFocus(w.address)
}

// FocusInput puts focus in the current page's text field.
func (w *Window) FocusInput() bool {
	t := w.Current()
	if t == nil {
		return false
	}
	w.setFocus(t.field)
	return true
}

// SetStatus shows msg on the status line.
func (w *Window) SetStatus(msg string) {
	w.status.SetText(tview.Escape(msg))
}

// Status returns the status line text.
func (w *Window) Status() string {
	return strings.TrimSpace(w.status.GetText(true))
}

// Theme returns the highlight colors.
func (w *Window) Theme() Theme { return w.theme }

// SetTheme replaces the highlight colors and redraws.
func (w *Window) SetTheme(th Theme) {
	w.theme = th
	if t := w.Current(); t != nil {
		t.render()
	}
	w.tabsChanged()
}

// Quit runs the quit function.
func (w *Window) Quit() {
	w.onQuit()
}

func (w *Window) addressDone(k tcell.Key) {
	if k == tcell.KeyEnter {
		w.Open(w.address.GetText())
	}
	w.address.SetText("")
	w.FocusTabs()
}

// tabsChanged redraws the tab bar.
func (w *Window) tabsChanged() {
	if w.tabBar == nil {
		return
	}
	var b strings.Builder
	for i, t := range w.tabs {
		label := fmt.Sprint(i + 1)
		if w.choosing {
			if r := tabLabel(i); r != 0 {
				label = w.theme.hintTag() + string(r) + "[-:-]"
			} else {
				label = " "
			}
		}
		title := tview.Escape(truncate(t.Title(), maxTitleWidth))
		if i == w.current {
			fmt.Fprintf(&b, " %s %s%s[-::-] ", label, w.theme.activeTabTag(), title)
		} else {
			fmt.Fprintf(&b, " %s %s ", label, title)
		}
	}
	w.tabBar.SetText(b.String())
}

func convertMarks(marks map[string]string) map[rune]string {
	out := make(map[rune]string, len(marks))
	for name, address := range marks {
		r := []rune(name)
		if len(r) != 1 || address == "" {
			continue
		}
		out[r[0]] = address
	}
	return out
}
