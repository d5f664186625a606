package script

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dshills/keyward/internal/input/action"
	"github.com/dshills/keyward/internal/input/host"
	"github.com/dshills/keyward/internal/input/key"
)

type fakeTab struct{ text bool }

func (t *fakeTab) ForcePassthrough() bool   { return false }
func (t *fakeTab) FollowLinkPending() bool  { return false }
func (t *fakeTab) FollowLink(key.Code) bool { return false }
func (t *fakeTab) TextInputFocused() bool   { return t.text }

type fakeWindow struct {
	tabs []*fakeTab
}

func (w *fakeWindow) QuickmarkPending() bool { return false }
func (w *fakeWindow) Quickmark(key.Code)     {}
func (w *fakeWindow) ChooseTabPending() bool { return false }
func (w *fakeWindow) ChooseTab(key.Code)     {}
func (w *fakeWindow) TabCount() int          { return len(w.tabs) }
func (w *fakeWindow) CurrentTab() host.Tab {
	if len(w.tabs) == 0 {
		return nil
	}
	return w.tabs[len(w.tabs)-1]
}

type recordingLogger struct {
	debug  []string
	errors []string
}

func (l *recordingLogger) Debug(msg string, args ...any) {
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] == "message" {
			msg += ": " + args[i+1].(string)
		}
	}
	l.debug = append(l.debug, msg)
}

func (l *recordingLogger) Error(msg string, args ...any) {
	l.errors = append(l.errors, msg)
}

type harness struct {
	reg    *action.Registry
	engine *Engine
	log    *recordingLogger
	window *fakeWindow
	closed int
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		reg:    action.NewRegistry(),
		log:    &recordingLogger{},
		window: &fakeWindow{tabs: []*fakeTab{{}, {}, {}}},
	}
	err := h.reg.RegisterFunc("close_tab", "Close the current tab", func(ctx *action.Context) bool {
		h.closed++
		w := ctx.Window.(*fakeWindow)
		w.tabs = w.tabs[:len(w.tabs)-1]
		return true
	})
	if err != nil {
		t.Fatal(err)
	}
	h.engine = NewEngine(h.reg, append([]Option{WithLogger(h.log)}, opts...)...)
	t.Cleanup(h.engine.Close)
	return h
}

func (h *harness) ctx() *action.Context {
	return &action.Context{Window: h.window, Key: key.MustParse("Ctrl+T"), Mode: "normal"}
}

func (h *harness) mustCompile(t *testing.T, name, src string) *action.Action {
	t.Helper()
	a, err := h.engine.Compile(name, src)
	if err != nil {
		t.Fatalf("Compile(%s) error = %v", name, err)
	}
	return a
}

func TestReturnValueControlsSwallow(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"return true", true},
		{"return false", false},
		{"return nil", true},
		{"local x = 1", true},
		{"return 0", true},
	}
	h := newHarness(t)
	for _, tt := range tests {
		a := h.mustCompile(t, "a", tt.src)
		if got := a.Invoke(h.ctx()); got != tt.want {
			t.Errorf("%q returned %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestKeysModule(t *testing.T) {
	h := newHarness(t)
	h.window.tabs[2].text = true

	a := h.mustCompile(t, "probe", `
		keys.log(keys.mode(), keys.key(), keys.tab_count(), keys.text_input())
		return keys.text_input()
	`)
	if !a.Invoke(h.ctx()) {
		t.Error("text_input() = false, want true")
	}
	if len(h.log.debug) != 1 || h.log.debug[0] != "script: normal Ctrl+T 3 true" {
		t.Errorf("debug log = %v", h.log.debug)
	}
}

func TestRunInvokesRegisteredActions(t *testing.T) {
	h := newHarness(t)
	a := h.mustCompile(t, "close_all", `
		while keys.tab_count() > 1 do keys.run("close_tab") end
	`)
	if !a.Invoke(h.ctx()) {
		t.Error("close_all returned false")
	}
	if h.closed != 2 || len(h.window.tabs) != 1 {
		t.Errorf("closed = %d, tabs = %d", h.closed, len(h.window.tabs))
	}
}

func TestRunNestedScripts(t *testing.T) {
	h := newHarness(t)
	_, errs := h.engine.Register(map[string]string{
		"inner": "return false",
		"outer": "return not keys.run('inner')",
	})
	if len(errs) != 0 {
		t.Fatalf("Register() errs = %v", errs)
	}
	outer, _ := h.reg.Lookup("outer")
	if !outer.Invoke(h.ctx()) {
		t.Error("outer returned false")
	}
}

func TestRecursionLimit(t *testing.T) {
	h := newHarness(t, WithMaxDepth(4))
	if _, errs := h.engine.Register(map[string]string{"loop": "return keys.run('loop')"}); len(errs) != 0 {
		t.Fatal(errs)
	}
	a, _ := h.reg.Lookup("loop")
	if a.Invoke(h.ctx()) {
		t.Error("recursive action returned true")
	}
	if len(h.log.errors) != 1 {
		t.Errorf("errors logged = %v", h.log.errors)
	}
}

func TestRuntimeErrorsPassKey(t *testing.T) {
	h := newHarness(t)
	for _, src := range []string{
		"error('boom')",
		"keys.run('missing')",
		"return io.open('x')",
		"return require('os')",
	} {
		if h.mustCompile(t, "bad", src).Invoke(h.ctx()) {
			t.Errorf("%q returned true", src)
		}
	}
	if len(h.log.errors) != 4 {
		t.Errorf("errors logged = %d, want 4", len(h.log.errors))
	}
}

func TestTimeout(t *testing.T) {
	h := newHarness(t, WithTimeout(20*time.Millisecond))
	a := h.mustCompile(t, "spin", "while true do end")

	start := time.Now()
	if a.Invoke(h.ctx()) {
		t.Error("spin returned true")
	}
	if time.Since(start) > 5*time.Second {
		t.Error("timeout not enforced")
	}

	// The state stays usable afterwards.
	if !h.mustCompile(t, "ok", "return true").Invoke(h.ctx()) {
		t.Error("state unusable after timeout")
	}
}

func TestCompileError(t *testing.T) {
	h := newHarness(t)
	_, err := h.engine.Compile("broken", "return (")
	var cerr *CompileError
	if !errors.As(err, &cerr) || cerr.Action != "broken" {
		t.Errorf("Compile() error = %v", err)
	}
}

func TestRegister(t *testing.T) {
	h := newHarness(t)
	registered, errs := h.engine.Register(map[string]string{
		"b_ok":      "return true",
		"a_ok":      "return false",
		"close_tab": "return true",
		"broken":    "return (",
	})
	if strings.Join(registered, ",") != "a_ok,b_ok" {
		t.Errorf("registered = %v", registered)
	}
	if len(errs) != 2 {
		t.Fatalf("errs = %v, want 2", errs)
	}
	if !errors.Is(errs[1], action.ErrDuplicateAction) {
		t.Errorf("errs[1] = %v, want duplicate", errs[1])
	}
	a, ok := h.reg.Lookup("b_ok")
	if !ok || !strings.HasPrefix(a.Description, "script: ") {
		t.Errorf("Lookup(b_ok) = %v, %v", a, ok)
	}
}

func TestClosedEngine(t *testing.T) {
	h := newHarness(t)
	a := h.mustCompile(t, "ok", "return true")
	h.engine.Close()
	h.engine.Close()

	if a.Invoke(h.ctx()) {
		t.Error("action ran after Close")
	}
	if _, err := h.engine.Compile("x", "return true"); err != ErrEngineClosed {
		t.Errorf("Compile() after Close error = %v", err)
	}
}

func TestNilContext(t *testing.T) {
	h := newHarness(t)
	a := h.mustCompile(t, "probe", "return keys.tab_count() == 0 and not keys.text_input() and keys.mode() == ''")
	if !a.Invoke(nil) {
		t.Error("probe with nil context returned false")
	}
}

func TestSummary(t *testing.T) {
	if got := summary("  return true\nmore"); got != "return true" {
		t.Errorf("summary() = %q", got)
	}
	long := strings.Repeat("x", 60)
	if got := summary(long); len(got) != 48 || !strings.HasSuffix(got, "...") {
		t.Errorf("summary(long) = %q", got)
	}
}
