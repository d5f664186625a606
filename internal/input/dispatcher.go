package input

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/dshills/keyward/internal/input/action"
	"github.com/dshills/keyward/internal/input/host"
	"github.com/dshills/keyward/internal/input/key"
	"github.com/dshills/keyward/internal/input/keymap"
)

// Logger receives dispatch diagnostics.
type Logger interface {
	Debug(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Error(string, ...any) {}

// Result describes how an event was decided.
type Result struct {
	// Consumed is true when the event must not reach the focused widget.
	Consumed bool

	// Outcome names the rule that decided the event.
	Outcome Outcome

	// Action is the name of the invoked action, if any.
	Action string
}

func passed(o Outcome) Result   { return Result{Outcome: o} }
func consumed(o Outcome) Result { return Result{Consumed: true, Outcome: o} }

// keyMaps pairs the maps that are swapped together on reload.
type keyMaps struct {
	normal *keymap.KeyMap
	insert *keymap.KeyMap
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger for dispatch diagnostics.
func WithLogger(l Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithPanicRecovery controls whether panics raised by actions are
// recovered and logged (the default) or propagated to the caller.
func WithPanicRecovery(enabled bool) Option {
	return func(d *Dispatcher) {
		d.recoverPanics = enabled
	}
}

// Dispatcher decides for each input event whether it is consumed by a key
// binding or a pending input mode, or passed to the focused widget.
//
// Filter is meant to be called from the UI goroutine only. Key maps may be
// replaced at any time with SetKeyMaps.
type Dispatcher struct {
	maps     atomic.Pointer[keyMaps]
	disabled atomic.Int32

	logger        Logger
	metrics       *Metrics
	recoverPanics bool
}

// New creates a dispatcher using the given normal and insert mode maps.
// Nil maps are treated as empty.
func New(normal, insert *keymap.KeyMap, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		logger:        nopLogger{},
		recoverPanics: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.SetKeyMaps(normal, insert)
	return d
}

// SetKeyMaps replaces both key maps at once.
func (d *Dispatcher) SetKeyMaps(normal, insert *keymap.KeyMap) {
	if normal == nil {
		normal = keymap.Empty(keymap.ModeNormal)
	}
	if insert == nil {
		insert = keymap.Empty(keymap.ModeInsert)
	}
	d.maps.Store(&keyMaps{normal: normal, insert: insert})
}

// KeyMap returns the map currently used for mode.
func (d *Dispatcher) KeyMap(mode keymap.Mode) *keymap.KeyMap {
	maps := d.maps.Load()
	if mode == keymap.ModeInsert {
		return maps.insert
	}
	return maps.normal
}

// Metrics returns the metrics collector, which may be nil.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Filter offers an event to the dispatcher and reports whether it was
// consumed. active is the main window when it is the active top-level
// window and nil otherwise; focused is the widget with keyboard focus.
func (d *Dispatcher) Filter(ev Event, active host.Window, focused host.Widget) bool {
	return d.Dispatch(ev, active, focused).Consumed
}

// Dispatch is Filter, returning the full decision.
func (d *Dispatcher) Dispatch(ev Event, active host.Window, focused host.Widget) Result {
	start := time.Now()
	res := d.dispatch(ev, active, focused)
	d.metrics.RecordDispatch(res, time.Since(start))

	if ev.Type == EventKeyPress && res.Outcome != OutcomeDisabled {
		d.logger.Debug("key dispatched",
			"key", key.Display(ev.Key),
			"outcome", res.Outcome.String(),
			"action", res.Action,
			"consumed", res.Consumed)
	}
	return res
}

func (d *Dispatcher) dispatch(ev Event, active host.Window, focused host.Widget) Result {
	if d.Disabled() {
		return passed(OutcomeDisabled)
	}

	switch ev.Type {
	case EventFocusIn:
		return d.focusIn(ev.Target)
	case EventKeyPress:
	default:
		return passed(OutcomeIgnored)
	}

	code := ev.Key
	if entry, ok := focused.(host.HelperEntry); ok && isTabKey(code) {
		if dlg := entry.HelperDialog(); dlg != nil {
			dlg.HandleKey(code)
			return consumed(OutcomeHelperKey)
		}
	}

	if active == nil {
		return passed(OutcomeNotMainWindow)
	}
	if host.WantsPassthrough(focused) {
		return passed(OutcomeWidgetPassthrough)
	}

	if active.QuickmarkPending() {
		if code.IsModifiersOnly() {
			return consumed(OutcomeModifierOnly)
		}
		active.Quickmark(code)
		return consumed(OutcomeQuickmark)
	}

	if active.ChooseTabPending() {
		if code.IsModifiersOnly() {
			return consumed(OutcomeModifierOnly)
		}
		active.ChooseTab(code)
		return consumed(OutcomeChooseTab)
	}

	maps := d.maps.Load()
	if tab := active.CurrentTab(); tab != nil {
		if tab.ForcePassthrough() {
			return passed(OutcomeForcePassthrough)
		}

		if tab.FollowLinkPending() {
			if code.IsModifiersOnly() {
				return consumed(OutcomeModifierOnly)
			}
			if tab.FollowLink(code) {
				return consumed(OutcomeFollowLink)
			}
			// A key without a matching hint goes on to the key maps.
		}

		if tab.TextInputFocused() {
			return d.invoke(maps.insert, OutcomeInsertAction, code, active, focused)
		}
	}

	return d.invoke(maps.normal, OutcomeNormalAction, code, active, focused)
}

// focusIn hands focus arriving at the tab container to the current view.
func (d *Dispatcher) focusIn(target host.Widget) Result {
	tc, ok := target.(host.TabContainer)
	if !ok {
		return passed(OutcomeIgnored)
	}
	view := tc.CurrentView()
	if view == nil {
		return passed(OutcomeIgnored)
	}
	view.FocusView()
	return consumed(OutcomeFocusRedirect)
}

// invoke runs the action bound to code in km.
func (d *Dispatcher) invoke(km *keymap.KeyMap, outcome Outcome, code key.Code, active host.Window, focused host.Widget) Result {
	a, ok := km.Lookup(code)
	if !ok {
		return passed(OutcomeUnbound)
	}

	ctx := &action.Context{
		Window:  active,
		Focused: focused,
		Key:     code,
		Mode:    km.Mode().String(),
		Control: d,
	}

	res := Result{Outcome: outcome, Action: a.Name}
	if !d.recoverPanics {
		res.Consumed = a.Invoke(ctx)
		return res
	}

	swallow, err := d.invokeWithRecovery(a, ctx)
	if err != nil {
		d.logger.Error("action failed", "action", a.Name, "key", key.Display(code), "error", err)
		res.Outcome = OutcomePanic
		res.Consumed = true
		return res
	}
	res.Consumed = swallow
	return res
}

// invokeWithRecovery runs an action, converting a panic into an error
// carrying the stack.
func (d *Dispatcher) invokeWithRecovery(a *action.Action, ctx *action.Context) (swallow bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)
			err = fmt.Errorf("action panic for %s: %v\n%s", a.Name, r, stack[:n])
		}
	}()
	return a.Invoke(ctx), nil
}

// isTabKey reports whether code moves focus between fields.
func isTabKey(code key.Code) bool {
	return code == key.Named(key.KeyTab, key.ModNone) || code == key.Named(key.KeyTab, key.ModShift)
}
