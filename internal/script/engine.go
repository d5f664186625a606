package script

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"

	"github.com/dshills/keyward/internal/input/action"
)

// Default limits for script execution.
const (
	DefaultTimeout  = 250 * time.Millisecond
	DefaultMaxDepth = 8
)

// Logger receives script diagnostics.
type Logger interface {
	Debug(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Error(string, ...any) {}

// TabCounter is implemented by windows that can report their tab count.
type TabCounter interface {
	TabCount() int
}

// Engine compiles and runs script actions.
//
// gopher-lua states are not goroutine-safe; all executions are serialized.
// Nested invocations through keys.run happen on the calling goroutine while
// the lock is held.
type Engine struct {
	mu sync.Mutex

	L        *lua.LState
	registry *action.Registry
	logger   Logger
	timeout  time.Duration
	maxDepth int

	protos map[string]*lua.FunctionProto

	// Per-invocation state, valid while mu is held.
	current *action.Context
	depth   int

	closed bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout bounds the run time of one top-level invocation.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithMaxDepth bounds nested keys.run calls between script actions.
func WithMaxDepth(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxDepth = n
		}
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an engine whose scripts can invoke actions from reg.
func NewEngine(reg *action.Registry, opts ...Option) *Engine {
	e := &Engine{
		registry: reg,
		logger:   nopLogger{},
		timeout:  DefaultTimeout,
		maxDepth: DefaultMaxDepth,
		protos:   make(map[string]*lua.FunctionProto),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(e.L)
	e.installModule()
	return e
}

// openSafeLibraries opens the libraries scripts may use and removes the
// loaders that could read code from disk.
func openSafeLibraries(L *lua.LState) {
	libs := []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	for _, lib := range libs {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// Compile parses src and returns an action that runs it. The action is not
// registered.
func (e *Engine) Compile(name, src string) (*action.Action, error) {
	chunk, err := parse.Parse(strings.NewReader(src), name)
	if err != nil {
		return nil, &CompileError{Action: name, Err: err}
	}
	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, &CompileError{Action: name, Err: err}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrEngineClosed
	}
	e.protos[name] = proto

	return action.New(name, "script: "+summary(src), func(ctx *action.Context) bool {
		return e.invoke(name, ctx)
	}), nil
}

// Register compiles every source and registers the resulting actions in
// name order. Sources that fail to compile or clash with an existing
// action are skipped and returned as errors.
func (e *Engine) Register(sources map[string]string) (registered []string, errs []error) {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if e.registry.Has(name) {
			errs = append(errs, fmt.Errorf("script %s: %w", name, action.ErrDuplicateAction))
			continue
		}
		a, err := e.Compile(name, sources[name])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := e.registry.Register(a); err != nil {
			errs = append(errs, fmt.Errorf("script %s: %w", name, err))
			continue
		}
		registered = append(registered, name)
	}
	return registered, errs
}

// Close releases the Lua state. Compiled actions report false afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true
	e.L.Close()
}

// invoke is the top-level entry from a key press.
func (e *Engine) invoke(name string, ctx *action.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return false
	}

	runCtx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()
	e.L.SetContext(runCtx)
	defer e.L.RemoveContext()

	swallow, err := e.run(name, ctx)
	if err != nil {
		e.logger.Error("script action failed", "action", name, "error", err)
		return false
	}
	return swallow
}

// run executes a compiled script. The caller holds mu.
func (e *Engine) run(name string, ctx *action.Context) (bool, error) {
	proto, ok := e.protos[name]
	if !ok {
		return false, fmt.Errorf("script %s not compiled", name)
	}
	if e.depth >= e.maxDepth {
		return false, ErrRecursionLimit
	}

	prev := e.current
	e.current = ctx
	e.depth++
	defer func() {
		e.current = prev
		e.depth--
	}()

	top := e.L.GetTop()
	e.L.Push(e.L.NewFunctionFromProto(proto))
	if err := e.L.PCall(0, 1, nil); err != nil {
		e.L.SetTop(top)
		return false, err
	}
	ret := e.L.Get(-1)
	e.L.SetTop(top)

	if ret == lua.LNil {
		return true, nil
	}
	return lua.LVAsBool(ret), nil
}

// summary returns the first line of src, shortened for help screens.
func summary(src string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(src), "\n")
	if len(line) > 48 {
		line = line[:45] + "..."
	}
	return line
}
