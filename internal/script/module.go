package script

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// installModule exposes the keys table and routes print to the logger.
func (e *Engine) installModule() {
	mod := e.L.NewTable()
	e.L.SetFuncs(mod, map[string]lua.LGFunction{
		"run":        e.luaRun,
		"text_input": e.luaTextInput,
		"tab_count":  e.luaTabCount,
		"mode":       e.luaMode,
		"key":        e.luaKey,
		"log":        e.luaLog,
	})
	e.L.SetGlobal("keys", mod)
	e.L.SetGlobal("print", e.L.NewFunction(e.luaLog))
}

func (e *Engine) luaRun(L *lua.LState) int {
	name := L.CheckString(1)

	if _, ok := e.protos[name]; ok {
		swallow, err := e.run(name, e.current)
		if err != nil {
			L.RaiseError("%s: %v", name, err)
			return 0
		}
		L.Push(lua.LBool(swallow))
		return 1
	}

	a, ok := e.registry.Lookup(name)
	if !ok {
		L.RaiseError("unknown action %q", name)
		return 0
	}
	L.Push(lua.LBool(a.Invoke(e.current)))
	return 1
}

func (e *Engine) luaTextInput(L *lua.LState) int {
	focused := false
	if ctx := e.current; ctx != nil && ctx.Window != nil {
		if tab := ctx.Window.CurrentTab(); tab != nil {
			focused = tab.TextInputFocused()
		}
	}
	L.Push(lua.LBool(focused))
	return 1
}

func (e *Engine) luaTabCount(L *lua.LState) int {
	n := 0
	if ctx := e.current; ctx != nil {
		if tc, ok := ctx.Window.(TabCounter); ok {
			n = tc.TabCount()
		}
	}
	L.Push(lua.LNumber(n))
	return 1
}

func (e *Engine) luaMode(L *lua.LState) int {
	mode := ""
	if e.current != nil {
		mode = e.current.Mode
	}
	L.Push(lua.LString(mode))
	return 1
}

func (e *Engine) luaKey(L *lua.LState) int {
	k := ""
	if e.current != nil {
		k = e.current.Key.String()
	}
	L.Push(lua.LString(k))
	return 1
}

func (e *Engine) luaLog(L *lua.LState) int {
	parts := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	e.logger.Debug("script", "message", strings.Join(parts, " "))
	return 0
}
