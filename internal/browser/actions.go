package browser

import (
	"github.com/dshills/keyward/internal/input/action"
)

// RegisterActions adds the browser's built-in actions to reg.
func RegisterActions(reg *action.Registry) error {
	for _, a := range Actions() {
		if err := reg.Register(a); err != nil {
			return err
		}
	}
	return nil
}

// Actions returns the built-in actions. Each one acts on the *Window the
// key press was delivered to and does nothing for other windows.
func Actions() []*action.Action {
	return []*action.Action{
		windowAction("close_tab", "Close the current tab", func(w *Window, _ *action.Context) bool {
			w.CloseTab(w.CurrentIndex())
			return true
		}),
		windowAction("new_tab", "Open the home page in a new tab", func(w *Window, _ *action.Context) bool {
			w.OpenTab(w.homePage, false)
			return true
		}),
		windowAction("next_tab", "Switch to the next tab", func(w *Window, _ *action.Context) bool {
			w.Cycle(1)
			return true
		}),
		windowAction("prev_tab", "Switch to the previous tab", func(w *Window, _ *action.Context) bool {
			w.Cycle(-1)
			return true
		}),
		windowAction("quickmark", "Open a quickmark", func(w *Window, _ *action.Context) bool {
			w.StartQuickmark(false)
			return true
		}),
		windowAction("quickmark_newtab", "Open a quickmark in a new tab", func(w *Window, _ *action.Context) bool {
			w.StartQuickmark(true)
			return true
		}),
		windowAction("choose_tab", "Switch to a tab by label", func(w *Window, _ *action.Context) bool {
			w.StartChooseTab()
			return true
		}),
		tabAction("follow_link", "Show link hints", func(t *Tab) bool {
			t.StartFollow()
			return true
		}),
		windowAction("exit_text_input", "Leave the page text field", func(w *Window, _ *action.Context) bool {
			w.FocusTabs()
			return true
		}),
		windowAction("focus_input", "Enter the page text field", func(w *Window, _ *action.Context) bool {
			return w.FocusInput()
		}),
		windowAction("focus_address_bar", "Edit the address", func(w *Window, _ *action.Context) bool {
			w.FocusAddress()
			return true
		}),
		windowAction("open_url", "Open an address in a new tab", func(w *Window, _ *action.Context) bool {
			w.Ask("open", "", w.Quickmarks(), func(text string, ok bool) {
				if ok && text != "" {
					w.OpenTab(text, false)
				}
			})
			return true
		}),
		tabAction("back", "Go back in history", func(t *Tab) bool {
			if !t.Back() {
				t.win.SetStatus("at the start of history")
			}
			return true
		}),
		tabAction("forward", "Go forward in history", func(t *Tab) bool {
			if !t.Forward() {
				t.win.SetStatus("at the end of history")
			}
			return true
		}),
		tabAction("reload", "Reload the page", func(t *Tab) bool {
			t.Reload()
			return true
		}),
		tabAction("scroll_down", "Scroll down", func(t *Tab) bool {
			t.Scroll(1)
			return true
		}),
		tabAction("scroll_up", "Scroll up", func(t *Tab) bool {
			t.Scroll(-1)
			return true
		}),
		tabAction("toggle_passthrough", "Send every key to the page", func(t *Tab) bool {
			t.SetPassthrough(!t.ForcePassthrough())
			return true
		}),
		windowAction("show_help", "List key bindings", func(w *Window, ctx *action.Context) bool {
			var guard action.Guard
			if ctx.Control != nil {
				guard = ctx.Control.DisableFiltering()
			}
			w.ShowHelp(guard)
			return true
		}),
		windowAction("quit", "Quit", func(w *Window, _ *action.Context) bool {
			w.Quit()
			return true
		}),
	}
}

func windowAction(name, desc string, fn func(w *Window, ctx *action.Context) bool) *action.Action {
	return action.New(name, desc, func(ctx *action.Context) bool {
		if ctx == nil {
			return false
		}
		w, ok := ctx.Window.(*Window)
		if !ok || w == nil {
			return false
		}
		return fn(w, ctx)
	})
}

func tabAction(name, desc string, fn func(t *Tab) bool) *action.Action {
	return windowAction(name, desc, func(w *Window, _ *action.Context) bool {
		t := w.Current()
		if t == nil {
			return false
		}
		return fn(t)
	})
}
