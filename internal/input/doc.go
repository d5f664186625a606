// Package input filters keyboard events before they reach the focused widget.
//
// The Dispatcher sits between the terminal event loop and the widget tree.
// For every event it decides whether the event is consumed (an action ran,
// or the key was swallowed) or passed on to the focused widget.
//
// # Resolution Order
//
// The first matching rule wins:
//
//  1. Filtering is disabled: pass.
//  2. Focus arrives at the tab container: move it into the current view.
//  3. Tab or Shift+Tab in a helper dialog's entry: forward to the dialog.
//  4. The active top-level window is not the main window: pass.
//  5. The focused widget wants raw keys or sits inside a dialog: pass.
//  6. Pending modes of the window and current tab, in order: quickmark,
//     choose tab, forced passthrough, follow link, text input. While a
//     mode waits for a key, presses of lone modifier keys are swallowed.
//  7. The normal mode key map.
//
// A key that reaches the insert mode map never falls back to the normal
// map. A key that the link hint overlay does not use continues to the
// later rules.
//
// # Disabling
//
// DisableFiltering returns a guard; filtering resumes when every guard has
// been released:
//
//	g := d.DisableFiltering()
//	defer g.Release()
//
// # Usage
//
//	d := input.New(normal, insert, input.WithLogger(logger))
//	consumed := d.Filter(input.KeyPress(key.FromTcell(ev)), window, focused)
package input
