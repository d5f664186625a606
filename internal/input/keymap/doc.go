// Package keymap builds the key-to-action tables consulted by the dispatcher.
//
// There is one KeyMap per input mode. Normal mode applies while the page has
// focus; insert mode applies while a text field inside the page has focus.
//
// # Layers
//
// A KeyMap is built from two sources, each mapping an action name to one
// key specification or a list of them:
//
//	[normal mode keys]
//	close_tab = "D"
//	quickmark = ["G", "Ctrl+M"]
//
// The user layer is applied first and claims its keys unconditionally; when
// two user actions name the same key, the one whose name sorts last wins.
// The default layer then fills in every key the user left unclaimed.
//
// Malformed specifications and names that are not in the action registry
// are skipped, so configuration files written for newer or older versions
// still load. BuildWithReport lists what was skipped.
//
// # Usage
//
//	km, report := keymap.BuildWithReport(keymap.ModeNormal, defaults, user, registry)
//	if a, ok := km.Lookup(code); ok {
//	    a.Invoke(ctx)
//	}
package keymap
