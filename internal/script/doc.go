// Package script turns Lua snippets from the [actions] configuration table
// into actions that keys can be bound to.
//
// Each snippet is compiled once and runs in a shared, restricted Lua state
// (base, table, string and math libraries only). Snippets see a "keys"
// module:
//
//	keys.run(name)     invoke another action, returns its result
//	keys.text_input()  true when a text field in the page has focus
//	keys.tab_count()   number of open tabs
//	keys.mode()        key map the binding was found in
//	keys.key()         the key press, for example "Ctrl+T"
//	keys.log(msg)      write a debug log line
//
// The snippet's return value decides whether the key press is swallowed.
// Returning nothing swallows it; returning false lets it reach the page.
package script
