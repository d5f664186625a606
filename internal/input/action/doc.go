// Package action defines the named operations key bindings resolve to.
//
// An Action is a capability: a name, a description for help screens and
// a function that is invoked when a bound key is pressed. The function
// reports whether the key press was handled and should be swallowed.
//
// Actions are registered explicitly in a Registry. Key maps resolve
// action names from configuration against a Registry, so only registered
// operations can ever be bound.
package action
