package action

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrDuplicateAction is returned when an action name is registered twice.
	ErrDuplicateAction = errors.New("action already registered")

	// ErrInvalidAction is returned for actions without a name or body.
	ErrInvalidAction = errors.New("invalid action")
)

// Registry holds the actions that key bindings may refer to.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]*Action
}

// NewRegistry creates an empty action registry.
func NewRegistry() *Registry {
	return &Registry{
		actions: make(map[string]*Action),
	}
}

// Register adds an action under its name.
func (r *Registry) Register(a *Action) error {
	if a == nil || a.Name == "" || a.fn == nil {
		return ErrInvalidAction
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.actions[a.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateAction, a.Name)
	}
	r.actions[a.Name] = a
	return nil
}

// RegisterFunc creates and registers an action in one step.
func (r *Registry) RegisterFunc(name, description string, fn Func) error {
	return r.Register(New(name, description, fn))
}

// Lookup returns the action registered under name.
func (r *Registry) Lookup(name string) (*Action, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.actions[name]
	return a, ok
}

// Has returns true if an action is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns all registered action names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered actions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actions)
}
