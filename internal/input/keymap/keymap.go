package keymap

import (
	"fmt"
	"sort"

	"github.com/dshills/keyward/internal/input/action"
	"github.com/dshills/keyward/internal/input/key"
)

// Mode identifies the input mode a KeyMap applies to.
type Mode string

const (
	// ModeNormal applies when no text field has focus.
	ModeNormal Mode = "normal"

	// ModeInsert applies while a text field inside the page has focus.
	ModeInsert Mode = "insert"
)

// Modes returns every input mode in a stable order.
func Modes() []Mode {
	return []Mode{ModeNormal, ModeInsert}
}

// ParseMode returns the Mode with the given name.
func ParseMode(name string) (Mode, error) {
	switch Mode(name) {
	case ModeNormal, ModeInsert:
		return Mode(name), nil
	}
	return "", fmt.Errorf("unknown mode %q", name)
}

// Section returns the configuration table holding the mode's bindings.
func (m Mode) Section() string {
	return string(m) + " mode keys"
}

// String returns the mode name.
func (m Mode) String() string {
	return string(m)
}

// Binding is a single key-to-action entry of a KeyMap.
type Binding struct {
	Code   key.Code
	Action *action.Action
}

// Keys returns the display form of the bound key.
func (b Binding) Keys() string {
	return key.Display(b.Code)
}

// KeyMap maps key codes to actions for one mode.
// A KeyMap is immutable once built and safe for concurrent lookups.
type KeyMap struct {
	mode     Mode
	bindings map[key.Code]*action.Action
}

// Empty returns a KeyMap without bindings.
func Empty(mode Mode) *KeyMap {
	return &KeyMap{mode: mode, bindings: map[key.Code]*action.Action{}}
}

// Mode returns the mode the map was built for.
func (m *KeyMap) Mode() Mode {
	if m == nil {
		return ""
	}
	return m.mode
}

// Lookup returns the action bound to code.
func (m *KeyMap) Lookup(code key.Code) (*action.Action, bool) {
	if m == nil {
		return nil, false
	}
	a, ok := m.bindings[code]
	return a, ok
}

// Len returns the number of bound keys.
func (m *KeyMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.bindings)
}

// Bindings returns all entries ordered by action name, then key.
func (m *KeyMap) Bindings() []Binding {
	if m == nil {
		return nil
	}
	result := make([]Binding, 0, len(m.bindings))
	for c, a := range m.bindings {
		result = append(result, Binding{Code: c, Action: a})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Action.Name != result[j].Action.Name {
			return result[i].Action.Name < result[j].Action.Name
		}
		return result[i].Code < result[j].Code
	})
	return result
}

// KeysFor returns the display forms of every key bound to the named action.
func (m *KeyMap) KeysFor(name string) []string {
	var keys []string
	for _, b := range m.Bindings() {
		if b.Action.Name == name {
			keys = append(keys, b.Keys())
		}
	}
	return keys
}
