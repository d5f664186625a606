package key

import (
	"fmt"
	"strings"
)

// Key identifies a named keyboard key.
// Character keys are not listed here; they are encoded by their rune.
type Key uint16

const (
	// KeyNone represents no key.
	KeyNone Key = iota

	// Editing keys
	KeyEscape
	KeyEnter
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyDelete
	KeyInsert

	// Navigation keys
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	// System keys
	KeyPause
	KeyPrint
	KeyMenu
	KeyHelp
	KeyClear
	KeyCapsLock
	KeyScrollLock
	KeyNumLock

	// Modifier keys pressed on their own.
	KeyShift
	KeyControl
	KeyAlt
	KeyMeta

	// keyCount marks the end of the named key range.
	keyCount
)

var keyNames = [...]string{
	KeyNone:       "None",
	KeyEscape:     "Esc",
	KeyEnter:      "Enter",
	KeyTab:        "Tab",
	KeyBacktab:    "Backtab",
	KeyBackspace:  "Backspace",
	KeyDelete:     "Del",
	KeyInsert:     "Ins",
	KeyHome:       "Home",
	KeyEnd:        "End",
	KeyPageUp:     "PgUp",
	KeyPageDown:   "PgDown",
	KeyUp:         "Up",
	KeyDown:       "Down",
	KeyLeft:       "Left",
	KeyRight:      "Right",
	KeyF1:         "F1",
	KeyF2:         "F2",
	KeyF3:         "F3",
	KeyF4:         "F4",
	KeyF5:         "F5",
	KeyF6:         "F6",
	KeyF7:         "F7",
	KeyF8:         "F8",
	KeyF9:         "F9",
	KeyF10:        "F10",
	KeyF11:        "F11",
	KeyF12:        "F12",
	KeyPause:      "Pause",
	KeyPrint:      "Print",
	KeyMenu:       "Menu",
	KeyHelp:       "Help",
	KeyClear:      "Clear",
	KeyCapsLock:   "CapsLock",
	KeyScrollLock: "ScrollLock",
	KeyNumLock:    "NumLock",
	KeyShift:      "Shift",
	KeyControl:    "Ctrl",
	KeyAlt:        "Alt",
	KeyMeta:       "Meta",
}

// String returns a human-readable name for the key.
func (k Key) String() string {
	if k < keyCount {
		return keyNames[k]
	}
	return fmt.Sprintf("Key(%d)", k)
}

// Valid reports whether k is a known named key other than KeyNone.
func (k Key) Valid() bool {
	return k > KeyNone && k < keyCount
}

// IsFunctionKey returns true if this is a function key (F1-F12).
func (k Key) IsFunctionKey() bool {
	return k >= KeyF1 && k <= KeyF12
}

// IsArrowKey returns true if this is an arrow key.
func (k Key) IsArrowKey() bool {
	return k >= KeyUp && k <= KeyRight
}

// IsModifierKey returns true for Shift, Ctrl, Alt and Meta pressed alone.
func (k Key) IsModifierKey() bool {
	return k >= KeyShift && k <= KeyMeta
}

// Modifier returns the modifier a modifier key stands for.
func (k Key) Modifier() Modifier {
	switch k {
	case KeyShift:
		return ModShift
	case KeyControl:
		return ModCtrl
	case KeyAlt:
		return ModAlt
	case KeyMeta:
		return ModMeta
	}
	return ModNone
}

// keyNameMap maps key names (lowercase) to Key values.
var keyNameMap = map[string]Key{
	"escape":     KeyEscape,
	"esc":        KeyEscape,
	"enter":      KeyEnter,
	"return":     KeyEnter,
	"cr":         KeyEnter,
	"tab":        KeyTab,
	"backtab":    KeyBacktab,
	"backspace":  KeyBackspace,
	"bs":         KeyBackspace,
	"delete":     KeyDelete,
	"del":        KeyDelete,
	"insert":     KeyInsert,
	"ins":        KeyInsert,
	"home":       KeyHome,
	"end":        KeyEnd,
	"pageup":     KeyPageUp,
	"pgup":       KeyPageUp,
	"pagedown":   KeyPageDown,
	"pgdown":     KeyPageDown,
	"pgdn":       KeyPageDown,
	"up":         KeyUp,
	"down":       KeyDown,
	"left":       KeyLeft,
	"right":      KeyRight,
	"f1":         KeyF1,
	"f2":         KeyF2,
	"f3":         KeyF3,
	"f4":         KeyF4,
	"f5":         KeyF5,
	"f6":         KeyF6,
	"f7":         KeyF7,
	"f8":         KeyF8,
	"f9":         KeyF9,
	"f10":        KeyF10,
	"f11":        KeyF11,
	"f12":        KeyF12,
	"pause":      KeyPause,
	"print":      KeyPrint,
	"menu":       KeyMenu,
	"help":       KeyHelp,
	"clear":      KeyClear,
	"capslock":   KeyCapsLock,
	"scrolllock": KeyScrollLock,
	"numlock":    KeyNumLock,
	"shift":      KeyShift,
	"ctrl":       KeyControl,
	"control":    KeyControl,
	"alt":        KeyAlt,
	"meta":       KeyMeta,
}

// runeNameMap maps names of printable keys that are awkward to write
// literally to their runes.
var runeNameMap = map[string]rune{
	"space":  ' ',
	"plus":   '+',
	"minus":  '-',
	"lt":     '<',
	"gt":     '>',
	"bar":    '|',
	"bslash": '\\',
}

// KeyFromName returns the Key for a given name (case-insensitive).
// Returns KeyNone if the name is not recognized.
func KeyFromName(name string) Key {
	name = strings.ToLower(strings.TrimSpace(name))
	if k, ok := keyNameMap[name]; ok {
		return k
	}
	return KeyNone
}
