package key

import (
	"strings"
	"unicode"
)

// Code identifies a key press: a base key combined with a modifier set.
//
// The low 22 bits hold the base. Character keys use their code point,
// named keys live above the Unicode range at specialBase+Key. The
// modifier set occupies bits 24 to 27.
type Code uint32

const (
	baseMask    Code = 1<<22 - 1
	specialBase Code = 0x200000
	modShift         = 24
)

// CodeNone is the zero Code; it encodes no key and no modifiers.
const CodeNone Code = 0

// Encode combines a named key or rune with a modifier set.
// Pass KeyNone for character keys and the rune in r; r is ignored for
// named keys. Modifiers outside ModMask are discarded.
//
// Letters are folded to upper case, an upper-case rune implies Shift.
// Shift is dropped for other printable characters because the character
// already reflects it. Backtab is reported as Shift+Tab.
func Encode(k Key, r rune, mods Modifier) Code {
	mods &= ModMask
	if k != KeyNone {
		if k == KeyBacktab {
			k = KeyTab
			mods |= ModShift
		}
		if k.IsModifierKey() {
			mods |= k.Modifier()
		}
		return specialBase + Code(k) | Code(mods)<<modShift
	}
	if r <= 0 || r > unicode.MaxRune {
		return Code(mods) << modShift
	}
	switch {
	case isCased(r):
		if unicode.IsUpper(r) {
			mods |= ModShift
		}
		r = unicode.ToUpper(r)
	case shiftIgnored(r):
		mods &^= ModShift
	}
	return Code(r) | Code(mods)<<modShift
}

func isCased(r rune) bool {
	return unicode.IsLetter(r) && unicode.ToUpper(r) != unicode.ToLower(r)
}

// shiftIgnored reports whether Encode drops Shift for r: the shifted
// character already arrives as its own rune.
func shiftIgnored(r rune) bool {
	return !isCased(r) && r != ' ' && unicode.IsGraphic(r)
}

// Rune returns the code for an unmodified character key.
func Rune(r rune) Code {
	return Encode(KeyNone, r, ModNone)
}

// Named returns the code for a named key with the given modifiers.
func Named(k Key, mods Modifier) Code {
	return Encode(k, 0, mods)
}

// Modifiers returns the modifier set of the code.
func (c Code) Modifiers() Modifier {
	return Modifier(c>>modShift) & ModMask
}

// Base returns the code with its modifiers removed.
func (c Code) Base() Code {
	return c & baseMask
}

// Key returns the named key of the code, or KeyNone for character keys.
func (c Code) Key() Key {
	b := c.Base()
	if b < specialBase {
		return KeyNone
	}
	return Key(b - specialBase)
}

// Rune returns the character of the code, or 0 for named keys.
func (c Code) Rune() rune {
	b := c.Base()
	if b >= specialBase {
		return 0
	}
	return rune(b)
}

// WithModifiers returns c with mods added.
func (c Code) WithModifiers(mods Modifier) Code {
	return c | Code(mods&ModMask)<<modShift
}

// IsModifiersOnly reports whether the press consisted of modifier keys
// alone. That is the case whenever the base is not a known non-modifier key.
func (c Code) IsModifiersOnly() bool {
	if r := c.Rune(); r != 0 {
		return false
	}
	k := c.Key()
	return !k.Valid() || k.IsModifierKey()
}

// String returns the display form of the code, e.g. "Ctrl+Shift+G".
// Codes without a textual base degrade to their modifier names.
func (c Code) String() string {
	mods := c.Modifiers()
	k := c.Key()
	if c.IsModifiersOnly() {
		return (mods | k.Modifier()).String()
	}

	var base string
	if r := c.Rune(); r != 0 {
		base = runeDisplay(r)
	} else {
		base = k.String()
	}
	if base == "" {
		return mods.String()
	}

	parts := append(mods.names(), base)
	return strings.Join(parts, "+")
}

// Display returns the display form of a key code.
func Display(c Code) string {
	return c.String()
}

func runeDisplay(r rune) string {
	switch r {
	case ' ':
		return "Space"
	}
	if !unicode.IsPrint(r) {
		return ""
	}
	return string(r)
}
