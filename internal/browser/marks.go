package browser

import (
	"unicode"

	"github.com/dshills/keyward/internal/input/key"
)

// MarkForCode returns the quickmark name a key press selects: digits,
// lower-case letters unshifted, upper-case letters with Shift. Codes never
// carry Shift for digits, so a shifted digit reported as the digit itself
// selects its mark. Any other press, including ones with Ctrl, Alt or Meta,
// selects nothing.
func MarkForCode(code key.Code) (rune, bool) {
	mods := code.Modifiers()
	if mods.Without(key.ModShift) != key.ModNone {
		return 0, false
	}
	r := code.Rune()
	switch {
	case r >= '0' && r <= '9':
		return r, true
	case r >= 'A' && r <= 'Z':
		if mods.Has(key.ModShift) {
			return r, true
		}
		return unicode.ToLower(r), true
	}
	return 0, false
}

// tabLabel returns the label of the tab at index i, or 0 when the tab has
// none: 1-9, 0, then a-z.
func tabLabel(i int) rune {
	switch {
	case i >= 0 && i < 9:
		return rune('1' + i)
	case i == 9:
		return '0'
	case i >= 10 && i < 36:
		return rune('a' + i - 10)
	}
	return 0
}

// tabIndex is the inverse of tabLabel.
func tabIndex(label rune) (int, bool) {
	switch {
	case label >= '1' && label <= '9':
		return int(label - '1'), true
	case label == '0':
		return 9, true
	case label >= 'a' && label <= 'z':
		return int(label-'a') + 10, true
	}
	return 0, false
}

func isEscape(code key.Code) bool {
	return code == key.Named(key.KeyEscape, key.ModNone)
}
