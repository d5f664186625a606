package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
	// ErrShiftedSymbol is returned for Shift on a key whose shifted form is
	// a character of its own, such as "Shift+1". Write "!" instead.
	ErrShiftedSymbol = fmt.Errorf("%w: shift has no effect on this key", ErrInvalidSpec)
)

// Parse parses a key specification string into a Code.
//
// Supported formats:
//   - Single character: "a", "G", "1", "/"
//   - Named keys: "Enter", "Esc", "Tab", "Backspace", "Space", "F5"
//   - With modifiers: "Ctrl+S", "Alt+Left", "Ctrl+Shift+P", "Ctrl++"
//   - Vim-style: "<C-s>", "<A-f>", "<S-Tab>", "<CR>", "<Esc>"
//
// Letter case is ignored: "G" is the bare key, Shift must be named.
// Shift on digits and symbols is rejected with ErrShiftedSymbol.
func Parse(spec string) (Code, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return CodeNone, ErrEmptySpec
	}

	if len(spec) > 2 && strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		return parseVimStyle(spec[1 : len(spec)-1])
	}

	if len(spec) > 1 && strings.Contains(spec, "+") {
		return parseModifierStyle(spec)
	}

	return parseSingle(spec)
}

// parseVimStyle parses Vim-style notation like "C-s", "A-F4", "CR", "Esc"
func parseVimStyle(inner string) (Code, error) {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return CodeNone, ErrInvalidSpec
	}

	parts := strings.Split(inner, "-")
	keyPart := parts[len(parts)-1]
	if keyPart == "" && len(parts) > 1 {
		// "<C-->" binds the minus key.
		keyPart = "-"
		parts = parts[:len(parts)-1]
	}

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "c":
			mods = mods.With(ModCtrl)
		case "a", "m":
			mods = mods.With(ModAlt)
		case "s":
			mods = mods.With(ModShift)
		case "d":
			mods = mods.With(ModMeta)
		default:
			return CodeNone, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
	}

	if len(parts) == 1 {
		return parseSingle(keyPart)
	}
	return parseKeyWithModifiers(keyPart, mods)
}

// parseModifierStyle parses "Ctrl+S" style notation
func parseModifierStyle(spec string) (Code, error) {
	keyPart := ""
	if strings.HasSuffix(spec, "++") {
		keyPart = "+"
		spec = spec[:len(spec)-2]
	} else {
		i := strings.LastIndex(spec, "+")
		keyPart = spec[i+1:]
		spec = spec[:i]
	}

	var mods Modifier
	for _, p := range strings.Split(spec, "+") {
		mod := ModifierFromName(p)
		if mod == ModNone {
			return CodeNone, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}

	return parseKeyWithModifiers(keyPart, mods)
}

// parseSingle parses a single character or key name
func parseSingle(spec string) (Code, error) {
	runes := []rune(spec)
	if len(runes) == 1 {
		return Encode(KeyNone, unicode.ToLower(runes[0]), ModNone), nil
	}
	return parseKeyWithModifiers(spec, ModNone)
}

// parseKeyWithModifiers parses a key part with already-known modifiers
func parseKeyWithModifiers(keyPart string, mods Modifier) (Code, error) {
	keyPart = strings.TrimSpace(keyPart)
	if keyPart == "" {
		return CodeNone, ErrInvalidSpec
	}

	lowerKey := strings.ToLower(keyPart)
	if k, ok := keyNameMap[lowerKey]; ok {
		return Encode(k, 0, mods), nil
	}
	if r, ok := runeNameMap[lowerKey]; ok {
		return encodeRune(keyPart, r, mods)
	}

	runes := []rune(keyPart)
	if len(runes) == 1 {
		return encodeRune(keyPart, unicode.ToLower(runes[0]), mods)
	}

	return CodeNone, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
}

func encodeRune(keyPart string, r rune, mods Modifier) (Code, error) {
	if mods.Has(ModShift) && shiftIgnored(r) {
		return CodeNone, fmt.Errorf("%w: %q", ErrShiftedSymbol, keyPart)
	}
	return Encode(KeyNone, r, mods), nil
}

// MustParse parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Code {
	c, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return c
}
