package key

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// tcellKeys maps tcell's named keys onto Key values.
var tcellKeys = map[tcell.Key]Key{
	tcell.KeyEscape:     KeyEscape,
	tcell.KeyEnter:      KeyEnter,
	tcell.KeyTab:        KeyTab,
	tcell.KeyBacktab:    KeyBacktab,
	tcell.KeyBackspace:  KeyBackspace,
	tcell.KeyBackspace2: KeyBackspace,
	tcell.KeyDelete:     KeyDelete,
	tcell.KeyInsert:     KeyInsert,
	tcell.KeyHome:       KeyHome,
	tcell.KeyEnd:        KeyEnd,
	tcell.KeyPgUp:       KeyPageUp,
	tcell.KeyPgDn:       KeyPageDown,
	tcell.KeyUp:         KeyUp,
	tcell.KeyDown:       KeyDown,
	tcell.KeyLeft:       KeyLeft,
	tcell.KeyRight:      KeyRight,
	tcell.KeyF1:         KeyF1,
	tcell.KeyF2:         KeyF2,
	tcell.KeyF3:         KeyF3,
	tcell.KeyF4:         KeyF4,
	tcell.KeyF5:         KeyF5,
	tcell.KeyF6:         KeyF6,
	tcell.KeyF7:         KeyF7,
	tcell.KeyF8:         KeyF8,
	tcell.KeyF9:         KeyF9,
	tcell.KeyF10:        KeyF10,
	tcell.KeyF11:        KeyF11,
	tcell.KeyF12:        KeyF12,
	tcell.KeyPause:      KeyPause,
	tcell.KeyPrint:      KeyPrint,
	tcell.KeyMenu:       KeyMenu,
	tcell.KeyHelp:       KeyHelp,
	tcell.KeyClear:      KeyClear,
	tcell.KeyCapsLock:   KeyCapsLock,
	tcell.KeyScrollLock: KeyScrollLock,
	tcell.KeyNumLock:    KeyNumLock,
}

// FromTcell encodes a terminal key event.
// Control characters are reported as the letter plus Ctrl, and tcell
// modifiers other than Shift, Ctrl, Alt and Meta are ignored.
func FromTcell(ev *tcell.EventKey) Code {
	mods := convertMod(ev.Modifiers())
	k := ev.Key()
	if k == tcell.KeyRune {
		return Encode(KeyNone, ev.Rune(), mods)
	}
	if named, ok := tcellKeys[k]; ok {
		return Encode(named, 0, mods)
	}
	if r, ok := controlRune(k); ok {
		return Encode(KeyNone, r, mods|ModCtrl)
	}
	return Encode(KeyNone, 0, mods)
}

// controlRune returns the character a Ctrl key combination was typed with.
// Depending on the terminal, tcell reports these either as ASCII control
// codes or as its KeyCtrl range.
func controlRune(k tcell.Key) (rune, bool) {
	switch {
	case k == tcell.KeyCtrlSpace || k == tcell.KeyNUL:
		return ' ', true
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return 'a' + rune(k-tcell.KeyCtrlA), true
	case k >= tcell.KeySOH && k <= tcell.KeySUB:
		return 'a' + rune(k-tcell.KeySOH), true
	}
	return 0, false
}

func convertMod(m tcell.ModMask) Modifier {
	var result Modifier
	if m&tcell.ModShift != 0 {
		result |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= ModMeta
	}
	return result
}

func convertToTcellMod(m Modifier) tcell.ModMask {
	var result tcell.ModMask
	if m.Has(ModShift) {
		result |= tcell.ModShift
	}
	if m.Has(ModCtrl) {
		result |= tcell.ModCtrl
	}
	if m.Has(ModAlt) {
		result |= tcell.ModAlt
	}
	if m.Has(ModMeta) {
		result |= tcell.ModMeta
	}
	return result
}

// Tcell builds a terminal key event that FromTcell encodes back to c.
// Codes without a terminal representation yield a KeyRune event with
// a zero rune.
func (c Code) Tcell() *tcell.EventKey {
	mods := c.Modifiers()
	if k := c.Key(); k != KeyNone {
		for tk, named := range tcellKeys {
			if named == k && tk != tcell.KeyBackspace2 {
				return tcell.NewEventKey(tk, 0, convertToTcellMod(mods))
			}
		}
		return tcell.NewEventKey(tcell.KeyRune, 0, convertToTcellMod(mods))
	}

	r := c.Rune()
	if unicode.IsLetter(r) {
		if mods.Has(ModShift) {
			r = unicode.ToUpper(r)
		} else {
			r = unicode.ToLower(r)
		}
		mods = mods.Without(ModShift)
	}
	return tcell.NewEventKey(tcell.KeyRune, r, convertToTcellMod(mods))
}
