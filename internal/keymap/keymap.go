// Package keymap turns raw key events into layout-independent key symbols
// and reads the keyboard lock state.
package keymap

import "zhuyin/internal/ime"

// usKey is what a physical key produces on a US layout.
type usKey struct {
	plain, shifted ime.KeySym
}

// usLayout maps evdev keycodes (X11 keycode minus 8) to US keysyms.
var usLayout = map[uint32]usKey{
	2: {'1', '!'}, 3: {'2', '@'}, 4: {'3', '#'}, 5: {'4', '$'}, 6: {'5', '%'},
	7: {'6', '^'}, 8: {'7', '&'}, 9: {'8', '*'}, 10: {'9', '('}, 11: {'0', ')'},
	12: {'-', '_'}, 13: {'=', '+'},

	16: {'q', 'Q'}, 17: {'w', 'W'}, 18: {'e', 'E'}, 19: {'r', 'R'}, 20: {'t', 'T'},
	21: {'y', 'Y'}, 22: {'u', 'U'}, 23: {'i', 'I'}, 24: {'o', 'O'}, 25: {'p', 'P'},
	26: {'[', '{'}, 27: {']', '}'},

	30: {'a', 'A'}, 31: {'s', 'S'}, 32: {'d', 'D'}, 33: {'f', 'F'}, 34: {'g', 'G'},
	35: {'h', 'H'}, 36: {'j', 'J'}, 37: {'k', 'K'}, 38: {'l', 'L'},
	39: {';', ':'}, 40: {'\'', '"'}, 41: {'`', '~'}, 43: {'\\', '|'},

	44: {'z', 'Z'}, 45: {'x', 'X'}, 46: {'c', 'C'}, 47: {'v', 'V'}, 48: {'b', 'B'},
	49: {'n', 'N'}, 50: {'m', 'M'},
	51: {',', '<'}, 52: {'.', '>'}, 53: {'/', '?'},

	57: {ime.KeySpace, ime.KeySpace},
}

// Mapper implements ime.KeyMapper. With force-us-layout on, printable keys
// are re-read from a US layout so the phonetic layout works under any
// system keyboard layout.
type Mapper struct {
	settings ime.SettingsSource
}

var _ ime.KeyMapper = (*Mapper)(nil)

// NewMapper returns a mapper that reads force-us-layout from settings on
// every key.
func NewMapper(settings ime.SettingsSource) *Mapper {
	return &Mapper{settings: settings}
}

// Canonical returns the US keysym for keycode when forced, else sym.
// Non-printable keys always pass through.
func (m *Mapper) Canonical(sym ime.KeySym, keycode uint32, mods ime.Modifier) ime.KeySym {
	if m.settings == nil || !m.settings.Settings().ForceUSLayout {
		return sym
	}
	if sym.Rune() == 0 {
		return sym
	}
	return USKeySym(keycode, mods, sym)
}

// USKeySym looks keycode up in the US layout. Caps Lock only affects
// letters. Unknown keycodes return fallback.
func USKeySym(keycode uint32, mods ime.Modifier, fallback ime.KeySym) ime.KeySym {
	k, ok := usLayout[keycode]
	if !ok {
		return fallback
	}
	shift := mods.Has(ime.ShiftMask)
	if isLetter(k.plain) && mods.Has(ime.LockMask) {
		shift = !shift
	}
	if shift {
		return k.shifted
	}
	return k.plain
}

func isLetter(k ime.KeySym) bool {
	return k >= 'a' && k <= 'z'
}
