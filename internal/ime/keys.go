package ime

import "fmt"

// KeySym is an X11/IBus key symbol.
type KeySym uint32

// Modifier is the IBus key event state mask.
type Modifier uint32

// IBus key event state masks
const (
	ShiftMask   Modifier = 1 << 0
	LockMask    Modifier = 1 << 1
	ControlMask Modifier = 1 << 2
	Mod1Mask    Modifier = 1 << 3 // Alt
	Mod4Mask    Modifier = 1 << 6 // Super/Meta
	ReleaseMask Modifier = 1 << 30
)

// Has reports whether all bits of m are set.
func (mods Modifier) Has(m Modifier) bool {
	return mods&m == m
}

// Key symbols the session and the reference engine care about.
const (
	KeySpace     KeySym = 0x0020
	KeyBackSpace KeySym = 0xff08
	KeyTab       KeySym = 0xff09
	KeyReturn    KeySym = 0xff0d
	KeyEscape    KeySym = 0xff1b
	KeyHome      KeySym = 0xff50
	KeyLeft      KeySym = 0xff51
	KeyUp        KeySym = 0xff52
	KeyRight     KeySym = 0xff53
	KeyDown      KeySym = 0xff54
	KeyPageUp    KeySym = 0xff55
	KeyPageDown  KeySym = 0xff56
	KeyEnd       KeySym = 0xff57
	KeyKPEnter   KeySym = 0xff8d
	KeyShiftL    KeySym = 0xffe1
	KeyShiftR    KeySym = 0xffe2
	KeyControlL  KeySym = 0xffe3
	KeyControlR  KeySym = 0xffe4
	KeyCapsLock  KeySym = 0xffe5
	KeyDelete    KeySym = 0xffff
)

// IsModeKey reports whether k is one of the keys users press to toggle the
// Chinese/English or width mode.
func (k KeySym) IsModeKey() bool {
	switch k {
	case KeyShiftL, KeyShiftR, KeyCapsLock:
		return true
	}
	return false
}

// Rune converts a keysym to the character it produces, or 0.
func (k KeySym) Rune() rune {
	switch {
	case k >= 0x20 && k <= 0x7e:
		return rune(k)
	case k >= 0xa0 && k <= 0xff:
		return rune(k)
	case k >= 0x01000000:
		return rune(k - 0x01000000)
	}
	return 0
}

var keyNames = map[KeySym]string{
	KeySpace:     "space",
	KeyBackSpace: "BackSpace",
	KeyTab:       "Tab",
	KeyReturn:    "Return",
	KeyEscape:    "Escape",
	KeyHome:      "Home",
	KeyLeft:      "Left",
	KeyUp:        "Up",
	KeyRight:     "Right",
	KeyDown:      "Down",
	KeyPageUp:    "Page_Up",
	KeyPageDown:  "Page_Down",
	KeyEnd:       "End",
	KeyKPEnter:   "KP_Enter",
	KeyShiftL:    "Shift_L",
	KeyShiftR:    "Shift_R",
	KeyControlL:  "Control_L",
	KeyControlR:  "Control_R",
	KeyCapsLock:  "Caps_Lock",
	KeyDelete:    "Delete",
}

func (k KeySym) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	if r := k.Rune(); r != 0 {
		return string(r)
	}
	return fmt.Sprintf("0x%x", uint32(k))
}
