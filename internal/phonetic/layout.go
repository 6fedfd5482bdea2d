package phonetic

import (
	"strings"

	"zhuyin/internal/ime"
)

// slot is a position inside a syllable.
type slot int

const (
	slotInitial slot = iota
	slotMedial
	slotFinal
)

type symbol struct {
	r    rune
	slot slot
}

// dachen is the standard (Da Chen) Zhuyin keyboard layout.
var dachen = map[ime.KeySym]symbol{
	'1': {'ㄅ', slotInitial}, 'q': {'ㄆ', slotInitial}, 'a': {'ㄇ', slotInitial}, 'z': {'ㄈ', slotInitial},
	'2': {'ㄉ', slotInitial}, 'w': {'ㄊ', slotInitial}, 's': {'ㄋ', slotInitial}, 'x': {'ㄌ', slotInitial},
	'e': {'ㄍ', slotInitial}, 'd': {'ㄎ', slotInitial}, 'c': {'ㄏ', slotInitial},
	'r': {'ㄐ', slotInitial}, 'f': {'ㄑ', slotInitial}, 'v': {'ㄒ', slotInitial},
	'5': {'ㄓ', slotInitial}, 't': {'ㄔ', slotInitial}, 'g': {'ㄕ', slotInitial}, 'b': {'ㄖ', slotInitial},
	'y': {'ㄗ', slotInitial}, 'h': {'ㄘ', slotInitial}, 'n': {'ㄙ', slotInitial},

	'u': {'ㄧ', slotMedial}, 'j': {'ㄨ', slotMedial}, 'm': {'ㄩ', slotMedial},

	'8': {'ㄚ', slotFinal}, 'i': {'ㄛ', slotFinal}, 'k': {'ㄜ', slotFinal}, ',': {'ㄝ', slotFinal},
	'9': {'ㄞ', slotFinal}, 'o': {'ㄟ', slotFinal}, 'l': {'ㄠ', slotFinal}, '.': {'ㄡ', slotFinal},
	'0': {'ㄢ', slotFinal}, 'p': {'ㄣ', slotFinal}, ';': {'ㄤ', slotFinal}, '/': {'ㄥ', slotFinal},
	'-': {'ㄦ', slotFinal},
}

// Tones are numbered 1 (flat) to 5 (neutral).
var toneKeys = map[ime.KeySym]int{
	ime.KeySpace: 1,
	'6':          2,
	'3':          3,
	'4':          4,
	'7':          5,
}

var toneMarks = [...]string{"", "", "ˊ", "ˇ", "ˋ", "˙"}

// syllable is the Zhuyin reading being typed.
type syllable struct {
	parts [3]rune
	tone  int
}

func (s syllable) empty() bool {
	return s.parts == [3]rune{} && s.tone == 0
}

func (s *syllable) put(sym symbol) {
	s.parts[sym.slot] = sym.r
}

// backspace drops the last filled slot.
func (s *syllable) backspace() {
	for i := len(s.parts) - 1; i >= 0; i-- {
		if s.parts[i] != 0 {
			s.parts[i] = 0
			return
		}
	}
}

// symbols returns the typed symbols without the tone.
func (s syllable) symbols() string {
	var b strings.Builder
	for _, r := range s.parts {
		if r != 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// len counts the typed symbols.
func (s syllable) len() int {
	n := 0
	for _, r := range s.parts {
		if r != 0 {
			n++
		}
	}
	return n
}

// key is the dictionary key: symbols followed by the tone mark.
func (s syllable) key() string {
	return s.symbols() + toneMarks[s.tone]
}

// Reading converts a key sequence typed on the standard layout into a
// dictionary key, e.g. "5j/ " is "ㄓㄨㄥ". ok is false when the sequence is
// not one complete syllable.
func Reading(keys string) (reading string, ok bool) {
	var syl syllable
	for _, r := range keys {
		k := ime.KeySym(r)
		if sym, found := dachen[k]; found {
			syl.put(sym)
			continue
		}
		tone, found := toneKeys[k]
		if !found || syl.len() == 0 {
			return "", false
		}
		syl.tone = tone
		return syl.key(), true
	}
	return "", false
}

// fullWidth maps printable ASCII to its full-width form.
func fullWidth(r rune) rune {
	switch {
	case r == ' ':
		return '　'
	case r >= 0x21 && r <= 0x7e:
		return r + 0xfee0
	}
	return r
}

// Chinese punctuation typed in Chinese mode. Keys the layout uses for
// symbols only produce punctuation when shifted.
var punctuation = map[ime.KeySym]rune{
	'<': '，', '>': '。', '?': '？', '!': '！', ':': '：', '"': '；',
	'[': '「', ']': '」', '{': '『', '}': '』', '(': '（', ')': '）',
	'~': '～', '\\': '、',
}
