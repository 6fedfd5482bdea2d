// Package phonetic is a small Zhuyin engine backed by a character
// dictionary. It converts one reading at a time and offers the other
// characters of a reading as candidates.
package phonetic

import (
	"errors"
	"fmt"
	"strings"

	"zhuyin/internal/ime"
)

// ErrClosed is returned by ProcessKey after Close.
var ErrClosed = errors.New("phonetic: engine closed")

// Lexicon is what the engine needs from a dictionary.
type Lexicon interface {
	Lookup(reading string) ([]string, error)
	Learn(reading, phrase string) error
}

// cell is one committed-to-buffer character and the reading it came from.
// Characters typed directly have no reading.
type cell struct {
	text    string
	reading string
}

// Engine implements ime.PhoneticEngine with the standard keyboard layout.
type Engine struct {
	lex      Lexicon
	settings ime.Settings
	selKeys  []ime.KeySym
	perPage  int

	buf      []cell
	cursor   int
	syl      syllable
	outgoing strings.Builder
	aux      string

	chinese bool
	full    bool

	showing bool
	cands   []string
	candAt  int
	page    int

	shiftTap bool
	closed   bool
}

var _ ime.PhoneticEngine = (*Engine)(nil)

// NewEngine returns an engine in Chinese, half-width mode with default
// settings.
func NewEngine(lex Lexicon) *Engine {
	e := &Engine{lex: lex, chinese: true}
	e.Configure(ime.DefaultSettings())
	return e
}

// Configure applies settings. Selection keys beyond the page size are
// ignored and the page shrinks to the number of keys.
func (e *Engine) Configure(s ime.Settings) {
	e.settings = s
	e.selKeys = e.selKeys[:0]
	for _, r := range s.SelectionKeys {
		e.selKeys = append(e.selKeys, ime.KeySym(r))
	}
	if len(e.selKeys) == 0 {
		for _, r := range ime.DefaultSettings().SelectionKeys {
			e.selKeys = append(e.selKeys, ime.KeySym(r))
		}
	}
	e.perPage = s.CandPerPage
	if e.perPage <= 0 || e.perPage > len(e.selKeys) {
		e.perPage = len(e.selKeys)
	}
	if e.showing && e.page >= e.TotalPages() {
		e.page = 0
	}
}

// ProcessKey feeds one key event.
func (e *Engine) ProcessKey(sym ime.KeySym, mods ime.Modifier) (bool, error) {
	if e.closed {
		return false, ErrClosed
	}
	e.aux = ""

	if mods.Has(ime.ReleaseMask) {
		e.release(sym)
		return false, nil
	}
	if sym == ime.KeyShiftL || sym == ime.KeyShiftR {
		e.shiftTap = true
		return false, nil
	}
	e.shiftTap = false

	switch sym {
	case ime.KeyCapsLock:
		e.chinese = !e.chinese
		return false, nil
	case ime.KeyControlL, ime.KeyControlR:
		return false, nil
	}
	if mods&(ime.ControlMask|ime.Mod1Mask) != 0 {
		return false, nil
	}
	if sym == ime.KeySpace && mods.Has(ime.ShiftMask) {
		e.full = !e.full
		return true, nil
	}

	if e.showing {
		return e.candidateKey(sym)
	}
	if e.chinese {
		if handled, consumed, err := e.phoneticKey(sym, mods); handled {
			return consumed, err
		}
	}
	return e.editKey(sym)
}

// release toggles the input mode when Shift was tapped on its own.
func (e *Engine) release(sym ime.KeySym) {
	if (sym == ime.KeyShiftL || sym == ime.KeyShiftR) && e.shiftTap && e.settings.ShiftToggleChinese {
		e.chinese = !e.chinese
	}
	e.shiftTap = false
}

// phoneticKey handles layout keys, tones and punctuation in Chinese mode.
func (e *Engine) phoneticKey(sym ime.KeySym, mods ime.Modifier) (handled, consumed bool, err error) {
	if p, ok := punctuation[sym]; ok && e.syl.empty() {
		e.insert(cell{text: string(p)})
		return true, true, nil
	}
	if mods.Has(ime.ShiftMask) {
		return false, false, nil
	}
	if s, ok := dachen[sym]; ok {
		e.syl.put(s)
		return true, true, nil
	}
	if tone, ok := toneKeys[sym]; ok && !e.syl.empty() {
		return true, true, e.complete(tone)
	}
	if e.syl.empty() {
		return false, false, nil
	}

	switch sym {
	case ime.KeyBackSpace:
		e.syl.backspace()
	case ime.KeyEscape:
		e.syl = syllable{}
	}
	return true, true, nil
}

// complete converts the pending reading with tone into a character.
func (e *Engine) complete(tone int) error {
	e.syl.tone = tone
	reading := e.syl.key()
	e.syl = syllable{}

	cands, err := e.lex.Lookup(reading)
	if err != nil {
		return fmt.Errorf("convert %s: %w", reading, err)
	}
	if len(cands) == 0 {
		e.aux = "查無此音：" + reading
		return nil
	}
	e.insert(cell{text: cands[0], reading: reading})
	return nil
}

// editKey handles buffer editing and direct characters in either mode.
func (e *Engine) editKey(sym ime.KeySym) (bool, error) {
	composing := len(e.buf) > 0 || !e.syl.empty()

	switch sym {
	case ime.KeyReturn, ime.KeyKPEnter:
		if !composing {
			return false, nil
		}
		e.commitBuffer()
		return true, nil
	case ime.KeyBackSpace:
		if !composing {
			return false, nil
		}
		if e.cursor > 0 {
			e.buf = append(e.buf[:e.cursor-1], e.buf[e.cursor:]...)
			e.cursor--
		}
		return true, nil
	case ime.KeyDelete:
		if !composing {
			return false, nil
		}
		if e.cursor < len(e.buf) {
			e.buf = append(e.buf[:e.cursor], e.buf[e.cursor+1:]...)
		}
		return true, nil
	case ime.KeyLeft:
		if !composing {
			return false, nil
		}
		if e.cursor > 0 {
			e.cursor--
		}
		return true, nil
	case ime.KeyRight:
		if !composing {
			return false, nil
		}
		if e.cursor < len(e.buf) {
			e.cursor++
		}
		return true, nil
	case ime.KeyHome:
		if !composing {
			return false, nil
		}
		e.cursor = 0
		return true, nil
	case ime.KeyEnd:
		if !composing {
			return false, nil
		}
		e.cursor = len(e.buf)
		return true, nil
	case ime.KeyEscape:
		if !composing {
			return false, nil
		}
		if e.settings.EscCleanAllBuf {
			e.clearBuffer()
		}
		return true, nil
	case ime.KeyDown:
		if !composing {
			return false, nil
		}
		return e.openCandidates()
	case ime.KeyUp, ime.KeyPageUp, ime.KeyPageDown, ime.KeyTab:
		return composing, nil
	case ime.KeySpace:
		if composing && e.chinese && e.settings.SpaceAsSelection {
			return e.openCandidates()
		}
	}

	r := sym.Rune()
	if r == 0 {
		return false, nil
	}
	if e.full {
		r = fullWidth(r)
	}
	if !composing {
		if !e.full {
			return false, nil
		}
		e.outgoing.WriteRune(r)
		return true, nil
	}
	e.insert(cell{text: string(r)})
	return true, nil
}

// insert places c at the cursor and commits the oldest characters once the
// buffer grows past max-chi-symbol-len.
func (e *Engine) insert(c cell) {
	e.buf = append(e.buf, cell{})
	copy(e.buf[e.cursor+1:], e.buf[e.cursor:])
	e.buf[e.cursor] = c
	e.cursor++

	limit := e.settings.MaxChiSymbolLen
	if limit <= 0 || len(e.buf) <= limit {
		return
	}
	n := len(e.buf) - limit
	for _, c := range e.buf[:n] {
		e.outgoing.WriteString(c.text)
	}
	e.buf = append(e.buf[:0], e.buf[n:]...)
	e.cursor = max(e.cursor-n, 0)
}

func (e *Engine) commitBuffer() {
	for _, c := range e.buf {
		e.outgoing.WriteString(c.text)
	}
	e.clearBuffer()
}

func (e *Engine) clearBuffer() {
	e.buf = nil
	e.cursor = 0
	e.syl = syllable{}
	e.closeCandidates()
}

// openCandidates lists the alternatives for the character before the
// cursor, or the first character when the cursor is at the start.
func (e *Engine) openCandidates() (bool, error) {
	if len(e.buf) == 0 {
		return true, nil
	}
	at := max(e.cursor-1, 0)
	c := e.buf[at]
	if c.reading == "" {
		return true, nil
	}
	cands, err := e.lex.Lookup(c.reading)
	if err != nil {
		return false, fmt.Errorf("candidates for %s: %w", c.reading, err)
	}
	if len(cands) == 0 {
		return true, nil
	}
	e.cands = cands
	e.candAt = at
	e.page = 0
	e.showing = true
	return true, nil
}

func (e *Engine) closeCandidates() {
	e.showing = false
	e.cands = nil
	e.page = 0
}

// candidateKey handles keys while the candidate list is open. Every key
// is consumed.
func (e *Engine) candidateKey(sym ime.KeySym) (bool, error) {
	switch sym {
	case ime.KeyEscape, ime.KeyUp:
		e.closeCandidates()
		return true, nil
	case ime.KeyPageUp, ime.KeyLeft:
		e.turnPage(-1)
		return true, nil
	case ime.KeyPageDown, ime.KeyRight, ime.KeyDown:
		e.turnPage(1)
		return true, nil
	case ime.KeySpace:
		if e.settings.SpaceAsSelection {
			e.turnPage(1)
		}
		return true, nil
	case ime.KeyReturn, ime.KeyKPEnter:
		return true, e.choose(0)
	}
	for i, k := range e.SelectionKeys() {
		if k == sym {
			return true, e.choose(i)
		}
	}
	return true, nil
}

// turnPage moves by delta pages, wrapping at either end.
func (e *Engine) turnPage(delta int) {
	total := e.TotalPages()
	if total == 0 {
		return
	}
	e.page = ((e.page+delta)%total + total) % total
}

// choose replaces the character with the i-th candidate of the page.
func (e *Engine) choose(i int) error {
	idx := e.page*e.perPage + i
	if idx >= len(e.cands) {
		return nil
	}
	phrase := e.cands[idx]
	c := &e.buf[e.candAt]
	c.text = phrase
	e.closeCandidates()
	if err := e.lex.Learn(c.reading, phrase); err != nil {
		return fmt.Errorf("learn %s: %w", phrase, err)
	}
	return nil
}

// ClearComposition drops the buffer, the pending reading and candidates.
func (e *Engine) ClearComposition() {
	e.clearBuffer()
	e.aux = ""
}

// PreEdit is the buffer with the pending reading shown at the cursor.
func (e *Engine) PreEdit() string {
	var b strings.Builder
	for _, c := range e.buf[:e.cursor] {
		b.WriteString(c.text)
	}
	b.WriteString(e.syl.symbols())
	for _, c := range e.buf[e.cursor:] {
		b.WriteString(c.text)
	}
	return b.String()
}

func (e *Engine) Cursor() int { return e.cursor }

func (e *Engine) ZhuyinLen() int { return e.syl.len() }

func (e *Engine) Outgoing() string { return e.outgoing.String() }

func (e *Engine) ClearOutgoing() { e.outgoing.Reset() }

func (e *Engine) AuxString() string { return e.aux }

func (e *Engine) CandidatesPerPage() int { return e.perPage }

func (e *Engine) CurrentPage() int {
	if !e.showing {
		return 0
	}
	return e.page
}

func (e *Engine) TotalPages() int {
	if !e.showing || e.perPage == 0 {
		return 0
	}
	return (len(e.cands) + e.perPage - 1) / e.perPage
}

// SelectionKeys returns the keys of the current page's slots.
func (e *Engine) SelectionKeys() []ime.KeySym {
	return e.selKeys[:e.perPage]
}

func (e *Engine) CandidatesShowing() bool { return e.showing }

// LookupTable returns the current page.
func (e *Engine) LookupTable() *ime.LookupTable {
	lt := &ime.LookupTable{PageSize: e.perPage, Round: true}
	if !e.showing {
		return lt
	}
	start := e.page * e.perPage
	end := min(start+e.perPage, len(e.cands))
	lt.Candidates = append([]string(nil), e.cands[start:end]...)
	for _, k := range e.selKeys[:end-start] {
		lt.Labels = append(lt.Labels, k.String())
	}
	return lt
}

func (e *Engine) ChineseMode() bool { return e.chinese }

func (e *Engine) SetChineseMode(chinese bool) { e.chinese = chinese }

func (e *Engine) ToggleChineseMode() { e.chinese = !e.chinese }

func (e *Engine) FullWidth() bool { return e.full }

func (e *Engine) SetFullWidth(full bool) { e.full = full }

// Close discards all state. The lexicon is shared and stays open.
func (e *Engine) Close() error {
	e.ClearComposition()
	e.outgoing.Reset()
	e.closed = true
	return nil
}
