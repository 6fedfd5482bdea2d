package ime

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

// hostCall records one display push.
type hostCall struct {
	Method  string
	Text    string
	Cursor  int
	Visible bool
	Mode    PreeditFocusMode
	Attrs   []Attribute
	Table   *LookupTable
	Props   []Property
}

type fakeHost struct {
	calls []hostCall
}

func (h *fakeHost) UpdatePreedit(text Text, cursor int, visible bool, mode PreeditFocusMode) {
	h.calls = append(h.calls, hostCall{Method: "UpdatePreedit", Text: text.String(), Cursor: cursor,
		Visible: visible, Mode: mode, Attrs: text.Attributes()})
}

func (h *fakeHost) CommitText(text Text) {
	h.calls = append(h.calls, hostCall{Method: "CommitText", Text: text.String()})
}

func (h *fakeHost) UpdateAuxiliaryText(text Text, visible bool) {
	h.calls = append(h.calls, hostCall{Method: "UpdateAuxiliaryText", Text: text.String(), Visible: visible})
}

func (h *fakeHost) ShowAuxiliaryText() { h.calls = append(h.calls, hostCall{Method: "ShowAuxiliaryText"}) }
func (h *fakeHost) HideAuxiliaryText() { h.calls = append(h.calls, hostCall{Method: "HideAuxiliaryText"}) }

func (h *fakeHost) UpdateLookupTable(table *LookupTable, visible bool) {
	h.calls = append(h.calls, hostCall{Method: "UpdateLookupTable", Table: table, Visible: visible})
}

func (h *fakeHost) ShowLookupTable() { h.calls = append(h.calls, hostCall{Method: "ShowLookupTable"}) }
func (h *fakeHost) HideLookupTable() { h.calls = append(h.calls, hostCall{Method: "HideLookupTable"}) }

func (h *fakeHost) RegisterProperties(props []Property) {
	h.calls = append(h.calls, hostCall{Method: "RegisterProperties", Props: props})
}

func (h *fakeHost) UpdateProperty(prop Property) {
	h.calls = append(h.calls, hostCall{Method: "UpdateProperty", Props: []Property{prop}})
}

func (h *fakeHost) reset() { h.calls = nil }

func (h *fakeHost) named(method string) []hostCall {
	var out []hostCall
	for _, c := range h.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (h *fakeHost) commits() []string {
	var out []string
	for _, c := range h.named("CommitText") {
		out = append(out, c.Text)
	}
	return out
}

func (h *fakeHost) lastPreedit() (hostCall, bool) {
	calls := h.named("UpdatePreedit")
	if len(calls) == 0 {
		return hostCall{}, false
	}
	return calls[len(calls)-1], true
}

func (h *fakeHost) updatedProperties() []string {
	var out []string
	for _, c := range h.named("UpdateProperty") {
		out = append(out, c.Props[0].Key)
	}
	return out
}

// fakeEngine is a scriptable PhoneticEngine. By default every printable
// key is appended to the composition at the cursor and Return commits it.
type fakeEngine struct {
	preEdit   []rune
	cursor    int
	zhuyinLen int
	outgoing  string
	aux       string

	perPage int
	page    int
	total   int
	selKeys []KeySym
	showing bool
	table   LookupTable

	chinese bool
	full    bool

	keys       []KeySym
	clears     int
	configured []Settings
	closed     int
	err        error
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		perPage: 10,
		selKeys: []KeySym{'1', '2', '3', '4', '5', '6', '7', '8', '9', '0'},
		chinese: true,
	}
}

func (e *fakeEngine) ProcessKey(sym KeySym, mods Modifier) (bool, error) {
	if e.err != nil {
		return false, e.err
	}
	e.keys = append(e.keys, sym)
	if mods.Has(ReleaseMask) {
		return false, nil
	}
	switch sym {
	case KeyReturn:
		if len(e.preEdit) == 0 {
			return false, nil
		}
		e.outgoing += string(e.preEdit)
		e.preEdit, e.cursor = nil, 0
		return true, nil
	case KeyLeft:
		if len(e.preEdit) == 0 {
			return false, nil
		}
		if e.cursor > 0 {
			e.cursor--
		}
		return true, nil
	case KeyCapsLock:
		e.chinese = !e.chinese
		return false, nil
	}
	if e.showing {
		for i, k := range e.selKeys {
			if k == sym && i < len(e.table.Candidates) {
				e.insert([]rune(e.table.Candidates[i])[0])
				e.showing = false
				return true, nil
			}
		}
	}
	if r := sym.Rune(); r != 0 {
		e.insert(r)
		return true, nil
	}
	return false, nil
}

func (e *fakeEngine) insert(r rune) {
	rs := append([]rune{}, e.preEdit[:e.cursor]...)
	rs = append(rs, r)
	e.preEdit = append(rs, e.preEdit[e.cursor:]...)
	e.cursor++
}

func (e *fakeEngine) ClearComposition() {
	e.clears++
	e.preEdit, e.cursor, e.zhuyinLen = nil, 0, 0
	e.showing = false
}

func (e *fakeEngine) PreEdit() string         { return string(e.preEdit) }
func (e *fakeEngine) Cursor() int             { return e.cursor }
func (e *fakeEngine) ZhuyinLen() int          { return e.zhuyinLen }
func (e *fakeEngine) Outgoing() string        { return e.outgoing }
func (e *fakeEngine) ClearOutgoing()          { e.outgoing = "" }
func (e *fakeEngine) AuxString() string       { return e.aux }
func (e *fakeEngine) CandidatesPerPage() int  { return e.perPage }
func (e *fakeEngine) CurrentPage() int        { return e.page }
func (e *fakeEngine) TotalPages() int         { return e.total }
func (e *fakeEngine) SelectionKeys() []KeySym { return e.selKeys }
func (e *fakeEngine) CandidatesShowing() bool { return e.showing }
func (e *fakeEngine) LookupTable() *LookupTable {
	return &e.table
}
func (e *fakeEngine) ChineseMode() bool           { return e.chinese }
func (e *fakeEngine) SetChineseMode(chinese bool) { e.chinese = chinese }
func (e *fakeEngine) ToggleChineseMode()          { e.chinese = !e.chinese }
func (e *fakeEngine) FullWidth() bool             { return e.full }
func (e *fakeEngine) SetFullWidth(full bool)      { e.full = full }
func (e *fakeEngine) Configure(s Settings)        { e.configured = append(e.configured, s) }
func (e *fakeEngine) Close() error {
	e.closed++
	return nil
}

type fakeKeyboard struct {
	caps bool
	err  error
}

func (k fakeKeyboard) CapsLock() (bool, error) { return k.caps, k.err }

type fakeLauncher struct {
	launches int
	err      error
}

func (l *fakeLauncher) Launch() error {
	l.launches++
	return l.err
}

var errEngineBroken = errors.New("dictionary unavailable")

type harness struct {
	s        *Session
	engine   *fakeEngine
	host     *fakeHost
	settings Settings
}

func newHarness(t *testing.T, mutate ...func(*Settings, *SessionConfig)) *harness {
	t.Helper()
	h := &harness{
		engine:   newFakeEngine(),
		host:     &fakeHost{},
		settings: DefaultSettings(),
	}
	cfg := SessionConfig{
		Engine: h.engine,
		Host:   h.host,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, m := range mutate {
		m(&h.settings, &cfg)
	}
	cfg.Settings = StaticSettings(h.settings)

	s, err := NewSession(cfg)
	require.NoError(t, err)
	h.s = s
	t.Cleanup(func() { s.Close() })
	return h
}

// focused returns a harness that is enabled, focused and has a clean host
// log.
func newFocusedHarness(t *testing.T, mutate ...func(*Settings, *SessionConfig)) *harness {
	t.Helper()
	h := newHarness(t, mutate...)
	h.s.Enable()
	h.s.FocusIn()
	h.host.reset()
	return h
}

func (h *harness) press(t *testing.T, keys ...KeySym) {
	t.Helper()
	for _, k := range keys {
		_, err := h.s.ProcessKeyEvent(k, 0, 0)
		require.NoError(t, err)
	}
}
