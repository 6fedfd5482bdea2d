//go:build linux

package ibus

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zhuyin/internal/ime"
)

type signal struct {
	path   dbus.ObjectPath
	name   string
	values []interface{}
}

type export struct {
	v     interface{}
	path  dbus.ObjectPath
	iface string
}

type fakeBus struct {
	mu       sync.Mutex
	signals  []signal
	exports  []export
	emitErr  error
	exportFn func(path dbus.ObjectPath, iface string) error
}

func (b *fakeBus) Emit(path dbus.ObjectPath, name string, values ...interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.signals = append(b.signals, signal{path, name, values})
	return b.emitErr
}

func (b *fakeBus) Export(v interface{}, path dbus.ObjectPath, iface string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.exportFn != nil {
		if err := b.exportFn(path, iface); err != nil {
			return err
		}
	}
	b.exports = append(b.exports, export{v, path, iface})
	return nil
}

func (b *fakeBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, s := range b.signals {
		out = append(out, strings.TrimPrefix(s.name, IBusEngineInterface+"."))
	}
	return out
}

func (b *fakeBus) last(member string) (signal, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.signals) - 1; i >= 0; i-- {
		if b.signals[i].name == IBusEngineInterface+"."+member {
			return b.signals[i], true
		}
	}
	return signal{}, false
}

// echoEngine appends every printable key to the composition and commits
// on Return.
type echoEngine struct {
	buf      []rune
	outgoing string
	closed   bool
	err      error
}

func (e *echoEngine) ProcessKey(sym ime.KeySym, mods ime.Modifier) (bool, error) {
	if e.err != nil {
		return false, e.err
	}
	if mods.Has(ime.ReleaseMask) {
		return false, nil
	}
	if sym == ime.KeyReturn && len(e.buf) > 0 {
		e.outgoing, e.buf = string(e.buf), nil
		return true, nil
	}
	if r := sym.Rune(); r != 0 {
		e.buf = append(e.buf, r)
		return true, nil
	}
	return false, nil
}

func (e *echoEngine) ClearComposition()             { e.buf = nil }
func (e *echoEngine) PreEdit() string               { return string(e.buf) }
func (e *echoEngine) Cursor() int                   { return len(e.buf) }
func (e *echoEngine) ZhuyinLen() int                { return 0 }
func (e *echoEngine) Outgoing() string              { return e.outgoing }
func (e *echoEngine) ClearOutgoing()                { e.outgoing = "" }
func (e *echoEngine) AuxString() string             { return "" }
func (e *echoEngine) CandidatesPerPage() int        { return 10 }
func (e *echoEngine) CurrentPage() int              { return 0 }
func (e *echoEngine) TotalPages() int               { return 0 }
func (e *echoEngine) SelectionKeys() []ime.KeySym   { return nil }
func (e *echoEngine) CandidatesShowing() bool       { return false }
func (e *echoEngine) LookupTable() *ime.LookupTable { return &ime.LookupTable{PageSize: 10} }
func (e *echoEngine) ChineseMode() bool             { return true }
func (e *echoEngine) SetChineseMode(bool)           {}
func (e *echoEngine) ToggleChineseMode()            {}
func (e *echoEngine) FullWidth() bool               { return false }
func (e *echoEngine) SetFullWidth(bool)             {}
func (e *echoEngine) Configure(ime.Settings)        {}
func (e *echoEngine) Close() error {
	e.closed = true
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestFactory(t *testing.T, bus *fakeBus) (*Factory, *[]*echoEngine) {
	t.Helper()
	var built []*echoEngine
	f, err := NewFactory(bus, FactoryConfig{
		NewEngine: func() (ime.PhoneticEngine, error) {
			e := &echoEngine{}
			built = append(built, e)
			return e, nil
		},
		Logger: discardLogger(),
	})
	require.NoError(t, err)
	return f, &built
}

func TestNewFactoryValidates(t *testing.T) {
	_, err := NewFactory(nil, FactoryConfig{})
	assert.Error(t, err)
	_, err = NewFactory(&fakeBus{}, FactoryConfig{})
	assert.Error(t, err)
}

func TestCreateEngineExportsObject(t *testing.T) {
	bus := &fakeBus{}
	f, built := newTestFactory(t, bus)

	path, dbusErr := f.CreateEngine(ZhuyinEngineName)
	require.Nil(t, dbusErr)
	assert.Equal(t, dbus.ObjectPath("/org/freedesktop/IBus/Engine/1"), path)
	require.Len(t, bus.exports, 2)
	assert.Equal(t, IBusEngineInterface, bus.exports[0].iface)
	assert.Equal(t, IBusServiceInterface, bus.exports[1].iface)
	assert.Len(t, *built, 1)

	path2, dbusErr := f.CreateEngine(ZhuyinEngineName)
	require.Nil(t, dbusErr)
	assert.Equal(t, dbus.ObjectPath("/org/freedesktop/IBus/Engine/2"), path2)
	assert.Equal(t, 2, f.Len())
}

func TestCreateEngineRejectsUnknownName(t *testing.T) {
	bus := &fakeBus{}
	f, built := newTestFactory(t, bus)

	_, dbusErr := f.CreateEngine("pinyin")
	require.NotNil(t, dbusErr)
	assert.Equal(t, "org.freedesktop.IBus.NoEngine", dbusErr.Name)
	assert.Empty(t, *built)
	assert.Empty(t, bus.exports)
}

func TestCreateEngineBuilderFailure(t *testing.T) {
	f, err := NewFactory(&fakeBus{}, FactoryConfig{
		NewEngine: func() (ime.PhoneticEngine, error) { return nil, errors.New("no dictionary") },
		Logger:    discardLogger(),
	})
	require.NoError(t, err)

	_, dbusErr := f.CreateEngine(ZhuyinEngineName)
	assert.NotNil(t, dbusErr)
	assert.Equal(t, 0, f.Len())
}

func TestCreateEngineExportFailureClosesSession(t *testing.T) {
	bus := &fakeBus{exportFn: func(_ dbus.ObjectPath, iface string) error {
		if iface == IBusServiceInterface {
			return errors.New("export refused")
		}
		return nil
	}}
	f, built := newTestFactory(t, bus)

	_, dbusErr := f.CreateEngine(ZhuyinEngineName)
	assert.NotNil(t, dbusErr)
	require.Len(t, *built, 1)
	assert.True(t, (*built)[0].closed)
	assert.Equal(t, 0, f.Len())
}

func TestEngineKeyFlowEmitsSignals(t *testing.T) {
	bus := &fakeBus{}
	f, _ := newTestFactory(t, bus)
	path, _ := f.CreateEngine(ZhuyinEngineName)
	eng, ok := f.Engine(path)
	require.True(t, ok)

	require.Nil(t, eng.Enable())
	require.Nil(t, eng.FocusIn())
	reg, ok := bus.last("RegisterProperties")
	require.True(t, ok)
	assert.Equal(t, path, reg.path)
	props := reg.values[0].(dbus.Variant).Value().(ibusPropList)
	assert.Len(t, props.Properties, 3)

	consumed, dbusErr := eng.ProcessKeyEvent('a', 30, 0)
	require.Nil(t, dbusErr)
	assert.True(t, consumed)

	pre, ok := bus.last("UpdatePreeditText")
	require.True(t, ok)
	require.Len(t, pre.values, 4)
	text := pre.values[0].(dbus.Variant).Value().(ibusText)
	assert.Equal(t, "a", text.Text)
	assert.Equal(t, uint32(1), pre.values[1])
	assert.Equal(t, true, pre.values[2])
	assert.Equal(t, uint32(ime.PreeditCommit), pre.values[3])

	_, dbusErr = eng.ProcessKeyEvent(uint32(ime.KeyReturn), 28, 0)
	require.Nil(t, dbusErr)
	commit, ok := bus.last("CommitText")
	require.True(t, ok)
	assert.Equal(t, "a", commit.values[0].(dbus.Variant).Value().(ibusText).Text)
}

func TestEngineDestroy(t *testing.T) {
	bus := &fakeBus{}
	f, built := newTestFactory(t, bus)
	path, _ := f.CreateEngine(ZhuyinEngineName)
	eng, _ := f.Engine(path)

	require.Nil(t, eng.Destroy())
	assert.True(t, (*built)[0].closed)
	assert.Equal(t, 0, f.Len())

	var unexported int
	for _, e := range bus.exports {
		if e.v == nil && e.path == path {
			unexported++
		}
	}
	assert.Equal(t, 2, unexported)

	// A second Destroy is harmless.
	require.Nil(t, eng.Destroy())
}

func unexportCount(bus *fakeBus, path dbus.ObjectPath) int {
	var n int
	for _, e := range bus.exports {
		if e.v == nil && e.path == path {
			n++
		}
	}
	return n
}

func TestEngineFailureUnexportsObject(t *testing.T) {
	tests := []struct {
		name string
		call func(eng *Engine) *dbus.Error
	}{
		{"key event", func(eng *Engine) *dbus.Error {
			_, err := eng.ProcessKeyEvent('a', 30, 0)
			return err
		}},
		{"page down", (*Engine).PageDown},
		{"cursor up", (*Engine).CursorUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := &fakeBus{}
			f, built := newTestFactory(t, bus)
			path, _ := f.CreateEngine(ZhuyinEngineName)
			eng, _ := f.Engine(path)
			require.Nil(t, eng.FocusIn())
			(*built)[0].err = errors.New("engine broken")

			assert.NotNil(t, tt.call(eng))
			assert.Equal(t, 0, f.Len())
			_, ok := f.Engine(path)
			assert.False(t, ok)
			assert.True(t, (*built)[0].closed)
			assert.Equal(t, 2, unexportCount(bus, path))

			// A call racing the teardown fails without unexporting again.
			_, dbusErr := eng.ProcessKeyEvent('b', 48, 0)
			assert.NotNil(t, dbusErr)
			assert.Equal(t, 2, unexportCount(bus, path))
		})
	}
}

func TestFactoryCloseDestroysAll(t *testing.T) {
	bus := &fakeBus{}
	f, built := newTestFactory(t, bus)
	f.CreateEngine(ZhuyinEngineName)
	f.CreateEngine(ZhuyinEngineName)

	require.NoError(t, f.Close())
	assert.Equal(t, 0, f.Len())
	for _, e := range *built {
		assert.True(t, e.closed)
	}
}

func TestSignalHostEmitFailureIsLogged(t *testing.T) {
	bus := &fakeBus{emitErr: errors.New("connection closed")}
	h := &signalHost{conn: bus, path: "/org/freedesktop/IBus/Engine/9", log: discardLogger()}

	assert.NotPanics(t, func() { h.ShowLookupTable() })
	assert.Equal(t, []string{"ShowLookupTable"}, bus.names())
}

func TestTextVariantCarriesAttributes(t *testing.T) {
	text := ime.NewText("中文").
		WithAttribute(ime.Attribute{Type: ime.AttrUnderline, Value: ime.UnderlineSingle, Start: 0, End: 2}).
		WithAttribute(ime.Attribute{Type: ime.AttrBackground, Value: ime.CursorBackground, Start: 1, End: 2})

	v := textVariant(text)
	assert.Equal(t, "(sa{sv}sv)", v.Signature().String())

	it := v.Value().(ibusText)
	assert.Equal(t, "IBusText", it.Name)
	assert.Equal(t, "中文", it.Text)

	list := it.AttrList.Value().(ibusAttrList)
	assert.Equal(t, "IBusAttrList", list.Name)
	require.Len(t, list.Attributes, 2)
	bg := list.Attributes[1].Value().(ibusAttribute)
	assert.Equal(t, ibusAttribute{
		Name:        "IBusAttribute",
		Attachments: map[string]dbus.Variant{},
		Type:        3,
		Value:       0x00c8c8f0,
		Start:       1,
		End:         2,
	}, bg)
}

func TestLookupTableVariant(t *testing.T) {
	v := lookupTableVariant(&ime.LookupTable{
		PageSize:      5,
		CursorPos:     2,
		CursorVisible: true,
		Candidates:    []string{"中", "鐘", "忠"},
		Labels:        []string{"1", "2", "3"},
	})
	assert.Equal(t, "(sa{sv}uubbiavav)", v.Signature().String())

	tbl := v.Value().(ibusLookupTable)
	assert.Equal(t, uint32(5), tbl.PageSize)
	assert.Equal(t, uint32(2), tbl.CursorPos)
	require.Len(t, tbl.Candidates, 3)
	assert.Equal(t, "鐘", tbl.Candidates[1].Value().(ibusText).Text)
	assert.Equal(t, "3", tbl.Labels[2].Value().(ibusText).Text)

	empty := lookupTableVariant(nil).Value().(ibusLookupTable)
	assert.Empty(t, empty.Candidates)
}

func TestPropertyVariant(t *testing.T) {
	v := propertyVariant(ime.Property{
		Key: ime.PropInputMode, Label: "Switch to Alphanumeric Mode", Symbol: "中",
		Sensitive: true, Visible: true,
	})
	assert.Equal(t, "(sa{sv}suvsvbbuvv)", v.Signature().String())

	p := v.Value().(ibusProperty)
	assert.Equal(t, ime.PropInputMode, p.Key)
	assert.Equal(t, "中", p.Symbol.Value().(ibusText).Text)
	assert.True(t, p.Visible)
}

func TestDisplayParts(t *testing.T) {
	tests := []struct {
		x11, wayland string
		host, num    string
	}{
		{":0", "", "unix", "0"},
		{":1.0", "", "unix", "1"},
		{"remote:10.0", "", "remote", "10"},
		{"", "wayland-0", "unix", "wayland-0"},
		{"", "", "unix", "0"},
	}
	for _, tt := range tests {
		host, num := displayParts(tt.x11, tt.wayland)
		assert.Equal(t, tt.host, host, tt.x11)
		assert.Equal(t, tt.num, num, tt.x11)
	}
}

func TestParseBusFile(t *testing.T) {
	content := "# This file is created by ibus-daemon, please do not modify it.\n" +
		"IBUS_ADDRESS=unix:path=/home/u/.cache/ibus/dbus-abc,guid=123\n" +
		"IBUS_DAEMON_PID=4242\n"
	addr, err := parseBusFile(strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, "unix:path=/home/u/.cache/ibus/dbus-abc,guid=123", addr)

	_, err = parseBusFile(strings.NewReader("IBUS_DAEMON_PID=1\n"))
	assert.ErrorIs(t, err, ErrNoAddress)
}

func TestAddressPrefersEnvironment(t *testing.T) {
	t.Setenv("IBUS_ADDRESS", "unix:abstract=/tmp/ibus")
	addr, err := Address()
	require.NoError(t, err)
	assert.Equal(t, "unix:abstract=/tmp/ibus", addr)
}

func TestBusFilePathUsesConfigHome(t *testing.T) {
	if _, err := machineID(); err != nil {
		t.Skip("no machine id on this host")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("DISPLAY", ":3")

	path, err := BusFilePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ibus", "bus"), filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, "-unix-3"))
}

func TestComponentInstallUninstall(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "component")
	c := NewComponent("/usr/libexec/ibus-engine-zhuyin", "/usr/libexec/ibus-setup-zhuyin")

	path, err := Install(dir, c)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc := string(data)
	assert.True(t, strings.HasPrefix(doc, `<?xml version="1.0" encoding="utf-8"?>`))
	assert.Contains(t, doc, "<exec>/usr/libexec/ibus-engine-zhuyin -ibus</exec>")
	assert.Contains(t, doc, "<name>zhuyin</name>")
	assert.Contains(t, doc, "<setup>/usr/libexec/ibus-setup-zhuyin</setup>")
	assert.Contains(t, doc, "<layout>us</layout>")

	require.NoError(t, Uninstall(dir))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
