package keymap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zhuyin/internal/ime"
)

func forced(on bool) ime.SettingsSource {
	s := ime.DefaultSettings()
	s.ForceUSLayout = on
	return ime.StaticSettings(s)
}

func TestMapperCanonical(t *testing.T) {
	tests := []struct {
		name    string
		force   bool
		sym     ime.KeySym
		keycode uint32
		mods    ime.Modifier
		want    ime.KeySym
	}{
		{"passthrough when not forced", false, 'ф', 30, 0, 'ф'},
		{"french azerty a key", true, 'q', 30, 0, 'a'},
		{"shifted digit", true, '!', 2, ime.ShiftMask, '!'},
		{"digit row", true, 0xe9, 3, 0, '2'},
		{"caps lock letter", true, 'a', 30, ime.LockMask, 'A'},
		{"caps lock leaves digits", true, '1', 2, ime.LockMask, '1'},
		{"caps and shift cancel", true, 'a', 30, ime.LockMask | ime.ShiftMask, 'a'},
		{"function keys pass", true, ime.KeyReturn, 28, 0, ime.KeyReturn},
		{"unknown keycode", true, 'x', 200, 0, 'x'},
		{"space", true, ime.KeySpace, 57, 0, ime.KeySpace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMapper(forced(tt.force))
			assert.Equal(t, tt.want, m.Canonical(tt.sym, tt.keycode, tt.mods))
		})
	}
}

func TestMapperWithoutSettings(t *testing.T) {
	m := NewMapper(nil)
	assert.Equal(t, ime.KeySym('q'), m.Canonical('q', 30, 0))
}

func writeLED(t *testing.T, root, name, value string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "brightness"), []byte(value), 0o644))
}

func TestLEDKeyboard(t *testing.T) {
	t.Run("off", func(t *testing.T) {
		root := t.TempDir()
		writeLED(t, root, "input3::capslock", "0\n")
		writeLED(t, root, "input3::numlock", "1\n")

		on, err := (&LEDKeyboard{Root: root}).CapsLock()
		require.NoError(t, err)
		assert.False(t, on)
	})

	t.Run("any keyboard lit", func(t *testing.T) {
		root := t.TempDir()
		writeLED(t, root, "input3::capslock", "0\n")
		writeLED(t, root, "input9::capslock", "1\n")

		on, err := (&LEDKeyboard{Root: root}).CapsLock()
		require.NoError(t, err)
		assert.True(t, on)
	})

	t.Run("no led", func(t *testing.T) {
		_, err := (&LEDKeyboard{Root: t.TempDir()}).CapsLock()
		assert.ErrorIs(t, err, ErrNoCapsLockLED)
	})

	t.Run("unreadable value", func(t *testing.T) {
		root := t.TempDir()
		writeLED(t, root, "input3::capslock", "bright")

		_, err := (&LEDKeyboard{Root: root}).CapsLock()
		assert.Error(t, err)
	})
}
