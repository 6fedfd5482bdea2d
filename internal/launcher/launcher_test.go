package launcher

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeScript(t *testing.T, body string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "setup.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), mode))
	return path
}

func TestLaunchStartsAndReaps(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	marker := filepath.Join(t.TempDir(), "ran")
	c := New(writeScript(t, "touch \"$1\"", 0o755), quietLogger(), marker)

	require.NoError(t, c.Launch())
	c.Wait()

	assert.False(t, c.Running())
	_, err := os.Stat(marker)
	assert.NoError(t, err)
}

func TestLaunchRejectsNonExecutable(t *testing.T) {
	c := New(writeScript(t, "exit 0", 0o644), quietLogger())
	assert.ErrorIs(t, c.Launch(), ErrNotExecutable)
	assert.False(t, c.Running())
}

func TestLaunchMissingProgram(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "missing"), quietLogger())
	assert.ErrorIs(t, c.Launch(), ErrNotExecutable)

	assert.ErrorIs(t, New("", quietLogger()).Launch(), ErrNotExecutable)
}

func TestLaunchSingleInstance(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	c := New(writeScript(t, "sleep 0.5", 0o755), quietLogger())

	require.NoError(t, c.Launch())
	assert.True(t, c.Running())
	require.NoError(t, c.Launch(), "a second click while running is not an error")
	c.Wait()
	assert.False(t, c.Running())
}
