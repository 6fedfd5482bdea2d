package keymap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrNoCapsLockLED means no Caps Lock indicator was found.
var ErrNoCapsLockLED = errors.New("keymap: no caps lock led")

// DefaultLEDRoot is the sysfs LED class directory.
const DefaultLEDRoot = "/sys/class/leds"

// LEDKeyboard implements ime.KeyboardState from the kernel's keyboard LED
// class devices. Caps Lock is on when any keyboard reports its LED lit.
type LEDKeyboard struct {
	Root string
}

// NewLEDKeyboard reads LEDs under DefaultLEDRoot.
func NewLEDKeyboard() *LEDKeyboard {
	return &LEDKeyboard{Root: DefaultLEDRoot}
}

// CapsLock reports the Caps Lock state.
func (k *LEDKeyboard) CapsLock() (bool, error) {
	root := k.Root
	if root == "" {
		root = DefaultLEDRoot
	}
	paths, err := filepath.Glob(filepath.Join(root, "*::capslock", "brightness"))
	if err != nil {
		return false, err
	}
	if len(paths) == 0 {
		return false, ErrNoCapsLockLED
	}

	var lastErr error
	read := 0
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			lastErr = err
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(string(data)))
		if err != nil {
			lastErr = fmt.Errorf("parse %s: %w", p, err)
			continue
		}
		read++
		if v > 0 {
			return true, nil
		}
	}
	if read == 0 {
		return false, lastErr
	}
	return false, nil
}
