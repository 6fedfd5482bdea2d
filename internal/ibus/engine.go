//go:build linux

package ibus

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"

	"zhuyin/internal/ime"
)

// Engine is the D-Bus object for one input context. godbus may dispatch
// calls concurrently, so every call holds mu while it drives the session.
type Engine struct {
	path    dbus.ObjectPath
	factory *Factory
	log     *slog.Logger

	mu      sync.Mutex
	session *ime.Session
}

// Path returns the object path the engine is exported at.
func (e *Engine) Path() dbus.ObjectPath { return e.path }

func (e *Engine) with(fn func(s *ime.Session)) *dbus.Error {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.session)
	return nil
}

func (e *Engine) withErr(fn func(s *ime.Session) error) *dbus.Error {
	e.mu.Lock()
	err := fn(e.session)
	e.mu.Unlock()
	if err != nil {
		e.log.Error("engine call failed", "error", err)
		e.teardown(err)
		return dbus.MakeFailedError(err)
	}
	return nil
}

// teardown unexports the engine once its session can no longer serve the
// input context. Callers must not hold mu.
func (e *Engine) teardown(err error) {
	if errors.Is(err, ime.ErrSessionAborted) || errors.Is(err, ime.ErrSessionClosed) {
		e.factory.destroy(e)
	}
}

// ProcessKeyEvent handles key press/release events from IBus.
// Returns true if the key was consumed, false to pass through.
func (e *Engine) ProcessKeyEvent(keyval, keycode, state uint32) (bool, *dbus.Error) {
	e.mu.Lock()
	consumed, err := e.session.ProcessKeyEvent(ime.KeySym(keyval), keycode, ime.Modifier(state))
	e.mu.Unlock()
	if err != nil {
		e.log.Error("key event aborted session", "error", err)
		e.teardown(err)
		return false, dbus.MakeFailedError(err)
	}
	return consumed, nil
}

// FocusIn is called when the engine gains input focus.
func (e *Engine) FocusIn() *dbus.Error {
	return e.with((*ime.Session).FocusIn)
}

// FocusOut is called when the engine loses input focus.
func (e *Engine) FocusOut() *dbus.Error {
	return e.with((*ime.Session).FocusOut)
}

func (e *Engine) Reset() *dbus.Error {
	return e.with((*ime.Session).Reset)
}

func (e *Engine) Enable() *dbus.Error {
	return e.with((*ime.Session).Enable)
}

func (e *Engine) Disable() *dbus.Error {
	return e.with((*ime.Session).Disable)
}

// SetCapabilities informs about client capabilities.
func (e *Engine) SetCapabilities(caps uint32) *dbus.Error {
	return e.with(func(s *ime.Session) { s.SetCapabilities(ime.Capability(caps)) })
}

// SetContentType informs about the type of content being edited.
func (e *Engine) SetContentType(purpose, hints uint32) *dbus.Error {
	return e.with(func(s *ime.Session) { s.SetContentType(purpose, hints) })
}

// SetCursorLocation is accepted and ignored; the panel positions itself.
func (e *Engine) SetCursorLocation(x, y, w, h int32) *dbus.Error {
	return nil
}

// SetSurroundingText is accepted and ignored.
func (e *Engine) SetSurroundingText(text dbus.Variant, cursorPos, anchorPos uint32) *dbus.Error {
	return nil
}

func (e *Engine) PropertyActivate(name string, state uint32) *dbus.Error {
	return e.with(func(s *ime.Session) { s.PropertyActivate(name, state) })
}

func (e *Engine) PropertyShow(name string) *dbus.Error {
	return e.with(func(s *ime.Session) { s.PropertyShow(name) })
}

func (e *Engine) PropertyHide(name string) *dbus.Error {
	return e.with(func(s *ime.Session) { s.PropertyHide(name) })
}

// CandidateClicked handles candidate selection with the mouse.
func (e *Engine) CandidateClicked(index, button, state uint32) *dbus.Error {
	return e.withErr(func(s *ime.Session) error { return s.CandidateClicked(index, button, state) })
}

func (e *Engine) PageUp() *dbus.Error     { return e.withErr((*ime.Session).PageUp) }
func (e *Engine) PageDown() *dbus.Error   { return e.withErr((*ime.Session).PageDown) }
func (e *Engine) CursorUp() *dbus.Error   { return e.withErr((*ime.Session).CursorUp) }
func (e *Engine) CursorDown() *dbus.Error { return e.withErr((*ime.Session).CursorDown) }

// Destroy implements org.freedesktop.IBus.Service.Destroy. The session is
// closed and the object unexported.
func (e *Engine) Destroy() *dbus.Error {
	e.factory.destroy(e)
	return nil
}

func (e *Engine) close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Close()
}
