package ime

import "fmt"

// ProcessKeyEvent handles a key press or release from the host. It returns
// true when the engine consumed the key. A non-nil error means the engine
// failed and the session has been closed. Calls on a closed session return
// ErrSessionClosed.
func (s *Session) ProcessKeyEvent(sym KeySym, keycode uint32, mods Modifier) (bool, error) {
	if s.closed {
		return false, ErrSessionClosed
	}
	if mods&Mod4Mask != 0 {
		return false, nil
	}
	if s.isPassword() {
		return false, nil
	}

	canonical := s.keymap.Canonical(sym, keycode, mods)
	consumed, err := s.engine.ProcessKey(canonical, mods)
	if err != nil {
		return false, s.abort(err)
	}
	s.log.Debug("process key", "sym", sym, "canonical", canonical,
		"keycode", keycode, "mods", fmt.Sprintf("%#x", uint32(mods)), "consumed", consumed)

	s.update()

	// Mode keys change the language bar; other keys leave it alone so it
	// does not cover the candidate list.
	if canonical.IsModeKey() {
		s.refreshPropertyList()
	}
	return consumed, nil
}

// CandidateClicked selects the candidate at index on the current page as if
// its selection key had been pressed.
func (s *Session) CandidateClicked(index, button, state uint32) error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.isPassword() {
		return nil
	}
	s.log.Debug("candidate clicked", "index", index, "button", button, "state", state)
	if int(index) >= s.engine.CandidatesPerPage() {
		s.log.Debug("candidate index out of range", "index", index)
		return nil
	}
	if !s.engine.CandidatesShowing() {
		s.log.Debug("candidates are not showing")
		return nil
	}
	keys := s.engine.SelectionKeys()
	if int(index) >= len(keys) {
		s.log.Debug("no selection key for candidate", "index", index)
		return nil
	}
	if _, err := s.engine.ProcessKey(keys[index], 0); err != nil {
		return s.abort(err)
	}
	s.update()
	return nil
}

// PageUp moves the candidate list one page back.
func (s *Session) PageUp() error { return s.navigate(KeyPageUp) }

// PageDown moves the candidate list one page forward.
func (s *Session) PageDown() error { return s.navigate(KeyPageDown) }

// CursorUp moves the candidate cursor up.
func (s *Session) CursorUp() error { return s.navigate(KeyUp) }

// CursorDown moves the candidate cursor down.
func (s *Session) CursorDown() error { return s.navigate(KeyDown) }

func (s *Session) navigate(k KeySym) error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.isPassword() {
		return nil
	}
	if _, err := s.engine.ProcessKey(k, 0); err != nil {
		return s.abort(err)
	}
	s.update()
	return nil
}

// PropertyActivate handles a click on a language-bar property.
func (s *Session) PropertyActivate(name string, state uint32) {
	if s.closed {
		return
	}
	s.log.Debug("property activate", "name", name, "state", state)
	switch name {
	case PropInputMode:
		s.engine.ToggleChineseMode()
		s.log.Debug("input mode toggled", "chinese", s.engine.ChineseMode())
		s.refreshProperty(name)
	case PropAlnumSize:
		s.engine.SetFullWidth(!s.engine.FullWidth())
		s.refreshProperty(name)
	case PropSetup:
		if s.launcher == nil {
			s.log.Warn("no setup tool configured")
			return
		}
		if err := s.launcher.Launch(); err != nil {
			s.log.Warn("launch setup tool", "error", err)
		}
	default:
		s.log.Debug("property not recognized", "name", name, "state", state)
	}
}

// PropertyShow marks a property visible.
func (s *Session) PropertyShow(name string) {
	s.setPropertyVisible(name, true)
}

// PropertyHide marks a property hidden.
func (s *Session) PropertyHide(name string) {
	s.setPropertyVisible(name, false)
}

func (s *Session) setPropertyVisible(name string, visible bool) {
	p := s.props.Lookup(name)
	if p == nil {
		s.log.Info("unknown property", "name", name)
		return
	}
	p.Visible = visible
}
