package ime

import "fmt"

// update runs the display pipeline after an event that may have changed
// engine state. Commit must run before ClearOutgoing, which it does itself.
func (s *Session) update() {
	s.updatePreEdit()
	s.commit()
	s.updateAux()
	s.updateLookupTable()
}

// refreshPreEdit recomputes the pre-edit snapshot without pushing it.
func (s *Session) refreshPreEdit() {
	text := decoratePreEdit(s.engine.PreEdit(), s.engine.Cursor())
	snap := PreEditSnapshot{
		Text:   text,
		Cursor: s.engine.Cursor() + s.engine.ZhuyinLen(),
	}
	if text.IsEmpty() {
		snap.Cursor = 0
		snap.Mode = PreeditClear
	} else {
		snap.Visible = true
		snap.Mode = PreeditCommit
	}
	s.preEdit = snap
}

func (s *Session) updatePreEdit() {
	s.refreshPreEdit()
	p := s.preEdit
	s.host.UpdatePreedit(p.Text, p.Cursor, p.Visible, p.Mode)
}

func (s *Session) refreshOutgoing() {
	s.outgoing = NewText(s.engine.Outgoing())
}

// commit delivers finalised text. Text finalised while unfocused is
// delivered even when empty.
func (s *Session) commit() {
	s.refreshOutgoing()
	if !s.outgoing.IsEmpty() || !s.flags.Has(FlagFocusIn) {
		s.host.CommitText(s.outgoing)
	}
	s.engine.ClearOutgoing()
}

// refreshAux picks the engine message first, then the page number.
func (s *Session) refreshAux() {
	if msg := s.engine.AuxString(); msg != "" {
		s.aux = NewText(msg)
		return
	}
	if s.settings.Settings().ShowPageNumber {
		if total := s.engine.TotalPages(); total > 1 {
			s.aux = NewText(fmt.Sprintf("(%d/%d)", s.engine.CurrentPage()+1, total))
			return
		}
	}
	s.aux = Text{}
}

func (s *Session) updateAux() {
	s.refreshAux()
	if s.aux.IsEmpty() {
		s.host.HideAuxiliaryText()
		return
	}
	s.host.UpdateAuxiliaryText(s.aux, true)
	s.host.ShowAuxiliaryText()
}

func (s *Session) updateLookupTable() {
	showing := s.engine.CandidatesShowing()
	s.host.UpdateLookupTable(s.engine.LookupTable(), showing)
	if showing {
		s.host.ShowLookupTable()
	} else {
		s.host.HideLookupTable()
	}
}

// refreshProperty updates one property's label and symbol and pushes it.
// AlnumSize is only pushed once properties are registered.
func (s *Session) refreshProperty(name string) {
	s.log.Debug("refresh property", "name", name, "flags", s.flags)
	switch name {
	case PropInputMode:
		s.props.applyInputMode(s.engine.ChineseMode())
		s.host.UpdateProperty(s.props.InputMode)
	case PropAlnumSize:
		s.props.applyAlnumSize(s.engine.FullWidth())
		if s.flags.Has(FlagPropertiesRegistered) {
			s.host.UpdateProperty(s.props.AlnumSize)
		}
	case PropSetup:
		s.props.Setup.Symbol = symbolSetup
		s.host.UpdateProperty(s.props.Setup)
	}
}

func (s *Session) refreshPropertyList() {
	s.refreshProperty(PropInputMode)
	s.refreshProperty(PropAlnumSize)
	s.refreshProperty(PropSetup)
}

// hidePropertyList hides the language bar entries until the next start.
func (s *Session) hidePropertyList() {
	s.props.setVisible(false)
	for _, p := range s.props.List() {
		s.host.UpdateProperty(p)
	}
}
