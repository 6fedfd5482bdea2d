package ime

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

var (
	// ErrSessionAborted wraps engine failures that ended a session.
	ErrSessionAborted = errors.New("session aborted")
	// ErrSessionClosed is returned by calls made after Close.
	ErrSessionClosed = errors.New("session closed")
)

// SessionConfig carries the collaborators of a session. Engine and Host are
// required.
type SessionConfig struct {
	Engine   PhoneticEngine
	Host     Host
	Settings SettingsSource
	Keymap   KeyMapper
	Keyboard KeyboardState
	Launcher Launcher
	Logger   *slog.Logger
}

// Session is the pre-edit state machine of one input context. It is not
// safe for concurrent use; callers must serialise calls.
type Session struct {
	id    string
	flags StatusFlag
	caps  Capability

	engine   PhoneticEngine
	host     Host
	settings SettingsSource
	keymap   KeyMapper
	keyboard KeyboardState
	launcher Launcher
	log      *slog.Logger

	preEdit  PreEditSnapshot
	aux      Text
	outgoing Text
	props    PropertySet

	closed bool
}

// NewSession creates a session that owns cfg.Engine. On error the engine
// has already been closed.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Engine == nil {
		return nil, errors.New("session: engine is required")
	}
	if cfg.Host == nil {
		cfg.Engine.Close()
		return nil, errors.New("session: host is required")
	}

	s := &Session{
		id:       uuid.New().String(),
		engine:   cfg.Engine,
		host:     cfg.Host,
		settings: cfg.Settings,
		keymap:   cfg.Keymap,
		keyboard: cfg.Keyboard,
		launcher: cfg.Launcher,
	}
	if s.settings == nil {
		s.settings = StaticSettings(DefaultSettings())
	}
	if s.keymap == nil {
		s.keymap = identityKeyMapper
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s.log = logger.With(slog.String("session", s.id))

	if err := s.initialize(); err != nil {
		s.Close()
		return nil, fmt.Errorf("initialize session: %w", err)
	}
	return s, nil
}

// initialize runs once per session object.
func (s *Session) initialize() (err error) {
	if s.flags.Has(FlagInitialized) {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine setup panicked: %v", r)
		}
	}()

	s.props = newPropertySet()
	st := s.settings.Settings()
	s.engine.Configure(st)
	s.engine.SetChineseMode(!st.DefaultEnglish)
	s.engine.SetFullWidth(st.DefaultFullWidth)
	s.props.applyInputMode(s.engine.ChineseMode())
	s.props.applyAlnumSize(s.engine.FullWidth())

	s.flags = s.flags.Set(FlagInitialized)
	s.log.Debug("session initialized")
	return nil
}

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id }

// Flags returns the current status flags.
func (s *Session) Flags() StatusFlag { return s.flags }

// Capabilities returns the mask last reported by the client.
func (s *Session) Capabilities() Capability { return s.caps }

// PreEdit returns the last pre-edit snapshot.
func (s *Session) PreEdit() PreEditSnapshot { return s.preEdit }

// AuxText returns the last auxiliary snapshot.
func (s *Session) AuxText() Text { return s.aux }

// Outgoing returns the last outgoing snapshot.
func (s *Session) Outgoing() Text { return s.outgoing }

// Properties returns copies of the language-bar properties.
func (s *Session) Properties() []Property { return s.props.List() }

func (s *Session) isPassword() bool { return s.flags.Has(FlagIsPassword) }

// start registers the properties once, applies settings, restores the input
// mode and refreshes the property list. Enable and FocusIn call it.
func (s *Session) start() {
	if !s.flags.Has(FlagPropertiesRegistered) {
		s.props.setVisible(true)
		s.host.RegisterProperties(s.props.List())
		s.flags = s.flags.Set(FlagPropertiesRegistered)
	}
	s.engine.Configure(s.settings.Settings())
	s.restoreMode()
	s.refreshPropertyList()
}

// restoreMode syncs the Chinese/English mode from Caps Lock when enabled.
// Without a keyboard there is nothing to restore from.
func (s *Session) restoreMode() {
	if s.keyboard == nil {
		return
	}
	if s.settings.Settings().SyncCapsLock {
		capsOn, err := s.keyboard.CapsLock()
		if err != nil {
			s.log.Debug("caps lock state unavailable", "error", err)
		} else {
			s.engine.SetChineseMode(!capsOn)
		}
	}
	s.refreshProperty(PropInputMode)
}

// Reset clears the composition and the host's pre-edit, auxiliary and
// lookup surfaces. Modes are kept.
func (s *Session) Reset() {
	if s.closed {
		return
	}
	s.log.Debug("reset", "flags", s.flags)
	s.engine.ClearComposition()
	s.preEdit = PreEditSnapshot{Mode: PreeditClear}
	s.aux = Text{}
	s.host.HideAuxiliaryText()
	s.host.HideLookupTable()
	s.host.UpdatePreedit(s.preEdit.Text, 0, false, PreeditClear)
}

// Enable starts the session and marks it enabled.
func (s *Session) Enable() {
	if s.closed {
		return
	}
	s.log.Debug("enable", "flags", s.flags)
	s.start()
	s.flags = s.flags.Set(FlagEnabled)
}

// Disable clears the enabled flag. Engine state is kept so re-enabling
// resumes where it left off.
func (s *Session) Disable() {
	s.log.Debug("disable", "flags", s.flags)
	s.flags = s.flags.Clear(FlagEnabled)
}

// FocusIn starts the session and discards any composition.
func (s *Session) FocusIn() {
	if s.closed {
		return
	}
	s.log.Debug("focus in", "flags", s.flags)
	s.start()
	s.engine.ClearComposition()
	s.refreshPreEdit()
	s.refreshAux()
	s.refreshOutgoing()
	s.flags = s.flags.Set(FlagFocusIn)
}

// FocusOut hides the properties and, when configured, drops the
// composition. Password mode is left as is.
func (s *Session) FocusOut() {
	if s.closed {
		return
	}
	s.log.Debug("focus out", "flags", s.flags)
	s.flags = s.flags.Clear(FlagFocusIn | FlagPropertiesRegistered)
	s.hidePropertyList()

	if s.settings.Settings().CleanBufferFocusOut {
		s.engine.ClearComposition()
		s.refreshPreEdit()
		s.refreshAux()
	}
}

// SetCapabilities records what the client can display.
func (s *Session) SetCapabilities(caps Capability) {
	s.caps = caps
	s.log.Debug("set capabilities", "caps", fmt.Sprintf("%#x", uint32(caps)), "flags", s.flags)
}

// SetContentType switches password mode on for password and PIN fields.
func (s *Session) SetContentType(purpose, hints uint32) {
	s.log.Debug("set content type", "purpose", purpose, "hints", hints)
	if purpose == PurposePassword || purpose == PurposePIN {
		s.flags = s.flags.Set(FlagIsPassword)
	} else {
		s.flags = s.flags.Clear(FlagIsPassword)
	}
}

// abort closes the session after an engine failure.
func (s *Session) abort(err error) error {
	s.log.Error("engine failure, closing session", "error", err)
	s.Close()
	return fmt.Errorf("%w: %w", ErrSessionAborted, err)
}

// Close releases the engine. It is safe to call more than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.flags = 0
	s.preEdit = PreEditSnapshot{}
	s.aux = Text{}
	s.outgoing = Text{}
	if err := s.engine.Close(); err != nil {
		return fmt.Errorf("close engine: %w", err)
	}
	s.log.Debug("session closed")
	return nil
}

// Closed reports whether Close has run.
func (s *Session) Closed() bool { return s.closed }
