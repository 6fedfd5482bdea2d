package ime

// PhoneticEngine is the conversion engine a session drives. It owns the
// phonetic buffer, the committed-but-undelivered text and the candidate list.
//
// Queries never fail. ProcessKey may return an error when the engine's
// backing store fails; the session treats that as fatal.
type PhoneticEngine interface {
	// ProcessKey feeds a canonical key symbol. It reports whether the key
	// was consumed as composition input.
	ProcessKey(sym KeySym, mods Modifier) (bool, error)

	// ClearComposition drops the phonetic buffer and closes the candidate
	// list. Modes and pending outgoing text survive.
	ClearComposition()

	// PreEdit returns the composition string shown to the user.
	PreEdit() string

	// Cursor is the cursor position inside PreEdit, in characters.
	Cursor() int

	// ZhuyinLen is the number of phonetic symbols in the syllable being
	// typed at the cursor.
	ZhuyinLen() int

	// Outgoing returns text finalised by the engine and not yet delivered.
	Outgoing() string
	ClearOutgoing()

	// AuxString is a status message for the auxiliary line, or "".
	AuxString() string

	CandidatesPerPage() int
	// CurrentPage is zero-based.
	CurrentPage() int
	TotalPages() int
	SelectionKeys() []KeySym
	CandidatesShowing() bool
	LookupTable() *LookupTable

	ChineseMode() bool
	SetChineseMode(chinese bool)
	ToggleChineseMode()
	FullWidth() bool
	SetFullWidth(full bool)

	// Configure applies the current settings.
	Configure(s Settings)

	Close() error
}

// LookupTable is the candidate page owned by the engine. Hosts receive it
// by reference and must not modify it.
type LookupTable struct {
	PageSize      int
	CursorPos     int
	CursorVisible bool
	Round         bool
	Candidates    []string
	Labels        []string
}

// Settings are the user options that influence a session and its engine.
type Settings struct {
	CleanBufferFocusOut bool
	ShowPageNumber      bool
	SyncCapsLock        bool

	CandPerPage        int
	SelectionKeys      string
	MaxChiSymbolLen    int
	SpaceAsSelection   bool
	EscCleanAllBuf     bool
	ShiftToggleChinese bool
	ForceUSLayout      bool
	DefaultEnglish     bool
	DefaultFullWidth   bool
}

// DefaultSettings mirrors the defaults of the configuration file.
func DefaultSettings() Settings {
	return Settings{
		CleanBufferFocusOut: false,
		ShowPageNumber:      false,
		SyncCapsLock:        false,
		CandPerPage:         10,
		SelectionKeys:       "1234567890",
		MaxChiSymbolLen:     20,
		SpaceAsSelection:    true,
		EscCleanAllBuf:      false,
		ShiftToggleChinese:  true,
	}
}

// SettingsSource provides the current settings. Implementations may swap the
// returned value at any time; the session reads it when it needs it.
type SettingsSource interface {
	Settings() Settings
}

// StaticSettings is a SettingsSource that never changes.
type StaticSettings Settings

// Settings implements SettingsSource.
func (s StaticSettings) Settings() Settings { return Settings(s) }

// KeyMapper translates the raw key triple into a layout-independent symbol.
// It must be a pure function.
type KeyMapper interface {
	Canonical(sym KeySym, keycode uint32, mods Modifier) KeySym
}

// KeyMapperFunc adapts a function to KeyMapper.
type KeyMapperFunc func(sym KeySym, keycode uint32, mods Modifier) KeySym

// Canonical implements KeyMapper.
func (f KeyMapperFunc) Canonical(sym KeySym, keycode uint32, mods Modifier) KeySym {
	return f(sym, keycode, mods)
}

// identityKeyMapper keeps the host's keysym.
var identityKeyMapper = KeyMapperFunc(func(sym KeySym, _ uint32, _ Modifier) KeySym { return sym })

// KeyboardState reports lock-key state of the physical keyboard.
type KeyboardState interface {
	CapsLock() (bool, error)
}

// Launcher starts the external preferences tool. Launch must not wait for
// the tool to exit.
type Launcher interface {
	Launch() error
}
