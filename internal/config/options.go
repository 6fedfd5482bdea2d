package config

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrUnknownOption is returned for option names not in Options.
var ErrUnknownOption = errors.New("config: unknown option")

// OptionKind is the value type of an engine option.
type OptionKind int

const (
	BoolOption OptionKind = iota
	IntOption
	StringOption
)

// Option describes one engine option under its user-facing name.
type Option struct {
	Name        string
	Kind        OptionKind
	Description string

	boolField   func(*EngineConfig) *bool
	intField    func(*EngineConfig) *int
	stringField func(*EngineConfig) *string
}

var options = []Option{
	{Name: "clean-buffer-focus-out", Kind: BoolOption, Description: "Clear the buffer when focus leaves",
		boolField: func(e *EngineConfig) *bool { return &e.CleanBufferFocusOut }},
	{Name: "show-page-number", Kind: BoolOption, Description: "Show the candidate page number",
		boolField: func(e *EngineConfig) *bool { return &e.ShowPageNumber }},
	{Name: "sync-caps-lock", Kind: BoolOption, Description: "Follow Caps Lock for Chinese/English mode",
		boolField: func(e *EngineConfig) *bool { return &e.SyncCapsLock }},
	{Name: "cand-per-page", Kind: IntOption, Description: "Candidates per page",
		intField: func(e *EngineConfig) *int { return &e.CandPerPage }},
	{Name: "sel-keys", Kind: StringOption, Description: "Candidate selection keys",
		stringField: func(e *EngineConfig) *string { return &e.SelKeys }},
	{Name: "max-chi-symbol-len", Kind: IntOption, Description: "Characters kept before committing",
		intField: func(e *EngineConfig) *int { return &e.MaxChiSymbolLen }},
	{Name: "space-as-selection", Kind: BoolOption, Description: "Space opens the candidate list",
		boolField: func(e *EngineConfig) *bool { return &e.SpaceAsSelection }},
	{Name: "esc-clean-all-buf", Kind: BoolOption, Description: "Escape clears the whole buffer",
		boolField: func(e *EngineConfig) *bool { return &e.EscCleanAllBuf }},
	{Name: "shift-toggle-chinese", Kind: BoolOption, Description: "Shift toggles Chinese/English mode",
		boolField: func(e *EngineConfig) *bool { return &e.ShiftToggleChinese }},
	{Name: "force-us-layout", Kind: BoolOption, Description: "Read keys as on a US keyboard",
		boolField: func(e *EngineConfig) *bool { return &e.ForceUSLayout }},
	{Name: "default-english", Kind: BoolOption, Description: "Start in English mode",
		boolField: func(e *EngineConfig) *bool { return &e.DefaultEnglish }},
	{Name: "default-full-width", Kind: BoolOption, Description: "Start in full-width mode",
		boolField: func(e *EngineConfig) *bool { return &e.DefaultFullWidth }},
}

// Options returns the engine options in display order.
func Options() []Option {
	return append([]Option(nil), options...)
}

func lookupOption(name string) (Option, error) {
	for _, o := range options {
		if o.Name == name {
			return o, nil
		}
	}
	return Option{}, fmt.Errorf("%w: %s", ErrUnknownOption, name)
}

// Get returns the value of the named option as text.
func (e *EngineConfig) Get(name string) (string, error) {
	o, err := lookupOption(name)
	if err != nil {
		return "", err
	}
	switch o.Kind {
	case BoolOption:
		return strconv.FormatBool(*o.boolField(e)), nil
	case IntOption:
		return strconv.Itoa(*o.intField(e)), nil
	default:
		return *o.stringField(e), nil
	}
}

// Set parses value and assigns it to the named option. Range checks are
// left to ValidateConfig.
func (e *EngineConfig) Set(name, value string) error {
	o, err := lookupOption(name)
	if err != nil {
		return err
	}
	switch o.Kind {
	case BoolOption:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*o.boolField(e) = b
	case IntOption:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*o.intField(e) = n
	default:
		*o.stringField(e) = value
	}
	return nil
}
