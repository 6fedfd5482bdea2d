package ime

import "strings"

// StatusFlag holds the per-session status bits.
type StatusFlag uint32

const (
	FlagInitialized StatusFlag = 1 << iota
	FlagEnabled
	FlagFocusIn
	FlagIsPassword
	FlagPropertiesRegistered
)

var flagNames = []struct {
	flag StatusFlag
	name string
}{
	{FlagInitialized, "initialized"},
	{FlagEnabled, "enabled"},
	{FlagFocusIn, "focus-in"},
	{FlagIsPassword, "is-password"},
	{FlagPropertiesRegistered, "properties-registered"},
}

// Has reports whether every bit in f is set.
func (s StatusFlag) Has(f StatusFlag) bool { return s&f == f }

// Set returns s with f set.
func (s StatusFlag) Set(f StatusFlag) StatusFlag { return s | f }

// Clear returns s with f cleared.
func (s StatusFlag) Clear(f StatusFlag) StatusFlag { return s &^ f }

func (s StatusFlag) String() string {
	if s == 0 {
		return "none"
	}
	var names []string
	for _, fn := range flagNames {
		if s.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, "|")
}

// Capability is the bitmask a client reports through SetCapabilities.
type Capability uint32

const (
	CapPreeditText Capability = 1 << iota
	CapAuxiliaryText
	CapLookupTable
	CapFocus
	CapProperty
	CapSurroundingText
)

// InputPurpose values from SetContentType.
const (
	PurposeFreeForm uint32 = 0
	PurposePassword uint32 = 8
	PurposePIN      uint32 = 9
)
