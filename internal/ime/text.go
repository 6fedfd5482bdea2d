package ime

import (
	"fmt"
	"unicode/utf8"
)

// AttrType is the kind of a text attribute.
type AttrType uint32

const (
	AttrUnderline  AttrType = 1
	AttrForeground AttrType = 2
	AttrBackground AttrType = 3
)

// UnderlineSingle is the attribute value for a single underline.
const UnderlineSingle uint32 = 1

// Colors used to mark the character under the cursor.
const (
	CursorBackground uint32 = 0x00c8c8f0
	CursorForeground uint32 = 0x00000000
)

// Attribute decorates the half-open rune range [Start, End).
type Attribute struct {
	Type  AttrType
	Value uint32
	Start int
	End   int
}

// Text is an immutable display snapshot.
type Text struct {
	s     string
	attrs []Attribute
}

// NewText returns a plain text without attributes.
func NewText(s string) Text {
	return Text{s: s}
}

// String returns the text content.
func (t Text) String() string { return t.s }

// Len returns the length in runes.
func (t Text) Len() int { return utf8.RuneCountInString(t.s) }

// IsEmpty reports whether the text has no content.
func (t Text) IsEmpty() bool { return t.s == "" }

// Attributes returns a copy of the attribute list.
func (t Text) Attributes() []Attribute {
	out := make([]Attribute, len(t.attrs))
	copy(out, t.attrs)
	return out
}

// WithAttribute returns a new Text with a appended. The receiver is not
// modified.
func (t Text) WithAttribute(a Attribute) Text {
	attrs := make([]Attribute, len(t.attrs), len(t.attrs)+1)
	copy(attrs, t.attrs)
	return Text{s: t.s, attrs: append(attrs, a)}
}

// Validate checks that every attribute lies inside the text and that
// attributes of the same type do not overlap.
func (t Text) Validate() error {
	n := t.Len()
	for i, a := range t.attrs {
		if a.Start < 0 || a.End > n || a.Start >= a.End {
			return fmt.Errorf("attribute %d [%d,%d) outside [0,%d)", i, a.Start, a.End, n)
		}
		for j := 0; j < i; j++ {
			b := t.attrs[j]
			if a.Type == b.Type && a.Start < b.End && b.Start < a.End {
				return fmt.Errorf("attributes %d and %d of type %d overlap", j, i, a.Type)
			}
		}
	}
	return nil
}

// decoratePreEdit underlines the whole composition and highlights the
// character under the cursor.
func decoratePreEdit(s string, cursor int) Text {
	t := NewText(s)
	n := t.Len()
	if n == 0 {
		return t
	}
	t = t.WithAttribute(Attribute{Type: AttrUnderline, Value: UnderlineSingle, Start: 0, End: n})
	if cursor >= 0 && cursor < n {
		t = t.WithAttribute(Attribute{Type: AttrBackground, Value: CursorBackground, Start: cursor, End: cursor + 1})
		t = t.WithAttribute(Attribute{Type: AttrForeground, Value: CursorForeground, Start: cursor, End: cursor + 1})
	}
	return t
}

// PreeditFocusMode tells the host what to do with pre-edit text when focus
// moves away.
type PreeditFocusMode uint32

const (
	PreeditClear  PreeditFocusMode = 0
	PreeditCommit PreeditFocusMode = 1
)

func (m PreeditFocusMode) String() string {
	if m == PreeditCommit {
		return "commit"
	}
	return "clear"
}

// PreEditSnapshot is the last pre-edit state pushed to the host.
type PreEditSnapshot struct {
	Text    Text
	Cursor  int
	Visible bool
	Mode    PreeditFocusMode
}
