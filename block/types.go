package block

import (
	"encoding/json"
	"fmt"
)

// ID is a stable arena key for a block. IDs are assigned once at block
// creation and never reused for the lifetime of a Document.
type ID int64

// None is the zero ID; no live block ever carries it.
const None ID = 0

// Type is the semantic kind of a block.
type Type uint8

const (
	Text Type = iota
	Heading1
	Heading2
	Heading3
	Bullet
	Numbered
	Quote
)

var typeNames = map[Type]string{
	Text:     "text",
	Heading1: "heading1",
	Heading2: "heading2",
	Heading3: "heading3",
	Bullet:   "bullet",
	Numbered: "numbered",
	Quote:    "quote",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// IsList reports whether t is a list type, i.e. whether Level is
// meaningful for blocks of this type.
func (t Type) IsList() bool {
	return t == Bullet || t == Numbered
}

// IsHeading reports whether t is one of the three heading types.
func (t Type) IsHeading() bool {
	return t == Heading1 || t == Heading2 || t == Heading3
}

// ParseType maps the persisted name of a block type back to its Type.
func ParseType(s string) (Type, bool) {
	for t, name := range typeNames {
		if name == s {
			return t, true
		}
	}
	return Text, false
}

// MarshalJSON encodes the type by name.
func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a type name. Unrecognized names normalize to Text
// rather than failing; persisted content is repaired, never rejected.
func (t *Type) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*t = Text
		return nil
	}
	parsed, _ := ParseType(s)
	*t = parsed
	return nil
}

// StyleFlags is a bitmask of inline styles applied to a span of text.
type StyleFlags uint8

const (
	StyleBold StyleFlags = 1 << iota
	StyleItalic
	StyleStrike
)

// Has reports whether f contains every flag in mask.
func (f StyleFlags) Has(mask StyleFlags) bool {
	return f&mask == mask
}

// StyleSpan styles the half-open grapheme range [Start, End) of a block's
// text. Spans in a block are kept sorted, non-overlapping, and non-empty.
type StyleSpan struct {
	Start int        `json:"start"`
	End   int        `json:"end"`
	Style StyleFlags `json:"style"`
}

// Spec is the portable form of a block: everything about it except its
// arena identity. Bridges (persistence, markdown, export) speak Spec.
type Spec struct {
	Type  Type        `json:"type"`
	Level int         `json:"level,omitempty"`
	Text  string      `json:"text"`
	Spans []StyleSpan `json:"spans,omitempty"`
}

// Caret is a logical cursor position: a block plus a grapheme offset into
// that block's text.
type Caret struct {
	Block  ID
	Offset int
}

// View is a render-ready snapshot of one block, including the derived
// marker label for numbered blocks.
type View struct {
	ID    ID
	Type  Type
	Level int
	Text  string
	Spans []StyleSpan
	Label string
}

// block is the arena-owned state of one block.
type block struct {
	id    ID
	typ   Type
	level int
	text  string
	spans []StyleSpan
}

func (b *block) spec() Spec {
	return Spec{
		Type:  b.typ,
		Level: b.level,
		Text:  b.text,
		Spans: cloneSpans(b.spans),
	}
}

// normalizeLevel pins level to 0 for non-list types and floors it at 0.
func normalizeLevel(t Type, level int) int {
	if !t.IsList() {
		return 0
	}
	if level < 0 {
		return 0
	}
	return level
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
