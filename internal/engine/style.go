package engine

import "strings"

// StyleFlags is a bitmask of boolean style attributes.
type StyleFlags uint8

const (
	// FlagBold marks bold text.
	FlagBold StyleFlags = 1 << iota
	// FlagItalic marks italic text.
	FlagItalic
	// FlagUnderline marks underlined text.
	FlagUnderline
	// FlagStrikethrough marks struck-through text.
	FlagStrikethrough
)

// AllFlags covers every defined style flag.
const AllFlags = FlagBold | FlagItalic | FlagUnderline | FlagStrikethrough

// Has returns true if f contains the specified flag.
func (f StyleFlags) Has(flag StyleFlags) bool {
	return f&flag != 0
}

// With returns f with the specified flags added.
func (f StyleFlags) With(flags StyleFlags) StyleFlags {
	return f | flags
}

// Without returns f with the specified flags removed.
func (f StyleFlags) Without(flags StyleFlags) StyleFlags {
	return f &^ flags
}

// String returns a representation like "bold|italic".
func (f StyleFlags) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	if f.Has(FlagBold) {
		parts = append(parts, "bold")
	}
	if f.Has(FlagItalic) {
		parts = append(parts, "italic")
	}
	if f.Has(FlagUnderline) {
		parts = append(parts, "underline")
	}
	if f.Has(FlagStrikethrough) {
		parts = append(parts, "strikethrough")
	}
	return strings.Join(parts, "|")
}

// Align is a paragraph alignment.
type Align uint8

const (
	// AlignLeft aligns text to the left edge.
	AlignLeft Align = iota
	// AlignCenter centers text.
	AlignCenter
	// AlignRight aligns text to the right edge.
	AlignRight
	// AlignJustify stretches lines to both edges.
	AlignJustify
)

// String returns the string representation of the alignment.
func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	default:
		return "unknown"
	}
}

// TriState describes a boolean style attribute's uniformity across a
// range: uniformly off, uniformly on, or mixed.
type TriState uint8

const (
	// TriOff means the attribute is off across the whole range.
	TriOff TriState = iota
	// TriOn means the attribute is on across the whole range.
	TriOn
	// TriMixed means the attribute varies within the range.
	TriMixed
)

// String returns the string representation of the tri-state.
func (t TriState) String() string {
	switch t {
	case TriOff:
		return "off"
	case TriOn:
		return "on"
	case TriMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// IsUniform returns true when the attribute is unambiguously on or off.
func (t TriState) IsUniform() bool {
	return t == TriOff || t == TriOn
}

// TriStateFlags holds one TriState per boolean style attribute.
type TriStateFlags struct {
	Bold          TriState
	Italic        TriState
	Underline     TriState
	Strikethrough TriState
}

// Get returns the tri-state for a single flag. Passing a mask with more
// than one bit set returns the state of the lowest set flag.
func (t TriStateFlags) Get(flag StyleFlags) TriState {
	switch {
	case flag.Has(FlagBold):
		return t.Bold
	case flag.Has(FlagItalic):
		return t.Italic
	case flag.Has(FlagUnderline):
		return t.Underline
	case flag.Has(FlagStrikethrough):
		return t.Strikethrough
	default:
		return TriOff
	}
}

// UniformFlags returns the flags whose tri-state is unambiguously on,
// and the set of flags that are uniform at all (on or off). Mixed
// attributes are excluded from both, so callers can refresh cached
// defaults without clobbering them on ambiguity.
func (t TriStateFlags) UniformFlags() (on, known StyleFlags) {
	decide := func(flag StyleFlags, ts TriState) {
		if !ts.IsUniform() {
			return
		}
		known = known.With(flag)
		if ts == TriOn {
			on = on.With(flag)
		}
	}
	decide(FlagBold, t.Bold)
	decide(FlagItalic, t.Italic)
	decide(FlagUnderline, t.Underline)
	decide(FlagStrikethrough, t.Strikethrough)
	return on, known
}

// DecodeTriStateFlags unpacks an engine snapshot word carrying 2 bits
// per attribute (0 = off, 1 = on, 2 and 3 = mixed), lowest bits first in
// flag declaration order.
func DecodeTriStateFlags(packed uint32) TriStateFlags {
	dec := func(shift uint) TriState {
		switch (packed >> shift) & 0x3 {
		case 0:
			return TriOff
		case 1:
			return TriOn
		default:
			return TriMixed
		}
	}
	return TriStateFlags{
		Bold:          dec(0),
		Italic:        dec(2),
		Underline:     dec(4),
		Strikethrough: dec(6),
	}
}

// StyleEdit is a style mutation over a logical range. A zero-length
// range addresses the typing attributes at the caret. Fields guarded by
// a Has flag are left untouched when the flag is false.
type StyleEdit struct {
	StartRune int
	EndRune   int

	// FlagsMask selects which boolean attributes change; FlagsValue
	// supplies their new values within the mask.
	FlagsMask  StyleFlags
	FlagsValue StyleFlags

	HasFontID   bool
	FontID      int
	HasFontSize bool
	FontSize    float64
	HasAlign    bool
	Align       Align
}
