package delta

import (
	"fmt"
	"unicode/utf16"
)

// Kind identifies the shape of an edit delta.
type Kind uint8

const (
	// KindNone means the before and after values are identical.
	KindNone Kind = iota
	// KindInsert inserts Text at Start.
	KindInsert
	// KindDelete removes [Start, End).
	KindDelete
	// KindReplace removes [Start, End) and inserts Text in its place.
	KindReplace
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInsert:
		return "insert"
	case KindDelete:
		return "delete"
	case KindReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Delta is a single contiguous edit in UTF-16 code unit indices relative
// to the old value. For an insert, Start == End.
type Delta struct {
	Kind  Kind
	Start int
	End   int
	Text  string
}

// IsZero returns true for the zero (no-op) delta.
func (d Delta) IsZero() bool {
	return d.Kind == KindNone
}

// TextUTF16Len returns the inserted text's length in UTF-16 code units.
func (d Delta) TextUTF16Len() int {
	return len(utf16.Encode([]rune(d.Text)))
}

// CaretAfter returns the intended caret position, in UTF-16 units of the
// new value, after this delta is applied: the end of the inserted text
// for inserts and replaces, the deletion start for deletes.
func (d Delta) CaretAfter() int {
	switch d.Kind {
	case KindInsert, KindReplace:
		return d.Start + d.TextUTF16Len()
	case KindDelete:
		return d.Start
	default:
		return d.Start
	}
}

// Apply reconstructs the new value by applying the delta to old.
// It exists for round-trip verification; production code sends the delta
// to the engine instead.
func (d Delta) Apply(old string) string {
	units := utf16.Encode([]rune(old))
	start, end := d.Start, d.End
	if start < 0 {
		start = 0
	}
	if end > len(units) {
		end = len(units)
	}
	if start > end {
		start, end = end, start
	}
	var out []uint16
	out = append(out, units[:start]...)
	out = append(out, utf16.Encode([]rune(d.Text))...)
	out = append(out, units[end:]...)
	return string(utf16.Decode(out))
}

// String returns a human-readable representation of the delta.
func (d Delta) String() string {
	switch d.Kind {
	case KindInsert:
		return fmt.Sprintf("Insert(%d, %q)", d.Start, d.Text)
	case KindDelete:
		return fmt.Sprintf("Delete[%d,%d)", d.Start, d.End)
	case KindReplace:
		return fmt.Sprintf("Replace[%d,%d) with %q", d.Start, d.End, d.Text)
	default:
		return "None"
	}
}

// Compute diffs oldValue against newValue and returns the minimal
// contiguous edit between them. caretHintAfter is the caret position in
// the new value (UTF-16 units) after the edit, as reported by the input
// surface; it disambiguates edits inside runs of identical characters
// (typing "teste" again at the start of "teste hola" must attribute the
// insertion to offset 0, not 5). Pass a negative hint when unknown.
//
// The second return value is false when the values are identical and no
// edit occurred (a pure selection change).
func Compute(oldValue, newValue string, caretHintAfter int) (Delta, bool) {
	if oldValue == newValue {
		return Delta{}, false
	}

	oldU := utf16.Encode([]rune(oldValue))
	newU := utf16.Encode([]rune(newValue))

	// Common suffix first, clamped so it never extends left of the
	// reported caret: everything right of the caret is untouched, but a
	// longer raw match would steal inserted text from the edit region.
	maxSuffix := min(len(oldU), len(newU))
	if caretHintAfter >= 0 && caretHintAfter <= len(newU) {
		if byCaret := len(newU) - caretHintAfter; byCaret < maxSuffix {
			maxSuffix = byCaret
		}
	}
	suffix := 0
	for suffix < maxSuffix && oldU[len(oldU)-1-suffix] == newU[len(newU)-1-suffix] {
		suffix++
	}

	// Common prefix, bounded so it never overlaps the suffix.
	maxPrefix := min(len(oldU), len(newU)) - suffix
	prefix := 0
	for prefix < maxPrefix && oldU[prefix] == newU[prefix] {
		prefix++
	}

	oldEnd := len(oldU) - suffix
	newEnd := len(newU) - suffix
	removed := oldEnd - prefix
	inserted := newEnd - prefix

	switch {
	case removed > 0 && inserted > 0:
		return Delta{
			Kind:  KindReplace,
			Start: prefix,
			End:   oldEnd,
			Text:  string(utf16.Decode(newU[prefix:newEnd])),
		}, true
	case removed > 0:
		return Delta{Kind: KindDelete, Start: prefix, End: oldEnd}, true
	case inserted > 0:
		return Delta{
			Kind:  KindInsert,
			Start: prefix,
			End:   prefix,
			Text:  string(utf16.Decode(newU[prefix:newEnd])),
		}, true
	default:
		// Equal unit sequences with unequal strings cannot happen for
		// valid UTF-8 input; treat as no-op.
		return Delta{}, false
	}
}
