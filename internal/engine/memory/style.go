package memory

import (
	"github.com/dshills/textsync/internal/engine"
	"github.com/dshills/textsync/internal/index"
)

// ApplyStyleRange applies a style edit to a logical range. A zero-length
// range arms typing attributes at that position instead.
func (e *Engine) ApplyStyleRange(id engine.EntityID, edit engine.StyleEdit) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ent, ok := e.entities[id]
	if !ok {
		return
	}

	start := index.ClampRune(ent.content, edit.StartRune)
	end := index.ClampRune(ent.content, edit.EndRune)
	if start > end {
		start, end = end, start
	}

	if edit.HasAlign {
		ent.align = edit.Align
	}

	if start == end {
		// Typing attributes: style the next insertion at this caret.
		base := ent.defaultStyle
		if ent.typing != nil {
			base = ent.typing.style
		} else if start > 0 {
			base = ent.styles[start-1]
		}
		ent.typing = &typingAttrs{
			caretByte: index.RuneToByte(ent.content, start),
			style:     applyEdit(base, edit),
		}
		return
	}

	for i := start; i < end; i++ {
		ent.styles[i] = applyEdit(ent.styles[i], edit)
	}
}

// applyEdit patches one code point's style with the edit's masked fields.
func applyEdit(s runeStyle, edit engine.StyleEdit) runeStyle {
	s.flags = (s.flags &^ edit.FlagsMask) | (edit.FlagsValue & edit.FlagsMask)
	if edit.HasFontID {
		s.fontID = edit.FontID
	}
	if edit.HasFontSize {
		s.fontSize = edit.FontSize
	}
	return s
}

// triStateOver aggregates boolean attributes over the logical range
// [start, end). For a collapsed range it reports the typing attributes
// when armed, otherwise the style the next insertion would inherit.
// Callers hold e.mu.
func (ent *entity) triStateOver(start, end int) engine.TriStateFlags {
	if start > end {
		start, end = end, start
	}

	if start == end {
		s := ent.defaultStyle
		if ent.typing != nil {
			s = ent.typing.style
		} else if start > 0 && start <= len(ent.styles) {
			s = ent.styles[start-1]
		}
		return uniformTriState(s.flags)
	}

	if end > len(ent.styles) {
		end = len(ent.styles)
	}
	if start >= end {
		return uniformTriState(ent.defaultStyle.flags)
	}

	out := uniformTriState(ent.styles[start].flags)
	for i := start + 1; i < end; i++ {
		out = mergeTriState(out, ent.styles[i].flags)
	}
	return out
}

// uniformTriState lifts a flag set into per-attribute tri-states.
func uniformTriState(f engine.StyleFlags) engine.TriStateFlags {
	lift := func(flag engine.StyleFlags) engine.TriState {
		if f.Has(flag) {
			return engine.TriOn
		}
		return engine.TriOff
	}
	return engine.TriStateFlags{
		Bold:          lift(engine.FlagBold),
		Italic:        lift(engine.FlagItalic),
		Underline:     lift(engine.FlagUnderline),
		Strikethrough: lift(engine.FlagStrikethrough),
	}
}

// mergeTriState folds another code point's flags into the aggregate,
// degrading disagreeing attributes to mixed.
func mergeTriState(agg engine.TriStateFlags, f engine.StyleFlags) engine.TriStateFlags {
	merge := func(ts engine.TriState, on bool) engine.TriState {
		switch {
		case ts == engine.TriMixed:
			return engine.TriMixed
		case ts == engine.TriOn && !on, ts == engine.TriOff && on:
			return engine.TriMixed
		default:
			return ts
		}
	}
	return engine.TriStateFlags{
		Bold:          merge(agg.Bold, f.Has(engine.FlagBold)),
		Italic:        merge(agg.Italic, f.Has(engine.FlagItalic)),
		Underline:     merge(agg.Underline, f.Has(engine.FlagUnderline)),
		Strikethrough: merge(agg.Strikethrough, f.Has(engine.FlagStrikethrough)),
	}
}

// FlagsOver returns the tri-state aggregate over a logical range.
// Not part of the Engine interface; tests use it to verify that
// inserted text carried the expected typing attributes.
func (e *Engine) FlagsOver(id engine.EntityID, startRune, endRune int) (engine.TriStateFlags, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ent, ok := e.entities[id]
	if !ok {
		return engine.TriStateFlags{}, false
	}
	return ent.triStateOver(startRune, endRune), true
}
