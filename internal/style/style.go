package style

import (
	"github.com/dshills/textsync/internal/engine"
	"github.com/dshills/textsync/internal/event"
	"github.com/dshills/textsync/internal/index"
	"github.com/dshills/textsync/internal/logging"
	"github.com/dshills/textsync/internal/state"
)

// Intent describes how a flags mask is applied.
type Intent uint8

const (
	// Set turns the masked flags on.
	Set Intent = iota
	// Clear turns the masked flags off.
	Clear
	// Toggle flips each masked flag based on its current tri-state:
	// uniformly-on flags clear, everything else sets.
	Toggle
)

// String returns the string representation of the intent.
func (i Intent) String() string {
	switch i {
	case Set:
		return "set"
	case Clear:
		return "clear"
	case Toggle:
		return "toggle"
	default:
		return "unknown"
	}
}

// Defaults is the cached typing-attribute state mirrored from engine
// snapshots.
type Defaults struct {
	Flags    engine.StyleFlags
	FontID   int
	FontSize float64
	Align    engine.Align
}

// Handler applies style edits for the active editing session and for
// arbitrary (object-selected) entities.
type Handler struct {
	eng      engine.Engine
	states   *state.Manager
	notifier *event.Notifier
	logger   *logging.Logger
	defaults Defaults
}

// New creates a style handler seeded with the given defaults.
func New(eng engine.Engine, states *state.Manager, notifier *event.Notifier, logger *logging.Logger, defaults Defaults) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	if notifier == nil {
		notifier = event.NewNotifier(nil)
	}
	return &Handler{
		eng:      eng,
		states:   states,
		notifier: notifier,
		logger:   logger.WithComponent("style"),
		defaults: defaults,
	}
}

// Defaults returns the cached typing defaults.
func (h *Handler) Defaults() Defaults {
	return h.defaults
}

// ApplyFlags applies a flags mask to the active selection, or to the
// typing attributes when the selection is collapsed. Returns false when
// no entity is active.
func (h *Handler) ApplyFlags(mask engine.StyleFlags, intent Intent) bool {
	st := h.states.State()
	if st.Mode == state.Idle || st.ActiveEntity.IsNone() {
		return false
	}
	content, ok := h.eng.Content(st.ActiveEntity)
	if !ok {
		return false
	}

	lo, hi := st.SelectionRange()
	lo = index.ClampRune(content, lo)
	hi = index.ClampRune(content, hi)

	value := h.flagsValue(st.ActiveEntity, mask, intent)
	h.eng.ApplyStyleRange(st.ActiveEntity, engine.StyleEdit{
		StartRune:  lo,
		EndRune:    hi,
		FlagsMask:  mask,
		FlagsValue: value,
	})
	h.finish(st, content, lo, hi)
	return true
}

// ApplyFontSize applies a font size to the active selection or typing
// attributes.
func (h *Handler) ApplyFontSize(px float64) bool {
	applied := h.applyEdit(func(e *engine.StyleEdit) {
		e.HasFontSize = true
		e.FontSize = px
	})
	if applied {
		h.defaults.FontSize = px
	}
	return applied
}

// ApplyFontID applies a font to the active selection or typing
// attributes.
func (h *Handler) ApplyFontID(id int) bool {
	applied := h.applyEdit(func(e *engine.StyleEdit) {
		e.HasFontID = true
		e.FontID = id
	})
	if applied {
		h.defaults.FontID = id
	}
	return applied
}

// ApplyAlign applies a paragraph alignment to the active entity.
// Alignment is per-entity, so the selection only picks the target.
func (h *Handler) ApplyAlign(a engine.Align) bool {
	st := h.states.State()
	if st.Mode == state.Idle || st.ActiveEntity.IsNone() {
		return false
	}
	h.eng.SetAlign(st.ActiveEntity, a)
	h.defaults.Align = a

	content, ok := h.eng.Content(st.ActiveEntity)
	if !ok {
		return false
	}
	lo, hi := st.SelectionRange()
	h.finish(st, content, lo, hi)
	return true
}

// ApplyFlagsTo applies a flags mask to an arbitrary entity's full
// content, for object-selected application outside an edit session.
func (h *Handler) ApplyFlagsTo(id engine.EntityID, mask engine.StyleFlags, intent Intent) bool {
	content, ok := h.eng.Content(id)
	if !ok {
		return false
	}
	n := index.RuneLen(content)

	// Toggle needs the tri-state over the whole entity; point the
	// engine selection at it first.
	h.eng.SetSelection(id, 0, len(content))
	value := h.flagsValue(id, mask, intent)

	h.eng.ApplyStyleRange(id, engine.StyleEdit{
		StartRune:  0,
		EndRune:    n,
		FlagsMask:  mask,
		FlagsValue: value,
	})
	h.notifier.EntityUpdated(id)
	return true
}

// ApplyFontSizeTo applies a font size to an arbitrary entity's full content.
func (h *Handler) ApplyFontSizeTo(id engine.EntityID, px float64) bool {
	return h.applyEditTo(id, func(e *engine.StyleEdit) {
		e.HasFontSize = true
		e.FontSize = px
	})
}

// ApplyFontIDTo applies a font to an arbitrary entity's full content.
func (h *Handler) ApplyFontIDTo(id engine.EntityID, fontID int) bool {
	return h.applyEditTo(id, func(e *engine.StyleEdit) {
		e.HasFontID = true
		e.FontID = fontID
	})
}

// ApplyAlignTo applies a paragraph alignment to an arbitrary entity.
func (h *Handler) ApplyAlignTo(id engine.EntityID, a engine.Align) bool {
	if _, ok := h.eng.Content(id); !ok {
		return false
	}
	h.eng.SetAlign(id, a)
	h.notifier.EntityUpdated(id)
	return true
}

// flagsValue resolves an intent into concrete flag values for the mask.
func (h *Handler) flagsValue(id engine.EntityID, mask engine.StyleFlags, intent Intent) engine.StyleFlags {
	switch intent {
	case Set:
		return mask
	case Clear:
		return 0
	default:
		var value engine.StyleFlags
		snap, ok := h.eng.Snapshot(id)
		for _, flag := range []engine.StyleFlags{engine.FlagBold, engine.FlagItalic, engine.FlagUnderline, engine.FlagStrikethrough} {
			if !mask.Has(flag) {
				continue
			}
			if !ok || snap.Flags.Get(flag) != engine.TriOn {
				value = value.With(flag)
			}
		}
		return value
	}
}

// applyEdit runs a style edit against the active selection.
func (h *Handler) applyEdit(patch func(*engine.StyleEdit)) bool {
	st := h.states.State()
	if st.Mode == state.Idle || st.ActiveEntity.IsNone() {
		return false
	}
	content, ok := h.eng.Content(st.ActiveEntity)
	if !ok {
		return false
	}

	lo, hi := st.SelectionRange()
	lo = index.ClampRune(content, lo)
	hi = index.ClampRune(content, hi)

	edit := engine.StyleEdit{StartRune: lo, EndRune: hi}
	patch(&edit)
	h.eng.ApplyStyleRange(st.ActiveEntity, edit)
	h.finish(st, content, lo, hi)
	return true
}

// applyEditTo runs a style edit against an arbitrary entity's full content.
func (h *Handler) applyEditTo(id engine.EntityID, patch func(*engine.StyleEdit)) bool {
	content, ok := h.eng.Content(id)
	if !ok {
		return false
	}
	edit := engine.StyleEdit{StartRune: 0, EndRune: index.RuneLen(content)}
	patch(&edit)
	h.eng.ApplyStyleRange(id, edit)
	h.notifier.EntityUpdated(id)
	return true
}

// finish re-syncs the caret so the next insertion reads the correct
// typing-attribute run, then refreshes the cached defaults from the
// engine's authoritative snapshot.
func (h *Handler) finish(st state.ToolState, content string, lo, hi int) {
	id := st.ActiveEntity
	if lo == hi {
		h.eng.SetCaret(id, index.RuneToByte(content, st.CaretRune))
	} else {
		h.eng.SetSelection(id,
			index.RuneToByte(content, lo),
			index.RuneToByte(content, hi))
	}

	snap, ok := h.eng.Snapshot(id)
	if !ok {
		h.logger.Debug("style snapshot missing for entity %d", id)
		return
	}

	on, known := snap.Flags.UniformFlags()
	h.defaults.Flags = (h.defaults.Flags &^ known) | on
	h.defaults.FontID = snap.FontID
	h.defaults.FontSize = snap.FontSize
	h.defaults.Align = snap.Align

	h.notifier.StyleChanged(snap)
	h.notifier.EntityUpdated(id)
}
