package nav

import (
	"github.com/dshills/textsync/internal/engine"
	"github.com/dshills/textsync/internal/index"
	"github.com/dshills/textsync/internal/input/key"
	"github.com/dshills/textsync/internal/logging"
	"github.com/dshills/textsync/internal/state"
)

// Handler turns navigation key events into caret and selection updates.
type Handler struct {
	eng    engine.Engine
	states *state.Manager
	logger *logging.Logger
}

// New creates a navigation handler. A nil logger disables logging.
func New(eng engine.Engine, states *state.Manager, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handler{
		eng:    eng,
		states: states,
		logger: logger.WithComponent("nav"),
	}
}

// HandleKey processes a key event. It returns true when the key was a
// navigation key applied to an active entity; unhandled keys fall
// through to the caller.
func (h *Handler) HandleKey(ev key.Event) bool {
	st := h.states.State()
	if st.Mode == state.Idle || st.ActiveEntity.IsNone() {
		return false
	}

	op, ok := opFor(ev)
	if !ok {
		return false
	}

	id := st.ActiveEntity
	content, ok := h.eng.Content(id)
	if !ok {
		h.logger.Debug("navigation on missing entity %d", id)
		return false
	}

	newCaret := index.ClampRune(content, h.eng.Navigate(id, op, st.CaretRune, content))

	// Plain Up/Down with a non-empty selection moves the focus end
	// instead of collapsing first. Deliberate: see DESIGN.md.
	vertical := op == engine.NavLineUp || op == engine.NavLineDown
	if ev.Modifiers.HasShift() || (vertical && st.HasSelection()) {
		h.extendTo(st, content, newCaret)
	} else {
		h.collapseTo(st, content, newCaret)
	}
	return true
}

// opFor maps a key event to an engine navigation query.
func opFor(ev key.Event) (engine.NavOp, bool) {
	word := ev.Modifiers.HasWord()
	switch ev.Key {
	case key.KeyLeft:
		if word {
			return engine.NavWordLeft, true
		}
		return engine.NavVisualPrev, true
	case key.KeyRight:
		if word {
			return engine.NavWordRight, true
		}
		return engine.NavVisualNext, true
	case key.KeyHome:
		return engine.NavLineStart, true
	case key.KeyEnd:
		return engine.NavLineEnd, true
	case key.KeyUp:
		return engine.NavLineUp, true
	case key.KeyDown:
		return engine.NavLineDown, true
	default:
		return 0, false
	}
}

// collapseTo moves the caret and collapses the selection.
func (h *Handler) collapseTo(st state.ToolState, content string, caret int) {
	h.states.UpdateSelection(caret, caret, caret)
	h.eng.SetCaret(st.ActiveEntity, index.RuneToByte(content, caret))
}

// extendTo grows or shrinks the selection toward the new caret. The
// anchor is the opposite end of a non-empty selection, or the old caret
// when the selection was empty. Which end is "opposite" comes from
// comparing the caret to both ends rather than assuming an ordering.
func (h *Handler) extendTo(st state.ToolState, content string, caret int) {
	anchor := st.CaretRune
	if st.HasSelection() {
		lo, hi := st.SelectionRange()
		switch st.CaretRune {
		case lo:
			anchor = hi
		case hi:
			anchor = lo
		}
	}

	selStart, selEnd := anchor, caret
	if selStart > selEnd {
		selStart, selEnd = selEnd, selStart
	}
	h.states.UpdateSelection(caret, selStart, selEnd)

	if selStart == selEnd {
		h.eng.SetCaret(st.ActiveEntity, index.RuneToByte(content, caret))
		return
	}
	h.eng.SetSelection(st.ActiveEntity,
		index.RuneToByte(content, selStart),
		index.RuneToByte(content, selEnd))
}
