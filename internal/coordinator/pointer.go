package coordinator

import (
	"math"
	"time"

	"github.com/dshills/textsync/internal/engine"
	"github.com/dshills/textsync/internal/index"
	"github.com/dshills/textsync/internal/state"
)

// PointerEvent is a pointer-down/move/up after the host's picking pass.
// Entity is the hit text entity, or None for empty space. Local
// coordinates are entity-local (the host owns the world-to-local
// transform) and only meaningful when Entity is set; the placement
// fields mirror the hit entity's transform for overlay state.
type PointerEvent struct {
	Entity engine.EntityID

	WorldX float64
	WorldY float64
	LocalX float64
	LocalY float64

	X               float64
	Y               float64
	Rotation        float64
	BoxMode         engine.BoxMode
	ConstraintWidth float64

	Shift     bool
	Timestamp time.Time
}

// PointerDown begins a creation gesture in empty space, or places the
// caret on an existing entity with multi-click word/all selection.
func (c *Coordinator) PointerDown(p PointerEvent) {
	if p.Entity.IsNone() {
		c.beginCreate(p)
		return
	}

	st := c.states.State()
	if !st.ActiveEntity.IsNone() && st.ActiveEntity != p.Entity {
		c.Commit()
	}

	content, ok := c.eng.Content(p.Entity)
	if !ok {
		c.diag.Warn("pointer-down on missing entity %d", p.Entity)
		return
	}
	byteIdx, ok := c.eng.HitTest(p.Entity, p.LocalX, p.LocalY)
	if !ok {
		c.diag.Warn("hit test failed for entity %d", p.Entity)
		return
	}
	hit := index.ByteToRune(content, byteIdx)

	st = c.states.State()
	activating := st.ActiveEntity != p.Entity
	if activating {
		c.states.SetActiveText(p.Entity, p.X, p.Y, p.Rotation, p.BoxMode, p.ConstraintWidth, hit)
		st = c.states.State()
	}

	count := c.clicks.record(p.Entity, p.WorldX, p.WorldY, p.Timestamp)
	switch {
	case count >= 3:
		n := index.RuneLen(content)
		c.selectRange(p.Entity, content, 0, n, n)
	case count == 2:
		start := c.eng.Navigate(p.Entity, engine.NavWordLeft, hit, content)
		end := c.eng.Navigate(p.Entity, engine.NavWordRight, hit, content)
		c.selectRange(p.Entity, content, start, end, end)
	case p.Shift && !activating:
		anchor := focusAnchor(st)
		c.selectRange(p.Entity, content, anchor, hit, hit)
		c.dragging = true
		c.dragAnchorRune = anchor
	default:
		c.selectRange(p.Entity, content, hit, hit, hit)
		c.dragging = true
		c.dragAnchorRune = hit
	}
}

// PointerMove extends a drag selection from the recorded anchor, or
// tracks the creation rectangle. Moves over a different entity than the
// active one are ignored.
func (c *Coordinator) PointerMove(p PointerEvent) {
	if c.pendingCreate {
		return
	}
	if !c.dragging {
		return
	}
	st := c.states.State()
	if st.ActiveEntity.IsNone() || p.Entity != st.ActiveEntity {
		return
	}

	content, ok := c.eng.Content(st.ActiveEntity)
	if !ok {
		return
	}
	byteIdx, ok := c.eng.HitTest(st.ActiveEntity, p.LocalX, p.LocalY)
	if !ok {
		return
	}
	hit := index.ByteToRune(content, byteIdx)
	c.selectRange(st.ActiveEntity, content, c.dragAnchorRune, hit, hit)
}

// PointerUp finishes a drag selection or creates the entity for a
// pending creation gesture.
func (c *Coordinator) PointerUp(p PointerEvent) {
	c.dragging = false
	if !c.pendingCreate {
		return
	}
	c.pendingCreate = false
	c.create(p.WorldX, p.WorldY)
}

// beginCreate arms a creation gesture at the pointer-down position. The
// click-versus-drag decision waits for pointer-up.
func (c *Coordinator) beginCreate(p PointerEvent) {
	st := c.states.State()
	if !st.ActiveEntity.IsNone() {
		c.Commit()
	}
	c.clicks.reset()
	c.pendingCreate = true
	c.createStartX = p.WorldX
	c.createStartY = p.WorldY
}

// create allocates a new entity from the gesture rectangle: a click
// makes an AutoWidth entity at the down position, a drag makes a
// FixedWidth entity spanning the rectangle.
func (c *Coordinator) create(endX, endY float64) {
	dx := math.Abs(endX - c.createStartX)
	dy := math.Abs(endY - c.createStartY)

	id := engine.NewEntityID()
	var payload engine.Payload
	if dx <= c.cfg.MultiClickDistance && dy <= c.cfg.MultiClickDistance {
		payload = engine.Payload{
			X:        c.createStartX,
			Y:        c.createStartY,
			BoxMode:  engine.AutoWidth,
			FontID:   c.cfg.DefaultFontID,
			FontSize: c.cfg.DefaultFontSize,
		}
	} else {
		payload = engine.Payload{
			X:               min(c.createStartX, endX),
			Y:               min(c.createStartY, endY),
			BoxMode:         engine.FixedWidth,
			ConstraintWidth: max(dx, c.cfg.MinBoxWidth),
			Height:          max(dy, c.cfg.DefaultFontSize*c.cfg.BoxHeightFactor),
			FontID:          c.cfg.DefaultFontID,
			FontSize:        c.cfg.DefaultFontSize,
		}
	}

	c.eng.Upsert(id, payload)
	c.states.SetActiveText(id, payload.X, payload.Y, 0, payload.BoxMode, payload.ConstraintWidth, 0)
	c.states.SetMode(state.Creating)
	c.notifier.EntityCreated(id, payload)

	// Resync promotes Creating to Editing once bounds resolve.
	c.Resync()
}

// selectRange stores the selection (caret at the focus end) and pushes
// it to the engine in byte indices.
func (c *Coordinator) selectRange(id engine.EntityID, content string, anchor, focus, caret int) {
	lo, hi := anchor, focus
	if lo > hi {
		lo, hi = hi, lo
	}
	c.states.UpdateSelection(caret, lo, hi)

	if lo == hi {
		c.eng.SetCaret(id, index.RuneToByte(content, caret))
	} else {
		c.eng.SetSelection(id,
			index.RuneToByte(content, lo),
			index.RuneToByte(content, hi))
	}
	c.publishGeometry(id, content, c.states.State())
}

// focusAnchor returns the selection anchor: the opposite end of a
// non-empty selection, or the caret itself when collapsed.
func focusAnchor(st state.ToolState) int {
	if !st.HasSelection() {
		return st.CaretRune
	}
	lo, hi := st.SelectionRange()
	if st.CaretRune == lo {
		return hi
	}
	return lo
}
