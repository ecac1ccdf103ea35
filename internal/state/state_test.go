package state

import (
	"testing"

	"github.com/dshills/textsync/internal/engine"
)

func TestManagerNotifiesFullState(t *testing.T) {
	m := NewManager()

	var got []ToolState
	m.AddListener(func(s ToolState) { got = append(got, s) })

	id := engine.NewEntityID()
	m.SetActiveText(id, 10, 20, 0, engine.AutoWidth, 0, 3)

	if len(got) != 1 {
		t.Fatalf("notifications = %d, want 1", len(got))
	}
	s := got[0]
	if s.Mode != Editing || s.ActiveEntity != id {
		t.Errorf("state = %v", s)
	}
	if s.CaretRune != 3 || s.SelectionStart != 3 || s.SelectionEnd != 3 {
		t.Errorf("caret/selection = %d [%d,%d], want collapsed at 3", s.CaretRune, s.SelectionStart, s.SelectionEnd)
	}

	m.UpdateSelection(5, 3, 5)
	if len(got) != 2 {
		t.Fatalf("notifications = %d, want 2", len(got))
	}
	if got[1].CaretRune != 5 {
		t.Errorf("caret = %d, want 5", got[1].CaretRune)
	}
}

func TestClearActiveText(t *testing.T) {
	m := NewManager()
	m.SetActiveText(engine.NewEntityID(), 0, 0, 0, engine.FixedWidth, 100, 0)
	m.ClearActiveText()

	s := m.State()
	if s.Mode != Idle {
		t.Errorf("mode = %v, want idle", s.Mode)
	}
	if !s.ActiveEntity.IsNone() {
		t.Errorf("active entity = %d, want none", s.ActiveEntity)
	}
	if s.ConstraintWidth != 0 {
		t.Errorf("constraint width = %v, want 0", s.ConstraintWidth)
	}
}

func TestSelectionRangeNormalizes(t *testing.T) {
	s := ToolState{SelectionStart: 7, SelectionEnd: 2}

	lo, hi := s.SelectionRange()
	if lo != 2 || hi != 7 {
		t.Errorf("range = [%d,%d], want [2,7]", lo, hi)
	}
	if !s.HasSelection() {
		t.Error("expected a non-empty selection")
	}
}

func TestUpdatePreservesUnrelatedFields(t *testing.T) {
	m := NewManager()
	m.SetActiveText(engine.NewEntityID(), 1, 2, 0.5, engine.AutoWidth, 0, 0)

	m.UpdateSelection(4, 0, 4)
	s := m.State()
	if s.AnchorX != 1 || s.AnchorY != 2 || s.Rotation != 0.5 {
		t.Errorf("anchor = (%v,%v,%v), want (1,2,0.5)", s.AnchorX, s.AnchorY, s.Rotation)
	}

	m.UpdateAnchor(9, 8, 0)
	s = m.State()
	if s.CaretRune != 4 {
		t.Errorf("caret = %d, want 4 after anchor update", s.CaretRune)
	}
}
