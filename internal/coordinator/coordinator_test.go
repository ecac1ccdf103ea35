package coordinator

import (
	"testing"
	"time"

	"github.com/dshills/textsync/internal/delta"
	"github.com/dshills/textsync/internal/engine"
	"github.com/dshills/textsync/internal/engine/memory"
	"github.com/dshills/textsync/internal/event"
	"github.com/dshills/textsync/internal/input/key"
	"github.com/dshills/textsync/internal/state"
)

// Test entities use font size 10: the placeholder metrics make every
// grapheme 6 units wide and lines 12 units tall.
const testAdvance = 6.0

type recorder struct {
	created []engine.EntityID
	deleted []engine.EntityID
	ended   []engine.EntityID
	carets  []event.CaretUpdate
	rects   [][]engine.Rect
}

func (r *recorder) listener() event.Funcs {
	return event.Funcs{
		OnEntityCreated: func(id engine.EntityID, _ engine.Payload) {
			r.created = append(r.created, id)
		},
		OnEntityDeleted: func(id engine.EntityID) {
			r.deleted = append(r.deleted, id)
		},
		OnSessionEnded: func(id engine.EntityID) {
			r.ended = append(r.ended, id)
		},
		OnCaretMoved: func(u event.CaretUpdate) {
			r.carets = append(r.carets, u)
		},
		OnSelectionRectsChanged: func(_ engine.EntityID, rects []engine.Rect) {
			r.rects = append(r.rects, rects)
		},
	}
}

func setup(t *testing.T, content string) (*Coordinator, *memory.Engine, *recorder, engine.EntityID) {
	t.Helper()
	eng := memory.New()
	id := engine.NewEntityID()
	eng.Upsert(id, engine.Payload{BoxMode: engine.AutoWidth, FontSize: 10, Content: content})

	rec := &recorder{}
	c := New(eng, WithListener(rec.listener()))
	return c, eng, rec, id
}

// down builds a pointer-down at a grapheme column of the test entity.
func down(id engine.EntityID, col int, at time.Time) PointerEvent {
	x := float64(col) * testAdvance
	return PointerEvent{
		Entity:    id,
		WorldX:    x,
		WorldY:    1,
		LocalX:    x,
		LocalY:    1,
		Timestamp: at,
	}
}

func TestClickToCreate(t *testing.T) {
	eng := memory.New()
	rec := &recorder{}
	c := New(eng, WithListener(rec.listener()))

	c.PointerDown(PointerEvent{WorldX: 100, WorldY: 50})
	c.PointerUp(PointerEvent{WorldX: 100, WorldY: 50})

	st := c.State()
	if st.Mode != state.Editing {
		t.Errorf("mode = %v, want editing", st.Mode)
	}
	if st.ActiveEntity.IsNone() {
		t.Fatal("no active entity after click-to-create")
	}
	if st.BoxMode != engine.AutoWidth {
		t.Errorf("box mode = %v, want auto", st.BoxMode)
	}
	if st.AnchorX != 100 || st.AnchorY != 50 {
		t.Errorf("anchor = (%v,%v), want (100,50)", st.AnchorX, st.AnchorY)
	}
	if !eng.Exists(st.ActiveEntity) {
		t.Error("created entity missing from engine")
	}
	if len(rec.created) != 1 || rec.created[0] != st.ActiveEntity {
		t.Errorf("created notifications = %v", rec.created)
	}
}

func TestDragToCreate(t *testing.T) {
	eng := memory.New()
	c := New(eng)

	c.PointerDown(PointerEvent{WorldX: 10, WorldY: 10})
	c.PointerUp(PointerEvent{WorldX: 200, WorldY: 80})

	st := c.State()
	if st.BoxMode != engine.FixedWidth {
		t.Errorf("box mode = %v, want fixed", st.BoxMode)
	}
	if st.ConstraintWidth != 190 {
		t.Errorf("constraint width = %v, want 190", st.ConstraintWidth)
	}
	if st.AnchorX != 10 || st.AnchorY != 10 {
		t.Errorf("anchor = (%v,%v), want (10,10)", st.AnchorX, st.AnchorY)
	}
}

func TestDragToCreateEnforcesMinimumWidth(t *testing.T) {
	eng := memory.New()
	c := New(eng)

	// Wider than the click slop, narrower than the minimum box width.
	c.PointerDown(PointerEvent{WorldX: 10, WorldY: 10})
	c.PointerUp(PointerEvent{WorldX: 16, WorldY: 12})

	st := c.State()
	if st.BoxMode != engine.FixedWidth {
		t.Fatalf("box mode = %v, want fixed", st.BoxMode)
	}
	if st.ConstraintWidth != 20 {
		t.Errorf("constraint width = %v, want minimum 20", st.ConstraintWidth)
	}
}

func TestPointerDownPlacesCaret(t *testing.T) {
	c, eng, _, id := setup(t, "hello world")

	c.PointerDown(down(id, 2, time.Unix(100, 0)))

	st := c.State()
	if st.Mode != state.Editing || st.ActiveEntity != id {
		t.Fatalf("state = %v, want editing entity %d", st, id)
	}
	if st.CaretRune != 2 || st.HasSelection() {
		t.Errorf("state = %v, want collapsed caret at 2", st)
	}
	snap, _ := eng.Snapshot(id)
	if snap.CaretRune != 2 {
		t.Errorf("engine caret = %d, want 2", snap.CaretRune)
	}
}

func TestMultiClickProgression(t *testing.T) {
	c, eng, _, id := setup(t, "hello world")

	base := time.Unix(100, 0)
	step := 100 * time.Millisecond

	// Click 1: collapsed caret.
	c.PointerDown(down(id, 2, base))
	if st := c.State(); st.CaretRune != 2 || st.HasSelection() {
		t.Fatalf("click 1: %v, want collapsed caret at 2", st)
	}

	// Click 2: enclosing word.
	c.PointerDown(down(id, 2, base.Add(step)))
	if st := c.State(); st.SelectionStart != 0 || st.SelectionEnd != 5 {
		t.Fatalf("click 2: %v, want word selection [0,5]", st)
	}

	// Click 3: select all.
	c.PointerDown(down(id, 2, base.Add(2*step)))
	if st := c.State(); st.SelectionStart != 0 || st.SelectionEnd != 11 {
		t.Fatalf("click 3: %v, want select-all [0,11]", st)
	}

	// Click 4: count caps at 3, stays select-all.
	c.PointerDown(down(id, 2, base.Add(3*step)))
	if st := c.State(); st.SelectionStart != 0 || st.SelectionEnd != 11 {
		t.Errorf("click 4: %v, want select-all [0,11]", st)
	}

	snap, _ := eng.Snapshot(id)
	if snap.SelectionStartRune != 0 || snap.SelectionEndRune != 11 {
		t.Errorf("engine selection = [%d,%d], want [0,11]",
			snap.SelectionStartRune, snap.SelectionEndRune)
	}
}

func TestMultiClickWindowExpires(t *testing.T) {
	c, _, _, id := setup(t, "hello world")

	base := time.Unix(100, 0)
	c.PointerDown(down(id, 2, base))
	c.PointerDown(down(id, 2, base.Add(600*time.Millisecond)))

	if st := c.State(); st.HasSelection() {
		t.Errorf("stale click counted as double: %v", st)
	}
}

func TestShiftClickExtends(t *testing.T) {
	c, eng, _, id := setup(t, "hello world")

	base := time.Unix(100, 0)
	c.PointerDown(down(id, 2, base))

	ev := down(id, 8, base.Add(100*time.Millisecond))
	ev.Shift = true
	c.PointerDown(ev)

	st := c.State()
	if st.SelectionStart != 2 || st.SelectionEnd != 8 || st.CaretRune != 8 {
		t.Errorf("state = %v, want selection [2,8] caret 8", st)
	}
	snap, _ := eng.Snapshot(id)
	if snap.SelectionStartRune != 2 || snap.SelectionEndRune != 8 {
		t.Errorf("engine selection = [%d,%d], want [2,8]",
			snap.SelectionStartRune, snap.SelectionEndRune)
	}
}

func TestDragSelection(t *testing.T) {
	c, _, _, id := setup(t, "hello world")

	c.PointerDown(down(id, 2, time.Unix(100, 0)))

	move := down(id, 7, time.Unix(100, 0))
	c.PointerMove(move)
	if st := c.State(); st.SelectionStart != 2 || st.SelectionEnd != 7 || st.CaretRune != 7 {
		t.Errorf("forward drag: %v, want selection [2,7] caret 7", st)
	}

	// Dragging back across the anchor flips the range.
	c.PointerMove(down(id, 0, time.Unix(100, 0)))
	if st := c.State(); st.SelectionStart != 0 || st.SelectionEnd != 2 || st.CaretRune != 0 {
		t.Errorf("backward drag: %v, want selection [0,2] caret 0", st)
	}

	// Moves over a different entity are ignored.
	other := down(engine.NewEntityID(), 5, time.Unix(100, 0))
	c.PointerMove(other)
	if st := c.State(); st.SelectionStart != 0 || st.SelectionEnd != 2 {
		t.Errorf("foreign-entity move changed selection: %v", st)
	}

	c.PointerUp(down(id, 0, time.Unix(100, 0)))
	c.PointerMove(down(id, 9, time.Unix(100, 0)))
	if st := c.State(); st.SelectionStart != 0 || st.SelectionEnd != 2 {
		t.Errorf("move after pointer-up changed selection: %v", st)
	}
}

func TestApplyDeltaInsert(t *testing.T) {
	c, eng, _, id := setup(t, "hola")

	c.PointerDown(down(id, 4, time.Unix(100, 0)))

	if !c.ApplyDelta(delta.Delta{Kind: delta.KindInsert, Start: 4, End: 4, Text: " mundo"}) {
		t.Fatal("delta not applied")
	}
	content, _ := eng.Content(id)
	if content != "hola mundo" {
		t.Errorf("content = %q, want %q", content, "hola mundo")
	}
	if st := c.State(); st.CaretRune != 10 {
		t.Errorf("caret = %d, want 10", st.CaretRune)
	}
	snap, _ := eng.Snapshot(id)
	if snap.CaretRune != 10 {
		t.Errorf("engine caret = %d, want 10", snap.CaretRune)
	}
}

func TestApplyDeltaSurrogatePair(t *testing.T) {
	c, eng, _, id := setup(t, "A\U0001F60AB")

	c.PointerDown(down(id, 0, time.Unix(100, 0)))

	// Insert before "B": native-surface index 3 counts the emoji as a
	// surrogate pair, the byte index must count its 4 UTF-8 bytes.
	if !c.ApplyDelta(delta.Delta{Kind: delta.KindInsert, Start: 3, End: 3, Text: "x"}) {
		t.Fatal("delta not applied")
	}
	content, _ := eng.Content(id)
	if content != "A\U0001F60AxB" {
		t.Errorf("content = %q, want %q", content, "A\U0001F60AxB")
	}
	if st := c.State(); st.CaretRune != 3 {
		t.Errorf("caret = %d, want logical 3 after the inserted x", st.CaretRune)
	}
}

func TestApplyDeltaDeleteAndReplace(t *testing.T) {
	c, eng, _, id := setup(t, "hello world")

	c.PointerDown(down(id, 0, time.Unix(100, 0)))

	if !c.ApplyDelta(delta.Delta{Kind: delta.KindDelete, Start: 5, End: 11}) {
		t.Fatal("delete not applied")
	}
	content, _ := eng.Content(id)
	if content != "hello" {
		t.Fatalf("content = %q, want %q", content, "hello")
	}
	if st := c.State(); st.CaretRune != 5 {
		t.Errorf("caret after delete = %d, want 5", st.CaretRune)
	}

	if !c.ApplyDelta(delta.Delta{Kind: delta.KindReplace, Start: 0, End: 5, Text: "HOLA"}) {
		t.Fatal("replace not applied")
	}
	content, _ = eng.Content(id)
	if content != "HOLA" {
		t.Errorf("content = %q, want %q", content, "HOLA")
	}
	if st := c.State(); st.CaretRune != 4 {
		t.Errorf("caret after replace = %d, want 4", st.CaretRune)
	}
}

func TestApplyDeltaWhenIdle(t *testing.T) {
	eng := memory.New()
	c := New(eng)

	if c.ApplyDelta(delta.Delta{Kind: delta.KindInsert, Text: "x"}) {
		t.Error("idle coordinator applied a delta")
	}
	if c.ApplyDelta(delta.Delta{}) {
		t.Error("zero delta applied")
	}
}

// skewedEngine returns snapshots with out-of-range indices to exercise
// the resync clamp.
type skewedEngine struct {
	*memory.Engine
	skew int
}

func (e *skewedEngine) Snapshot(id engine.EntityID) (engine.Snapshot, bool) {
	snap, ok := e.Engine.Snapshot(id)
	snap.CaretRune += e.skew
	snap.SelectionEndRune += e.skew
	return snap, ok
}

func TestResyncClampsAndIsIdempotent(t *testing.T) {
	eng := &skewedEngine{Engine: memory.New(), skew: 100}
	id := engine.NewEntityID()
	eng.Upsert(id, engine.Payload{FontSize: 10, Content: "abc"})

	c := New(eng)
	c.PointerDown(down(id, 1, time.Unix(100, 0)))

	c.Resync()
	first := c.State()
	if first.CaretRune != 3 || first.SelectionEnd != 3 {
		t.Fatalf("state = %v, want indices clamped to 3", first)
	}

	c.Resync()
	if second := c.State(); second != first {
		t.Errorf("second resync diverged: %v vs %v", second, first)
	}
}

func TestResyncMissingEntityResets(t *testing.T) {
	c, eng, rec, id := setup(t, "hello")

	c.PointerDown(down(id, 2, time.Unix(100, 0)))
	eng.Delete(id)

	c.Resync()
	st := c.State()
	if st.Mode != state.Idle || !st.ActiveEntity.IsNone() {
		t.Errorf("state = %v, want idle", st)
	}
	if len(rec.ended) != 1 || rec.ended[0] != id {
		t.Errorf("session-end notifications = %v, want [%d]", rec.ended, id)
	}
}

func TestExternalMutationResets(t *testing.T) {
	c, _, rec, id := setup(t, "hello world")

	base := time.Unix(100, 0)
	c.PointerDown(down(id, 2, base))
	ev := down(id, 8, base.Add(100*time.Millisecond))
	ev.Shift = true
	c.PointerDown(ev)

	c.ExternalMutation()
	st := c.State()
	if st.Mode != state.Idle || !st.ActiveEntity.IsNone() {
		t.Errorf("state = %v, want idle with no entity", st)
	}
	if len(rec.ended) != 1 || rec.ended[0] != id {
		t.Errorf("session-end notifications = %v, want [%d]", rec.ended, id)
	}

	// Idempotent when already idle.
	c.ExternalMutation()
	if len(rec.ended) != 1 {
		t.Errorf("idle external mutation notified again: %v", rec.ended)
	}
}

func TestCommitDeletesEmptyEntity(t *testing.T) {
	eng := memory.New()
	rec := &recorder{}
	c := New(eng, WithListener(rec.listener()))

	c.PointerDown(PointerEvent{WorldX: 10, WorldY: 10})
	c.PointerUp(PointerEvent{WorldX: 10, WorldY: 10})
	id := c.State().ActiveEntity

	c.Commit()
	if eng.Exists(id) {
		t.Error("empty entity survived commit")
	}
	if len(rec.deleted) != 1 || rec.deleted[0] != id {
		t.Errorf("deleted notifications = %v, want [%d]", rec.deleted, id)
	}
	if st := c.State(); st.Mode != state.Idle {
		t.Errorf("mode = %v, want idle", st.Mode)
	}
}

func TestCommitKeepsPopulatedEntity(t *testing.T) {
	eng := memory.New()
	rec := &recorder{}
	c := New(eng, WithListener(rec.listener()))

	c.PointerDown(PointerEvent{WorldX: 10, WorldY: 10})
	c.PointerUp(PointerEvent{WorldX: 10, WorldY: 10})
	id := c.State().ActiveEntity

	c.ApplyDelta(delta.Delta{Kind: delta.KindInsert, Text: "hi"})
	c.Commit()

	if !eng.Exists(id) {
		t.Error("populated entity deleted on commit")
	}
	if len(rec.ended) != 1 {
		t.Errorf("session-end notifications = %v", rec.ended)
	}
}

func TestCancelDeletesUnpopulatedEntity(t *testing.T) {
	eng := memory.New()
	c := New(eng)

	c.PointerDown(PointerEvent{WorldX: 10, WorldY: 10})
	c.PointerUp(PointerEvent{WorldX: 10, WorldY: 10})
	id := c.State().ActiveEntity

	c.Cancel()
	if eng.Exists(id) {
		t.Error("unpopulated entity survived cancel")
	}
}

func TestCancelKeepsPopulatedEntity(t *testing.T) {
	eng := memory.New()
	c := New(eng)

	c.PointerDown(PointerEvent{WorldX: 10, WorldY: 10})
	c.PointerUp(PointerEvent{WorldX: 10, WorldY: 10})
	id := c.State().ActiveEntity

	c.ApplyDelta(delta.Delta{Kind: delta.KindInsert, Text: "hi"})
	c.Cancel()

	if !eng.Exists(id) {
		t.Error("populated entity deleted on cancel")
	}
}

func TestHandleKeyPublishesCaretGeometry(t *testing.T) {
	c, _, rec, id := setup(t, "hello")

	ev := down(id, 2, time.Unix(100, 0))
	ev.X = 100
	ev.Y = 50
	c.PointerDown(ev)

	rec.carets = nil
	if !c.HandleKey(key.NewEvent(key.KeyRight, 0, key.ModNone)) {
		t.Fatal("arrow key not handled")
	}
	if len(rec.carets) == 0 {
		t.Fatal("no caret update published")
	}
	u := rec.carets[len(rec.carets)-1]
	if u.Entity != id {
		t.Errorf("caret entity = %d, want %d", u.Entity, id)
	}
	// Caret at column 3: local x = 18, world adds the entity anchor.
	if u.Local.X != 3*testAdvance {
		t.Errorf("local x = %v, want %v", u.Local.X, 3*testAdvance)
	}
	if u.WorldX != 100+3*testAdvance || u.WorldY != 50 {
		t.Errorf("world = (%v,%v), want (%v,50)", u.WorldX, u.WorldY, 100+3*testAdvance)
	}
}

func TestSelectionRectsPublished(t *testing.T) {
	c, _, rec, id := setup(t, "hello world")

	base := time.Unix(100, 0)
	c.PointerDown(down(id, 2, base))
	c.PointerDown(down(id, 2, base.Add(100*time.Millisecond)))

	if len(rec.rects) == 0 {
		t.Fatal("no selection rect notifications")
	}
	last := rec.rects[len(rec.rects)-1]
	if len(last) != 1 {
		t.Fatalf("rects = %v, want one line rect", last)
	}
	// Word selection [0,5) on one line: x spans columns 0..5.
	if last[0].MinX != 0 || last[0].MaxX != 5*testAdvance {
		t.Errorf("rect x = [%v,%v], want [0,%v]", last[0].MinX, last[0].MaxX, 5*testAdvance)
	}
}
