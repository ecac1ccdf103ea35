package style

import (
	"testing"

	"github.com/dshills/textsync/internal/engine"
	"github.com/dshills/textsync/internal/engine/memory"
	"github.com/dshills/textsync/internal/state"
)

func setup(t *testing.T, content string) (*Handler, *memory.Engine, *state.Manager, engine.EntityID) {
	t.Helper()
	eng := memory.New()
	id := engine.NewEntityID()
	eng.Upsert(id, engine.Payload{BoxMode: engine.AutoWidth, FontSize: 16, Content: content})

	states := state.NewManager()
	states.SetActiveText(id, 0, 0, 0, engine.AutoWidth, 0, 0)
	h := New(eng, states, nil, nil, Defaults{FontSize: 16})
	return h, eng, states, id
}

func TestApplyFlagsToSelection(t *testing.T) {
	h, eng, states, id := setup(t, "hello world")

	states.UpdateSelection(5, 0, 5)
	eng.SetSelection(id, 0, 5)

	if !h.ApplyFlags(engine.FlagBold, Set) {
		t.Fatal("apply failed")
	}

	flags, _ := eng.FlagsOver(id, 0, 5)
	if flags.Bold != engine.TriOn {
		t.Errorf("bold over [0,5) = %v, want on", flags.Bold)
	}
	flags, _ = eng.FlagsOver(id, 5, 11)
	if flags.Bold != engine.TriOff {
		t.Errorf("bold over [5,11) = %v, want off", flags.Bold)
	}
}

func TestApplyFlagsReversedSelectionNormalizes(t *testing.T) {
	h, eng, states, id := setup(t, "hello")

	// Focus at the low end: start > end as stored.
	states.UpdateSelection(1, 4, 1)
	eng.SetSelection(id, 1, 4)

	if !h.ApplyFlags(engine.FlagItalic, Set) {
		t.Fatal("apply failed")
	}
	flags, _ := eng.FlagsOver(id, 1, 4)
	if flags.Italic != engine.TriOn {
		t.Errorf("italic = %v, want on", flags.Italic)
	}
}

func TestTypingAttributePreservation(t *testing.T) {
	h, eng, states, id := setup(t, "hello")

	// Collapsed caret at end: style arms typing attributes.
	states.UpdateSelection(5, 5, 5)
	eng.SetCaret(id, 5)

	if !h.ApplyFlags(engine.FlagBold, Set) {
		t.Fatal("apply failed")
	}

	// Insert at the caret; the new text must carry the style.
	eng.InsertAt(id, 5, "!!")
	flags, _ := eng.FlagsOver(id, 5, 7)
	if flags.Bold != engine.TriOn {
		t.Errorf("inserted text bold = %v, want on", flags.Bold)
	}
	flags, _ = eng.FlagsOver(id, 0, 5)
	if flags.Bold != engine.TriOff {
		t.Errorf("existing text bold = %v, want off", flags.Bold)
	}
}

func TestToggleFlipsPerTriState(t *testing.T) {
	h, eng, states, id := setup(t, "abcd")

	states.UpdateSelection(4, 0, 4)
	eng.SetSelection(id, 0, 4)
	h.ApplyFlags(engine.FlagBold, Set)

	// Uniformly on -> toggle clears.
	h.ApplyFlags(engine.FlagBold, Toggle)
	flags, _ := eng.FlagsOver(id, 0, 4)
	if flags.Bold != engine.TriOff {
		t.Errorf("bold after toggle = %v, want off", flags.Bold)
	}

	// Mixed -> toggle sets everywhere.
	states.UpdateSelection(2, 0, 2)
	eng.SetSelection(id, 0, 2)
	h.ApplyFlags(engine.FlagBold, Set)
	states.UpdateSelection(4, 0, 4)
	eng.SetSelection(id, 0, 4)
	h.ApplyFlags(engine.FlagBold, Toggle)
	flags, _ = eng.FlagsOver(id, 0, 4)
	if flags.Bold != engine.TriOn {
		t.Errorf("bold after toggle on mixed = %v, want on", flags.Bold)
	}
}

func TestDefaultsRefreshOnlyWhenUniform(t *testing.T) {
	h, eng, states, id := setup(t, "abcd")

	// Make bold mixed behind the handler's back: style half the range
	// directly so the cached default (off) is not refreshed yet.
	eng.ApplyStyleRange(id, engine.StyleEdit{
		StartRune: 0, EndRune: 2,
		FlagsMask: engine.FlagBold, FlagsValue: engine.FlagBold,
	})

	// Select the mixed range and apply an unrelated attribute.
	states.UpdateSelection(4, 0, 4)
	eng.SetSelection(id, 0, 4)
	h.ApplyFlags(engine.FlagItalic, Set)

	d := h.Defaults()
	if !d.Flags.Has(engine.FlagItalic) {
		t.Error("italic default should be on after uniform application")
	}
	// Bold is mixed over the selection: the cached default must keep
	// its prior value (off) rather than flipping arbitrarily.
	if d.Flags.Has(engine.FlagBold) {
		t.Error("mixed bold must not update the cached default")
	}
}

func TestApplyFontSizeUpdatesDefaults(t *testing.T) {
	h, _, states, _ := setup(t, "abc")

	states.UpdateSelection(3, 0, 3)
	if !h.ApplyFontSize(24) {
		t.Fatal("apply failed")
	}
	if h.Defaults().FontSize != 24 {
		t.Errorf("default font size = %v, want 24", h.Defaults().FontSize)
	}
}

func TestApplyWhenIdleFails(t *testing.T) {
	eng := memory.New()
	states := state.NewManager()
	h := New(eng, states, nil, nil, Defaults{})

	if h.ApplyFlags(engine.FlagBold, Set) {
		t.Error("apply with no active entity should fail")
	}
	if h.ApplyFontSize(12) {
		t.Error("font size with no active entity should fail")
	}
}

func TestApplyToArbitraryEntity(t *testing.T) {
	eng := memory.New()
	id := engine.NewEntityID()
	eng.Upsert(id, engine.Payload{FontSize: 16, Content: "object text"})

	states := state.NewManager()
	h := New(eng, states, nil, nil, Defaults{})

	if !h.ApplyFlagsTo(id, engine.FlagUnderline, Set) {
		t.Fatal("apply to entity failed")
	}
	flags, _ := eng.FlagsOver(id, 0, 11)
	if flags.Underline != engine.TriOn {
		t.Errorf("underline = %v, want on", flags.Underline)
	}

	if h.ApplyFlagsTo(engine.EntityID(999999), engine.FlagBold, Set) {
		t.Error("apply to missing entity should fail")
	}

	if !h.ApplyAlignTo(id, engine.AlignCenter) {
		t.Fatal("align to entity failed")
	}
	snap, _ := eng.Snapshot(id)
	if snap.Align != engine.AlignCenter {
		t.Errorf("align = %v, want center", snap.Align)
	}
}
