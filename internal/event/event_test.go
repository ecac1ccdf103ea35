package event

import (
	"strings"
	"testing"

	"github.com/dshills/textsync/internal/engine"
	"github.com/dshills/textsync/internal/logging"
	"github.com/dshills/textsync/internal/state"
)

func TestFuncsNilFieldsAreSafe(t *testing.T) {
	var f Funcs
	f.StateChanged(state.ToolState{})
	f.CaretMoved(CaretUpdate{})
	f.EntityDeleted(engine.None)
}

func TestNotifierOrderAndPayload(t *testing.T) {
	n := NewNotifier(nil)

	var order []string
	n.Add(Funcs{OnStateChanged: func(state.ToolState) { order = append(order, "a") }})
	n.Add(Funcs{OnStateChanged: func(s state.ToolState) {
		order = append(order, "b")
		if s.CaretRune != 7 {
			t.Errorf("caret = %d, want 7", s.CaretRune)
		}
	}})

	n.StateChanged(state.ToolState{CaretRune: 7})
	if strings.Join(order, "") != "ab" {
		t.Errorf("order = %v, want [a b]", order)
	}
}

func TestNotifierRecoversListenerPanic(t *testing.T) {
	var buf strings.Builder
	logger := logging.New(logging.Config{Level: logging.LevelDebug, Output: &buf})
	n := NewNotifier(logger)

	reached := false
	n.Add(Funcs{OnEntityDeleted: func(engine.EntityID) { panic("boom") }})
	n.Add(Funcs{OnEntityDeleted: func(engine.EntityID) { reached = true }})

	n.EntityDeleted(engine.EntityID(5))

	if !reached {
		t.Error("second listener should still run after a panic")
	}
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("panic not logged: %q", buf.String())
	}
}
