package state

import (
	"fmt"

	"github.com/dshills/textsync/internal/engine"
)

// Mode is the lifecycle stage of the editing session.
type Mode uint8

const (
	// Idle means no entity is being edited.
	Idle Mode = iota
	// Creating means a pointer-down allocated a new entity whose first
	// bounds have not resolved yet.
	Creating
	// Editing means an existing, populated entity is active.
	Editing
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Creating:
		return "creating"
	case Editing:
		return "editing"
	default:
		return "unknown"
	}
}

// ToolState is the mirrored state of the active editing session. All
// indices are logical (code point) indices into the active entity's
// content; geometry mirrors the engine for overlay positioning only and
// is not authoritative.
//
// SelectionStart and SelectionEnd are not ordered: the pair preserves
// anchor/focus information, and consumers normalize with min/max when
// they need a range. CaretRune tracks the focus end.
type ToolState struct {
	Mode            Mode
	ActiveEntity    engine.EntityID
	BoxMode         engine.BoxMode
	ConstraintWidth float64

	CaretRune      int
	SelectionStart int
	SelectionEnd   int

	AnchorX  float64
	AnchorY  float64
	Rotation float64
}

// HasSelection returns true when the selection is non-empty.
func (s ToolState) HasSelection() bool {
	return s.SelectionStart != s.SelectionEnd
}

// SelectionRange returns the selection normalized to (min, max).
func (s ToolState) SelectionRange() (int, int) {
	if s.SelectionStart <= s.SelectionEnd {
		return s.SelectionStart, s.SelectionEnd
	}
	return s.SelectionEnd, s.SelectionStart
}

// String returns a compact representation for diagnostics.
func (s ToolState) String() string {
	return fmt.Sprintf("ToolState(%s entity=%d caret=%d sel=[%d,%d])",
		s.Mode, s.ActiveEntity, s.CaretRune, s.SelectionStart, s.SelectionEnd)
}

// Listener receives the full new state after every mutation.
type Listener func(ToolState)

// Manager owns one ToolState and its change notifications. It is a pure
// data owner: no I/O, no content, no engine calls. Not safe for
// concurrent use; the synchronization core is single-goroutine.
type Manager struct {
	state     ToolState
	listeners []Listener
}

// NewManager creates a manager holding an idle state.
func NewManager() *Manager {
	return &Manager{}
}

// State returns a copy of the current state.
func (m *Manager) State() ToolState {
	return m.state
}

// AddListener registers a listener for state changes. Listeners are
// invoked in registration order, synchronously.
func (m *Manager) AddListener(l Listener) {
	m.listeners = append(m.listeners, l)
}

// Update applies a mutation to the state and notifies listeners.
func (m *Manager) Update(fn func(*ToolState)) {
	fn(&m.state)
	m.notify()
}

// SetActiveText activates an entity for editing, mirroring its geometry
// and collapsing the selection at the initial caret.
func (m *Manager) SetActiveText(id engine.EntityID, x, y, rotation float64, boxMode engine.BoxMode, constraintWidth float64, initialCaret int) {
	m.state = ToolState{
		Mode:            Editing,
		ActiveEntity:    id,
		BoxMode:         boxMode,
		ConstraintWidth: constraintWidth,
		CaretRune:       initialCaret,
		SelectionStart:  initialCaret,
		SelectionEnd:    initialCaret,
		AnchorX:         x,
		AnchorY:         y,
		Rotation:        rotation,
	}
	m.notify()
}

// ClearActiveText resets to the idle state.
func (m *Manager) ClearActiveText() {
	m.state = ToolState{}
	m.notify()
}

// SetMode changes the lifecycle mode.
func (m *Manager) SetMode(mode Mode) {
	m.Update(func(s *ToolState) { s.Mode = mode })
}

// UpdateSelection moves the caret and selection together. The caret is
// the focus end; start/end order is preserved as given.
func (m *Manager) UpdateSelection(caret, selStart, selEnd int) {
	m.Update(func(s *ToolState) {
		s.CaretRune = caret
		s.SelectionStart = selStart
		s.SelectionEnd = selEnd
	})
}

// UpdateAnchor mirrors the entity's placement for overlay positioning.
func (m *Manager) UpdateAnchor(x, y, rotation float64) {
	m.Update(func(s *ToolState) {
		s.AnchorX = x
		s.AnchorY = y
		s.Rotation = rotation
	})
}

func (m *Manager) notify() {
	for _, l := range m.listeners {
		l(m.state)
	}
}
