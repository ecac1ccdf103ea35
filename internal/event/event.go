package event

import (
	"github.com/dshills/textsync/internal/engine"
	"github.com/dshills/textsync/internal/logging"
	"github.com/dshills/textsync/internal/state"
)

// CaretUpdate locates the caret for overlay rendering, in entity-local
// and world coordinates.
type CaretUpdate struct {
	Entity engine.EntityID
	Local  engine.CaretPos
	WorldX float64
	WorldY float64
}

// Listener receives the core's outbound notifications. Implementations
// must not re-enter the coordinator synchronously from a callback.
type Listener interface {
	// StateChanged fires on every ToolState mutation with the full new state.
	StateChanged(s state.ToolState)
	// CaretMoved fires when caret geometry changes.
	CaretMoved(u CaretUpdate)
	// SelectionRectsChanged fires with the selection highlight geometry.
	SelectionRectsChanged(id engine.EntityID, rects []engine.Rect)
	// StyleChanged fires with the engine's style snapshot after a
	// mutation or resync.
	StyleChanged(snap engine.Snapshot)
	// EntityCreated fires when the coordinator allocates a new entity.
	EntityCreated(id engine.EntityID, p engine.Payload)
	// EntityUpdated fires after a content or style mutation.
	EntityUpdated(id engine.EntityID)
	// EntityDeleted fires when the coordinator removes an entity.
	EntityDeleted(id engine.EntityID)
	// SessionEnded fires when an edit session commits or cancels.
	SessionEnded(id engine.EntityID)
}

// Funcs adapts optional callback functions to the Listener interface.
// Nil fields are skipped.
type Funcs struct {
	OnStateChanged          func(state.ToolState)
	OnCaretMoved            func(CaretUpdate)
	OnSelectionRectsChanged func(engine.EntityID, []engine.Rect)
	OnStyleChanged          func(engine.Snapshot)
	OnEntityCreated         func(engine.EntityID, engine.Payload)
	OnEntityUpdated         func(engine.EntityID)
	OnEntityDeleted         func(engine.EntityID)
	OnSessionEnded          func(engine.EntityID)
}

var _ Listener = Funcs{}

// StateChanged implements Listener.
func (f Funcs) StateChanged(s state.ToolState) {
	if f.OnStateChanged != nil {
		f.OnStateChanged(s)
	}
}

// CaretMoved implements Listener.
func (f Funcs) CaretMoved(u CaretUpdate) {
	if f.OnCaretMoved != nil {
		f.OnCaretMoved(u)
	}
}

// SelectionRectsChanged implements Listener.
func (f Funcs) SelectionRectsChanged(id engine.EntityID, rects []engine.Rect) {
	if f.OnSelectionRectsChanged != nil {
		f.OnSelectionRectsChanged(id, rects)
	}
}

// StyleChanged implements Listener.
func (f Funcs) StyleChanged(snap engine.Snapshot) {
	if f.OnStyleChanged != nil {
		f.OnStyleChanged(snap)
	}
}

// EntityCreated implements Listener.
func (f Funcs) EntityCreated(id engine.EntityID, p engine.Payload) {
	if f.OnEntityCreated != nil {
		f.OnEntityCreated(id, p)
	}
}

// EntityUpdated implements Listener.
func (f Funcs) EntityUpdated(id engine.EntityID) {
	if f.OnEntityUpdated != nil {
		f.OnEntityUpdated(id)
	}
}

// EntityDeleted implements Listener.
func (f Funcs) EntityDeleted(id engine.EntityID) {
	if f.OnEntityDeleted != nil {
		f.OnEntityDeleted(id)
	}
}

// SessionEnded implements Listener.
func (f Funcs) SessionEnded(id engine.EntityID) {
	if f.OnSessionEnded != nil {
		f.OnSessionEnded(id)
	}
}

// Notifier fans notifications out to registered listeners with panic
// recovery. Not safe for concurrent use.
type Notifier struct {
	listeners []Listener
	logger    *logging.Logger
}

// NewNotifier creates a notifier. A nil logger disables panic reports.
func NewNotifier(logger *logging.Logger) *Notifier {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Notifier{logger: logger.WithComponent("event")}
}

// Add registers a listener. Listeners run in registration order.
func (n *Notifier) Add(l Listener) {
	n.listeners = append(n.listeners, l)
}

func (n *Notifier) each(name string, fn func(Listener)) {
	for _, l := range n.listeners {
		n.safeCall(name, l, fn)
	}
}

func (n *Notifier) safeCall(name string, l Listener, fn func(Listener)) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("listener panic in %s: %v", name, r)
		}
	}()
	fn(l)
}

// StateChanged notifies all listeners of a state change.
func (n *Notifier) StateChanged(s state.ToolState) {
	n.each("StateChanged", func(l Listener) { l.StateChanged(s) })
}

// CaretMoved notifies all listeners of caret geometry.
func (n *Notifier) CaretMoved(u CaretUpdate) {
	n.each("CaretMoved", func(l Listener) { l.CaretMoved(u) })
}

// SelectionRectsChanged notifies all listeners of selection geometry.
func (n *Notifier) SelectionRectsChanged(id engine.EntityID, rects []engine.Rect) {
	n.each("SelectionRectsChanged", func(l Listener) { l.SelectionRectsChanged(id, rects) })
}

// StyleChanged notifies all listeners of a style snapshot.
func (n *Notifier) StyleChanged(snap engine.Snapshot) {
	n.each("StyleChanged", func(l Listener) { l.StyleChanged(snap) })
}

// EntityCreated notifies all listeners of a new entity.
func (n *Notifier) EntityCreated(id engine.EntityID, p engine.Payload) {
	n.each("EntityCreated", func(l Listener) { l.EntityCreated(id, p) })
}

// EntityUpdated notifies all listeners of an entity mutation.
func (n *Notifier) EntityUpdated(id engine.EntityID) {
	n.each("EntityUpdated", func(l Listener) { l.EntityUpdated(id) })
}

// EntityDeleted notifies all listeners of an entity removal.
func (n *Notifier) EntityDeleted(id engine.EntityID) {
	n.each("EntityDeleted", func(l Listener) { l.EntityDeleted(id) })
}

// SessionEnded notifies all listeners that an edit session ended.
func (n *Notifier) SessionEnded(id engine.EntityID) {
	n.each("SessionEnded", func(l Listener) { l.SessionEnded(id) })
}
