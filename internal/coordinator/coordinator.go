package coordinator

import (
	"math"
	"strings"

	"github.com/dshills/textsync/internal/config"
	"github.com/dshills/textsync/internal/delta"
	"github.com/dshills/textsync/internal/engine"
	"github.com/dshills/textsync/internal/event"
	"github.com/dshills/textsync/internal/index"
	"github.com/dshills/textsync/internal/input/key"
	"github.com/dshills/textsync/internal/logging"
	"github.com/dshills/textsync/internal/nav"
	"github.com/dshills/textsync/internal/state"
	"github.com/dshills/textsync/internal/style"
)

// Coordinator orchestrates pointer-driven creation and selection, applies
// edit deltas, and owns the resynchronization routine. It is the only
// component that calls the engine's mutation entry points.
//
// All methods must be called from a single goroutine: one input event is
// fully applied, including its resync, before the next one is processed.
type Coordinator struct {
	eng    engine.Engine
	cfg    config.Config
	logger *logging.Logger
	diag   *logging.Limiter

	states   *state.Manager
	notifier *event.Notifier
	navh     *nav.Handler
	styles   *style.Handler
	clicks   *clickTracker

	// listeners registered via options before construction completes.
	pending []event.Listener

	// drag-selection state on the active entity.
	dragging       bool
	dragAnchorRune int

	// pointer-down in empty space, awaiting pointer-up to create.
	pendingCreate bool
	createStartX  float64
	createStartY  float64
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithConfig overrides the default configuration.
func WithConfig(cfg config.Config) Option {
	return func(c *Coordinator) { c.cfg = cfg }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithListener registers an outbound event listener.
func WithListener(l event.Listener) Option {
	return func(c *Coordinator) { c.pending = append(c.pending, l) }
}

// New creates a coordinator around an engine.
func New(eng engine.Engine, opts ...Option) *Coordinator {
	c := &Coordinator{
		eng:    eng,
		cfg:    config.Default(),
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.logger = c.logger.WithComponent("coordinator")
	c.diag = logging.NewLimiter(c.logger, c.cfg.DiagnosticInterval)
	c.states = state.NewManager()
	c.notifier = event.NewNotifier(c.logger)
	for _, l := range c.pending {
		c.notifier.Add(l)
	}
	c.pending = nil

	c.states.AddListener(func(s state.ToolState) {
		c.notifier.StateChanged(s)
	})

	c.navh = nav.New(eng, c.states, c.logger)
	c.styles = style.New(eng, c.states, c.notifier, c.logger, style.Defaults{
		FontID:   c.cfg.DefaultFontID,
		FontSize: c.cfg.DefaultFontSize,
	})
	c.clicks = newClickTracker(c.cfg.MultiClickWindow, c.cfg.MultiClickDistance)
	return c
}

// State returns the current mirrored tool state.
func (c *Coordinator) State() state.ToolState {
	return c.states.State()
}

// Styles returns the style handler bound to this coordinator's session.
func (c *Coordinator) Styles() *style.Handler {
	return c.styles
}

// AddListener registers an outbound event listener.
func (c *Coordinator) AddListener(l event.Listener) {
	c.notifier.Add(l)
}

// HandleKey processes a navigation key. Unhandled keys fall through to
// the caller (they belong to the input surface's text path).
func (c *Coordinator) HandleKey(ev key.Event) bool {
	if !c.navh.HandleKey(ev) {
		return false
	}
	st := c.states.State()
	if content, ok := c.eng.Content(st.ActiveEntity); ok {
		c.publishGeometry(st.ActiveEntity, content, st)
	}
	return true
}

// ApplyDelta converts an edit delta's native-surface indices against the
// current engine content, dispatches the mutation, pushes the intended
// caret, and resyncs. Returns false when no entity is active or the
// delta is a no-op.
func (c *Coordinator) ApplyDelta(d delta.Delta) bool {
	if d.IsZero() {
		return false
	}
	st := c.states.State()
	if st.Mode == state.Idle || st.ActiveEntity.IsNone() {
		return false
	}
	id := st.ActiveEntity

	// Indices convert against content re-queried now, never a cached
	// copy: an external mutation between events shifts every offset.
	content, ok := c.eng.Content(id)
	if !ok {
		c.diag.Warn("delta for missing entity %d", id)
		c.reset(id)
		return false
	}
	startByte := index.UTF16ToByte(content, d.Start)
	endByte := index.UTF16ToByte(content, d.End)

	switch d.Kind {
	case delta.KindInsert:
		c.eng.InsertAt(id, startByte, d.Text)
	case delta.KindDelete:
		c.eng.DeleteRange(id, startByte, endByte)
	case delta.KindReplace:
		c.eng.DeleteRange(id, startByte, endByte)
		c.eng.InsertAt(id, startByte, d.Text)
	}

	// Mutation primitives do not move the caret; push the intended
	// position, converted against the post-edit content.
	newContent, ok := c.eng.Content(id)
	if !ok {
		c.diag.Warn("entity %d vanished during delta", id)
		c.reset(id)
		return false
	}
	c.eng.SetCaret(id, index.UTF16ToByte(newContent, d.CaretAfter()))

	c.notifier.EntityUpdated(id)
	c.Resync()
	return true
}

// ApplySurfaceSelection mirrors a native-surface selection change,
// converting its UTF-16 indices against the current content. The end
// index is treated as the focus end.
func (c *Coordinator) ApplySurfaceSelection(startU16, endU16 int) bool {
	st := c.states.State()
	if st.Mode == state.Idle || st.ActiveEntity.IsNone() {
		return false
	}
	content, ok := c.eng.Content(st.ActiveEntity)
	if !ok {
		c.diag.Warn("selection change for missing entity %d", st.ActiveEntity)
		c.reset(st.ActiveEntity)
		return false
	}
	start := index.UTF16ToRune(content, startU16)
	end := index.UTF16ToRune(content, endU16)
	c.selectRange(st.ActiveEntity, content, start, end, end)
	return true
}

// SelectedText returns the content under the active selection.
func (c *Coordinator) SelectedText() (string, bool) {
	st := c.states.State()
	if st.Mode == state.Idle || st.ActiveEntity.IsNone() {
		return "", false
	}
	content, ok := c.eng.Content(st.ActiveEntity)
	if !ok {
		return "", false
	}
	lo, hi := st.SelectionRange()
	return content[index.RuneToByte(content, lo):index.RuneToByte(content, hi)], true
}

// SelectionUTF16 returns the active selection normalized to native-surface
// (UTF-16) units.
func (c *Coordinator) SelectionUTF16() (start, end int, ok bool) {
	st := c.states.State()
	if st.Mode == state.Idle || st.ActiveEntity.IsNone() {
		return 0, 0, false
	}
	content, ok := c.eng.Content(st.ActiveEntity)
	if !ok {
		return 0, 0, false
	}
	lo, hi := st.SelectionRange()
	return index.RuneToUTF16(content, lo), index.RuneToUTF16(content, hi), true
}

// Resync re-reads content and the engine snapshot, clamps indices, and
// updates the mirrored state. A missing entity or snapshot resets to
// Idle; every anomaly emits a rate-limited diagnostic.
func (c *Coordinator) Resync() {
	st := c.states.State()
	if st.ActiveEntity.IsNone() {
		return
	}
	id := st.ActiveEntity

	content, ok := c.eng.Content(id)
	if !ok {
		c.diag.Warn("active entity %d no longer exists, resetting", id)
		c.reset(id)
		return
	}
	snap, ok := c.eng.Snapshot(id)
	if !ok {
		c.diag.Warn("snapshot missing for entity %d, resetting", id)
		c.reset(id)
		return
	}

	caret := index.ClampRune(content, snap.CaretRune)
	selStart := index.ClampRune(content, snap.SelectionStartRune)
	selEnd := index.ClampRune(content, snap.SelectionEndRune)
	if caret != snap.CaretRune || selStart != snap.SelectionStartRune || selEnd != snap.SelectionEndRune {
		c.diag.Warn("clamped out-of-range snapshot for entity %d (caret %d, sel [%d,%d])",
			id, snap.CaretRune, snap.SelectionStartRune, snap.SelectionEndRune)
	}

	if st.Mode == state.Creating && c.eng.Bounds(id).Valid {
		c.states.SetMode(state.Editing)
	}
	c.states.UpdateSelection(caret, selStart, selEnd)

	c.notifier.StyleChanged(snap)
	c.publishGeometry(id, content, c.states.State())
}

// ExternalMutation handles undo/redo, document load, and tool switches.
// The host cannot cheaply prove the active entity was unaffected, so the
// session unconditionally resets to Idle.
func (c *Coordinator) ExternalMutation() {
	st := c.states.State()
	c.clicks.reset()
	if st.ActiveEntity.IsNone() {
		c.dragging = false
		c.pendingCreate = false
		return
	}
	c.reset(st.ActiveEntity)
}

// Commit ends the edit session, deleting the entity when its trimmed
// content is empty.
func (c *Coordinator) Commit() {
	st := c.states.State()
	id := st.ActiveEntity
	if id.IsNone() {
		return
	}
	if content, ok := c.eng.Content(id); ok && strings.TrimSpace(content) == "" {
		c.eng.Delete(id)
		c.notifier.EntityDeleted(id)
	}
	c.reset(id)
}

// Cancel ends the edit session. Beyond commit's empty-content deletion
// it also deletes an entity still in the Creating stage: one that was
// never populated should not survive.
func (c *Coordinator) Cancel() {
	st := c.states.State()
	id := st.ActiveEntity
	if id.IsNone() {
		return
	}
	content, ok := c.eng.Content(id)
	if !ok {
		c.reset(id)
		return
	}
	if st.Mode == state.Creating || strings.TrimSpace(content) == "" {
		c.eng.Delete(id)
		c.notifier.EntityDeleted(id)
	}
	c.reset(id)
}

// reset clears all session state and notifies the session end.
func (c *Coordinator) reset(id engine.EntityID) {
	c.dragging = false
	c.pendingCreate = false
	c.states.ClearActiveText()
	if !id.IsNone() {
		c.notifier.SessionEnded(id)
	}
}

// publishGeometry emits caret and selection-rect geometry for overlay
// rendering. World coordinates rotate the local caret position around
// the entity anchor.
func (c *Coordinator) publishGeometry(id engine.EntityID, content string, st state.ToolState) {
	caretByte := index.RuneToByte(content, st.CaretRune)
	if pos, ok := c.eng.CaretPosition(id, caretByte); ok {
		sin, cos := math.Sincos(st.Rotation)
		c.notifier.CaretMoved(event.CaretUpdate{
			Entity: id,
			Local:  pos,
			WorldX: st.AnchorX + pos.X*cos - pos.Y*sin,
			WorldY: st.AnchorY + pos.X*sin + pos.Y*cos,
		})
	}

	lo, hi := st.SelectionRange()
	c.notifier.SelectionRectsChanged(id, c.eng.SelectionRects(id, lo, hi, content))
}
