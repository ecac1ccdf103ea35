package engine

import "sync/atomic"

// EntityID identifies a text entity owned by the engine.
// The zero value means "no entity".
type EntityID uint64

// None is the zero EntityID.
const None EntityID = 0

// IsNone returns true for the zero id.
func (id EntityID) IsNone() bool {
	return id == None
}

// entityCounter generates unique entity ids.
var entityCounter uint64

// NewEntityID allocates a fresh entity id. Thread-safe.
func NewEntityID() EntityID {
	return EntityID(atomic.AddUint64(&entityCounter, 1))
}

// BoxMode controls how a text entity's box behaves.
type BoxMode uint8

const (
	// AutoWidth grows the box freely with its content.
	AutoWidth BoxMode = iota
	// FixedWidth wraps content at a constraint width.
	FixedWidth
)

// String returns the string representation of the box mode.
func (m BoxMode) String() string {
	switch m {
	case AutoWidth:
		return "auto"
	case FixedWidth:
		return "fixed"
	default:
		return "unknown"
	}
}

// NavOp identifies a caret navigation query. The engine is authoritative
// for what "next visual character", "next word", and "line above" mean:
// grapheme clustering and line wrapping are layout-dependent.
type NavOp uint8

const (
	// NavVisualPrev moves to the previous visual character (grapheme).
	NavVisualPrev NavOp = iota
	// NavVisualNext moves to the next visual character (grapheme).
	NavVisualNext
	// NavWordLeft moves to the previous word boundary.
	NavWordLeft
	// NavWordRight moves to the next word boundary.
	NavWordRight
	// NavLineStart moves to the start of the current visual line.
	NavLineStart
	// NavLineEnd moves to the end of the current visual line.
	NavLineEnd
	// NavLineUp moves to the visual line above, keeping the column.
	NavLineUp
	// NavLineDown moves to the visual line below, keeping the column.
	NavLineDown
)

// String returns the string representation of the navigation op.
func (op NavOp) String() string {
	switch op {
	case NavVisualPrev:
		return "visual-prev"
	case NavVisualNext:
		return "visual-next"
	case NavWordLeft:
		return "word-left"
	case NavWordRight:
		return "word-right"
	case NavLineStart:
		return "line-start"
	case NavLineEnd:
		return "line-end"
	case NavLineUp:
		return "line-up"
	case NavLineDown:
		return "line-down"
	default:
		return "unknown"
	}
}

// Payload carries the fields needed to create or update an entity.
// Height is an initial box-height hint for the host's shape registry;
// after creation the layout owns the height.
type Payload struct {
	X               float64
	Y               float64
	Rotation        float64
	BoxMode         BoxMode
	ConstraintWidth float64
	Height          float64
	FontID          int
	FontSize        float64
	Align           Align
	Content         string
}

// Snapshot is the engine's authoritative caret/selection/style state for
// one entity. Caret and selection fields are logical (code point)
// indices into the entity's content.
type Snapshot struct {
	CaretRune          int
	SelectionStartRune int
	SelectionEndRune   int
	Flags              TriStateFlags
	FontID             int
	FontSize           float64
	Align              Align
}

// Rect is an axis-aligned rectangle in entity-local coordinates.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
	Valid      bool
}

// Width returns the rectangle's width, 0 when invalid.
func (r Rect) Width() float64 {
	if !r.Valid {
		return 0
	}
	return r.MaxX - r.MinX
}

// Height returns the rectangle's height, 0 when invalid.
func (r Rect) Height() float64 {
	if !r.Valid {
		return 0
	}
	return r.MaxY - r.MinY
}

// CaretPos locates a caret for overlay rendering.
type CaretPos struct {
	X      float64
	Y      float64
	Height float64
}

// Engine is the authoritative text engine boundary. All calls are
// synchronous and in-process. Implementations must treat mutations on
// unknown entities as no-ops rather than errors.
type Engine interface {
	// Content returns the entity's full content, or false if the entity
	// does not exist.
	Content(id EntityID) (string, bool)

	// InsertAt inserts text at a byte offset.
	InsertAt(id EntityID, byteIdx int, text string)

	// DeleteRange removes the bytes in [startByte, endByte).
	DeleteRange(id EntityID, startByte, endByte int)

	// SetCaret moves the caret to a byte offset, collapsing any
	// selection. Mutation primitives do not move the caret themselves;
	// callers push it explicitly after every edit.
	SetCaret(id EntityID, byteIdx int)

	// SetSelection sets the selection to the byte range [startByte, endByte).
	SetSelection(id EntityID, startByte, endByte int)

	// Snapshot returns the caret/selection/style snapshot, or false if
	// the entity does not exist.
	Snapshot(id EntityID) (Snapshot, bool)

	// Navigate answers a navigation query from a logical index against
	// the given content, returning the resulting logical index.
	Navigate(id EntityID, op NavOp, runeIdx int, content string) int

	// HitTest maps an entity-local point to the byte offset of the
	// nearest caret position, or false if the point misses the entity.
	HitTest(id EntityID, x, y float64) (int, bool)

	// Bounds returns the entity's bounding box; Valid is false when the
	// entity does not exist or has no layout yet.
	Bounds(id EntityID) Rect

	// CaretPosition returns caret geometry at a byte offset for overlay
	// rendering.
	CaretPosition(id EntityID, byteIdx int) (CaretPos, bool)

	// SelectionRects returns one rectangle per visual line covered by
	// the logical range [startRune, endRune).
	SelectionRects(id EntityID, startRune, endRune int, content string) []Rect

	// Upsert creates or replaces an entity from a payload.
	Upsert(id EntityID, p Payload)

	// Delete removes an entity. Removing a missing entity is a no-op.
	Delete(id EntityID)

	// SetConstraintWidth changes the wrap width of a FixedWidth entity.
	SetConstraintWidth(id EntityID, width float64)

	// SetAlign changes the entity's paragraph alignment.
	SetAlign(id EntityID, a Align)

	// ApplyStyleRange applies a style edit to a logical range. A
	// zero-length range at the caret sets typing attributes for the
	// next insertion instead of being a no-op.
	ApplyStyleRange(id EntityID, edit StyleEdit)
}
