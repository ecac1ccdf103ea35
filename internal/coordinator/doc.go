// Package coordinator orchestrates the editing session: pointer-driven
// entity creation and selection, edit-delta application, and the
// resynchronization that keeps the mirrored tool state honest against
// the authoritative engine.
//
// The coordinator is the sole caller of the engine's mutation entry
// points. Every mutation path ends in a resync that re-reads content
// and the engine snapshot, clamps indices defensively, and fans the
// result out to listeners. The model is single-threaded and
// event-driven: one input event is fully applied, resync included,
// before the next is processed, so no overlapping engine mutations are
// possible. External mutations (undo, redo, document load, tool
// switches) cannot be proven non-interfering, so they always reset the
// session to Idle.
package coordinator
