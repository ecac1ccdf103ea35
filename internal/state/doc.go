// Package state owns the mirrored tool state for one editing session.
//
// The Manager holds exactly one ToolState and notifies listeners with a
// copy of the full new state after every mutation. Notifications are
// synchronous and run on the caller's goroutine; there are no partial or
// diff notifications, which keeps downstream consumers simple at the
// cost of redundant re-reads.
//
// The invariant that matters: content is never stored here. ToolState
// carries indices and geometry only; the text engine is the sole source
// of truth for content, and any component needing it queries the engine
// directly before acting.
package state
