// Package engine defines the boundary to the authoritative text engine:
// the external store that owns text content, style runs, layout, and
// caret/selection ground truth.
//
// The synchronization core holds no text of its own. Everything it knows
// about content it queries through the Engine interface, synchronously,
// immediately before acting; nothing read from the engine is cached
// across a mutation.
//
// Index conventions at this boundary:
//
//   - Mutation and caret entry points (InsertAt, DeleteRange, SetCaret,
//     SetSelection, HitTest results) speak UTF-8 byte offsets.
//   - Snapshot fields and navigation queries speak logical indices:
//     Unicode code point counts.
//
// Values never cross this boundary in the native surface's UTF-16 units;
// the coordinator converts those out before dispatch.
//
// Mutations on a missing entity are safely ignorable no-ops: the caller
// always resynchronizes afterwards and the resync detects the missing
// entity uniformly.
package engine
