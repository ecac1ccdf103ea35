// Package delta computes minimal edit operations from before/after
// snapshots of the native input surface's value.
//
// The computation assumes a single contiguous edit region per call, which
// holds for key, IME commit, and paste events. It is not a general diff:
// batching unrelated edits into one call will misattribute the change.
//
// All indices are in UTF-16 code units, the native surface's unit. The
// caller converts them to the engine's byte domain (via the index
// package) immediately before dispatch, against the engine content
// current at that moment.
package delta
