// Package index converts positions between the three index domains the
// synchronization core deals with:
//
//   - Byte: UTF-8 byte offsets, consumed by the text engine's mutation
//     and caret APIs.
//   - Rune: Unicode code point counts (the engine's "logical" indices,
//     reported back by its snapshots).
//   - UTF16: UTF-16 code unit counts, the native input surface's unit
//     (a surrogate pair counts as two).
//
// Domain mapping is content-dependent: multi-byte and astral code points
// shift offsets non-uniformly, so every conversion takes the content
// string current at conversion time. Out-of-range inputs clamp to the
// valid range rather than erroring; the callers of this package prefer
// defensive clamping over rejection because input surfaces legitimately
// report stale indices across mutations.
//
// All functions are pure and safe for concurrent use.
package index
