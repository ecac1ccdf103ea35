// Package nav resolves arrow, Home, and End key semantics against the
// text engine's navigation queries.
//
// The handler never does index arithmetic on content itself: what "next
// visual character", "next word", or "line above" means depends on
// grapheme clustering and layout, which only the engine knows. The
// handler's own job is the selection discipline around those queries:
// deriving the anchor for shift-extension from whichever selection end
// is currently the focus, storing the result normalized, and pushing
// the byte-converted caret or range back to the engine immediately so
// subsequent style and insert operations target the right run.
package nav
