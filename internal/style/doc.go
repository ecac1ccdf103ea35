// Package style applies style-attribute edits through the text engine
// and keeps the cached typing defaults honest.
//
// The load-bearing subtlety: a collapsed selection is not a no-op
// target. A zero-length range at the caret sets the engine's typing
// attributes, styling whatever is inserted next. After every style
// mutation the caret is re-pushed to the engine so the next insertion
// reads the correct typing-attribute run, and the engine's tri-state
// snapshot is re-read to refresh the cached defaults. A default flag is
// only updated when its tri-state is unambiguous; mixed attributes
// leave the cached value untouched.
package style
