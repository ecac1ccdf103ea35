// Package memory provides a reference in-memory implementation of the
// engine.Engine boundary.
//
// It exists so the handlers and the input coordinator can be exercised
// end to end without a host application, and so embedders have a working
// engine to start from. Content is stored per entity together with
// per-code-point style attributes and pending typing attributes.
//
// Layout is deliberately simple: every grapheme cluster advances the pen
// by a fixed fraction of the font size and lines wrap greedily at the
// constraint width. The Engine interface is the contract; the metrics
// are placeholders a real layout engine replaces.
//
// Grapheme and word boundaries follow Unicode segmentation (UAX #29) via
// github.com/rivo/uniseg, so visual navigation steps over a multi-rune
// emoji cluster as a single character.
//
// All methods are safe for concurrent use, though the synchronization
// core itself is single-goroutine.
package memory
