package memory

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/textsync/internal/engine"
	"github.com/dshills/textsync/internal/index"
)

// Navigate answers a navigation query. When the entity exists its own
// content and layout are authoritative; otherwise the caller-provided
// content is used with an unwrapped layout, so the query degrades
// gracefully after an external deletion.
func (e *Engine) Navigate(id engine.EntityID, op engine.NavOp, runeIdx int, content string) int {
	e.mu.RLock()
	ent, ok := e.entities[id]
	if !ok {
		ent = &entity{content: content, defaultStyle: runeStyle{fontSize: 16}}
	}
	e.mu.RUnlock()

	cont := ent.content
	byteIdx := index.RuneToByte(cont, index.ClampRune(cont, runeIdx))

	var resByte int
	switch op {
	case engine.NavVisualPrev:
		resByte = prevGrapheme(cont, byteIdx)
	case engine.NavVisualNext:
		resByte = nextGrapheme(cont, byteIdx)
	case engine.NavWordLeft:
		resByte = wordLeft(cont, byteIdx)
	case engine.NavWordRight:
		resByte = wordRight(cont, byteIdx)
	case engine.NavLineStart:
		lines := ent.layout()
		resByte = lines[lineIndexOf(lines, byteIdx)].startByte
	case engine.NavLineEnd:
		lines := ent.layout()
		resByte = lines[lineIndexOf(lines, byteIdx)].endByte
	case engine.NavLineUp:
		resByte = lineStep(ent, byteIdx, -1)
	case engine.NavLineDown:
		resByte = lineStep(ent, byteIdx, +1)
	default:
		resByte = byteIdx
	}
	return index.ByteToRune(cont, resByte)
}

// graphemeBoundaries returns every grapheme cluster boundary byte
// offset, including 0 and len(s).
func graphemeBoundaries(s string) []int {
	bounds := []int{0}
	offset := 0
	state := -1
	for len(s) > 0 {
		var g string
		g, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		offset += len(g)
		bounds = append(bounds, offset)
	}
	return bounds
}

func prevGrapheme(s string, b int) int {
	prev := 0
	for _, bound := range graphemeBoundaries(s) {
		if bound >= b {
			break
		}
		prev = bound
	}
	return prev
}

func nextGrapheme(s string, b int) int {
	for _, bound := range graphemeBoundaries(s) {
		if bound > b {
			return bound
		}
	}
	return len(s)
}

// wordSegment is one UAX #29 word segment.
type wordSegment struct {
	start int
	end   int
	space bool
}

func wordSegments(s string) []wordSegment {
	var segs []wordSegment
	offset := 0
	state := -1
	for len(s) > 0 {
		var w string
		w, s, state = uniseg.FirstWordInString(s, state)
		segs = append(segs, wordSegment{
			start: offset,
			end:   offset + len(w),
			space: strings.TrimSpace(w) == "",
		})
		offset += len(w)
	}
	return segs
}

// wordLeft returns the start of the word containing b, or of the
// previous word when b already sits at a word start or in whitespace.
func wordLeft(s string, b int) int {
	segs := wordSegments(s)
	result := 0
	for _, seg := range segs {
		if seg.space {
			continue
		}
		if seg.start < b {
			result = seg.start
		}
	}
	return result
}

// wordRight returns the end of the word containing b, or of the next
// word when b already sits at a word end or in whitespace.
func wordRight(s string, b int) int {
	for _, seg := range wordSegments(s) {
		if seg.space {
			continue
		}
		if seg.end > b {
			return seg.end
		}
	}
	return len(s)
}

// lineStep moves to the visual line above or below, keeping the
// grapheme column, clamped to the target line's extent. At the first or
// last line the caret snaps to the content edge, matching common editor
// behavior.
func lineStep(ent *entity, byteIdx, dir int) int {
	lines := ent.layout()
	li := lineIndexOf(lines, byteIdx)
	target := li + dir
	if target < 0 {
		return 0
	}
	if target >= len(lines) {
		return len(ent.content)
	}
	col := lines[li].columnOf(ent.content, byteIdx)
	return lines[target].byteAtColumn(ent.content, col)
}
