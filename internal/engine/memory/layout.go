package memory

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/textsync/internal/engine"
	"github.com/dshills/textsync/internal/index"
)

// Placeholder metrics: every grapheme advances the pen by a fixed
// fraction of the font size, lines are a fixed multiple of it.
const (
	advanceFactor    = 0.6
	lineHeightFactor = 1.2
)

func (ent *entity) advance() float64 {
	return ent.defaultStyle.fontSize * advanceFactor
}

func (ent *entity) lineHeight() float64 {
	return ent.defaultStyle.fontSize * lineHeightFactor
}

// vline is one visual line: a byte range of content excluding any
// trailing hard line break.
type vline struct {
	startByte int
	endByte   int
}

func (l vline) contains(b int) bool {
	return b >= l.startByte && b <= l.endByte
}

// layout splits content into visual lines: hard breaks at '\n', then a
// greedy grapheme wrap at the constraint width for FixedWidth entities.
func (ent *entity) layout() []vline {
	var out []vline

	wrap := 0
	if ent.boxMode == engine.FixedWidth && ent.constraintWidth > 0 && ent.advance() > 0 {
		wrap = int(ent.constraintWidth / ent.advance())
		if wrap < 1 {
			wrap = 1
		}
	}

	paraStart := 0
	flushPara := func(start, end int) {
		if wrap == 0 {
			out = append(out, vline{startByte: start, endByte: end})
			return
		}
		lineStart := start
		count := 0
		rest := ent.content[start:end]
		offset := start
		state := -1
		for len(rest) > 0 {
			var g string
			g, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
			if count == wrap {
				out = append(out, vline{startByte: lineStart, endByte: offset})
				lineStart = offset
				count = 0
			}
			offset += len(g)
			count++
		}
		out = append(out, vline{startByte: lineStart, endByte: end})
	}

	for i := 0; i < len(ent.content); i++ {
		if ent.content[i] == '\n' {
			flushPara(paraStart, i)
			paraStart = i + 1
		}
	}
	flushPara(paraStart, len(ent.content))
	return out
}

// graphemeCount returns the number of grapheme clusters in s.
func graphemeCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// columnOf returns the grapheme column of byte offset b within the line.
func (l vline) columnOf(content string, b int) int {
	if b <= l.startByte {
		return 0
	}
	if b > l.endByte {
		b = l.endByte
	}
	return graphemeCount(content[l.startByte:b])
}

// byteAtColumn returns the byte offset of the given grapheme column,
// clamped to the line's extent.
func (l vline) byteAtColumn(content string, col int) int {
	offset := l.startByte
	rest := content[l.startByte:l.endByte]
	state := -1
	for col > 0 && len(rest) > 0 {
		var g string
		g, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		offset += len(g)
		col--
	}
	return offset
}

// lineIndexOf returns the index of the line containing byte offset b.
// A boundary byte belongs to the line it ends, matching caret-at-end
// behavior.
func lineIndexOf(lines []vline, b int) int {
	for i, l := range lines {
		if l.contains(b) {
			return i
		}
	}
	return len(lines) - 1
}

// Metrics returns the placeholder advance and line height of an
// entity's layout. Not part of the Engine interface; hosts use it to
// map display cells to local units.
func (e *Engine) Metrics(id engine.EntityID) (advance, lineHeight float64, ok bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ent, found := e.entities[id]
	if !found {
		return 0, 0, false
	}
	return ent.advance(), ent.lineHeight(), true
}

// Bounds returns the entity's bounding box in local coordinates.
func (e *Engine) Bounds(id engine.EntityID) engine.Rect {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ent, ok := e.entities[id]
	if !ok {
		return engine.Rect{}
	}

	lines := ent.layout()
	width := 0.0
	for _, l := range lines {
		w := float64(graphemeCount(ent.content[l.startByte:l.endByte])) * ent.advance()
		if w > width {
			width = w
		}
	}
	if ent.boxMode == engine.FixedWidth && ent.constraintWidth > width {
		width = ent.constraintWidth
	}
	return engine.Rect{
		MinX:  0,
		MinY:  0,
		MaxX:  width,
		MaxY:  float64(len(lines)) * ent.lineHeight(),
		Valid: true,
	}
}

// CaretPosition returns caret geometry at a byte offset.
func (e *Engine) CaretPosition(id engine.EntityID, byteIdx int) (engine.CaretPos, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ent, ok := e.entities[id]
	if !ok {
		return engine.CaretPos{}, false
	}

	byteIdx = clampByte(ent.content, byteIdx)
	lines := ent.layout()
	li := lineIndexOf(lines, byteIdx)
	col := lines[li].columnOf(ent.content, byteIdx)
	return engine.CaretPos{
		X:      float64(col) * ent.advance(),
		Y:      float64(li) * ent.lineHeight(),
		Height: ent.lineHeight(),
	}, true
}

// HitTest maps an entity-local point to the nearest caret byte offset.
// The point is clamped into the entity's box; it only fails for a
// missing entity, so callers can use it for drag extension beyond the
// box edges.
func (e *Engine) HitTest(id engine.EntityID, x, y float64) (int, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ent, ok := e.entities[id]
	if !ok {
		return 0, false
	}

	lines := ent.layout()
	li := 0
	if lh := ent.lineHeight(); lh > 0 {
		li = int(y / lh)
	}
	if li < 0 {
		li = 0
	}
	if li >= len(lines) {
		li = len(lines) - 1
	}

	col := 0
	if adv := ent.advance(); adv > 0 {
		col = int(x/adv + 0.5)
	}
	if col < 0 {
		col = 0
	}
	return lines[li].byteAtColumn(ent.content, col), true
}

// SelectionRects returns one rectangle per visual line covered by the
// logical range [startRune, endRune).
func (e *Engine) SelectionRects(id engine.EntityID, startRune, endRune int, content string) []engine.Rect {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ent, ok := e.entities[id]
	if !ok {
		return nil
	}

	if startRune > endRune {
		startRune, endRune = endRune, startRune
	}
	startByte := index.RuneToByte(ent.content, startRune)
	endByte := index.RuneToByte(ent.content, endRune)
	if startByte == endByte {
		return nil
	}

	lines := ent.layout()
	var out []engine.Rect
	for i, l := range lines {
		s := max(startByte, l.startByte)
		en := min(endByte, l.endByte)
		if s >= en {
			continue
		}
		x0 := float64(l.columnOf(ent.content, s)) * ent.advance()
		x1 := float64(l.columnOf(ent.content, en)) * ent.advance()
		y := float64(i) * ent.lineHeight()
		out = append(out, engine.Rect{
			MinX:  x0,
			MinY:  y,
			MaxX:  x1,
			MaxY:  y + ent.lineHeight(),
			Valid: true,
		})
	}
	return out
}
