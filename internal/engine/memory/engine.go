package memory

import (
	"sync"

	"github.com/dshills/textsync/internal/engine"
	"github.com/dshills/textsync/internal/index"
)

// runeStyle is the style of a single code point.
type runeStyle struct {
	flags    engine.StyleFlags
	fontID   int
	fontSize float64
}

// typingAttrs is the pending style for the next insertion at the caret.
type typingAttrs struct {
	caretByte int
	style     runeStyle
}

// entity is one text entity's full state.
type entity struct {
	x               float64
	y               float64
	rotation        float64
	boxMode         engine.BoxMode
	constraintWidth float64
	align           engine.Align

	content string
	styles  []runeStyle // one per code point of content

	caretByte    int
	selStartByte int
	selEndByte   int

	defaultStyle runeStyle
	typing       *typingAttrs
}

// Engine is an in-memory engine.Engine implementation.
type Engine struct {
	mu       sync.RWMutex
	entities map[engine.EntityID]*entity
}

// New creates an empty in-memory engine.
func New() *Engine {
	return &Engine{entities: make(map[engine.EntityID]*entity)}
}

// compile-time interface check
var _ engine.Engine = (*Engine)(nil)

// Content returns the entity's content.
func (e *Engine) Content(id engine.EntityID) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ent, ok := e.entities[id]
	if !ok {
		return "", false
	}
	return ent.content, true
}

// Upsert creates or replaces an entity from a payload.
func (e *Engine) Upsert(id engine.EntityID, p engine.Payload) {
	e.mu.Lock()
	defer e.mu.Unlock()

	def := runeStyle{fontID: p.FontID, fontSize: p.FontSize}
	if def.fontSize <= 0 {
		def.fontSize = 16
	}
	ent := &entity{
		x:               p.X,
		y:               p.Y,
		rotation:        p.Rotation,
		boxMode:         p.BoxMode,
		constraintWidth: p.ConstraintWidth,
		align:           p.Align,
		content:         p.Content,
		defaultStyle:    def,
	}
	ent.styles = make([]runeStyle, index.RuneLen(p.Content))
	for i := range ent.styles {
		ent.styles[i] = def
	}
	e.entities[id] = ent
}

// Delete removes an entity.
func (e *Engine) Delete(id engine.EntityID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.entities, id)
}

// Exists reports whether the entity is present. Not part of the Engine
// interface; tests use it.
func (e *Engine) Exists(id engine.EntityID) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.entities[id]
	return ok
}

// InsertAt inserts text at a byte offset. Inserted code points take the
// pending typing attributes when one is armed at that offset, otherwise
// the style of the preceding code point, otherwise the entity default.
func (e *Engine) InsertAt(id engine.EntityID, byteIdx int, text string) {
	if text == "" {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	ent, ok := e.entities[id]
	if !ok {
		return
	}

	byteIdx = clampByte(ent.content, byteIdx)
	atRune := index.ByteToRune(ent.content, byteIdx)

	style := ent.defaultStyle
	if ent.typing != nil && ent.typing.caretByte == byteIdx {
		style = ent.typing.style
	} else if atRune > 0 {
		style = ent.styles[atRune-1]
	}
	ent.typing = nil

	ent.content = ent.content[:byteIdx] + text + ent.content[byteIdx:]

	inserted := make([]runeStyle, index.RuneLen(text))
	for i := range inserted {
		inserted[i] = style
	}
	styles := make([]runeStyle, 0, len(ent.styles)+len(inserted))
	styles = append(styles, ent.styles[:atRune]...)
	styles = append(styles, inserted...)
	styles = append(styles, ent.styles[atRune:]...)
	ent.styles = styles
}

// DeleteRange removes the bytes in [startByte, endByte).
func (e *Engine) DeleteRange(id engine.EntityID, startByte, endByte int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ent, ok := e.entities[id]
	if !ok {
		return
	}

	startByte = clampByte(ent.content, startByte)
	endByte = clampByte(ent.content, endByte)
	if startByte > endByte {
		startByte, endByte = endByte, startByte
	}
	if startByte == endByte {
		return
	}

	startRune := index.ByteToRune(ent.content, startByte)
	endRune := index.ByteToRune(ent.content, endByte)

	ent.content = ent.content[:startByte] + ent.content[endByte:]
	ent.styles = append(ent.styles[:startRune], ent.styles[endRune:]...)
	ent.typing = nil
}

// SetCaret moves the caret, collapsing the selection. Moving to a
// different offset discards pending typing attributes; re-pushing the
// same offset keeps them, so a style-then-sync sequence stays armed.
func (e *Engine) SetCaret(id engine.EntityID, byteIdx int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ent, ok := e.entities[id]
	if !ok {
		return
	}
	byteIdx = clampByte(ent.content, byteIdx)
	if ent.typing != nil && ent.typing.caretByte != byteIdx {
		ent.typing = nil
	}
	ent.caretByte = byteIdx
	ent.selStartByte = byteIdx
	ent.selEndByte = byteIdx
}

// SetSelection sets the selection byte range. The caret moves to the
// end of the range.
func (e *Engine) SetSelection(id engine.EntityID, startByte, endByte int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ent, ok := e.entities[id]
	if !ok {
		return
	}
	startByte = clampByte(ent.content, startByte)
	endByte = clampByte(ent.content, endByte)
	if startByte > endByte {
		startByte, endByte = endByte, startByte
	}
	ent.selStartByte = startByte
	ent.selEndByte = endByte
	ent.caretByte = endByte
	ent.typing = nil
}

// Snapshot returns the caret/selection/style snapshot.
func (e *Engine) Snapshot(id engine.EntityID) (engine.Snapshot, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ent, ok := e.entities[id]
	if !ok {
		return engine.Snapshot{}, false
	}

	snap := engine.Snapshot{
		CaretRune:          index.ByteToRune(ent.content, ent.caretByte),
		SelectionStartRune: index.ByteToRune(ent.content, ent.selStartByte),
		SelectionEndRune:   index.ByteToRune(ent.content, ent.selEndByte),
		FontID:             ent.defaultStyle.fontID,
		FontSize:           ent.defaultStyle.fontSize,
		Align:              ent.align,
	}
	snap.Flags = ent.triStateOver(snap.SelectionStartRune, snap.SelectionEndRune)
	return snap, true
}

// SetConstraintWidth changes the wrap width.
func (e *Engine) SetConstraintWidth(id engine.EntityID, width float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ent, ok := e.entities[id]; ok {
		ent.constraintWidth = width
		ent.boxMode = engine.FixedWidth
	}
}

// SetAlign changes the paragraph alignment.
func (e *Engine) SetAlign(id engine.EntityID, a engine.Align) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ent, ok := e.entities[id]; ok {
		ent.align = a
	}
}

func clampByte(content string, b int) int {
	if b < 0 {
		return 0
	}
	if b > len(content) {
		return len(content)
	}
	// Back up to a code point boundary.
	for b > 0 && b < len(content) && !isRuneStart(content[b]) {
		b--
	}
	return b
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
