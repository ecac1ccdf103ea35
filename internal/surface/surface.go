package surface

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/dshills/textsync/internal/delta"
	"github.com/dshills/textsync/internal/input/key"
	"github.com/dshills/textsync/internal/logging"
)

// Core is the coordinator surface the adapter forwards into. It owns
// all text truth; the adapter only translates events.
type Core interface {
	ApplyDelta(d delta.Delta) bool
	ApplySurfaceSelection(startU16, endU16 int) bool
	HandleKey(ev key.Event) bool
	SelectedText() (string, bool)
	SelectionUTF16() (start, end int, ok bool)
}

// Clipboard abstracts the system clipboard so tests can inject one.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// systemClipboard backs Clipboard with the OS clipboard.
type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Adapter bridges the native editable input surface into the core. It
// owns the composition suppression window: while an IME composition is
// open, raw content and selection changes reflect the surface's
// incremental buffer churn and are dropped; only the final composed
// text becomes a delta.
type Adapter struct {
	core   Core
	clip   Clipboard
	logger *logging.Logger

	composing    bool
	compStartU16 int
	compEndU16   int
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithClipboard replaces the system clipboard.
func WithClipboard(clip Clipboard) Option {
	return func(a *Adapter) {
		if clip != nil {
			a.clip = clip
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *logging.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates an adapter forwarding into the given core.
func New(core Core, opts ...Option) *Adapter {
	a := &Adapter{
		core:   core,
		clip:   systemClipboard{},
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.WithComponent("surface")
	return a
}

// Composing reports whether an IME composition is open.
func (a *Adapter) Composing() bool {
	return a.composing
}

// ContentChanged handles a raw content-change notification from the
// surface, carrying before/after snapshots and the caret after the
// change in native-surface units. Changes during composition are
// suppressed.
func (a *Adapter) ContentChanged(oldValue, newValue string, caretAfterU16 int) bool {
	if a.composing {
		a.logger.Debug("content change suppressed during composition")
		return false
	}
	d, ok := delta.Compute(oldValue, newValue, caretAfterU16)
	if !ok {
		return false
	}
	return a.core.ApplyDelta(d)
}

// SelectionChanged handles a native-surface selection change.
func (a *Adapter) SelectionChanged(startU16, endU16 int) bool {
	if a.composing {
		return false
	}
	return a.core.ApplySurfaceSelection(startU16, endU16)
}

// CompositionStart opens the suppression window, recording the surface
// selection the composed text will replace.
func (a *Adapter) CompositionStart(selStartU16, selEndU16 int) {
	if selStartU16 > selEndU16 {
		selStartU16, selEndU16 = selEndU16, selStartU16
	}
	a.composing = true
	a.compStartU16 = selStartU16
	a.compEndU16 = selEndU16
}

// CompositionUpdate carries intermediate composition text. The surface
// buffer churn it reflects does not correspond to committed text, so it
// is dropped.
func (a *Adapter) CompositionUpdate(text string) {
	a.logger.Debug("composition update %q ignored", text)
}

// CompositionEnd closes the suppression window and translates the final
// composed text into a delta against the selection at composition start.
func (a *Adapter) CompositionEnd(text string) bool {
	if !a.composing {
		return false
	}
	a.composing = false
	if text == "" && a.compStartU16 == a.compEndU16 {
		return false
	}

	d := delta.Delta{
		Kind:  delta.KindInsert,
		Start: a.compStartU16,
		End:   a.compStartU16,
		Text:  text,
	}
	if a.compStartU16 != a.compEndU16 {
		d.Kind = delta.KindReplace
		d.End = a.compEndU16
		if text == "" {
			d.Kind = delta.KindDelete
		}
	}
	return a.core.ApplyDelta(d)
}

// KeyEvent forwards a key event; unhandled keys return false so the
// host can route them back into the surface's text path.
func (a *Adapter) KeyEvent(ev key.Event) bool {
	return a.core.HandleKey(ev)
}

// Copy places the selected text on the clipboard. An empty selection is
// a no-op.
func (a *Adapter) Copy() error {
	text, ok := a.core.SelectedText()
	if !ok || text == "" {
		return nil
	}
	if err := a.clip.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard write: %w", err)
	}
	return nil
}

// Cut copies the selected text and deletes it.
func (a *Adapter) Cut() error {
	text, ok := a.core.SelectedText()
	if !ok || text == "" {
		return nil
	}
	if err := a.clip.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard write: %w", err)
	}
	start, end, ok := a.core.SelectionUTF16()
	if !ok {
		return nil
	}
	a.core.ApplyDelta(delta.Delta{Kind: delta.KindDelete, Start: start, End: end})
	return nil
}

// Paste inserts clipboard text over the current selection.
func (a *Adapter) Paste() error {
	text, err := a.clip.ReadAll()
	if err != nil {
		return fmt.Errorf("clipboard read: %w", err)
	}
	if text == "" {
		return nil
	}
	start, end, ok := a.core.SelectionUTF16()
	if !ok {
		return nil
	}
	d := delta.Delta{Kind: delta.KindInsert, Start: start, End: start, Text: text}
	if start != end {
		d.Kind = delta.KindReplace
		d.End = end
	}
	a.core.ApplyDelta(d)
	return nil
}
