// Package surface adapts native input-surface events (content changes,
// selection changes, IME composition, clipboard, keys) into core calls.
// The adapter owns no text state: every event is translated against
// whatever the engine holds at that moment, and IME composition opens a
// suppression window so only the final composed text produces an edit.
package surface
