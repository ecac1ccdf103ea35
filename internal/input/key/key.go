package key

// Key identifies a key on the keyboard.
type Key uint16

const (
	// KeyNone is the zero key.
	KeyNone Key = iota
	// KeyRune is a character key; Event.Rune carries the character.
	KeyRune
	// KeyLeft is the left arrow.
	KeyLeft
	// KeyRight is the right arrow.
	KeyRight
	// KeyUp is the up arrow.
	KeyUp
	// KeyDown is the down arrow.
	KeyDown
	// KeyHome is the Home key.
	KeyHome
	// KeyEnd is the End key.
	KeyEnd
	// KeyEnter is the Return/Enter key.
	KeyEnter
	// KeyBackspace deletes backward.
	KeyBackspace
	// KeyDelete deletes forward.
	KeyDelete
	// KeyEscape is the Escape key.
	KeyEscape
	// KeyTab is the Tab key.
	KeyTab
)

// String returns the canonical key name.
func (k Key) String() string {
	switch k {
	case KeyRune:
		return "Rune"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyHome:
		return "Home"
	case KeyEnd:
		return "End"
	case KeyEnter:
		return "Enter"
	case KeyBackspace:
		return "BS"
	case KeyDelete:
		return "Del"
	case KeyEscape:
		return "Esc"
	case KeyTab:
		return "Tab"
	default:
		return "None"
	}
}

// IsNavigation returns true for keys the navigation handler owns.
func (k Key) IsNavigation() bool {
	switch k {
	case KeyLeft, KeyRight, KeyUp, KeyDown, KeyHome, KeyEnd:
		return true
	default:
		return false
	}
}
