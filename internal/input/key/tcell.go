package key

import "github.com/gdamore/tcell/v2"

// FromTcell translates a tcell key event for hosts whose input surface
// runs on a terminal.
func FromTcell(ev *tcell.EventKey) Event {
	return Event{
		Key:       convertKey(ev.Key()),
		Rune:      convertRune(ev),
		Modifiers: convertMod(ev.Modifiers()),
		Timestamp: ev.When(),
	}
}

func convertKey(k tcell.Key) Key {
	switch k {
	case tcell.KeyRune:
		return KeyRune
	case tcell.KeyLeft:
		return KeyLeft
	case tcell.KeyRight:
		return KeyRight
	case tcell.KeyUp:
		return KeyUp
	case tcell.KeyDown:
		return KeyDown
	case tcell.KeyHome:
		return KeyHome
	case tcell.KeyEnd:
		return KeyEnd
	case tcell.KeyEnter:
		return KeyEnter
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return KeyBackspace
	case tcell.KeyDelete:
		return KeyDelete
	case tcell.KeyEscape:
		return KeyEscape
	case tcell.KeyTab:
		return KeyTab
	default:
		return KeyNone
	}
}

func convertRune(ev *tcell.EventKey) rune {
	if ev.Key() == tcell.KeyRune {
		return ev.Rune()
	}
	return 0
}

func convertMod(m tcell.ModMask) Modifier {
	var out Modifier
	if m&tcell.ModShift != 0 {
		out = out.With(ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		out = out.With(ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		out = out.With(ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		out = out.With(ModMeta)
	}
	return out
}
