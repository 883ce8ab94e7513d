package terminal

import "github.com/gdamore/tcell/v2"

// Action is what a key press asks of the presentation
type Action uint8

const (
	ActionNone Action = iota
	ActionSkip
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionSkip:
		return "skip"
	case ActionQuit:
		return "quit"
	default:
		return "none"
	}
}

// Classify maps a tcell event to an action; non-key events are ActionNone
func Classify(ev tcell.Event) Action {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return ActionNone
	}
	return ClassifyKey(key.Key(), key.Rune(), key.Modifiers())
}

// ClassifyKey maps s, Space and Enter to skip and q, Esc and Ctrl-C to quit
func ClassifyKey(key tcell.Key, r rune, mod tcell.ModMask) Action {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyEnter:
		return ActionSkip
	case tcell.KeyRune:
		if mod&(tcell.ModCtrl|tcell.ModAlt) != 0 {
			return ActionNone
		}
		switch r {
		case 's', 'S', ' ':
			return ActionSkip
		case 'q', 'Q':
			return ActionQuit
		}
	}
	return ActionNone
}
