package appstate

import (
	"unicode"

	"golang.org/x/mobile/event/key"
)

// Action is something a key press asks the window to do.
type Action int

const (
	ActionNone Action = iota
	ActionToolBrush
	ActionToolSquare
	ActionToolArrow
	ActionToolText
	ActionUndo
	ActionRedo
	ActionClear
	ActionCancel
	ActionWider
	ActionThinner
	ActionPalette
	ActionSave
	ActionCopy
	ActionExport
	ActionTextCommit
	ActionTextBackspace
	ActionTextInput
)

// Command is a translated key press.
type Command struct {
	Action Action
	Rune   rune
	Index  int
}

// Translate maps a key event to a command. While typing, printable keys
// become text input and only control shortcuts and editing keys are
// interpreted.
func Translate(e key.Event, typing bool) Command {
	if e.Direction == key.DirRelease {
		return Command{}
	}
	if e.Modifiers&key.ModControl != 0 {
		switch e.Code {
		case key.CodeS:
			return Command{Action: ActionSave}
		case key.CodeC:
			return Command{Action: ActionCopy}
		case key.CodeE:
			return Command{Action: ActionExport}
		case key.CodeZ:
			if e.Modifiers&key.ModShift != 0 {
				return Command{Action: ActionRedo}
			}
			return Command{Action: ActionUndo}
		case key.CodeY:
			return Command{Action: ActionRedo}
		}
		return Command{}
	}
	switch e.Code {
	case key.CodeEscape:
		return Command{Action: ActionCancel}
	case key.CodeReturnEnter:
		if typing {
			return Command{Action: ActionTextCommit}
		}
		return Command{}
	case key.CodeDeleteBackspace:
		if typing {
			return Command{Action: ActionTextBackspace}
		}
		return Command{}
	}
	if typing {
		if e.Rune >= 0 && unicode.IsPrint(e.Rune) {
			return Command{Action: ActionTextInput, Rune: e.Rune}
		}
		return Command{}
	}
	switch unicode.ToLower(e.Rune) {
	case 'b':
		return Command{Action: ActionToolBrush}
	case 's':
		return Command{Action: ActionToolSquare}
	case 'a':
		return Command{Action: ActionToolArrow}
	case 't':
		return Command{Action: ActionToolText}
	case 'u':
		return Command{Action: ActionUndo}
	case 'r':
		return Command{Action: ActionRedo}
	case 'x':
		return Command{Action: ActionClear}
	case ']':
		return Command{Action: ActionWider}
	case '[':
		return Command{Action: ActionThinner}
	}
	if e.Rune >= '1' && e.Rune <= '9' {
		return Command{Action: ActionPalette, Index: int(e.Rune - '1')}
	}
	return Command{}
}
