// Package input maps player keys to controller calls. Frontends translate
// their native key events to an Action and hand it to Dispatch.
package input

import (
	"unicode"

	"gridsnake/game/types"
)

type Action int

const (
	None Action = iota
	Up
	Down
	Left
	Right
	TogglePause
	Restart
	Quit
)

func (a Action) String() string {
	switch a {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	case TogglePause:
		return "toggle-pause"
	case Restart:
		return "restart"
	case Quit:
		return "quit"
	default:
		return "none"
	}
}

// Direction returns the heading for a movement action, or types.None.
func (a Action) Direction() types.Direction {
	switch a {
	case Up:
		return types.Up
	case Down:
		return types.Down
	case Left:
		return types.Left
	case Right:
		return types.Right
	default:
		return types.None
	}
}

// Controller receives player intents. *game.Game satisfies it.
type Controller interface {
	OnDirection(d types.Direction) bool
	OnTogglePause() bool
	OnRestart() bool
}

// ActionForRune handles the letter and space bindings shared by every
// frontend: WASD, P and space pause, R restarts, Q quits.
func ActionForRune(r rune) Action {
	switch unicode.ToLower(r) {
	case 'w':
		return Up
	case 's':
		return Down
	case 'a':
		return Left
	case 'd':
		return Right
	case ' ', 'p':
		return TogglePause
	case 'r':
		return Restart
	case 'q':
		return Quit
	default:
		return None
	}
}

// Dispatch forwards a to c and reports whether the player asked to quit.
func Dispatch(c Controller, a Action) (quit bool) {
	switch a {
	case Up, Down, Left, Right:
		c.OnDirection(a.Direction())
	case TogglePause:
		c.OnTogglePause()
	case Restart:
		c.OnRestart()
	case Quit:
		return true
	}
	return false
}
