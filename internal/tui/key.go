// Package tui defines the event loop shared by the terminal frontends: key
// and tick events, the producers feeding them into one channel and the loop
// that hands them to a Handler.
package tui

import "fmt"

type KeyType int

const (
	KeyUnknown KeyType = iota
	KeyRune
	KeyEnter
	KeyEsc
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlC
)

// Key is one keystroke. Rune is only set for KeyRune.
type Key struct {
	Type KeyType
	Rune rune
}

func Rune(r rune) Key {
	return Key{Type: KeyRune, Rune: r}
}

func (k Key) String() string {
	switch k.Type {
	case KeyRune:
		return string(k.Rune)
	case KeyEnter:
		return "enter"
	case KeyEsc:
		return "esc"
	case KeyBackspace:
		return "backspace"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyCtrlC:
		return "ctrl+c"
	default:
		return fmt.Sprintf("key(%d)", int(k.Type))
	}
}
