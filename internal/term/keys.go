package term

import (
	"bufio"

	"github.com/choro0121/todo-tui/internal/tui"
)

// decodeKey reads one keystroke. A lone ESC is the Escape key; ESC followed
// by bytes that arrived in the same read is a CSI/SS3 sequence.
func decodeKey(r *bufio.Reader) (tui.Key, error) {
	c, _, err := r.ReadRune()
	if err != nil {
		return tui.Key{}, err
	}
	switch c {
	case 0x1b:
		if r.Buffered() == 0 {
			return tui.Key{Type: tui.KeyEsc}, nil
		}
		return decodeEscape(r)
	case '\r', '\n':
		return tui.Key{Type: tui.KeyEnter}, nil
	case 0x7f, 0x08:
		return tui.Key{Type: tui.KeyBackspace}, nil
	case 0x03:
		return tui.Key{Type: tui.KeyCtrlC}, nil
	}
	if c < 0x20 {
		return tui.Key{Type: tui.KeyUnknown}, nil
	}
	return tui.Rune(c), nil
}

// decodeEscape only treats ESC as a sequence introducer when the introducer
// and at least one more byte arrived with it. Anything shorter is the Escape
// key followed by ordinary input, and a sequence that stops short of its
// final byte is dropped as unknown rather than waiting on the next read.
func decodeEscape(r *bufio.Reader) (tui.Key, error) {
	if r.Buffered() < 2 {
		return tui.Key{Type: tui.KeyEsc}, nil
	}
	next, err := r.Peek(1)
	if err != nil || (next[0] != '[' && next[0] != 'O') {
		return tui.Key{Type: tui.KeyEsc}, nil
	}
	_, _ = r.ReadByte()

	for r.Buffered() > 0 {
		b, err := r.ReadByte()
		if err != nil {
			return tui.Key{}, err
		}
		if b >= 0x40 && b <= 0x7e {
			return arrow(b), nil
		}
	}
	return tui.Key{Type: tui.KeyUnknown}, nil
}

func arrow(final byte) tui.Key {
	switch final {
	case 'A':
		return tui.Key{Type: tui.KeyUp}
	case 'B':
		return tui.Key{Type: tui.KeyDown}
	case 'C':
		return tui.Key{Type: tui.KeyRight}
	case 'D':
		return tui.Key{Type: tui.KeyLeft}
	default:
		return tui.Key{Type: tui.KeyUnknown}
	}
}
