// Package term drives a real terminal: raw input mode, the alternate screen,
// cursor movement and keyboard decoding.
package term

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/ansi"
	xterm "github.com/charmbracelet/x/term"
	"github.com/muesli/cancelreader"

	"github.com/choro0121/todo-tui/internal/tui"
)

// Terminal owns the tty for the lifetime of the UI. Drawing methods are only
// called from the goroutine running the event loop; ReadKey is called from
// the keyboard producer.
//
// The cursor position is tracked locally instead of queried with a DSR
// request, because the reply would arrive on the input stream the keyboard
// producer is reading.
type Terminal struct {
	in    *os.File
	out   *os.File
	w     *bufio.Writer
	state *xterm.State
	input cancelreader.CancelReader
	keys  *bufio.Reader

	col, row int
	err      error
}

// Open switches in to raw mode and out to the alternate screen. Close must
// be called to restore the terminal, including on error paths after Open.
func Open(in, out *os.File) (*Terminal, error) {
	if !xterm.IsTerminal(in.Fd()) {
		return nil, errors.New("stdin is not a terminal")
	}
	state, err := xterm.MakeRaw(in.Fd())
	if err != nil {
		return nil, fmt.Errorf("enter raw mode: %w", err)
	}
	input, err := cancelreader.NewReader(in)
	if err != nil {
		_ = xterm.Restore(in.Fd(), state)
		return nil, fmt.Errorf("open input: %w", err)
	}

	t := &Terminal{
		in:    in,
		out:   out,
		w:     bufio.NewWriter(out),
		state: state,
		input: input,
		keys:  bufio.NewReader(input),
		col:   1,
		row:   1,
	}
	t.write(ansi.SetAltScreenSaveCursorMode)
	t.MoveTo(1, 1)
	if err := t.Flush(); err != nil {
		t.Close()
		return nil, fmt.Errorf("enter alternate screen: %w", err)
	}
	return t, nil
}

// Close leaves the alternate screen, restores cooked mode and unblocks a
// pending ReadKey. It is safe to call more than once.
func (t *Terminal) Close() error {
	if t.state == nil {
		return nil
	}
	t.input.Cancel()
	t.write(ansi.ResetAltScreenSaveCursorMode)
	flushErr := t.w.Flush()
	restoreErr := xterm.Restore(t.in.Fd(), t.state)
	t.state = nil
	closeErr := t.input.Close()
	return errors.Join(flushErr, restoreErr, closeErr)
}

func (t *Terminal) Clear() {
	t.write(ansi.EraseEntireScreen)
}

func (t *Terminal) ClearLine() {
	t.write(ansi.EraseEntireLine)
}

func (t *Terminal) MoveTo(col, row int) {
	t.col, t.row = max(col, 1), max(row, 1)
	t.write(ansi.CursorPosition(t.col, t.row))
}

func (t *Terminal) CursorPos() (int, int) {
	return t.col, t.row
}

// Size reports the current size, falling back to 80x24 when the query fails.
func (t *Terminal) Size() (int, int) {
	cols, rows, err := xterm.GetSize(t.out.Fd())
	if err != nil || cols <= 0 || rows <= 0 {
		return 80, 24
	}
	return cols, rows
}

func (t *Terminal) WriteString(s string) {
	t.write(s)
	t.col += ansi.StringWidth(s)
}

// Flush writes buffered output and returns the first error seen since the
// last Flush.
func (t *Terminal) Flush() error {
	if err := t.w.Flush(); err != nil && t.err == nil {
		t.err = err
	}
	err := t.err
	t.err = nil
	return err
}

// ReadKey blocks for the next keystroke. After Close it returns io.EOF.
func (t *Terminal) ReadKey() (tui.Key, error) {
	k, err := decodeKey(t.keys)
	if errors.Is(err, cancelreader.ErrCanceled) {
		return k, io.EOF
	}
	return k, err
}

func (t *Terminal) write(s string) {
	if t.err != nil {
		return
	}
	if _, err := t.w.WriteString(s); err != nil {
		t.err = err
	}
}
