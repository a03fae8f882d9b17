// Package screen implements an in-memory terminal: a grid of cells and a
// cursor that frontends render as a whole frame.
package screen

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Buffer keeps plain text only; styling sequences are stripped on write.
type Buffer struct {
	cols, rows int
	col, row   int
	cells      [][]rune
}

func New(cols, rows int) *Buffer {
	b := &Buffer{col: 1, row: 1}
	b.Resize(cols, rows)
	return b
}

// Resize keeps the content that still fits and clamps the cursor.
func (b *Buffer) Resize(cols, rows int) {
	cols, rows = max(cols, 1), max(rows, 1)
	cells := make([][]rune, rows)
	for r := range cells {
		cells[r] = blank(cols)
		if r < len(b.cells) {
			copy(cells[r], b.cells[r])
		}
	}
	b.cols, b.rows, b.cells = cols, rows, cells
	b.MoveTo(b.col, b.row)
}

func (b *Buffer) Clear() {
	for r := range b.cells {
		b.cells[r] = blank(b.cols)
	}
}

func (b *Buffer) ClearLine() {
	b.cells[b.row-1] = blank(b.cols)
}

func (b *Buffer) MoveTo(col, row int) {
	b.col = min(max(col, 1), b.cols+1)
	b.row = min(max(row, 1), b.rows)
}

func (b *Buffer) CursorPos() (int, int) {
	return b.col, b.row
}

func (b *Buffer) Size() (int, int) {
	return b.cols, b.rows
}

// WriteString writes at the cursor and advances it. Text past the right edge
// is dropped, as a terminal with auto-wrap disabled would.
func (b *Buffer) WriteString(s string) {
	for _, r := range ansi.Strip(s) {
		if b.col <= b.cols {
			b.cells[b.row-1][b.col-1] = r
		}
		b.col = min(b.col+1, b.cols+1)
	}
}

func (b *Buffer) Flush() error { return nil }

// Line returns row (1-indexed) without trailing blanks.
func (b *Buffer) Line(row int) string {
	if row < 1 || row > b.rows {
		return ""
	}
	return strings.TrimRight(string(b.cells[row-1]), " ")
}

// String renders every row, one per line.
func (b *Buffer) String() string {
	lines := make([]string, b.rows)
	for r := range lines {
		lines[r] = b.Line(r + 1)
	}
	return strings.Join(lines, "\n")
}

func blank(n int) []rune {
	line := make([]rune, n)
	for i := range line {
		line[i] = ' '
	}
	return line
}
