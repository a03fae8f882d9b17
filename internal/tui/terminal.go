package tui

// Terminal is the screen the controller draws on. Columns and rows are
// 1-indexed. Drawing calls are buffered and report failures from Flush.
type Terminal interface {
	Clear()
	ClearLine()
	MoveTo(col, row int)
	CursorPos() (col, row int)
	Size() (cols, rows int)
	WriteString(s string)
	Flush() error
}
