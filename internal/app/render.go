package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/choro0121/todo-tui/internal/task"
)

// Styles colours the parts of a task row.
type Styles struct {
	Done     lipgloss.Style
	Priority map[rune]lipgloss.Style
	Project  lipgloss.Style
	Context  lipgloss.Style
	Due      lipgloss.Style
	Status   lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Done: lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Priority: map[rune]lipgloss.Style{
			'A': lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			'B': lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			'C': lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		},
		Project: lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Context: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		Due:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Status:  lipgloss.NewStyle().Faint(true),
	}
}

func (s Styles) priority(p rune) lipgloss.Style {
	if st, ok := s.Priority[p]; ok {
		return st
	}
	return lipgloss.NewStyle()
}

// Row formats t for one terminal row of the given width.
func (s Styles) Row(t task.Task, width int) string {
	check := "[ ]"
	name := t.Name
	if t.Done {
		check = "[x]"
		name = s.Done.Render(name)
	}
	parts := []string{check}
	if t.Priority != 0 {
		parts = append(parts, s.priority(t.Priority).Render("("+string(t.Priority)+")"))
	}
	parts = append(parts, name)
	if t.Project != "" {
		parts = append(parts, s.Project.Render("+"+t.Project))
	}
	for _, ctx := range t.Context {
		parts = append(parts, s.Context.Render("@"+ctx))
	}
	if !t.Due.IsZero() {
		parts = append(parts, s.Due.Render("due:"+task.FormatDate(t.Due)))
	}
	return ansi.Truncate(strings.Join(parts, " "), max(width, 0), "…")
}

func (c *Controller) render() {
	if c.mode == ModeCommand {
		c.drawCommand()
		return
	}
	col, row := c.term.CursorPos()
	c.drawTasks(row)
	c.drawStatus()
	c.term.MoveTo(col, row)
}

// drawTasks repaints every row above the command line, marking selected.
func (c *Controller) drawTasks(selected int) {
	cols, rows := c.term.Size()
	for r := 1; r < rows; r++ {
		c.term.MoveTo(markerCol, r)
		c.term.ClearLine()
		marker := " "
		if r == selected {
			marker = ">"
		}
		if r > len(c.tasks) {
			if r == selected {
				c.term.WriteString(marker)
			}
			continue
		}
		c.term.WriteString(marker + " " + c.styles.Row(c.tasks[r-1], cols-2))
	}
}

func (c *Controller) drawStatus() {
	cols, rows := c.term.Size()
	c.term.MoveTo(1, rows)
	c.term.ClearLine()
	c.term.WriteString(c.styles.Status.Render(ansi.Truncate(c.status, cols, "…")))
}

func (c *Controller) drawCommand() {
	_, rows := c.term.Size()
	c.term.MoveTo(1, rows)
	c.term.ClearLine()
	c.term.WriteString(c.command)
}
