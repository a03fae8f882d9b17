// Package storage loads and saves the task list. Both repositories keep the
// serialised record line as the source of truth.
package storage

import (
	"github.com/choro0121/todo-tui/internal/task"
)

type Repository interface {
	Load() ([]task.Task, error)
	Save([]task.Task) error
	Close() error
}

// Numbered is a task with its 1-based position in the full list.
type Numbered struct {
	N    int
	Task task.Task
}
