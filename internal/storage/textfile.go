package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/choro0121/todo-tui/internal/task"
)

// TextFile is a todo.txt style file with one record per line.
type TextFile struct {
	path   string
	parser *task.Parser
}

func OpenTextFile(path string, parser *task.Parser) *TextFile {
	return &TextFile{path: path, parser: parser}
}

// Load parses every non-blank line. A missing file is an empty list.
func (f *TextFile) Load() ([]task.Task, error) {
	file, err := os.Open(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return []task.Task{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	tasks := []task.Task{}
	r := bufio.NewReader(file)
	for {
		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read %s: %w", f.path, err)
		}
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) != "" {
			tasks = append(tasks, f.parser.Parse(line))
		}
		if err != nil {
			return tasks, nil
		}
	}
}

// Save writes to a temporary file beside the target and renames it over.
func (f *TextFile) Save(tasks []task.Task) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".todo-*.txt")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, t := range tasks {
		w.WriteString(t.String())
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}

func (f *TextFile) Close() error { return nil }
