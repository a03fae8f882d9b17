package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/choro0121/todo-tui/internal/task"
)

// SQLite stores one row per task, ordered by position. Besides the record
// line it keeps done, priority and due as columns for ad hoc queries.
type SQLite struct {
	db     *sql.DB
	parser *task.Parser
}

func OpenSQLite(dbPath string, parser *task.Parser) (*SQLite, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db, parser: parser}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", dbPath, err)
	}
	return s, nil
}

func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	position INTEGER NOT NULL,
	line TEXT NOT NULL,
	done INTEGER NOT NULL DEFAULT 0
);`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	return s.ensureTaskColumns()
}

func (s *SQLite) ensureTaskColumns() error {
	required := map[string]string{
		"priority": "ALTER TABLE tasks ADD COLUMN priority TEXT NOT NULL DEFAULT '';",
		"due":      "ALTER TABLE tasks ADD COLUMN due TEXT DEFAULT NULL;",
	}
	existing := map[string]struct{}{}
	rows, err := s.db.Query(`PRAGMA table_info(tasks);`)
	if err != nil {
		return err
	}
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			rows.Close()
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLite) Load() ([]task.Task, error) {
	rows, err := s.db.Query(`SELECT line FROM tasks ORDER BY position, id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, err
		}
		tasks = append(tasks, s.parser.Parse(line))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Save replaces the stored list in one transaction.
func (s *SQLite) Save(tasks []task.Task) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tasks;`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO tasks (position, line, done, priority, due) VALUES (?, ?, ?, ?, ?);`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, t := range tasks {
		done := 0
		if t.Done {
			done = 1
		}
		priority := ""
		if t.Priority != 0 {
			priority = string(t.Priority)
		}
		due := sql.NullString{}
		if !t.Due.IsZero() {
			due = sql.NullString{String: task.FormatDate(t.Due), Valid: true}
		}
		if _, err := stmt.Exec(i, t.String(), done, priority, due); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DueBefore returns the open tasks due on or before day (YYYY-MM-DD), in
// list order, numbered by their position in the whole list.
func (s *SQLite) DueBefore(day string) ([]Numbered, error) {
	rows, err := s.db.Query(`SELECT position, line FROM tasks WHERE done = 0 AND due IS NOT NULL AND due <= ? ORDER BY position, id;`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Numbered
	for rows.Next() {
		var position int
		var line string
		if err := rows.Scan(&position, &line); err != nil {
			return nil, err
		}
		out = append(out, Numbered{N: position + 1, Task: s.parser.Parse(line)})
	}
	return out, rows.Err()
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
