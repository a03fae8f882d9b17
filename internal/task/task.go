// Package task parses, builds and serialises single-line task records in the
// todo.txt style:
//
//	x (A) 2022-03-04 2022-03-01 +project @context due:2022-03-06 "name"
//
// Dates are calendar days stored as UTC midnight. A zero time.Time means the
// date is unset.
package task

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

type Task struct {
	Done      bool
	Name      string
	Priority  rune // 'A'-'Z', 0 when unset
	Project   string
	Context   []string
	Created   time.Time
	Completed time.Time
	Due       time.Time
}

// Complete marks the task done on the given day.
func (t *Task) Complete(today time.Time) {
	t.Done = true
	t.Completed = Day(today)
}

// Incomplete reopens the task and drops its completion date.
func (t *Task) Incomplete() {
	t.Done = false
	t.Completed = time.Time{}
}

// String serialises the task in canonical field order. Parse(t.String())
// reproduces t when every field is set.
func (t Task) String() string {
	var fields []string
	if t.Done {
		fields = append(fields, "x")
	}
	if t.Priority != 0 {
		fields = append(fields, "("+string(t.Priority)+")")
	}
	if t.Done && !t.Completed.IsZero() {
		fields = append(fields, FormatDate(t.Completed))
	}
	if !t.Created.IsZero() {
		fields = append(fields, FormatDate(t.Created))
	}
	if t.Project != "" {
		fields = append(fields, "+"+t.Project)
	}
	for _, c := range t.Context {
		fields = append(fields, "@"+c)
	}
	if !t.Due.IsZero() {
		fields = append(fields, "due:"+FormatDate(t.Due))
	}
	fields = append(fields, `"`+t.Name+`"`)
	return strings.Join(fields, " ")
}

// Day truncates t to its calendar day, keeping the day t has in its own
// location.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a day as YYYY-MM-DD, or "" when unset.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func parseDate(s string) (time.Time, bool) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
