package task

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformedDueDate is matched by every error ResolveDue returns.
var ErrMalformedDueDate = errors.New("malformed due date")

// DueDateError reports the value that followed "due:".
type DueDateError struct {
	Value string
}

func (e *DueDateError) Error() string {
	return fmt.Sprintf("%s: %q", ErrMalformedDueDate, e.Value)
}

func (e *DueDateError) Unwrap() error {
	return ErrMalformedDueDate
}

// ResolveDue turns the value of a due: token into a day. It accepts
// YYYY-MM-DD and the keywords today, yesterday, tomorrow and weekend; weekend
// is the current or next Friday.
func ResolveDue(value string, today time.Time) (time.Time, error) {
	today = Day(today)
	switch value {
	case "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "weekend":
		return today.AddDate(0, 0, daysUntilFriday(today.Weekday())), nil
	}
	if d, ok := parseDate(value); ok {
		return d, nil
	}
	return time.Time{}, &DueDateError{Value: value}
}

// daysUntilFriday counts with Monday=1 .. Sunday=7.
func daysUntilFriday(wd time.Weekday) int {
	const friday = 5
	day := int(wd)
	if wd == time.Sunday {
		day = 7
	}
	if day <= friday {
		return friday - day
	}
	return 7 - day + friday
}

// CompletionPolicy picks the completion date of a task built by New.
type CompletionPolicy func(today time.Time) time.Time

// SeedToday stamps new tasks as completed today even though they are open.
// This is the historical behaviour and the default.
func SeedToday(today time.Time) time.Time { return today }

// LeaveUnset gives new tasks no completion date.
func LeaveUnset(time.Time) time.Time { return time.Time{} }

// Clock returns the current time. Tests substitute a fixed one.
type Clock func() time.Time

// Today returns the clock's current day, falling back to time.Now.
func (c Clock) Today() time.Time {
	if c == nil {
		return Day(time.Now())
	}
	return Day(c())
}
