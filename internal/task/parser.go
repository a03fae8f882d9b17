package task

import (
	"regexp"
	"time"
)

// Parser holds the compiled field recognisers. Build one with NewParser at
// startup and share it; it is safe for concurrent use.
type Parser struct {
	done       *regexp.Regexp
	name       *regexp.Regexp
	priority   *regexp.Regexp
	project    *regexp.Regexp
	context    *regexp.Regexp
	date       *regexp.Regexp
	due        *regexp.Regexp
	dueKeyword *regexp.Regexp

	completion CompletionPolicy
}

type Option func(*Parser)

// WithCompletionPolicy replaces the policy New uses to seed Completed.
func WithCompletionPolicy(p CompletionPolicy) Option {
	return func(ps *Parser) {
		if p != nil {
			ps.completion = p
		}
	}
}

func NewParser(opts ...Option) *Parser {
	p := &Parser{
		done:       regexp.MustCompile(`^x\s`),
		name:       regexp.MustCompile(`(?:\s|^)"(.*)"`),
		priority:   regexp.MustCompile(`\(([A-Z])\)`),
		project:    regexp.MustCompile(`(?:\s|^)\+(\S+)`),
		context:    regexp.MustCompile(`(?:\s|^)@(\S+)`),
		date:       regexp.MustCompile(`(?:\s|^)(\d{4}-\d{2}-\d{2})`),
		due:        regexp.MustCompile(`(?:\s|^)due:(\d{4}-\d{2}-\d{2})`),
		dueKeyword: regexp.MustCompile(`(?:\s|^)due:(\S+)`),
		completion: SeedToday,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads a serialised record. It never fails: fields that are missing
// or malformed come back unset.
func (p *Parser) Parse(line string) Task {
	done := p.done.MatchString(line)
	create, complete := assignDates(done, p.dates(line))

	var due time.Time
	if m := p.due.FindStringSubmatch(line); m != nil {
		due, _ = parseDate(m[1])
	}

	return Task{
		Done:      done,
		Name:      p.nameOf(line),
		Priority:  p.priorityOf(line),
		Project:   p.projectOf(line),
		Context:   p.contextOf(line),
		Created:   create,
		Completed: complete,
		Due:       due,
	}
}

// New builds a task from text typed by the user. Relative due keywords are
// resolved against today; an unknown keyword returns a *DueDateError.
func (p *Parser) New(text string, today time.Time) (Task, error) {
	var due time.Time
	if m := p.dueKeyword.FindStringSubmatch(text); m != nil {
		var err error
		due, err = ResolveDue(m[1], today)
		if err != nil {
			return Task{}, err
		}
	}

	return Task{
		Done:      false,
		Name:      p.nameOf(text),
		Priority:  p.priorityOf(text),
		Project:   p.projectOf(text),
		Context:   p.contextOf(text),
		Completed: p.completion(Day(today)),
		Due:       due,
	}, nil
}

func (p *Parser) nameOf(s string) string {
	if m := p.name.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

func (p *Parser) priorityOf(s string) rune {
	if m := p.priority.FindStringSubmatch(s); m != nil {
		return rune(m[1][0])
	}
	return 0
}

func (p *Parser) projectOf(s string) string {
	if m := p.project.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

func (p *Parser) contextOf(s string) []string {
	context := []string{}
	for _, m := range p.context.FindAllStringSubmatch(s, -1) {
		context = append(context, m[1])
	}
	return context
}

// dates returns at most the first two valid dates in the line, left to right.
func (p *Parser) dates(s string) []time.Time {
	var out []time.Time
	for _, m := range p.date.FindAllStringSubmatch(s, -1) {
		d, ok := parseDate(m[1])
		if !ok {
			continue
		}
		out = append(out, d)
		if len(out) == 2 {
			break
		}
	}
	return out
}

// assignDates applies the positional rule: a done record lists its
// completion date before its creation date, an open record only carries a
// creation date.
func assignDates(done bool, dates []time.Time) (create, complete time.Time) {
	at := func(i int) time.Time {
		if i < len(dates) {
			return dates[i]
		}
		return time.Time{}
	}
	if done {
		return at(1), at(0)
	}
	return at(0), time.Time{}
}
