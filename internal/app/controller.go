// Package app holds the interaction controller: the Normal/Command mode
// state machine that owns the task list and draws it on a tui.Terminal.
package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/choro0121/todo-tui/internal/logging"
	"github.com/choro0121/todo-tui/internal/task"
	"github.com/choro0121/todo-tui/internal/tui"
)

type Mode int

const (
	ModeNormal Mode = iota
	ModeCommand
)

func (m Mode) String() string {
	if m == ModeCommand {
		return "command"
	}
	return "normal"
}

const (
	searchPrefix = "/"
	addPrefix    = ":add "

	markerCol = 1
	// G jumps to this row regardless of how many tasks are listed.
	bottomJumpRow = 5
)

// Saver persists the task list when the user asks for it with :w.
type Saver interface {
	Save([]task.Task) error
}

type Options struct {
	Parser *task.Parser
	Clock  task.Clock
	Logger *log.Logger
	Saver  Saver
	Styles *Styles
	// WrapRows moves the cursor with 16-bit unsigned arithmetic instead of
	// clamping it to the listed rows.
	WrapRows bool
	// OnTick runs for every tick event.
	OnTick func()
}

type position struct {
	col, row int
}

type Controller struct {
	term     tui.Terminal
	parser   *task.Parser
	clock    task.Clock
	log      *log.Logger
	saver    Saver
	styles   Styles
	wrapRows bool
	onTick   func()

	mode    Mode
	command string
	backup  position
	tasks   []task.Task
	status  string
}

func New(term tui.Terminal, tasks []task.Task, opts Options) *Controller {
	c := &Controller{
		term:     term,
		parser:   opts.Parser,
		clock:    opts.Clock,
		log:      opts.Logger,
		saver:    opts.Saver,
		wrapRows: opts.WrapRows,
		onTick:   opts.OnTick,
		tasks:    tasks,
		backup:   position{col: 1, row: 1},
		status:   "a add • / search • j/k move • :done N • :w save • q quit",
	}
	if c.parser == nil {
		c.parser = task.NewParser()
	}
	if c.log == nil {
		c.log = logging.Discard()
	}
	if opts.Styles != nil {
		c.styles = *opts.Styles
	} else {
		c.styles = DefaultStyles()
	}
	return c
}

// Start clears the screen, draws the list and puts the marker on the first
// row.
func (c *Controller) Start() error {
	c.term.Clear()
	c.term.MoveTo(markerCol, 1)
	c.drawTasks(1)
	c.drawStatus()
	c.term.MoveTo(markerCol, 1)
	c.term.WriteString(">")
	return c.term.Flush()
}

// Redraw repaints the current mode, e.g. after the terminal was resized.
func (c *Controller) Redraw() error {
	if c.mode == ModeNormal {
		c.term.Clear()
	}
	c.render()
	return c.term.Flush()
}

// OnInput applies one keystroke, redraws and flushes. It returns tui.ErrQuit
// when the user asked to leave.
func (c *Controller) OnInput(k tui.Key) error {
	if k.Type == tui.KeyCtrlC {
		return tui.ErrQuit
	}

	var err error
	switch c.mode {
	case ModeNormal:
		err = c.normalKey(k)
	case ModeCommand:
		err = c.commandKey(k)
	}
	if err != nil {
		return err
	}

	c.render()
	return c.term.Flush()
}

// OnTick has no drawing side effect.
func (c *Controller) OnTick() {
	if c.onTick != nil {
		c.onTick()
	}
}

func (c *Controller) Mode() Mode      { return c.mode }
func (c *Controller) Command() string { return c.command }
func (c *Controller) Status() string  { return c.status }

// Tasks returns a copy of the working set.
func (c *Controller) Tasks() []task.Task {
	out := make([]task.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

func (c *Controller) normalKey(k tui.Key) error {
	switch {
	case isRune(k, 'q'):
		return tui.ErrQuit
	case isRune(k, '/'):
		c.enterCommand(searchPrefix)
	case isRune(k, 'a'):
		c.enterCommand(addPrefix)
	case isRune(k, 'g'):
		c.jump(1)
	case isRune(k, 'G'):
		c.jump(bottomJumpRow)
	case isRune(k, 'j'), k.Type == tui.KeyDown:
		c.moveCursor(1)
	case isRune(k, 'k'), k.Type == tui.KeyUp:
		c.moveCursor(-1)
	}
	return nil
}

func (c *Controller) commandKey(k tui.Key) error {
	switch k.Type {
	case tui.KeyEsc:
		c.leaveCommand()
	case tui.KeyEnter:
		buf := c.command
		c.leaveCommand()
		return c.submit(buf)
	case tui.KeyBackspace:
		if r := []rune(c.command); len(r) > 0 {
			c.command = string(r[:len(r)-1])
		}
	case tui.KeyRune:
		c.command += string(k.Rune)
	}
	return nil
}

func (c *Controller) enterCommand(seed string) {
	col, row := c.term.CursorPos()
	c.backup = position{col: col, row: row}
	_, rows := c.term.Size()
	c.term.MoveTo(1, rows)
	c.mode = ModeCommand
	c.command = seed
}

func (c *Controller) leaveCommand() {
	c.mode = ModeNormal
	c.command = ""
	c.term.MoveTo(c.backup.col, c.backup.row)
}

// moveCursor erases the marker on the current row and draws it dy rows
// away.
func (c *Controller) moveCursor(dy int) {
	_, row := c.term.CursorPos()
	c.placeMarker(row, c.nextRow(row, dy))
}

func (c *Controller) jump(row int) {
	_, cur := c.term.CursorPos()
	_, rows := c.term.Size()
	c.placeMarker(cur, max(1, min(row, rows-1)))
}

func (c *Controller) placeMarker(from, to int) {
	c.term.MoveTo(markerCol, from)
	c.term.WriteString(" ")
	c.term.MoveTo(markerCol, to)
	c.term.WriteString(">")
}

func (c *Controller) nextRow(row, dy int) int {
	if c.wrapRows {
		return wrapRow(row, dy)
	}
	_, rows := c.term.Size()
	last := max(1, min(len(c.tasks), rows-1))
	return max(1, min(row+dy, last))
}

// wrapRow reproduces unsigned 16-bit row arithmetic: moving up from row 0
// lands on row 65535.
func wrapRow(row, dy int) int {
	return int(uint16(row + dy))
}

// selected is the index of the task under the marker, or -1.
func (c *Controller) selected() int {
	_, row := c.term.CursorPos()
	if row < 1 || row > len(c.tasks) {
		return -1
	}
	return row - 1
}

func (c *Controller) submit(buf string) error {
	switch {
	case strings.HasPrefix(buf, "/"):
		c.search(buf[1:])
	case strings.HasPrefix(buf, ":"):
		return c.execute(buf[1:])
	default:
		c.log.Debug("ignoring command", "command", buf)
	}
	return nil
}

func (c *Controller) search(query string) {
	// TODO: filter the listed tasks by query once the list supports a view
	// separate from the stored order.
	c.status = "search: " + query
	c.log.Debug("search", "query", query)
}

func (c *Controller) execute(line string) error {
	verb, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	c.log.Debug("command", "verb", verb, "arg", arg)

	switch verb {
	case "add":
		c.add(arg)
	case "done":
		c.setDone(arg, true)
	case "undo":
		c.setDone(arg, false)
	case "w":
		c.save()
	case "q":
		return tui.ErrQuit
	case "wq":
		if c.save() {
			return tui.ErrQuit
		}
	default:
		c.reject(line, fmt.Errorf("unknown command %q", verb))
	}
	return nil
}

func (c *Controller) add(text string) {
	t, err := c.parser.New(text, c.clock.Today())
	if err != nil {
		c.reject("add "+text, err)
		return
	}
	c.tasks = append(c.tasks, t)
	c.status = fmt.Sprintf("added %q", t.Name)
	c.log.Info("task added", "task", t.String())
}

func (c *Controller) setDone(arg string, done bool) {
	idx := c.selected()
	if arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil {
			c.reject(arg, fmt.Errorf("not a task number: %w", err))
			return
		}
		idx = n - 1
	}
	if idx < 0 || idx >= len(c.tasks) {
		c.reject(arg, fmt.Errorf("no task %d", idx+1))
		return
	}

	t := &c.tasks[idx]
	if done {
		t.Complete(c.clock.Today())
		c.status = fmt.Sprintf("completed %q", t.Name)
	} else {
		t.Incomplete()
		c.status = fmt.Sprintf("reopened %q", t.Name)
	}
	c.log.Info("task updated", "index", idx+1, "done", done)
}

func (c *Controller) save() bool {
	if c.saver == nil {
		c.status = "nowhere to save"
		return false
	}
	if err := c.saver.Save(c.Tasks()); err != nil {
		c.status = fmt.Sprintf("save failed: %v", err)
		c.log.Error("save failed", "err", err)
		return false
	}
	c.status = fmt.Sprintf("saved %d tasks", len(c.tasks))
	c.log.Info("tasks saved", "count", len(c.tasks))
	return true
}

// reject reports a command that changed nothing.
func (c *Controller) reject(cmd string, err error) {
	c.status = "rejected: " + err.Error()
	c.log.Warn("command rejected", "command", cmd, "err", err)
}

func isRune(k tui.Key, r rune) bool {
	return k.Type == tui.KeyRune && k.Rune == r
}
