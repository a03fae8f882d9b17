package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/choro0121/todo-tui/internal/app"
	"github.com/choro0121/todo-tui/internal/screen"
	"github.com/choro0121/todo-tui/internal/task"
	"github.com/choro0121/todo-tui/internal/tui"
)

func newTestModel(t *testing.T, lines ...string) (Model, *app.Controller) {
	t.Helper()
	p := task.NewParser()
	var tasks []task.Task
	for _, l := range lines {
		tasks = append(tasks, p.Parse(l))
	}
	buf := screen.New(60, 8)
	ctrl := app.New(buf, tasks, app.Options{
		Parser: p,
		Clock:  func() time.Time { return time.Date(2022, 3, 2, 12, 0, 0, 0, time.UTC) },
	})
	m := NewModel(ctrl, buf, time.Millisecond)
	require.NotNil(t, m.Init())
	return m, ctrl
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func TestViewShowsTasks(t *testing.T) {
	m, _ := newTestModel(t, `(A) "first"`, `"second"`)
	view := m.View()
	assert.Contains(t, view, "> [ ] (A) first")
	assert.Contains(t, view, "  [ ] second")
}

func TestAddThroughKeys(t *testing.T) {
	m, ctrl := newTestModel(t)

	m, _ = update(t, m, runes("a"))
	assert.Equal(t, app.ModeCommand, ctrl.Mode())

	m, _ = update(t, m, runes(`"buy milk" due:tomorrow`))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Len(t, ctrl.Tasks(), 1)
	assert.Equal(t, "buy milk", ctrl.Tasks()[0].Name)
	assert.Equal(t, "2022-03-03", task.FormatDate(ctrl.Tasks()[0].Due))
	assert.Contains(t, m.View(), "buy milk")
}

func TestSpaceIsText(t *testing.T) {
	m, ctrl := newTestModel(t)
	m, _ = update(t, m, runes("/"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	_, _ = update(t, m, runes("x"))
	assert.Equal(t, "/ x", ctrl.Command())
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := update(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestWindowResizeRedraws(t *testing.T) {
	m, _ := newTestModel(t, `"a task with a long name"`)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 12, Height: 4})

	lines := strings.Split(m.View(), "\n")
	require.Len(t, lines, 4)
	assert.LessOrEqual(t, len([]rune(lines[0])), 12)
	assert.True(t, strings.HasPrefix(lines[0], "> [ ]"))
}

type countingController struct {
	ticks int
	keys  []tui.Key
}

func (c *countingController) OnInput(k tui.Key) error {
	c.keys = append(c.keys, k)
	return nil
}

func (c *countingController) OnTick()       { c.ticks++ }
func (c *countingController) Start() error  { return nil }
func (c *countingController) Redraw() error { return nil }

func TestTickReschedules(t *testing.T) {
	ctrl := &countingController{}
	m := NewModel(ctrl, screen.New(10, 2), 0)
	assert.Equal(t, tui.DefaultTickRate, m.tickRate)

	_, cmd := update(t, m, tickMsg(time.Now()))
	assert.Equal(t, 1, ctrl.ticks)
	assert.NotNil(t, cmd)
}

func TestTranslateArrowsAndEditing(t *testing.T) {
	ctrl := &countingController{}
	m := NewModel(ctrl, screen.New(10, 2), time.Millisecond)

	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyUp}, {Type: tea.KeyDown}, {Type: tea.KeyEsc}, {Type: tea.KeyBackspace}, {Type: tea.KeyTab},
	} {
		m, _ = update(t, m, msg)
	}
	assert.Equal(t, []tui.Key{
		{Type: tui.KeyUp}, {Type: tui.KeyDown}, {Type: tui.KeyEsc}, {Type: tui.KeyBackspace},
	}, ctrl.keys)
}
