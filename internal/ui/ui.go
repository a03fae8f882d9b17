// Package ui runs the controller inside a bubbletea program. bubbletea owns
// the terminal and its input loop; the controller draws on an in-memory
// screen that View returns as the frame.
package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/choro0121/todo-tui/internal/screen"
	"github.com/choro0121/todo-tui/internal/tui"
)

// Controller is the part of app.Controller the frontend drives.
type Controller interface {
	tui.Handler
	Start() error
	Redraw() error
}

type keyMap struct {
	Quit      key.Binding
	Submit    key.Binding
	Cancel    key.Binding
	Backspace key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Backspace: key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "erase")),
		Up:        key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:      key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Left:      key.NewBinding(key.WithKeys("left")),
		Right:     key.NewBinding(key.WithKeys("right")),
	}
}

type tickMsg time.Time

type Model struct {
	ctrl     Controller
	screen   *screen.Buffer
	keys     keyMap
	tickRate time.Duration
	err      error
}

func NewModel(ctrl Controller, buf *screen.Buffer, tickRate time.Duration) Model {
	if tickRate <= 0 {
		tickRate = tui.DefaultTickRate
	}
	return Model{
		ctrl:     ctrl,
		screen:   buf,
		keys:     defaultKeyMap(),
		tickRate: tickRate,
	}
}

// Run blocks until the user quits or the controller fails.
func Run(ctx context.Context, ctrl Controller, buf *screen.Buffer, tickRate time.Duration) error {
	program := tea.NewProgram(NewModel(ctrl, buf, tickRate), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok {
		return m.err
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	if err := m.ctrl.Start(); err != nil {
		return func() tea.Msg { return errMsg{err} }
	}
	return tickCmd(m.tickRate)
}

type errMsg struct{ err error }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		for _, k := range m.translate(msg) {
			if err := m.ctrl.OnInput(k); err != nil {
				if !errors.Is(err, tui.ErrQuit) {
					m.err = err
				}
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)
		if err := m.ctrl.Redraw(); err != nil {
			m.err = err
			return m, tea.Quit
		}
	case tickMsg:
		m.ctrl.OnTick()
		return m, tickCmd(m.tickRate)
	case errMsg:
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	return m.screen.String()
}

// translate maps a bubbletea key to the keystrokes the controller
// understands. Pasted text arrives as several runes in one message.
func (m Model) translate(msg tea.KeyMsg) []tui.Key {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return []tui.Key{{Type: tui.KeyCtrlC}}
	case key.Matches(msg, m.keys.Submit):
		return []tui.Key{{Type: tui.KeyEnter}}
	case key.Matches(msg, m.keys.Cancel):
		return []tui.Key{{Type: tui.KeyEsc}}
	case key.Matches(msg, m.keys.Backspace):
		return []tui.Key{{Type: tui.KeyBackspace}}
	case key.Matches(msg, m.keys.Up):
		return []tui.Key{{Type: tui.KeyUp}}
	case key.Matches(msg, m.keys.Down):
		return []tui.Key{{Type: tui.KeyDown}}
	case key.Matches(msg, m.keys.Left):
		return []tui.Key{{Type: tui.KeyLeft}}
	case key.Matches(msg, m.keys.Right):
		return []tui.Key{{Type: tui.KeyRight}}
	}
	if msg.Type != tea.KeyRunes && msg.Type != tea.KeySpace {
		return nil
	}
	keys := make([]tui.Key, 0, len(msg.Runes))
	for _, r := range msg.Runes {
		keys = append(keys, tui.Rune(r))
	}
	return keys
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
