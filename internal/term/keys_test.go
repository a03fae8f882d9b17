package term

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/choro0121/todo-tui/internal/tui"
)

func decodeAll(t *testing.T, input string) []tui.Key {
	t.Helper()
	r := bufio.NewReader(strings.NewReader(input))
	var keys []tui.Key
	for {
		k, err := decodeKey(r)
		if err == io.EOF {
			return keys
		}
		require.NoError(t, err)
		keys = append(keys, k)
	}
}

func TestDecodeKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tui.Key
	}{
		{name: "printable", input: "aZ/", want: []tui.Key{tui.Rune('a'), tui.Rune('Z'), tui.Rune('/')}},
		{name: "utf8", input: "日é", want: []tui.Key{tui.Rune('日'), tui.Rune('é')}},
		{name: "enter", input: "\r\n", want: []tui.Key{{Type: tui.KeyEnter}, {Type: tui.KeyEnter}}},
		{name: "backspace", input: "\x7f\x08", want: []tui.Key{{Type: tui.KeyBackspace}, {Type: tui.KeyBackspace}}},
		{name: "ctrl+c", input: "\x03", want: []tui.Key{{Type: tui.KeyCtrlC}}},
		{name: "lone escape", input: "\x1b", want: []tui.Key{{Type: tui.KeyEsc}}},
		{name: "arrows", input: "\x1b[A\x1b[B\x1b[C\x1b[D", want: []tui.Key{
			{Type: tui.KeyUp}, {Type: tui.KeyDown}, {Type: tui.KeyRight}, {Type: tui.KeyLeft},
		}},
		{name: "application mode arrows", input: "\x1bOA\x1bOB", want: []tui.Key{{Type: tui.KeyUp}, {Type: tui.KeyDown}}},
		{name: "modified arrow", input: "\x1b[1;5A", want: []tui.Key{{Type: tui.KeyUp}}},
		{name: "unknown sequence", input: "\x1b[3~x", want: []tui.Key{{Type: tui.KeyUnknown}, tui.Rune('x')}},
		{name: "escape then bracket", input: "\x1b[", want: []tui.Key{{Type: tui.KeyEsc}, tui.Rune('[')}},
		{name: "truncated sequence", input: "\x1b[12", want: []tui.Key{{Type: tui.KeyUnknown}}},
		{name: "alt chord", input: "\x1bx", want: []tui.Key{{Type: tui.KeyEsc}, tui.Rune('x')}},
		{name: "control", input: "\x01", want: []tui.Key{{Type: tui.KeyUnknown}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeAll(t, tt.input))
		})
	}
}

func TestDecodeKeyDoesNotWaitForSequenceEnd(t *testing.T) {
	pr, pw := io.Pipe()
	go func() {
		_, _ = pw.Write([]byte("\x1b["))
		_, _ = pw.Write([]byte("j"))
		_ = pw.Close()
	}()

	r := bufio.NewReader(pr)
	var keys []tui.Key
	for {
		k, err := decodeKey(r)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		keys = append(keys, k)
	}
	assert.Equal(t, []tui.Key{{Type: tui.KeyEsc}, tui.Rune('['), tui.Rune('j')}, keys)
}
