package tui

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceReader struct {
	keys []Key
	err  error
}

func (r *sliceReader) ReadKey() (Key, error) {
	if len(r.keys) == 0 {
		return Key{}, r.err
	}
	k := r.keys[0]
	r.keys = r.keys[1:]
	return k, nil
}

// blockingReader never yields a key until release is closed.
type blockingReader struct {
	release chan struct{}
}

func (r *blockingReader) ReadKey() (Key, error) {
	<-r.release
	return Key{}, io.EOF
}

type recorder struct {
	keys   []Key
	ticks  int
	quitOn rune
	onTick func(n int)
	err    error
}

func (r *recorder) OnInput(k Key) error {
	r.keys = append(r.keys, k)
	if r.quitOn != 0 && k.Type == KeyRune && k.Rune == r.quitOn {
		return ErrQuit
	}
	return r.err
}

func (r *recorder) OnTick() {
	r.ticks++
	if r.onTick != nil {
		r.onTick(r.ticks)
	}
}

func TestRunDeliversKeysInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	want := []Key{Rune('a'), Rune('b'), {Type: KeyEnter}, {Type: KeyDown}, Rune('é')}
	reader := &sliceReader{keys: append([]Key(nil), want...), err: io.EOF}
	h := &recorder{}

	err := Run(ctx, Events(ctx, reader, time.Millisecond), h)
	require.NoError(t, err)
	assert.Equal(t, want, h.keys)
}

func TestRunStopsOnQuit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &sliceReader{keys: []Key{Rune('j'), Rune('q'), Rune('k')}, err: io.EOF}
	h := &recorder{quitOn: 'q'}

	err := Run(ctx, Events(ctx, reader, time.Hour), h)
	require.NoError(t, err)
	assert.Equal(t, []Key{Rune('j'), Rune('q')}, h.keys)
}

func TestRunReturnsReadError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	broken := errors.New("input closed")
	reader := &sliceReader{keys: []Key{Rune('x')}, err: broken}

	err := Run(ctx, Events(ctx, reader, time.Hour), &recorder{})
	require.Error(t, err)
	assert.ErrorIs(t, err, broken)
}

func TestRunReturnsHandlerError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	boom := errors.New("boom")
	reader := &sliceReader{keys: []Key{Rune('x')}, err: io.EOF}

	err := Run(ctx, Events(ctx, reader, time.Hour), &recorder{err: boom})
	assert.ErrorIs(t, err, boom)
}

func TestRunDeliversTicks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &blockingReader{release: make(chan struct{})}
	defer close(reader.release)

	h := &recorder{onTick: func(n int) {
		if n == 3 {
			cancel()
		}
	}}

	err := Run(ctx, Events(ctx, reader, time.Millisecond), h)
	assert.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, h.ticks, 3)
	assert.Empty(t, h.keys)
}

func TestRunClosedChannel(t *testing.T) {
	ch := make(chan Event)
	close(ch)
	assert.NoError(t, Run(context.Background(), ch, &recorder{}))
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "a", Rune('a').String())
	assert.Equal(t, "esc", Key{Type: KeyEsc}.String())
	assert.Equal(t, "ctrl+c", Key{Type: KeyCtrlC}.String())
	assert.Equal(t, "key(0)", Key{}.String())
}
