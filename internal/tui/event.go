package tui

import (
	"context"
	"time"
)

const DefaultTickRate = 16 * time.Millisecond

type EventType int

const (
	EventInput EventType = iota
	EventTick
	// EventError carries the error that stopped the keyboard producer.
	EventError
)

type Event struct {
	Type EventType
	Key  Key
	Err  error
}

// KeyReader blocks until the next keystroke is available.
type KeyReader interface {
	ReadKey() (Key, error)
}

// Events starts a keyboard producer and a tick producer and returns the
// channel both send on. Events from one producer arrive in the order they
// were sent. Both producers stop once ctx is done; the keyboard producer may
// stay blocked in ReadKey until its reader is closed.
func Events(ctx context.Context, keys KeyReader, tickRate time.Duration) <-chan Event {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	ch := make(chan Event)
	go readKeys(ctx, keys, ch)
	go tick(ctx, tickRate, ch)
	return ch
}

func readKeys(ctx context.Context, keys KeyReader, ch chan<- Event) {
	for {
		k, err := keys.ReadKey()
		if err != nil {
			send(ctx, ch, Event{Type: EventError, Err: err})
			return
		}
		if !send(ctx, ch, Event{Type: EventInput, Key: k}) {
			return
		}
	}
}

func tick(ctx context.Context, rate time.Duration, ch chan<- Event) {
	ticker := time.NewTicker(rate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !send(ctx, ch, Event{Type: EventTick}) {
				return
			}
		}
	}
}

func send(ctx context.Context, ch chan<- Event, ev Event) bool {
	select {
	case ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
