package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrQuit is returned by a Handler to end Run without an error.
var ErrQuit = errors.New("quit")

// Handler consumes the events Run receives.
type Handler interface {
	OnInput(Key) error
	OnTick()
}

// Run hands events to h strictly in arrival order until h returns ErrQuit,
// the keyboard producer fails, the channel closes or ctx is done. A reader
// reaching io.EOF ends the loop cleanly.
func Run(ctx context.Context, events <-chan Event, h Handler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev.Type {
			case EventInput:
				if err := h.OnInput(ev.Key); err != nil {
					if errors.Is(err, ErrQuit) {
						return nil
					}
					return err
				}
			case EventTick:
				h.OnTick()
			case EventError:
				if errors.Is(ev.Err, io.EOF) {
					return nil
				}
				return fmt.Errorf("read key: %w", ev.Err)
			}
		}
	}
}
