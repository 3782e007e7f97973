// Package events provides the asynchronous notification channel the parser
// pushes failure events into. Delivery is fire-and-forget: publishers never
// block on subscribers and never learn how an event was rendered.
package events

import (
	"context"
	"sync"

	"github.com/selfdocumentingcode/cmdargs/internal/ctxlog"
)

// Handler consumes one published event.
type Handler[E any] func(event E)

// Bus fans published events out to its handlers on a dedicated goroutine.
type Bus[E any] struct {
	ch       chan E
	handlers []Handler[E]
	done     chan struct{}

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// NewBus starts a bus with the given delivery buffer and handlers.
func NewBus[E any](buffer int, handlers ...Handler[E]) *Bus[E] {
	b := &Bus[E]{
		ch:       make(chan E, buffer),
		handlers: handlers,
		done:     make(chan struct{}),
	}
	go b.deliver()
	return b
}

func (b *Bus[E]) deliver() {
	defer close(b.done)
	for event := range b.ch {
		for _, h := range b.handlers {
			h(event)
		}
	}
}

// Notify publishes an event without blocking. When the buffer is full, or
// the bus has already been closed, the event is dropped with a diagnostic; a
// slow or departed subscriber must not stall a parse.
func (b *Bus[E]) Notify(ctx context.Context, event E) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		ctxlog.FromContext(ctx).Warn("Event bus is closed, dropping event.")
		return
	}
	select {
	case b.ch <- event:
	default:
		ctxlog.FromContext(ctx).Warn("Event bus buffer full, dropping event.")
	}
}

// Close stops intake and waits until every buffered event is delivered.
func (b *Bus[E]) Close() {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.closed = true
		close(b.ch)
		b.mu.Unlock()
	})
	<-b.done
}
