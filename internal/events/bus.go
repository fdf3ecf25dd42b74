package events

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kelindar/event"
)

// drainPoll is how often Drain checks for outstanding deliveries.
const drainPoll = 5 * time.Millisecond

// Bus wraps a kelindar/event dispatcher for the puzzle events.
// It counts deliveries still owed to subscribers so callers can wait for
// them before reading what the subscribers produced.
type Bus struct {
	dispatcher *event.Dispatcher

	// mu orders publishing against subscribing so counts match deliveries.
	mu      sync.Mutex
	subs    map[uint32]int
	pending atomic.Int64
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
		subs:       make(map[uint32]int),
	}
}

// Publish hands ev to every subscriber of its type without blocking on them.
// Unknown event types are dropped.
func (b *Bus) Publish(ev Event) {
	switch e := ev.(type) {
	case CellPressed:
		publish(b, e)
	case SequenceCompleted:
		publish(b, e)
	case CompletionPlayed:
		publish(b, e)
	case ActuatorChanged:
		publish(b, e)
	}
}

// Subscribe registers handler for the event type named by its parameter
// and returns the function that removes it.
// Usage: unsub := bus.Subscribe(func(e CellPressed) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(CellPressed):
		return subscribe(b, h)
	case func(SequenceCompleted):
		return subscribe(b, h)
	case func(CompletionPlayed):
		return subscribe(b, h)
	case func(ActuatorChanged):
		return subscribe(b, h)
	default:
		return func() {}
	}
}

// Drain waits until every published event has been handled by its
// subscribers or ctx is done.
func (b *Bus) Drain(ctx context.Context) error {
	ticker := time.NewTicker(drainPoll)
	defer ticker.Stop()

	for b.pending.Load() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	return nil
}

// Close stops the dispatcher; queued events may be dropped.
func (b *Bus) Close() error {
	return b.dispatcher.Close()
}

func publish[T Event](b *Bus, e T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending.Add(int64(b.subs[e.Type()]))
	event.Publish(b.dispatcher, e)
}

func subscribe[T Event](b *Bus, handler func(T)) func() {
	var zero T

	typ := zero.Type()

	b.mu.Lock()
	defer b.mu.Unlock()

	b.subs[typ]++

	cancel := event.Subscribe(b.dispatcher, func(e T) {
		defer b.pending.Add(-1)

		handler(e)
	})

	var once sync.Once

	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			cancel()
			b.subs[typ]--
		})
	}
}
