// Package dispatch implements the bounded event queue: the single entry
// point every producer (HTTP, timers, schedules) funnels through before
// a worker ever sees an event.
package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shev/internal/shevcore"
	"shev/internal/store"
)

// Item is a queued unit of work: the event that needs a job created and
// run against its handler.
type Item struct {
	Event shevcore.Event
}

// Dispatcher persists events and publishes them onto a bounded channel.
// It never blocks on capacity: a full queue fails fast with QueueFull,
// matching the "enqueue never waits" suspension-point rule.
type Dispatcher struct {
	store store.EventStore
	queue chan Item
}

// New creates a Dispatcher backed by a channel of the given capacity.
func New(s store.EventStore, queueSize int) *Dispatcher {
	return &Dispatcher{
		store: s,
		queue: make(chan Item, queueSize),
	}
}

// Items returns the channel workers range over.
func (d *Dispatcher) Items() <-chan Item {
	return d.queue
}

// Depth reports the current number of items sitting in the queue,
// exposed to the observability layer as a gauge.
func (d *Dispatcher) Depth() int {
	return len(d.queue)
}

// Enqueue persists the event, then publishes it onto the bounded queue.
// The persisted row is kept even on QueueFull: it is a durable record of
// the attempted dispatch (spec's per-Open-Question decision, see
// DESIGN.md).
func (d *Dispatcher) Enqueue(ctx context.Context, eventType, evtContext string) (uuid.UUID, error) {
	event := shevcore.Event{
		ID:        uuid.New(),
		EventType: eventType,
		Context:   evtContext,
		Timestamp: time.Now().UTC(),
	}

	if err := d.store.CreateEvent(ctx, &event); err != nil {
		return uuid.Nil, err
	}

	select {
	case d.queue <- Item{Event: event}:
		return event.ID, nil
	default:
		return event.ID, shevcore.ErrQueueFull
	}
}
