// Package reload holds the live, swappable-in-one-shot view of handlers,
// timers and schedules, and the coordinator that rebuilds it from the
// store on startup and on demand.
package reload

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"shev/internal/scheduleloop"
	"shev/internal/shevcore"
	"shev/internal/timerloop"
)

// HandlerTable is a read-mostly snapshot of event-type -> Handler
// bindings, safe for concurrent lookup while a reload swaps it out from
// under readers.
type HandlerTable struct {
	ptr atomic.Pointer[map[string]shevcore.Handler]
}

// Lookup implements worker.HandlerLookup.
func (t *HandlerTable) Lookup(eventType string) (shevcore.Handler, bool) {
	m := t.ptr.Load()
	if m == nil {
		return shevcore.Handler{}, false
	}
	h, ok := (*m)[eventType]
	return h, ok
}

func (t *HandlerTable) store(handlers []shevcore.Handler) {
	m := make(map[string]shevcore.Handler, len(handlers))
	for _, h := range handlers {
		m[h.EventType] = h
	}
	t.ptr.Store(&m)
}

// Store is the subset of persistence the coordinator needs to rebuild
// its in-memory view.
type Store interface {
	ListHandlers(ctx context.Context) ([]shevcore.Handler, error)
	ListTimers(ctx context.Context) ([]shevcore.Timer, error)
	ListSchedules(ctx context.Context) ([]shevcore.Schedule, error)
}

// EnqueueFunc is handed to both loop supervisors.
type EnqueueFunc func(ctx context.Context, eventType, evtContext string) error

// Coordinator owns the HandlerTable plus the currently-running Timer
// and Schedule loops, and can tear both down and rebuild them from a
// fresh store read without restarting the process.
type Coordinator struct {
	store   Store
	enqueue EnqueueFunc
	logger  *slog.Logger

	Handlers *HandlerTable

	mu        sync.Mutex
	timers    *timerloop.Supervisor
	schedules *scheduleloop.Supervisor
}

// New builds a Coordinator and performs the initial load.
func New(ctx context.Context, s Store, enqueue EnqueueFunc, logger *slog.Logger) (*Coordinator, error) {
	c := &Coordinator{
		store:    s,
		enqueue:  enqueue,
		logger:   logger,
		Handlers: &HandlerTable{},
	}
	if err := c.Reload(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload re-reads handlers, timers and schedules from the store,
// swaps the handler table atomically, and stops-then-restarts the
// Timer and Schedule loops wholesale against the fresh definitions.
func (c *Coordinator) Reload(ctx context.Context) error {
	handlers, err := c.store.ListHandlers(ctx)
	if err != nil {
		return err
	}
	timers, err := c.store.ListTimers(ctx)
	if err != nil {
		return err
	}
	schedules, err := c.store.ListSchedules(ctx)
	if err != nil {
		return err
	}

	c.Handlers.store(handlers)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timers != nil {
		c.timers.Stop()
	}
	if c.schedules != nil {
		c.schedules.Stop()
	}

	c.timers = timerloop.New(timers, c.enqueue, c.logger)

	scheduleStore, ok := c.store.(scheduleloop.Store)
	if !ok {
		c.logger.Error("store does not implement scheduleloop.Store, schedules will not fire")
	} else {
		c.schedules = scheduleloop.New(schedules, scheduleStore, scheduleloop.EnqueueFunc(c.enqueue), c.logger)
	}

	c.logger.Info("reloaded", "handlers", len(handlers), "timers", len(timers), "schedules", len(schedules))
	return nil
}

// AddSchedule inserts sc into the running Schedule Loop without a full
// reload, so a newly created schedule takes effect immediately. It is a
// no-op if the loop failed to start (see Reload's scheduleloop.Store
// type assertion).
func (c *Coordinator) AddSchedule(sc shevcore.Schedule) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.schedules != nil {
		c.schedules.Add(sc)
	}
}

// AddTimer starts t in the running Timer Loop without a full reload, so
// a newly created timer fires immediately instead of waiting for the
// next reload.
func (c *Coordinator) AddTimer(t shevcore.Timer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timers != nil {
		c.timers.Add(t)
	}
}

// Stop halts the Timer and Schedule loops. Called during shutdown.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timers != nil {
		c.timers.Stop()
	}
	if c.schedules != nil {
		c.schedules.Stop()
	}
}
