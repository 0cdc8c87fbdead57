// Package timerloop fires events on fixed intervals defined by Timers.
package timerloop

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"shev/internal/shevcore"
)

// enqueueFunc mirrors dispatch.Dispatcher.Enqueue's signature, dropping
// the returned event id this package has no use for.
type enqueueFunc func(ctx context.Context, eventType, evtContext string) error

// Supervisor owns one goroutine per Timer. It can be stopped and a fresh
// one started wholesale by the reload coordinator.
type Supervisor struct {
	enqueue enqueueFunc
	logger  *slog.Logger

	wg   sync.WaitGroup
	stop chan struct{}
}

// New creates a Supervisor for the given timers. enqueue is called on
// every fire; its error is logged and otherwise ignored (timers do not
// retry, back-pressure is observed, not fought).
func New(timers []shevcore.Timer, enqueue func(ctx context.Context, eventType, evtContext string) error, logger *slog.Logger) *Supervisor {
	s := &Supervisor{
		enqueue: enqueue,
		logger:  logger,
		stop:    make(chan struct{}),
	}
	for _, t := range timers {
		s.wg.Add(1)
		go s.run(t)
	}
	return s
}

func (s *Supervisor) run(t shevcore.Timer) {
	defer s.wg.Done()

	interval := time.Duration(t.IntervalSecs) * time.Second
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := s.enqueue(ctx, t.EventType, t.Context)
			cancel()
			if err != nil {
				s.logger.Warn("timer enqueue failed, dropping this tick", "event_type", t.EventType, "error", err)
			}
		}
	}
}

// Add starts a goroutine for a newly created timer without touching the
// others, so a timer created over HTTP fires on its own schedule
// immediately instead of waiting for the next reload.
func (s *Supervisor) Add(t shevcore.Timer) {
	s.wg.Add(1)
	go s.run(t)
}

// Stop halts every timer goroutine and waits for them to exit.
func (s *Supervisor) Stop() {
	close(s.stop)
	s.wg.Wait()
}
