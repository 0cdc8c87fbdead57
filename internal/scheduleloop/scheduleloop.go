// Package scheduleloop fires events at absolute times defined by
// Schedules, one-shot or daily-periodic.
package scheduleloop

import (
	"container/heap"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"shev/internal/shevcore"
)

// scheduleHeap orders Schedules by ScheduledTime, ascending id breaking
// ties (spec: "fire order is ascending by id").
type scheduleHeap []shevcore.Schedule

func (h scheduleHeap) Len() int { return len(h) }
func (h scheduleHeap) Less(i, j int) bool {
	if h[i].ScheduledTime.Equal(h[j].ScheduledTime) {
		return h[i].ID.String() < h[j].ID.String()
	}
	return h[i].ScheduledTime.Before(h[j].ScheduledTime)
}
func (h scheduleHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *scheduleHeap) Push(x interface{}) {
	*h = append(*h, x.(shevcore.Schedule))
}
func (h *scheduleHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Store is the persistence surface the loop needs.
type Store interface {
	UpdateScheduleTime(ctx context.Context, id uuid.UUID, next time.Time) error
	DeleteSchedule(ctx context.Context, id uuid.UUID) error
}

// EnqueueFunc mirrors dispatch.Dispatcher.Enqueue, dropping the returned
// event id this package has no use for.
type EnqueueFunc func(ctx context.Context, eventType, evtContext string) error

// Supervisor holds a min-heap of Schedules and a single timer armed to
// the earliest entry.
type Supervisor struct {
	store   Store
	enqueue EnqueueFunc
	logger  *slog.Logger

	mu sync.Mutex
	h  scheduleHeap

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

// New creates and starts a Supervisor over the given schedules.
func New(schedules []shevcore.Schedule, store Store, enqueue EnqueueFunc, logger *slog.Logger) *Supervisor {
	s := &Supervisor{
		store:   store,
		enqueue: enqueue,
		logger:  logger,
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	s.h = make(scheduleHeap, 0, len(schedules))
	for _, sc := range schedules {
		s.h = append(s.h, sc)
	}
	heap.Init(&s.h)

	go s.run()
	return s
}

func (s *Supervisor) run() {
	defer close(s.done)

	for {
		s.mu.Lock()
		var timerC <-chan time.Time
		var timer *time.Timer
		if s.h.Len() > 0 {
			d := time.Until(s.h[0].ScheduledTime)
			if d < 0 {
				d = 0
			}
			timer = time.NewTimer(d)
			timerC = timer.C
		}
		s.mu.Unlock()

		select {
		case <-s.stop:
			if timer != nil {
				timer.Stop()
			}
			return
		case <-s.wake:
			if timer != nil {
				timer.Stop()
			}
			continue
		case <-timerC:
			s.fireDue()
		}
	}
}

// fireDue pops and fires every schedule whose time has arrived (there
// may be more than one sharing the same instant).
func (s *Supervisor) fireDue() {
	now := time.Now()
	for {
		s.mu.Lock()
		if s.h.Len() == 0 || s.h[0].ScheduledTime.After(now) {
			s.mu.Unlock()
			return
		}
		sc := heap.Pop(&s.h).(shevcore.Schedule)
		s.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := s.enqueue(ctx, sc.EventType, sc.Context)
		cancel()
		if err != nil {
			s.logger.Warn("schedule enqueue failed", "event_type", sc.EventType, "error", err)
		}

		if !sc.Periodic {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := s.store.DeleteSchedule(ctx, sc.ID); err != nil {
				s.logger.Error("failed to delete fired one-shot schedule", "schedule_id", sc.ID, "error", err)
			}
			cancel()
			continue
		}

		next := sc.ScheduledTime.Add(24 * time.Hour)
		for !next.After(now) {
			next = next.Add(24 * time.Hour)
		}
		sc.ScheduledTime = next

		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.store.UpdateScheduleTime(ctx, sc.ID, next); err != nil {
			s.logger.Error("failed to persist advanced schedule time", "schedule_id", sc.ID, "error", err)
		}
		cancel()

		s.mu.Lock()
		heap.Push(&s.h, sc)
		s.mu.Unlock()
	}
}

// Add inserts a new schedule and wakes the loop so it can re-evaluate
// the earliest due time, without tearing the loop down and rebuilding
// it. Used by the Reload Coordinator's AddSchedule, which schedule
// creation over HTTP calls so a new schedule takes effect immediately.
func (s *Supervisor) Add(sc shevcore.Schedule) {
	s.mu.Lock()
	heap.Push(&s.h, sc)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Stop halts the loop and waits for it to exit.
func (s *Supervisor) Stop() {
	close(s.stop)
	<-s.done
}
