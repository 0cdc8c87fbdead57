package scheduleloop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"shev/internal/logging"
	"shev/internal/shevcore"
)

type fakeStore struct {
	mu      sync.Mutex
	updated map[uuid.UUID]time.Time
	deleted map[uuid.UUID]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		updated: make(map[uuid.UUID]time.Time),
		deleted: make(map[uuid.UUID]bool),
	}
}

func (f *fakeStore) UpdateScheduleTime(ctx context.Context, id uuid.UUID, next time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated[id] = next
	return nil
}

func (f *fakeStore) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted[id] = true
	return nil
}

func TestSupervisor_FireOnceThenDeletes(t *testing.T) {
	id := uuid.New()
	sc := shevcore.Schedule{ID: id, EventType: "one-shot", Context: "{}", ScheduledTime: time.Now().Add(200 * time.Millisecond)}

	var mu sync.Mutex
	var calls []string
	st := newFakeStore()

	sup := New([]shevcore.Schedule{sc}, st, func(ctx context.Context, eventType, evtContext string) error {
		mu.Lock()
		calls = append(calls, eventType)
		mu.Unlock()
		return nil
	}, logging.New())
	defer sup.Stop()

	time.Sleep(600 * time.Millisecond)

	mu.Lock()
	n := len(calls)
	mu.Unlock()
	if n != 1 {
		t.Fatalf("calls = %d, want 1", n)
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if !st.deleted[id] {
		t.Error("expected one-shot schedule to be deleted after firing")
	}
	if _, ok := st.updated[id]; ok {
		t.Error("one-shot schedule should not have its time updated")
	}
}

func TestSupervisor_PeriodicAdvancesByDay(t *testing.T) {
	id := uuid.New()
	original := time.Now().Add(200 * time.Millisecond)
	sc := shevcore.Schedule{ID: id, EventType: "daily", Context: "{}", ScheduledTime: original, Periodic: true}

	st := newFakeStore()
	sup := New([]shevcore.Schedule{sc}, st, func(ctx context.Context, eventType, evtContext string) error {
		return nil
	}, logging.New())
	defer sup.Stop()

	time.Sleep(600 * time.Millisecond)

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.deleted[id] {
		t.Error("periodic schedule should not be deleted")
	}
	next, ok := st.updated[id]
	if !ok {
		t.Fatal("expected periodic schedule time to be persisted")
	}
	if !next.After(original) {
		t.Errorf("advanced time %v is not after original %v", next, original)
	}
	if diff := next.Sub(original); diff < 23*time.Hour {
		t.Errorf("advance was %v, want ~24h", diff)
	}
}

func TestSupervisor_PastDueFiresImmediately(t *testing.T) {
	id := uuid.New()
	// Long overdue: three days in the past, periodic.
	sc := shevcore.Schedule{ID: id, EventType: "overdue", Context: "{}", ScheduledTime: time.Now().Add(-72 * time.Hour), Periodic: true}

	var mu sync.Mutex
	fired := false
	st := newFakeStore()

	sup := New([]shevcore.Schedule{sc}, st, func(ctx context.Context, eventType, evtContext string) error {
		mu.Lock()
		fired = true
		mu.Unlock()
		return nil
	}, logging.New())
	defer sup.Stop()

	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if !fired {
		t.Fatal("expected an overdue schedule to fire immediately on start")
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	next := st.updated[id]
	if !next.After(time.Now().Add(-time.Minute)) {
		t.Errorf("advanced time %v should have been fast-forwarded into the future", next)
	}
}

func TestSupervisor_SameInstantFiresInIDOrder(t *testing.T) {
	same := time.Now().Add(200 * time.Millisecond)

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	// sort ids ascending for the expectation
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if ids[j].String() < ids[i].String() {
				ids[i], ids[j] = ids[j], ids[i]
			}
		}
	}

	schedules := []shevcore.Schedule{
		{ID: ids[2], EventType: "c", Context: "{}", ScheduledTime: same},
		{ID: ids[0], EventType: "a", Context: "{}", ScheduledTime: same},
		{ID: ids[1], EventType: "b", Context: "{}", ScheduledTime: same},
	}

	var mu sync.Mutex
	var order []string
	st := newFakeStore()

	sup := New(schedules, st, func(ctx context.Context, eventType, evtContext string) error {
		mu.Lock()
		order = append(order, eventType)
		mu.Unlock()
		return nil
	}, logging.New())
	defer sup.Stop()

	time.Sleep(600 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 3 {
		t.Fatalf("order = %v, want 3 entries", order)
	}
	if order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Errorf("order = %v, want [a b c] (ascending id)", order)
	}
}

func TestSupervisor_Add_WakesLoopForEarlierSchedule(t *testing.T) {
	late := shevcore.Schedule{ID: uuid.New(), EventType: "late", Context: "{}", ScheduledTime: time.Now().Add(5 * time.Second)}

	var mu sync.Mutex
	var calls []string
	st := newFakeStore()

	sup := New([]shevcore.Schedule{late}, st, func(ctx context.Context, eventType, evtContext string) error {
		mu.Lock()
		calls = append(calls, eventType)
		mu.Unlock()
		return nil
	}, logging.New())
	defer sup.Stop()

	early := shevcore.Schedule{ID: uuid.New(), EventType: "early", Context: "{}", ScheduledTime: time.Now().Add(200 * time.Millisecond)}
	sup.Add(early)

	time.Sleep(600 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 1 || calls[0] != "early" {
		t.Errorf("calls = %v, want [early] fired before the 5s schedule", calls)
	}
}
