package timerloop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"shev/internal/logging"
	"shev/internal/shevcore"
)

func TestSupervisor_FiresOnInterval(t *testing.T) {
	var mu sync.Mutex
	var calls []string

	timer := shevcore.Timer{ID: uuid.New(), EventType: "heartbeat", Context: "{}", IntervalSecs: 0}
	// IntervalSecs 0 is clamped to 1s internally; use a short real timer
	// by constructing it with a ticker under our control isn't exposed,
	// so this test just waits long enough for at least one tick.

	sup := New([]shevcore.Timer{timer}, func(ctx context.Context, eventType, evtContext string) error {
		mu.Lock()
		calls = append(calls, eventType)
		mu.Unlock()
		return nil
	}, logging.New())
	defer sup.Stop()

	time.Sleep(1200 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(calls) == 0 {
		t.Fatal("expected at least one timer fire")
	}
	if calls[0] != "heartbeat" {
		t.Errorf("calls[0] = %q, want heartbeat", calls[0])
	}
}

func TestSupervisor_AddStartsFiringImmediately(t *testing.T) {
	var mu sync.Mutex
	var calls []string

	sup := New(nil, func(ctx context.Context, eventType, evtContext string) error {
		mu.Lock()
		calls = append(calls, eventType)
		mu.Unlock()
		return nil
	}, logging.New())
	defer sup.Stop()

	sup.Add(shevcore.Timer{ID: uuid.New(), EventType: "added", Context: "{}", IntervalSecs: 0})

	time.Sleep(1200 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(calls) == 0 {
		t.Fatal("expected Add()ed timer to fire")
	}
	if calls[0] != "added" {
		t.Errorf("calls[0] = %q, want added", calls[0])
	}
}

func TestSupervisor_StopHaltsFiring(t *testing.T) {
	var mu sync.Mutex
	count := 0

	timer := shevcore.Timer{ID: uuid.New(), EventType: "tick", Context: "{}", IntervalSecs: 0}
	sup := New([]shevcore.Timer{timer}, func(ctx context.Context, eventType, evtContext string) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	}, logging.New())

	time.Sleep(1200 * time.Millisecond)
	sup.Stop()

	mu.Lock()
	stoppedAt := count
	mu.Unlock()

	time.Sleep(1200 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if count != stoppedAt {
		t.Errorf("timer kept firing after Stop(): count went from %d to %d", stoppedAt, count)
	}
}
