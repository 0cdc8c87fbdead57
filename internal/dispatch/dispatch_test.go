package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"shev/internal/shevcore"
)

type mockEventStore struct {
	created []shevcore.Event
	failErr error
}

func (m *mockEventStore) CreateEvent(ctx context.Context, event *shevcore.Event) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.created = append(m.created, *event)
	return nil
}

func (m *mockEventStore) GetEvent(ctx context.Context, id uuid.UUID) (*shevcore.Event, error) {
	return nil, shevcore.NotFound("event")
}

func TestEnqueue_Success(t *testing.T) {
	m := &mockEventStore{}
	d := New(m, 4)

	id, err := d.Enqueue(context.Background(), "deploy.finished", `{"service":"api"}`)
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if id == uuid.Nil {
		t.Error("Enqueue() returned zero UUID")
	}
	if len(m.created) != 1 {
		t.Fatalf("expected event persisted, got %d", len(m.created))
	}
	if d.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", d.Depth())
	}

	select {
	case item := <-d.Items():
		if item.Event.ID != id {
			t.Errorf("dequeued event id = %v, want %v", item.Event.ID, id)
		}
	default:
		t.Error("expected an item on the queue")
	}
}

func TestEnqueue_QueueFull(t *testing.T) {
	m := &mockEventStore{}
	d := New(m, 1)

	if _, err := d.Enqueue(context.Background(), "a", "{}"); err != nil {
		t.Fatalf("first Enqueue: %v", err)
	}

	id, err := d.Enqueue(context.Background(), "b", "{}")
	if !errors.Is(err, shevcore.ErrQueueFull) {
		t.Fatalf("second Enqueue() err = %v, want ErrQueueFull", err)
	}
	if id == uuid.Nil {
		t.Error("expected a valid event id even on QueueFull")
	}
	// The event row is still persisted despite QueueFull.
	if len(m.created) != 2 {
		t.Errorf("expected both events persisted, got %d", len(m.created))
	}
}

func TestEnqueue_StoreError(t *testing.T) {
	m := &mockEventStore{failErr: errors.New("disk full")}
	d := New(m, 4)

	if _, err := d.Enqueue(context.Background(), "a", "{}"); err == nil {
		t.Error("expected store error to propagate")
	}
}
