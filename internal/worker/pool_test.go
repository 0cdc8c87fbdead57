package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"shev/internal/dispatch"
	"shev/internal/execshell"
	"shev/internal/logging"
	"shev/internal/registry"
	"shev/internal/shevcore"
)

// fakeJobStore implements store.JobStore for testing, recording finished
// jobs onto a channel so tests can synchronize on completion.
type fakeJobStore struct {
	mu       sync.Mutex
	jobs     map[uuid.UUID]shevcore.Job
	finished chan shevcore.Job
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{
		jobs:     make(map[uuid.UUID]shevcore.Job),
		finished: make(chan shevcore.Job, 10),
	}
}

func (m *fakeJobStore) CreateJob(ctx context.Context, job *shevcore.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = *job
	return nil
}

func (m *fakeJobStore) GetJob(ctx context.Context, id uuid.UUID) (*shevcore.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, shevcore.NotFound("job")
	}
	return &j, nil
}

func (m *fakeJobStore) ListJobs(ctx context.Context, filter shevcore.JobFilter) ([]shevcore.Job, error) {
	return nil, nil
}

func (m *fakeJobStore) MarkRunning(ctx context.Context, id uuid.UUID, startedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j := m.jobs[id]
	j.Status = shevcore.JobRunning
	j.StartedAt = &startedAt
	m.jobs[id] = j
	return nil
}

func (m *fakeJobStore) FinishJob(ctx context.Context, id uuid.UUID, status shevcore.JobStatus, output, errMsg *string, finishedAt time.Time) error {
	m.mu.Lock()
	j := m.jobs[id]
	j.Status = status
	j.Output = output
	j.Error = errMsg
	j.FinishedAt = &finishedAt
	m.jobs[id] = j
	m.mu.Unlock()

	m.finished <- j
	return nil
}

func (m *fakeJobStore) CancelPending(ctx context.Context, id uuid.UUID, errMsg string, finishedAt time.Time) error {
	m.mu.Lock()
	j := m.jobs[id]
	j.Status = shevcore.JobCancelled
	msg := errMsg
	j.Error = &msg
	j.FinishedAt = &finishedAt
	m.jobs[id] = j
	m.mu.Unlock()

	m.finished <- j
	return nil
}

func (m *fakeJobStore) CountJobsByStatus(ctx context.Context) (map[shevcore.JobStatus]int, error) {
	return nil, nil
}

func (m *fakeJobStore) RecoverOrphans(ctx context.Context, now time.Time) (int, error) {
	return 0, nil
}

// fakeEventStore implements store.EventStore, just enough for Dispatcher.
type fakeEventStore struct{}

func newFakeEventStore() *fakeEventStore { return &fakeEventStore{} }

func (f *fakeEventStore) CreateEvent(ctx context.Context, event *shevcore.Event) error {
	return nil
}
func (f *fakeEventStore) GetEvent(ctx context.Context, id uuid.UUID) (*shevcore.Event, error) {
	return nil, shevcore.NotFound("event")
}

type staticHandlerLookup struct {
	handlers map[string]shevcore.Handler
}

func (h *staticHandlerLookup) Lookup(eventType string) (shevcore.Handler, bool) {
	v, ok := h.handlers[eventType]
	return v, ok
}

func TestPool_ProcessesEventAgainstHandler(t *testing.T) {
	handlerID := uuid.New()
	eventType := "deploy.finished"

	js := newFakeJobStore()
	handlers := &staticHandlerLookup{handlers: map[string]shevcore.Handler{
		eventType: {ID: handlerID, EventType: eventType, Shell: shevcore.ShellBash, Command: "echo hi"},
	}}

	d := dispatch.New(newFakeEventStore(), 4)
	reg := registry.New()
	exec := execshell.New()
	logger := logging.New()

	pool := New(d, js, handlers, reg, exec, logger, 2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Run(ctx)

	if _, err := d.Enqueue(context.Background(), eventType, "{}"); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	select {
	case job := <-js.finished:
		if job.Status != shevcore.JobCompleted {
			t.Errorf("job.Status = %v, want Completed", job.Status)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for job to finish")
	}

	cancel()
	pool.Wait()
}

func TestPool_DropsEventWithNoHandler(t *testing.T) {
	js := newFakeJobStore()
	handlers := &staticHandlerLookup{handlers: map[string]shevcore.Handler{}}

	d := dispatch.New(newFakeEventStore(), 4)
	reg := registry.New()
	exec := execshell.New()
	logger := logging.New()

	pool := New(d, js, handlers, reg, exec, logger, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Run(ctx)

	if _, err := d.Enqueue(context.Background(), "unbound.type", "{}"); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	select {
	case <-js.finished:
		t.Fatal("expected no job to be created for an unbound event type")
	case <-time.After(200 * time.Millisecond):
		// expected: dropped silently
	}

	cancel()
	pool.Wait()
}
