// Package registry tracks cancellation handles for in-flight jobs.
package registry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// cancelledTTL bounds how long a pre-cancellation sentinel survives
// without being claimed by Register. It only needs to outlast the gap
// between a cancel request and the Worker Pool creating the Job row and
// registering it, which is milliseconds; a generous multiple of that
// keeps the map from growing across a daemon's lifetime when callers
// cancel jobs that are already finished, which is routine.
const cancelledTTL = 30 * time.Second

// entry is a live job's cancellation handle. cancelling latches once
// Cancel has invoked cancel, so a second concurrent Cancel call on the
// same still-running job finds the entry and no-ops instead of falling
// through to the pre-registration path and minting a sentinel nothing
// will ever consume.
type entry struct {
	cancel     context.CancelFunc
	cancelling bool
}

// Registry is a process-wide map from Job UUID to cancellation handle,
// protected by a mutex. It is not persisted: on restart, nothing is
// "running" as far as the registry is concerned.
type Registry struct {
	mu      sync.Mutex
	entries map[uuid.UUID]entry

	// cancelled records job IDs that were cancelled before their entry
	// existed yet: the race between a cancellation request and the
	// Worker Pool creating the Job row. An entry only lands here when
	// id was never (and, thanks to the cancelling latch above, is not
	// currently) in entries, which means either the id has not been
	// registered yet or the job it named already ran to completion.
	// Entries expire after cancelledTTL so cancelling an
	// already-finished job, which is routine, does not grow this map
	// without bound over the life of a long-running daemon.
	cancelled map[uuid.UUID]time.Time
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		entries:   make(map[uuid.UUID]entry),
		cancelled: make(map[uuid.UUID]time.Time),
	}
}

// pruneCancelled drops expired sentinels. Called with mu held.
func (r *Registry) pruneCancelled(now time.Time) {
	for id, expiresAt := range r.cancelled {
		if now.After(expiresAt) {
			delete(r.cancelled, id)
		}
	}
}

// Register records a cancellation handle for id. If id was cancelled
// before it was registered (event enqueued, cancel raced ahead of the
// worker creating the Job row), Register invokes cancel immediately and
// reports that the job should not be started.
func (r *Registry) Register(id uuid.UUID, cancel context.CancelFunc) (preCancelled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.pruneCancelled(now)

	if expiresAt, was := r.cancelled[id]; was && now.Before(expiresAt) {
		delete(r.cancelled, id)
		cancel()
		return true
	}
	r.entries[id] = entry{cancel: cancel}
	return false
}

// Cancel looks up id and triggers its cancellation handle. It returns
// whether a live job was found. Idempotent: calling it twice for the
// same running job invokes cancel only once and leaves entries
// unchanged both times, since the entry itself is only removed by
// Unregister. Cancelling a job that has already terminated (or was
// never registered) is a no-op that reports false, and the request is
// remembered briefly in case it raced ahead of Register.
func (r *Registry) Cancel(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.pruneCancelled(now)

	e, ok := r.entries[id]
	if !ok {
		r.cancelled[id] = now.Add(cancelledTTL)
		return false
	}
	if !e.cancelling {
		e.cancelling = true
		r.entries[id] = e
		e.cancel()
	}
	return true
}

// Unregister removes id's entry without cancelling it, used once a job
// reaches a terminal state on its own. It also clears any cancelled
// sentinel for id: once a job is known terminal, a cancel that raced in
// while it was finishing has nothing left to claim the sentinel, so
// leaving it around would only outlive its purpose.
func (r *Registry) Unregister(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
	delete(r.cancelled, id)
}
