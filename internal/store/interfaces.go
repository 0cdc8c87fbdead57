// Package store defines the persistence interfaces for shev's entities.
// Concrete implementations live in internal/store/sqlite.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shev/internal/shevcore"
)

// Store is the full persistence surface shev's runtime depends on.
type Store interface {
	EventStore
	HandlerStore
	TimerStore
	ScheduleStore
	JobStore
	ConfigStore

	Close() error
}

// EventStore persists events. Listing past events has no caller (there
// is no GET /events; spec.md only defines the POST that creates one),
// so only creation and single-event lookup for CreateEvent's response
// are part of the interface.
type EventStore interface {
	CreateEvent(ctx context.Context, event *shevcore.Event) error
	GetEvent(ctx context.Context, id uuid.UUID) (*shevcore.Event, error)
}

// HandlerStore persists event-type -> command bindings. Handler CRUD
// addresses handlers by event type, never by id, so only
// GetHandlerByEventType is part of the interface.
type HandlerStore interface {
	CreateHandler(ctx context.Context, h *shevcore.Handler) error
	GetHandlerByEventType(ctx context.Context, eventType string) (*shevcore.Handler, error)
	ListHandlers(ctx context.Context) ([]shevcore.Handler, error)
	DeleteHandler(ctx context.Context, id uuid.UUID) error
}

// TimerStore persists interval timers. Timer CRUD addresses timers by
// event type via ListTimers, never a by-id lookup, so no GetTimer here.
type TimerStore interface {
	CreateTimer(ctx context.Context, t *shevcore.Timer) error
	ListTimers(ctx context.Context) ([]shevcore.Timer, error)
	DeleteTimer(ctx context.Context, id uuid.UUID) error
}

// ScheduleStore persists absolute-time schedules. Schedule CRUD
// addresses schedules by event type via ListSchedules, never a by-id
// lookup, so no GetSchedule here.
type ScheduleStore interface {
	CreateSchedule(ctx context.Context, s *shevcore.Schedule) error
	ListSchedules(ctx context.Context) ([]shevcore.Schedule, error)
	UpdateScheduleTime(ctx context.Context, id uuid.UUID, next time.Time) error
	DeleteSchedule(ctx context.Context, id uuid.UUID) error
}

// JobStore persists job execution records.
type JobStore interface {
	CreateJob(ctx context.Context, job *shevcore.Job) error
	GetJob(ctx context.Context, id uuid.UUID) (*shevcore.Job, error)
	ListJobs(ctx context.Context, filter shevcore.JobFilter) ([]shevcore.Job, error)

	// MarkRunning transitions a Pending job to Running, recording the
	// start time.
	MarkRunning(ctx context.Context, id uuid.UUID, startedAt time.Time) error

	// FinishJob writes the terminal state (Completed/Failed/Cancelled)
	// along with output/error and finish time. Only legal from Running.
	FinishJob(ctx context.Context, id uuid.UUID, status shevcore.JobStatus, output, errMsg *string, finishedAt time.Time) error

	// CancelPending transitions a Pending job straight to Cancelled,
	// without ever having been Running. Used when a job is cancelled
	// while still sitting in the queue, before a worker picked it up.
	CancelPending(ctx context.Context, id uuid.UUID, errMsg string, finishedAt time.Time) error

	// RecoverOrphans rewrites every Pending or Running job to Failed with
	// error "interrupted by restart", atomically, and returns the count
	// affected. Called before the worker pool starts consuming.
	RecoverOrphans(ctx context.Context, now time.Time) (int, error)

	// CountJobsByStatus returns the number of jobs in each status,
	// backing GET /status.
	CountJobsByStatus(ctx context.Context) (map[shevcore.JobStatus]int, error)
}

// ConfigStore persists the small key/value runtime config table.
type ConfigStore interface {
	GetConfig(ctx context.Context, key string) (string, bool, error)
	SetConfig(ctx context.Context, key, value string) error
	AllConfig(ctx context.Context) (map[string]string, error)
}
