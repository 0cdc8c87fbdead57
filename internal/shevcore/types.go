// Package shevcore holds the data model shared by every layer of shev:
// the event-driven shell command executor.
package shevcore

import (
	"time"

	"github.com/google/uuid"
)

// Shell is the closed set of interpreters a Handler may run under.
type Shell string

const (
	ShellBash Shell = "bash"
	ShellSh   Shell = "sh"
	ShellPwsh Shell = "pwsh"
)

// Valid reports whether s is one of the known shells.
func (s Shell) Valid() bool {
	switch s {
	case ShellBash, ShellSh, ShellPwsh:
		return true
	default:
		return false
	}
}

// Event is a single stimulus with a type and opaque context. Immutable
// once persisted.
type Event struct {
	ID        uuid.UUID `json:"id"`
	EventType string    `json:"event_type"`
	Context   string    `json:"context"`
	Timestamp time.Time `json:"timestamp"`
}

// Handler is the executable recipe bound to an event type.
type Handler struct {
	ID           uuid.UUID         `json:"id"`
	EventType    string            `json:"event_type"`
	Shell        Shell             `json:"shell"`
	Command      string            `json:"command"`
	TimeoutSecs  *uint             `json:"timeout_secs,omitempty"`
	Env          map[string]string `json:"env,omitempty"`
}

// Timer is a periodic interval producer of events.
type Timer struct {
	ID           uuid.UUID `json:"id"`
	EventType    string    `json:"event_type"`
	Context      string    `json:"context"`
	IntervalSecs uint      `json:"interval_secs"`
}

// Schedule is an absolute-time producer of events, one-shot or
// daily-periodic.
type Schedule struct {
	ID            uuid.UUID `json:"id"`
	EventType     string    `json:"event_type"`
	Context       string    `json:"context"`
	ScheduledTime time.Time `json:"scheduled_time"`
	Periodic      bool      `json:"periodic"`
}

// JobStatus is the lifecycle state of a Job. Pending -> Running ->
// {Completed|Failed|Cancelled}. Terminal states are final.
type JobStatus string

const (
	JobPending   JobStatus = "Pending"
	JobRunning   JobStatus = "Running"
	JobCompleted JobStatus = "Completed"
	JobFailed    JobStatus = "Failed"
	JobCancelled JobStatus = "Cancelled"
)

// Terminal reports whether s is one of the three final states.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobCompleted, JobFailed, JobCancelled:
		return true
	default:
		return false
	}
}

// Job is the record of one attempt to execute a handler for an event.
type Job struct {
	ID         uuid.UUID `json:"id"`
	Event      Event     `json:"event"`
	HandlerID  uuid.UUID `json:"handler_id"`
	Status     JobStatus `json:"status"`
	Output     *string   `json:"output,omitempty"`
	Error      *string   `json:"error,omitempty"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Config keys recognised in the persisted key-value store.
const (
	ConfigKeyPort        = "port"
	ConfigKeyQueueSize   = "queue_size"
	ConfigKeyWorkerCount = "worker_count"
)

// Default values for recognised config keys, used when the store has no
// row for that key yet.
const (
	DefaultPort        = 3000
	DefaultQueueSize   = 100
	DefaultWorkerCount = 4
)

// JobFilter narrows a job listing query.
type JobFilter struct {
	Status *JobStatus
	Limit  int
}
