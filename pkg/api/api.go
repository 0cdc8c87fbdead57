// Package api contains shared JSON request/response structs. It is
// imported by both the daemon's HTTP transport and the CLI client.
package api

import "time"

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	TotalJobs     int `json:"total_jobs"`
	PendingJobs   int `json:"pending_jobs"`
	RunningJobs   int `json:"running_jobs"`
	CompletedJobs int `json:"completed_jobs"`
	FailedJobs    int `json:"failed_jobs"`
}

// CreateEventRequest is the body of POST /events.
type CreateEventRequest struct {
	EventType string `json:"event_type"`
	Context   string `json:"context"`
}

// CreateEventResponse is the body of POST /events on success.
type CreateEventResponse struct {
	ID        string    `json:"id"`
	EventType string    `json:"event_type"`
	Context   string    `json:"context"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// MessageResponse wraps a simple human-readable confirmation, used by
// POST /jobs/{id}/cancel.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreateHandlerRequest is the body of POST /handlers and PUT /handlers/{event_type}.
type CreateHandlerRequest struct {
	EventType   string            `json:"event_type"`
	Shell       string            `json:"shell"`
	Command     string            `json:"command"`
	TimeoutSecs *uint             `json:"timeout_secs,omitempty"`
	Env         map[string]string `json:"env,omitempty"`
}

// CreateTimerRequest is the body of POST /timers and PUT /timers/{event_type}.
type CreateTimerRequest struct {
	EventType    string `json:"event_type"`
	Context      string `json:"context"`
	IntervalSecs uint   `json:"interval_secs"`
}

// CreateScheduleRequest is the body of POST /schedules and PUT /schedules/{event_type}.
type CreateScheduleRequest struct {
	EventType     string    `json:"event_type"`
	Context       string    `json:"context"`
	ScheduledTime time.Time `json:"scheduled_time"`
	Periodic      bool      `json:"periodic"`
}

// ReloadResponse is the body of POST /reload.
type ReloadResponse struct {
	Success         bool `json:"success"`
	HandlersLoaded  int  `json:"handlers_loaded"`
	TimersLoaded    int  `json:"timers_loaded"`
	SchedulesLoaded int  `json:"schedules_loaded"`
}

// SetConfigRequest is the body of PUT /config/{key}.
type SetConfigRequest struct {
	Value string `json:"value"`
}

// ErrorResponse is the standard error envelope for every non-2xx
// response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
