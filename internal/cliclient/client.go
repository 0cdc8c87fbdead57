// Package cliclient is the HTTP client shevctl uses to talk to shevd's
// REST surface.
package cliclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"shev/internal/shevcore"
	"shev/pkg/api"
)

// Client talks to a running shevd instance over HTTP.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New builds a Client bound to baseURL, e.g. "http://localhost:3000".
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError represents a non-2xx response from shevd.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shevd error (%d): %s", e.StatusCode, e.Message)
}

// do sends method/path with an optional JSON body and decodes the
// response body into out (skipped if out is nil).
func (c *Client) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		var envelope api.ErrorResponse
		msg := string(respBody)
		if json.Unmarshal(respBody, &envelope) == nil && envelope.Error != "" {
			msg = envelope.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// GetStatus fetches GET /status.
func (c *Client) GetStatus() (*api.StatusResponse, error) {
	var out api.StatusResponse
	if err := c.do(http.MethodGet, "/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateEvent sends POST /events.
func (c *Client) CreateEvent(req api.CreateEventRequest) (*api.CreateEventResponse, error) {
	var out api.CreateEventResponse
	if err := c.do(http.MethodPost, "/events", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListJobs sends GET /jobs, optionally filtered by status and capped at limit.
func (c *Client) ListJobs(status string, limit int) ([]shevcore.Job, error) {
	path := "/jobs"
	if status != "" || limit > 0 {
		path += "?"
		if status != "" {
			path += "status=" + status
		}
		if limit > 0 {
			if status != "" {
				path += "&"
			}
			path += fmt.Sprintf("limit=%d", limit)
		}
	}
	var out []shevcore.Job
	if err := c.do(http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetJob sends GET /jobs/{id}.
func (c *Client) GetJob(id string) (*shevcore.Job, error) {
	var out shevcore.Job
	if err := c.do(http.MethodGet, "/jobs/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelJob sends POST /jobs/{id}/cancel.
func (c *Client) CancelJob(id string) (*api.MessageResponse, error) {
	var out api.MessageResponse
	if err := c.do(http.MethodPost, "/jobs/"+id+"/cancel", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListHandlers sends GET /handlers.
func (c *Client) ListHandlers() ([]shevcore.Handler, error) {
	var out []shevcore.Handler
	if err := c.do(http.MethodGet, "/handlers", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateHandler sends POST /handlers.
func (c *Client) CreateHandler(req api.CreateHandlerRequest) (*shevcore.Handler, error) {
	var out shevcore.Handler
	if err := c.do(http.MethodPost, "/handlers", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateHandler sends PUT /handlers/{event_type}.
func (c *Client) UpdateHandler(eventType string, req api.CreateHandlerRequest) (*shevcore.Handler, error) {
	var out shevcore.Handler
	if err := c.do(http.MethodPut, "/handlers/"+eventType, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteHandler sends DELETE /handlers/{event_type}.
func (c *Client) DeleteHandler(eventType string) (*api.MessageResponse, error) {
	var out api.MessageResponse
	if err := c.do(http.MethodDelete, "/handlers/"+eventType, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTimers sends GET /timers.
func (c *Client) ListTimers() ([]shevcore.Timer, error) {
	var out []shevcore.Timer
	if err := c.do(http.MethodGet, "/timers", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTimer sends POST /timers.
func (c *Client) CreateTimer(req api.CreateTimerRequest) (*shevcore.Timer, error) {
	var out shevcore.Timer
	if err := c.do(http.MethodPost, "/timers", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTimer sends PUT /timers/{event_type}.
func (c *Client) UpdateTimer(eventType string, req api.CreateTimerRequest) (*shevcore.Timer, error) {
	var out shevcore.Timer
	if err := c.do(http.MethodPut, "/timers/"+eventType, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTimer sends DELETE /timers/{event_type}.
func (c *Client) DeleteTimer(eventType string) (*api.MessageResponse, error) {
	var out api.MessageResponse
	if err := c.do(http.MethodDelete, "/timers/"+eventType, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSchedules sends GET /schedules.
func (c *Client) ListSchedules() ([]shevcore.Schedule, error) {
	var out []shevcore.Schedule
	if err := c.do(http.MethodGet, "/schedules", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSchedule sends POST /schedules.
func (c *Client) CreateSchedule(req api.CreateScheduleRequest) (*shevcore.Schedule, error) {
	var out shevcore.Schedule
	if err := c.do(http.MethodPost, "/schedules", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSchedule sends PUT /schedules/{event_type}.
func (c *Client) UpdateSchedule(eventType string, req api.CreateScheduleRequest) (*shevcore.Schedule, error) {
	var out shevcore.Schedule
	if err := c.do(http.MethodPut, "/schedules/"+eventType, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSchedule sends DELETE /schedules/{event_type}.
func (c *Client) DeleteSchedule(eventType string) (*api.MessageResponse, error) {
	var out api.MessageResponse
	if err := c.do(http.MethodDelete, "/schedules/"+eventType, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reload sends POST /reload.
func (c *Client) Reload() (*api.ReloadResponse, error) {
	var out api.ReloadResponse
	if err := c.do(http.MethodPost, "/reload", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetConfig sends GET /config.
func (c *Client) GetConfig() (map[string]string, error) {
	var out map[string]string
	if err := c.do(http.MethodGet, "/config", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetConfig sends PUT /config/{key}.
func (c *Client) SetConfig(key, value string) (*api.MessageResponse, error) {
	var out api.MessageResponse
	if err := c.do(http.MethodPut, "/config/"+key, api.SetConfigRequest{Value: value}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
