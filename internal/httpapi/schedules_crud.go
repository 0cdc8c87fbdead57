package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"shev/internal/shevcore"
	"shev/pkg/api"
)

// ListSchedules handles GET /schedules.
func (h *Handlers) ListSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.store.ListSchedules(r.Context())
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if schedules == nil {
		schedules = []shevcore.Schedule{}
	}
	h.respondJSON(w, http.StatusOK, schedules)
}

// CreateSchedule handles POST /schedules.
func (h *Handlers) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req api.CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	schedule, err := scheduleFromRequest(req)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	schedule.ID = uuid.New()

	if err := h.store.CreateSchedule(r.Context(), schedule); err != nil {
		h.writeErr(w, err)
		return
	}
	h.reload.AddSchedule(*schedule)
	h.respondJSON(w, http.StatusOK, schedule)
}

// UpdateSchedule handles PUT /schedules/{event_type}.
func (h *Handlers) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	eventType := r.PathValue("event_type")

	existing, err := h.scheduleByEventType(r, eventType)
	if err != nil {
		h.writeErr(w, err)
		return
	}

	var req api.CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.EventType = eventType

	schedule, err := scheduleFromRequest(req)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	schedule.ID = existing.ID

	if err := h.store.DeleteSchedule(r.Context(), existing.ID); err != nil {
		h.writeErr(w, err)
		return
	}
	if err := h.store.CreateSchedule(r.Context(), schedule); err != nil {
		h.writeErr(w, err)
		return
	}
	// A full reload (rather than AddSchedule) is used here because the
	// old entry for this event type may already be live in the running
	// Schedule Loop under its previous scheduled_time; the loop has no
	// by-id removal, so the safe way to replace it is to rebuild from a
	// fresh store snapshot.
	if err := h.reload.Reload(r.Context()); err != nil {
		h.writeErr(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, schedule)
}

// DeleteSchedule handles DELETE /schedules/{event_type}.
func (h *Handlers) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	eventType := r.PathValue("event_type")

	existing, err := h.scheduleByEventType(r, eventType)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if err := h.store.DeleteSchedule(r.Context(), existing.ID); err != nil {
		h.writeErr(w, err)
		return
	}
	if err := h.reload.Reload(r.Context()); err != nil {
		h.writeErr(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, api.MessageResponse{Message: "schedule deleted"})
}

func (h *Handlers) scheduleByEventType(r *http.Request, eventType string) (*shevcore.Schedule, error) {
	schedules, err := h.store.ListSchedules(r.Context())
	if err != nil {
		return nil, err
	}
	for _, s := range schedules {
		if s.EventType == eventType {
			return &s, nil
		}
	}
	return nil, shevcore.NotFound("schedule")
}

func scheduleFromRequest(req api.CreateScheduleRequest) (*shevcore.Schedule, error) {
	if req.EventType == "" {
		return nil, shevcore.Validation("event_type is required")
	}
	if req.ScheduledTime.IsZero() {
		return nil, shevcore.Validation("scheduled_time is required")
	}
	return &shevcore.Schedule{
		EventType:     req.EventType,
		Context:       req.Context,
		ScheduledTime: req.ScheduledTime.UTC(),
		Periodic:      req.Periodic,
	}, nil
}
