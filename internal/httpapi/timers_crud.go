package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"shev/internal/shevcore"
	"shev/pkg/api"
)

// ListTimers handles GET /timers.
func (h *Handlers) ListTimers(w http.ResponseWriter, r *http.Request) {
	timers, err := h.store.ListTimers(r.Context())
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if timers == nil {
		timers = []shevcore.Timer{}
	}
	h.respondJSON(w, http.StatusOK, timers)
}

// CreateTimer handles POST /timers.
func (h *Handlers) CreateTimer(w http.ResponseWriter, r *http.Request) {
	var req api.CreateTimerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	timer, err := timerFromRequest(req)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	timer.ID = uuid.New()

	if err := h.store.CreateTimer(r.Context(), timer); err != nil {
		h.writeErr(w, err)
		return
	}
	h.reload.AddTimer(*timer)
	h.respondJSON(w, http.StatusOK, timer)
}

// UpdateTimer handles PUT /timers/{event_type}.
func (h *Handlers) UpdateTimer(w http.ResponseWriter, r *http.Request) {
	eventType := r.PathValue("event_type")

	existing, err := h.timerByEventType(r, eventType)
	if err != nil {
		h.writeErr(w, err)
		return
	}

	var req api.CreateTimerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.EventType = eventType

	timer, err := timerFromRequest(req)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	timer.ID = existing.ID

	if err := h.store.DeleteTimer(r.Context(), existing.ID); err != nil {
		h.writeErr(w, err)
		return
	}
	if err := h.store.CreateTimer(r.Context(), timer); err != nil {
		h.writeErr(w, err)
		return
	}
	// A full reload (rather than AddTimer) is used here because the old
	// entry for this event type is already a live goroutine in the
	// running Timer Loop; the loop has no way to stop a single timer by
	// id, so the safe way to replace it is to rebuild from a fresh
	// store snapshot.
	if err := h.reload.Reload(r.Context()); err != nil {
		h.writeErr(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, timer)
}

// DeleteTimer handles DELETE /timers/{event_type}.
func (h *Handlers) DeleteTimer(w http.ResponseWriter, r *http.Request) {
	eventType := r.PathValue("event_type")

	existing, err := h.timerByEventType(r, eventType)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if err := h.store.DeleteTimer(r.Context(), existing.ID); err != nil {
		h.writeErr(w, err)
		return
	}
	if err := h.reload.Reload(r.Context()); err != nil {
		h.writeErr(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, api.MessageResponse{Message: "timer deleted"})
}

// timerByEventType is a small linear lookup: TimerStore has no
// get-by-event-type method (unlike HandlerStore), since only the
// Reload Coordinator needs the full set and the CLI/HTTP paths are
// low-volume administrative calls.
func (h *Handlers) timerByEventType(r *http.Request, eventType string) (*shevcore.Timer, error) {
	timers, err := h.store.ListTimers(r.Context())
	if err != nil {
		return nil, err
	}
	for _, t := range timers {
		if t.EventType == eventType {
			return &t, nil
		}
	}
	return nil, shevcore.NotFound("timer")
}

func timerFromRequest(req api.CreateTimerRequest) (*shevcore.Timer, error) {
	if req.EventType == "" {
		return nil, shevcore.Validation("event_type is required")
	}
	if req.IntervalSecs == 0 {
		return nil, shevcore.Validation("interval_secs must be greater than 0")
	}
	return &shevcore.Timer{
		EventType:    req.EventType,
		Context:      req.Context,
		IntervalSecs: req.IntervalSecs,
	}, nil
}
