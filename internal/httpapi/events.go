package httpapi

import (
	"encoding/json"
	"net/http"

	"shev/pkg/api"
)

// CreateEvent handles POST /events.
func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req api.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.EventType == "" {
		h.httpError(w, "event_type is required", http.StatusBadRequest)
		return
	}

	id, err := h.dispatcher.Enqueue(r.Context(), req.EventType, req.Context)
	if err != nil {
		// The event was still persisted even on QueueFull; the caller
		// gets a 503 either way per spec.
		h.writeErr(w, err)
		return
	}

	event, err := h.store.GetEvent(r.Context(), id)
	if err != nil {
		h.writeErr(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, api.CreateEventResponse{
		ID:        event.ID.String(),
		EventType: event.EventType,
		Context:   event.Context,
		Timestamp: event.Timestamp,
		Message:   "event dispatched",
	})
}
