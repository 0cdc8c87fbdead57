package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"shev/internal/shevcore"
	"shev/pkg/api"
)

// ListHandlers handles GET /handlers.
func (h *Handlers) ListHandlers(w http.ResponseWriter, r *http.Request) {
	handlers, err := h.store.ListHandlers(r.Context())
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if handlers == nil {
		handlers = []shevcore.Handler{}
	}
	h.respondJSON(w, http.StatusOK, handlers)
}

// CreateHandler handles POST /handlers.
func (h *Handlers) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req api.CreateHandlerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	handler, err := handlerFromRequest(req)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	handler.ID = uuid.New()

	if err := h.store.CreateHandler(r.Context(), handler); err != nil {
		h.writeErr(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, handler)
}

// UpdateHandler handles PUT /handlers/{event_type}. Replaces the
// binding for an existing event type; the handler keeps its id.
func (h *Handlers) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	eventType := r.PathValue("event_type")

	existing, err := h.store.GetHandlerByEventType(r.Context(), eventType)
	if err != nil {
		h.writeErr(w, err)
		return
	}

	var req api.CreateHandlerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.EventType = eventType

	handler, err := handlerFromRequest(req)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	handler.ID = existing.ID

	if err := h.store.DeleteHandler(r.Context(), existing.ID); err != nil {
		h.writeErr(w, err)
		return
	}
	if err := h.store.CreateHandler(r.Context(), handler); err != nil {
		h.writeErr(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, handler)
}

// DeleteHandler handles DELETE /handlers/{event_type}.
func (h *Handlers) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	eventType := r.PathValue("event_type")

	existing, err := h.store.GetHandlerByEventType(r.Context(), eventType)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if err := h.store.DeleteHandler(r.Context(), existing.ID); err != nil {
		h.writeErr(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, api.MessageResponse{Message: "handler deleted"})
}

func handlerFromRequest(req api.CreateHandlerRequest) (*shevcore.Handler, error) {
	if req.EventType == "" {
		return nil, shevcore.Validation("event_type is required")
	}
	shell := shevcore.Shell(req.Shell)
	if !shell.Valid() {
		return nil, shevcore.Validation("unknown shell " + req.Shell)
	}
	if req.Command == "" {
		return nil, shevcore.Validation("command is required")
	}
	return &shevcore.Handler{
		EventType:   req.EventType,
		Shell:       shell,
		Command:     req.Command,
		TimeoutSecs: req.TimeoutSecs,
		Env:         req.Env,
	}, nil
}
