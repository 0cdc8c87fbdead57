// Package httpapi serves the daemon's HTTP surface: status, events,
// jobs, handlers, timers, schedules, reload and config.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"shev/internal/dispatch"
	"shev/internal/registry"
	"shev/internal/reload"
	"shev/internal/shevcore"
	"shev/internal/store"
	"shev/pkg/api"
)

// Handlers holds every HTTP handler and its dependencies. Grouped by
// concrete dependency rather than one broad interface, since each route
// touches a distinct slice of the runtime.
type Handlers struct {
	store      store.Store
	dispatcher *dispatch.Dispatcher
	registry   *registry.Registry
	reload     *reload.Coordinator
}

// New creates a Handlers instance wired to the running daemon.
func New(s store.Store, d *dispatch.Dispatcher, reg *registry.Registry, rl *reload.Coordinator) *Handlers {
	return &Handlers{store: s, dispatcher: d, registry: reg, reload: rl}
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func (h *Handlers) httpError(w http.ResponseWriter, message string, code int) {
	h.respondJSON(w, code, api.ErrorResponse{Error: message, Code: strconv.Itoa(code)})
}

// writeErr maps a core error to its HTTP status and writes the envelope.
// Unrecognised errors are treated as 500s.
func (h *Handlers) writeErr(w http.ResponseWriter, err error) {
	kind, ok := shevcore.KindOf(err)
	if !ok {
		if errors.Is(err, shevcore.ErrQueueFull) {
			h.httpError(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		h.httpError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	switch kind {
	case shevcore.KindNotFound:
		h.httpError(w, err.Error(), http.StatusNotFound)
	case shevcore.KindConflict:
		h.httpError(w, err.Error(), http.StatusConflict)
	case shevcore.KindValidation:
		h.httpError(w, err.Error(), http.StatusBadRequest)
	case shevcore.KindQueueFull:
		h.httpError(w, err.Error(), http.StatusServiceUnavailable)
	case shevcore.KindStore:
		h.httpError(w, err.Error(), http.StatusInternalServerError)
	default:
		h.httpError(w, err.Error(), http.StatusInternalServerError)
	}
}
