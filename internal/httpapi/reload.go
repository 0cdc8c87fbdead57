package httpapi

import (
	"net/http"

	"shev/pkg/api"
)

// Reload handles POST /reload.
func (h *Handlers) Reload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.reload.Reload(ctx); err != nil {
		h.writeErr(w, err)
		return
	}

	handlers, err := h.store.ListHandlers(ctx)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	timers, err := h.store.ListTimers(ctx)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	schedules, err := h.store.ListSchedules(ctx)
	if err != nil {
		h.writeErr(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, api.ReloadResponse{
		Success:         true,
		HandlersLoaded:  len(handlers),
		TimersLoaded:    len(timers),
		SchedulesLoaded: len(schedules),
	})
}
