package httpapi

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"shev/internal/shevcore"
	"shev/pkg/api"
)

// ListJobs handles GET /jobs?status=&limit=.
func (h *Handlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	var filter shevcore.JobFilter
	if s := r.URL.Query().Get("status"); s != "" {
		status := shevcore.JobStatus(s)
		filter.Status = &status
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			h.httpError(w, "invalid limit", http.StatusBadRequest)
			return
		}
		filter.Limit = n
	}

	jobs, err := h.store.ListJobs(r.Context(), filter)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if jobs == nil {
		jobs = []shevcore.Job{}
	}
	h.respondJSON(w, http.StatusOK, jobs)
}

// GetJob handles GET /jobs/{id}.
func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.httpError(w, "invalid job id", http.StatusBadRequest)
		return
	}
	job, err := h.store.GetJob(r.Context(), id)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, job)
}

// CancelJob handles POST /jobs/{id}/cancel.
func (h *Handlers) CancelJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.httpError(w, "invalid job id", http.StatusBadRequest)
		return
	}
	h.registry.Cancel(id)
	h.respondJSON(w, http.StatusOK, api.MessageResponse{Message: "cancellation requested"})
}
