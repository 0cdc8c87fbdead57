package httpapi

import (
	"net/http"

	"shev/internal/shevcore"
	"shev/pkg/api"
)

// GetStatus handles GET /status.
func (h *Handlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.CountJobsByStatus(r.Context())
	if err != nil {
		h.writeErr(w, err)
		return
	}

	resp := api.StatusResponse{
		PendingJobs:   counts[shevcore.JobPending],
		RunningJobs:   counts[shevcore.JobRunning],
		CompletedJobs: counts[shevcore.JobCompleted],
		FailedJobs:    counts[shevcore.JobFailed],
	}
	for _, n := range counts {
		resp.TotalJobs += n
	}
	h.respondJSON(w, http.StatusOK, resp)
}
