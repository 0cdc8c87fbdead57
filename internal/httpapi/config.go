package httpapi

import (
	"encoding/json"
	"net/http"

	"shev/pkg/api"
)

// GetConfig handles GET /config.
func (h *Handlers) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.store.AllConfig(r.Context())
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, cfg)
}

// SetConfig handles PUT /config/{key}.
func (h *Handlers) SetConfig(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		h.httpError(w, "config key is required", http.StatusBadRequest)
		return
	}

	var req api.SetConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.store.SetConfig(r.Context(), key, req.Value); err != nil {
		h.writeErr(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, api.MessageResponse{Message: "config updated, effective on next restart"})
}
