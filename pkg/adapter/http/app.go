package http

import (
	"net/http"

	"filevault/internal/logger"
)

// statusBody reports store liveness. The field names date back to the
// original deployment's Redis/Mongo pair and are kept as the wire
// contract for the session and metadata stores respectively.
type statusBody struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}

type statsBody struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

// getStatus handles GET /status. Always 200; the booleans carry the
// health verdicts.
func (h *handlers) getStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionsUp := true
	if err := h.reg.Sessions().Healthcheck(ctx); err != nil {
		logger.Warn("Session store healthcheck failed: %v", err)
		sessionsUp = false
	}

	metadataUp := true
	if err := h.reg.Metadata().Healthcheck(ctx); err != nil {
		logger.Warn("Metadata store healthcheck failed: %v", err)
		metadataUp = false
	}

	writeJSON(w, http.StatusOK, statusBody{Redis: sessionsUp, DB: metadataUp})
}

// getStats handles GET /stats.
func (h *handlers) getStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.reg.Metadata().CountUsers(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	files, err := h.reg.Metadata().CountFiles(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statsBody{Users: users, Files: files})
}
