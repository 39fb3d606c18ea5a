package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/Varun5711/attendly/internal/logger"
)

const maxCSPReportBytes = 16 << 10

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type SystemHandler struct {
	db  Pinger
	log *logger.Logger
}

// NewSystemHandler builds health and CSP report endpoints. A nil db means
// there is no external store to check.
func NewSystemHandler(db Pinger, log *logger.Logger) *SystemHandler {
	return &SystemHandler{
		db:  db,
		log: log,
	}
}

func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			h.log.Error("Health check failed: %v", err)
			respondJSON(w, h.log, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}

	respondJSON(w, h.log, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *SystemHandler) CSPReport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxCSPReportBytes))
	if err != nil {
		respondError(w, h.log, http.StatusBadRequest, "Invalid report")
		return
	}

	h.log.Warn("CSP violation from %s: %s", r.UserAgent(), body)
	w.WriteHeader(http.StatusNoContent)
}
