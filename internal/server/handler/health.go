package handler

import (
	"net/http"
	"time"
)

// Health responds to liveness probes.
type Health struct {
	started time.Time
}

// NewHealth creates a health handler anchored at the current time.
func NewHealth() *Health {
	return &Health{started: time.Now()}
}

// Handle reports process liveness and uptime.
func (h *Health) Handle(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	})
}
