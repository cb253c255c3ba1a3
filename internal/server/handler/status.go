package handler

import (
	"net/http"
)

// StatusProvider reports the current engine run.
type StatusProvider interface {
	Status() RunStatus
}

// RunStatus is the snapshot returned by the status endpoint.
type RunStatus struct {
	RunID   string   `json:"run_id"`
	Mode    string   `json:"mode"`
	Ticks   int64    `json:"ticks"`
	Symbols []string `json:"symbols"`
}

// Status exposes engine run information.
type Status struct {
	provider StatusProvider
}

// NewStatus creates a status handler backed by the given provider.
func NewStatus(provider StatusProvider) *Status {
	return &Status{provider: provider}
}

// Handle returns the current run status.
func (h *Status) Handle(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.provider.Status())
}
