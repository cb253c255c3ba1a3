package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/alanyoungcy/tickbot/internal/domain"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 200
)

// Ticks serves recently processed tick records out of the cache.
type Ticks struct {
	cache domain.RecordCache
}

// NewTicks creates a ticks handler backed by the given cache.
func NewTicks(cache domain.RecordCache) *Ticks {
	return &Ticks{cache: cache}
}

type tickItem struct {
	RunID     string          `json:"run_id"`
	TickNo    int64           `json:"tick_no"`
	Timestamp int64           `json:"timestamp"`
	Symbols   int             `json:"symbols"`
	Record    json.RawMessage `json:"record"`
	CreatedAt time.Time       `json:"created_at"`
}

// HandleRecent returns the most recent tick records, newest first. The count
// is controlled by the ?limit= query parameter.
func (h *Ticks) HandleRecent(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	ticks, err := h.cache.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read recent ticks")
		return
	}

	items := make([]tickItem, 0, len(ticks))
	for _, t := range ticks {
		items = append(items, toItem(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(items),
		"ticks": items,
	})
}

// HandleLatest returns the single most recent tick record.
func (h *Ticks) HandleLatest(w http.ResponseWriter, r *http.Request) {
	tick, err := h.cache.Latest(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no ticks processed yet")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to read latest tick")
		return
	}
	writeJSON(w, http.StatusOK, toItem(tick))
}

func toItem(t domain.StoredTick) tickItem {
	return tickItem{
		RunID:     t.RunID,
		TickNo:    t.TickNo,
		Timestamp: t.Timestamp,
		Symbols:   t.Symbols,
		Record:    json.RawMessage(t.Record),
		CreatedAt: t.CreatedAt,
	}
}
