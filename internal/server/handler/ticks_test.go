package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/tickbot/internal/domain"
)

type fakeCache struct {
	ticks  []domain.StoredTick
	gotLim int
}

func (f *fakeCache) Push(context.Context, domain.StoredTick) error { return nil }

func (f *fakeCache) Recent(_ context.Context, limit int) ([]domain.StoredTick, error) {
	f.gotLim = limit
	if limit > len(f.ticks) {
		limit = len(f.ticks)
	}
	return f.ticks[:limit], nil
}

func (f *fakeCache) Latest(context.Context) (domain.StoredTick, error) {
	if len(f.ticks) == 0 {
		return domain.StoredTick{}, domain.ErrNotFound
	}
	return f.ticks[0], nil
}

func storedTick(n int64) domain.StoredTick {
	return domain.StoredTick{
		ID:        "id",
		RunID:     "run-1",
		TickNo:    n,
		Timestamp: n * 100,
		Symbols:   2,
		Record:    []byte(`[[],[],0,"",""]`),
		CreatedAt: time.Unix(1700000000, 0).UTC(),
	}
}

func TestTicksHandleRecent(t *testing.T) {
	t.Run("returns cached ticks", func(t *testing.T) {
		cache := &fakeCache{ticks: []domain.StoredTick{storedTick(2), storedTick(1)}}
		h := NewTicks(cache)

		rec := httptest.NewRecorder()
		h.HandleRecent(rec, httptest.NewRequest(http.MethodGet, "/api/ticks/recent", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Count int        `json:"count"`
			Ticks []tickItem `json:"ticks"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 2, body.Count)
		assert.Equal(t, int64(2), body.Ticks[0].TickNo)
		assert.Equal(t, defaultRecentLimit, cache.gotLim)
	})

	t.Run("honors the limit parameter", func(t *testing.T) {
		cache := &fakeCache{ticks: []domain.StoredTick{storedTick(1)}}
		h := NewTicks(cache)

		rec := httptest.NewRecorder()
		h.HandleRecent(rec, httptest.NewRequest(http.MethodGet, "/api/ticks/recent?limit=5", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 5, cache.gotLim)
	})

	t.Run("caps the limit", func(t *testing.T) {
		cache := &fakeCache{}
		h := NewTicks(cache)

		rec := httptest.NewRecorder()
		h.HandleRecent(rec, httptest.NewRequest(http.MethodGet, "/api/ticks/recent?limit=100000", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, maxRecentLimit, cache.gotLim)
	})

	t.Run("rejects a bad limit", func(t *testing.T) {
		h := NewTicks(&fakeCache{})

		rec := httptest.NewRecorder()
		h.HandleRecent(rec, httptest.NewRequest(http.MethodGet, "/api/ticks/recent?limit=zero", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTicksHandleLatest(t *testing.T) {
	t.Run("returns the latest tick", func(t *testing.T) {
		cache := &fakeCache{ticks: []domain.StoredTick{storedTick(7)}}
		h := NewTicks(cache)

		rec := httptest.NewRecorder()
		h.HandleLatest(rec, httptest.NewRequest(http.MethodGet, "/api/ticks/latest", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var item tickItem
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
		assert.Equal(t, int64(7), item.TickNo)
	})

	t.Run("404 when nothing processed yet", func(t *testing.T) {
		h := NewTicks(&fakeCache{})

		rec := httptest.NewRecorder()
		h.HandleLatest(rec, httptest.NewRequest(http.MethodGet, "/api/ticks/latest", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
