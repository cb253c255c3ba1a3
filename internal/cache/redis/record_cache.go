package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/tickbot/internal/domain"
)

// Key schema:
//
//	ticks:recent  - capped list of recent record envelopes, newest first
//	ticks:latest  - the most recent record envelope
const (
	recentKey = "ticks:recent"
	latestKey = "ticks:latest"
)

// RecordCache implements domain.RecordCache using a capped Redis list plus a
// latest-record key. It only mirrors what the engine already emitted; the
// engine never reads its own state back out of it.
type RecordCache struct {
	rdb   *redis.Client
	limit int64
}

// envelope is the cached form of a StoredTick. The record JSON is kept
// verbatim as a raw message.
type envelope struct {
	ID        string          `json:"id"`
	RunID     string          `json:"run_id"`
	TickNo    int64           `json:"tick_no"`
	Timestamp int64           `json:"ts"`
	Symbols   int             `json:"symbols"`
	Record    json.RawMessage `json:"record"`
}

// NewRecordCache creates a RecordCache that keeps at most limit recent
// records.
func NewRecordCache(c *Client, limit int) *RecordCache {
	if limit <= 0 {
		limit = 200
	}
	return &RecordCache{rdb: c.Underlying(), limit: int64(limit)}
}

// Push stores a record as the latest and prepends it to the capped recent
// list.
func (rc *RecordCache) Push(ctx context.Context, tick domain.StoredTick) error {
	data, err := json.Marshal(envelope{
		ID:        tick.ID,
		RunID:     tick.RunID,
		TickNo:    tick.TickNo,
		Timestamp: tick.Timestamp,
		Symbols:   tick.Symbols,
		Record:    tick.Record,
	})
	if err != nil {
		return fmt.Errorf("redis: marshal tick record: %w", err)
	}

	pipe := rc.rdb.TxPipeline()
	pipe.LPush(ctx, recentKey, data)
	pipe.LTrim(ctx, recentKey, 0, rc.limit-1)
	pipe.Set(ctx, latestKey, data, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: push tick record: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (rc *RecordCache) Recent(ctx context.Context, limit int) ([]domain.StoredTick, error) {
	if limit <= 0 || int64(limit) > rc.limit {
		limit = int(rc.limit)
	}

	vals, err := rc.rdb.LRange(ctx, recentKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: recent tick records: %w", err)
	}

	out := make([]domain.StoredTick, 0, len(vals))
	for _, v := range vals {
		var env envelope
		if err := json.Unmarshal([]byte(v), &env); err != nil {
			continue
		}
		out = append(out, env.stored())
	}
	return out, nil
}

// Latest returns the most recently pushed record, or domain.ErrNotFound when
// nothing has been pushed yet.
func (rc *RecordCache) Latest(ctx context.Context) (domain.StoredTick, error) {
	v, err := rc.rdb.Get(ctx, latestKey).Result()
	if err == redis.Nil {
		return domain.StoredTick{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.StoredTick{}, fmt.Errorf("redis: latest tick record: %w", err)
	}

	var env envelope
	if err := json.Unmarshal([]byte(v), &env); err != nil {
		return domain.StoredTick{}, fmt.Errorf("redis: decode latest tick record: %w", err)
	}
	return env.stored(), nil
}

func (e envelope) stored() domain.StoredTick {
	return domain.StoredTick{
		ID:        e.ID,
		RunID:     e.RunID,
		TickNo:    e.TickNo,
		Timestamp: e.Timestamp,
		Symbols:   e.Symbols,
		Record:    []byte(e.Record),
	}
}
