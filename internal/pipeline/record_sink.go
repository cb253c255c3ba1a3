// Package pipeline moves tick records from the engine to their sinks: the
// NDJSON stream, the tick store, and the record cache.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alanyoungcy/tickbot/internal/domain"
)

const (
	// flushBatchSize is how many records accumulate before a store write.
	flushBatchSize = 50

	// flushInterval bounds how stale a buffered record can get.
	flushInterval = 5 * time.Second
)

// RecordSink fans one tick record out to every configured sink. The NDJSON
// stream and cache are written per record; store writes are batched. Any sink
// may be nil, in which case it is skipped.
type RecordSink struct {
	runID  string
	store  domain.TickStore
	cache  domain.RecordCache
	out    io.Writer
	logger *slog.Logger

	mu     sync.Mutex
	buf    []domain.StoredTick
	tickNo int64
}

// NewRecordSink creates a sink for one run.
func NewRecordSink(runID string, store domain.TickStore, cache domain.RecordCache, out io.Writer, logger *slog.Logger) *RecordSink {
	return &RecordSink{
		runID:  runID,
		store:  store,
		cache:  cache,
		out:    out,
		logger: logger.With(slog.String("component", "record_sink")),
	}
}

// Record accepts one tick record. The NDJSON line is written immediately;
// cache push failures are logged and do not fail the tick, since the cache is
// strictly observational.
func (s *RecordSink) Record(ctx context.Context, rec domain.TickRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("record sink: marshal: %w", err)
	}

	if s.out != nil {
		if _, err := s.out.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("record sink: write stream: %w", err)
		}
	}

	s.mu.Lock()
	s.tickNo++
	stored := domain.StoredTick{
		ID:        uuid.NewString(),
		RunID:     s.runID,
		TickNo:    s.tickNo,
		Timestamp: rec.Input.Timestamp,
		Symbols:   len(rec.Input.OrderDepths),
		Record:    data,
	}
	var flush []domain.StoredTick
	if s.store != nil {
		s.buf = append(s.buf, stored)
		if len(s.buf) >= flushBatchSize {
			flush = s.buf
			s.buf = nil
		}
	}
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Push(ctx, stored); err != nil {
			s.logger.WarnContext(ctx, "cache push failed",
				slog.Int64("tick_no", stored.TickNo),
				slog.String("error", err.Error()),
			)
		}
	}

	if flush != nil {
		return s.insert(ctx, flush)
	}
	return nil
}

// Run flushes buffered records on an interval until the context is cancelled,
// then drains whatever is left.
func (s *RecordSink) Run(ctx context.Context) error {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// The parent context is gone; give the final flush its own
			// deadline so records buffered at shutdown still land.
			drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := s.Flush(drainCtx)
			cancel()
			if err != nil {
				s.logger.Error("final flush failed", slog.String("error", err.Error()))
			}
			return ctx.Err()
		case <-ticker.C:
			if err := s.Flush(ctx); err != nil {
				s.logger.WarnContext(ctx, "periodic flush failed",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// Flush writes all buffered records to the store.
func (s *RecordSink) Flush(ctx context.Context) error {
	s.mu.Lock()
	flush := s.buf
	s.buf = nil
	s.mu.Unlock()

	if len(flush) == 0 {
		return nil
	}
	return s.insert(ctx, flush)
}

func (s *RecordSink) insert(ctx context.Context, ticks []domain.StoredTick) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.InsertBatch(ctx, ticks); err != nil {
		return fmt.Errorf("record sink: insert batch of %d: %w", len(ticks), err)
	}
	return nil
}
