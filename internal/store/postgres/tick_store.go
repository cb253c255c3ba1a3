package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyoungcy/tickbot/internal/domain"
)

// TickStore implements domain.TickStore using PostgreSQL.
type TickStore struct {
	pool *pgxpool.Pool
}

// NewTickStore creates a new TickStore backed by the given connection pool.
func NewTickStore(pool *pgxpool.Pool) *TickStore {
	return &TickStore{pool: pool}
}

const tickSelectCols = `id, run_id, tick_no, ts, symbols, record, created_at`

func scanTickRows(rows pgx.Rows) ([]domain.StoredTick, error) {
	var ticks []domain.StoredTick
	for rows.Next() {
		var t domain.StoredTick
		if err := rows.Scan(
			&t.ID, &t.RunID, &t.TickNo, &t.Timestamp,
			&t.Symbols, &t.Record, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		ticks = append(ticks, t)
	}
	return ticks, rows.Err()
}

// InsertBatch inserts multiple tick records efficiently using pgx Batch.
// Duplicates of the same (run_id, tick_no) are silently skipped via
// ON CONFLICT DO NOTHING, so replaying into the same run is idempotent.
func (s *TickStore) InsertBatch(ctx context.Context, ticks []domain.StoredTick) error {
	if len(ticks) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	const query = `
		INSERT INTO ticks (id, run_id, tick_no, ts, symbols, record)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (run_id, tick_no) DO NOTHING`

	for _, t := range ticks {
		batch.Queue(query, t.ID, t.RunID, t.TickNo, t.Timestamp, t.Symbols, t.Record)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := range ticks {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("postgres: insert tick batch item %d: %w", i, err)
		}
	}
	return nil
}

// ListByRun returns all tick records for a run ordered by tick number.
func (s *TickStore) ListByRun(ctx context.Context, runID string) ([]domain.StoredTick, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+tickSelectCols+` FROM ticks WHERE run_id = $1 ORDER BY tick_no ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: list ticks by run %s: %w", runID, err)
	}
	defer rows.Close()

	ticks, err := scanTickRows(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: scan ticks for run %s: %w", runID, err)
	}
	return ticks, nil
}

// ListBefore returns all tick records created strictly before the cutoff,
// oldest first.
func (s *TickStore) ListBefore(ctx context.Context, before time.Time) ([]domain.StoredTick, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+tickSelectCols+` FROM ticks WHERE created_at < $1 ORDER BY created_at ASC`,
		before,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: list ticks before %s: %w", before, err)
	}
	defer rows.Close()

	ticks, err := scanTickRows(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: scan ticks before %s: %w", before, err)
	}
	return ticks, nil
}

// DeleteBefore removes tick records created strictly before the cutoff and
// returns the number deleted.
func (s *TickStore) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM ticks WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("postgres: delete ticks before %s: %w", before, err)
	}
	return tag.RowsAffected(), nil
}
