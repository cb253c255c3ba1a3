package domain

import (
	"context"
	"io"
	"time"
)

// TickStore persists tick records for offline replay.
type TickStore interface {
	// InsertBatch writes records, silently skipping duplicates of the same
	// (run_id, tick_no).
	InsertBatch(ctx context.Context, ticks []StoredTick) error

	// ListByRun returns all records for a run ordered by tick number.
	ListByRun(ctx context.Context, runID string) ([]StoredTick, error)

	// ListBefore returns all records created strictly before the cutoff.
	ListBefore(ctx context.Context, before time.Time) ([]StoredTick, error)

	// DeleteBefore removes records created strictly before the cutoff and
	// returns the number deleted.
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// RecordCache mirrors the most recent tick records for the status API. It is
// strictly observational: the engine never reads its own state back from it.
type RecordCache interface {
	Push(ctx context.Context, tick StoredTick) error
	Recent(ctx context.Context, limit int) ([]StoredTick, error)
	Latest(ctx context.Context) (StoredTick, error)
}

// BlobWriter uploads an object to blob storage.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
}

// Archiver moves old tick records out of the primary store into blob storage.
type Archiver interface {
	// ArchiveTicks uploads all records created before the cutoff and returns
	// the number archived. It does not delete from the primary store; that is
	// a separate step once the archive is verified.
	ArchiveTicks(ctx context.Context, before time.Time) (int64, error)
}
