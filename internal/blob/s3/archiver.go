package s3blob

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/alanyoungcy/tickbot/internal/domain"
)

// TickArchiveStore provides the read access the archiver needs. The tick
// store satisfies it; the archiver does not need the full domain.TickStore.
type TickArchiveStore interface {
	ListBefore(ctx context.Context, before time.Time) ([]domain.StoredTick, error)
}

// ArchiveImpl implements domain.Archiver by querying the tick store for old
// records, serializing them to NDJSON grouped by run, and uploading each
// group to archive/ticks/<run>/<cutoff>.ndjson.
//
// Deletion of the archived records from the primary store is intentionally
// NOT performed here; that is a separate, explicit step after the archive
// has been verified.
type ArchiveImpl struct {
	writer domain.BlobWriter
	ticks  TickArchiveStore
}

// NewArchiver creates a new ArchiveImpl.
func NewArchiver(writer domain.BlobWriter, ticks TickArchiveStore) *ArchiveImpl {
	return &ArchiveImpl{
		writer: writer,
		ticks:  ticks,
	}
}

// ArchiveTicks uploads all tick records created before the cutoff and returns
// the number archived. Records are grouped per run so a replay can fetch one
// object per run.
func (a *ArchiveImpl) ArchiveTicks(ctx context.Context, before time.Time) (int64, error) {
	ticks, err := a.ticks.ListBefore(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("s3blob: list ticks for archive: %w", err)
	}
	if len(ticks) == 0 {
		return 0, nil
	}

	byRun := make(map[string][]domain.StoredTick)
	for _, t := range ticks {
		byRun[t.RunID] = append(byRun[t.RunID], t)
	}

	stamp := before.UTC().Format("2006-01-02T15-04-05")
	var archived int64
	for runID, group := range byRun {
		var buf bytes.Buffer
		for _, t := range group {
			buf.Write(t.Record)
			buf.WriteByte('\n')
		}

		path := fmt.Sprintf("archive/ticks/%s/%s.ndjson", runID, stamp)
		if err := a.writer.Put(ctx, path, &buf, "application/x-ndjson"); err != nil {
			return archived, fmt.Errorf("s3blob: archive run %s: %w", runID, err)
		}
		archived += int64(len(group))
	}

	return archived, nil
}
