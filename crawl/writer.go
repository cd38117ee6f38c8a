package crawl

import (
	"context"
	"fmt"
	"time"

	"github.com/Sam9733/docsnap"
)

var _ docsnap.PageWriter = (*BatchWriter)(nil)

// BatchWriter buffers a source's pages and merges them into the source's
// staging snapshot every BatchSize pages, so a long crawl is persisted as it
// goes rather than held in memory until the end.
//
// A BatchWriter belongs to one crawl of one source and is not safe for
// concurrent use.
type BatchWriter struct {
	Snapshots docsnap.SnapshotService
	Source    docsnap.Source

	// Now stamps the snapshot's capture time. Defaults to time.Now.
	Now func() time.Time

	buf     []docsnap.PageRecord
	flushed int
}

// NewBatchWriter returns a writer staging pages of src into snapshots.
func NewBatchWriter(snapshots docsnap.SnapshotService, src docsnap.Source) *BatchWriter {
	return &BatchWriter{
		Snapshots: snapshots,
		Source:    src,
		buf:       make([]docsnap.PageRecord, 0, max(src.BatchSize, 1)),
	}
}

// Append buffers page and persists the buffer once it holds BatchSize pages.
func (w *BatchWriter) Append(ctx context.Context, page docsnap.PageRecord) error {
	w.buf = append(w.buf, page)
	if len(w.buf) >= max(w.Source.BatchSize, 1) {
		return w.persist(ctx)
	}
	return nil
}

// Flush persists any buffered pages. The capture time is stamped even when
// the buffer is empty so it reflects when the crawl completed.
func (w *BatchWriter) Flush(ctx context.Context) error {
	if len(w.buf) == 0 && w.flushed == 0 {
		return nil
	}
	return w.persist(ctx)
}

// Flushed returns the number of pages persisted so far.
func (w *BatchWriter) Flushed() int {
	return w.flushed
}

// persist merges the buffer into the staging snapshot and clears it.
func (w *BatchWriter) persist(ctx context.Context) error {
	snap, err := w.Snapshots.FindSnapshot(ctx, docsnap.StageStaging, w.Source.ID)
	if docsnap.ErrorCode(err) == docsnap.ENOTFOUND {
		snap = &docsnap.Snapshot{SourceID: w.Source.ID, RootURL: w.Source.RootURL}
	} else if err != nil {
		return fmt.Errorf("read staging snapshot: %w", err)
	}

	snap.Pages = append(snap.Pages, w.buf...)
	snap.CapturedAt = w.now().UTC()

	if err := w.Snapshots.UpsertSnapshot(ctx, docsnap.StageStaging, snap); err != nil {
		return fmt.Errorf("write staging snapshot: %w", err)
	}

	w.flushed += len(w.buf)
	w.buf = w.buf[:0]
	return nil
}

func (w *BatchWriter) now() time.Time {
	if w.Now == nil {
		return time.Now()
	}
	return w.Now()
}
