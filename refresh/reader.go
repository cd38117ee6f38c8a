package refresh

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/Sam9733/docsnap"
)

var _ docsnap.SnapshotReader = (*Reader)(nil)

// Reader serves production snapshots and reacts to stale ones according to
// its staleness policy. Reads never wait for a refresh.
type Reader struct {
	Snapshots docsnap.SnapshotService
	Refresher docsnap.Refresher
	Policy    docsnap.StalenessPolicy

	// Now is compared against capture times. Defaults to time.Now.
	Now func() time.Time

	Logger *slog.Logger
}

// GetSnapshot returns the production snapshot of a source.
func (r *Reader) GetSnapshot(ctx context.Context, sourceID string) (*docsnap.Snapshot, error) {
	snap, err := r.Snapshots.FindSnapshot(ctx, docsnap.StageProduction, sourceID)
	switch {
	case err == nil:
		r.checkStaleness(ctx, sourceID, snap.CapturedAt)
	case docsnap.ErrorCode(err) == docsnap.ENOTFOUND:
		r.checkStaleness(ctx, sourceID, time.Time{})
	}
	return snap, err
}

// Status returns the refresher's current state.
func (r *Reader) Status() docsnap.RefreshStatus {
	return r.Refresher.Status()
}

// TriggerRefresh asks the refresher to start a refresh.
func (r *Reader) TriggerRefresh(ctx context.Context) docsnap.TriggerResult {
	return r.Refresher.Trigger(ctx)
}

func (r *Reader) checkStaleness(ctx context.Context, sourceID string, capturedAt time.Time) {
	now := r.now()
	if !r.Policy.IsStale(capturedAt, now) {
		return
	}

	logger := r.logger().With("source", sourceID)
	if !capturedAt.IsZero() {
		logger = logger.With("age", now.Sub(capturedAt).Round(time.Second))
	}

	switch r.Policy.Mode {
	case docsnap.StalenessWarn:
		logger.Warn("snapshot is stale")
	case docsnap.StalenessTrigger:
		res := r.Refresher.Trigger(ctx)
		logger.Info("stale snapshot, refresh requested", "accepted", res.Accepted)
	}
}

func (r *Reader) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r *Reader) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r.Logger
}
