package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/Sam9733/docsnap"
)

// Ensure LoggingSnapshotService implements docsnap.SnapshotService.
var _ docsnap.SnapshotService = (*LoggingSnapshotService)(nil)

// LoggingSnapshotService wraps a SnapshotService with logging. Promotions
// are logged at info level. Reads and staging writes happen once per batch
// and are logged at debug level. Failed writes are logged at error level.
type LoggingSnapshotService struct {
	next   docsnap.SnapshotService
	logger *slog.Logger
}

// NewLoggingSnapshotService creates a new LoggingSnapshotService.
func NewLoggingSnapshotService(next docsnap.SnapshotService, logger *slog.Logger) *LoggingSnapshotService {
	return &LoggingSnapshotService{next: next, logger: logger}
}

// FindSnapshot logs the lookup and the number of pages found.
func (s *LoggingSnapshotService) FindSnapshot(ctx context.Context, stage docsnap.Stage, sourceID string) (snap *docsnap.Snapshot, err error) {
	defer func(begin time.Time) {
		pages := 0
		if snap != nil {
			pages = len(snap.Pages)
		}
		s.logger.DebugContext(ctx, "find snapshot",
			"stage", stage,
			"source", sourceID,
			"pages", pages,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindSnapshot(ctx, stage, sourceID)
}

// UpsertSnapshot logs the write with its page count.
func (s *LoggingSnapshotService) UpsertSnapshot(ctx context.Context, stage docsnap.Stage, snap *docsnap.Snapshot) (err error) {
	defer func(begin time.Time) {
		s.logger.Log(ctx, level(slog.LevelDebug, err), "upsert snapshot",
			"stage", stage,
			"source", snap.SourceID,
			"pages", len(snap.Pages),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.UpsertSnapshot(ctx, stage, snap)
}

// DeleteSnapshots logs the removal.
func (s *LoggingSnapshotService) DeleteSnapshots(ctx context.Context, stage docsnap.Stage, sourceIDs []string) (err error) {
	defer func(begin time.Time) {
		s.logger.Log(ctx, level(slog.LevelDebug, err), "delete snapshots",
			"stage", stage,
			"sources", sourceIDs,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteSnapshots(ctx, stage, sourceIDs)
}

// PromoteSnapshots logs the promotion.
func (s *LoggingSnapshotService) PromoteSnapshots(ctx context.Context, sourceIDs []string) (err error) {
	defer func(begin time.Time) {
		s.logger.Log(ctx, level(slog.LevelInfo, err), "promote snapshots",
			"sources", sourceIDs,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.PromoteSnapshots(ctx, sourceIDs)
}

// level returns ok, or error level if err is set.
func level(ok slog.Level, err error) slog.Level {
	if err != nil {
		return slog.LevelError
	}
	return ok
}
