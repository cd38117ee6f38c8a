package mock

import (
	"context"

	"github.com/Sam9733/docsnap"
)

var _ docsnap.SnapshotService = (*SnapshotService)(nil)

// SnapshotService is a mock implementation of docsnap.SnapshotService.
type SnapshotService struct {
	FindSnapshotFn     func(ctx context.Context, stage docsnap.Stage, sourceID string) (*docsnap.Snapshot, error)
	UpsertSnapshotFn   func(ctx context.Context, stage docsnap.Stage, snap *docsnap.Snapshot) error
	DeleteSnapshotsFn  func(ctx context.Context, stage docsnap.Stage, sourceIDs []string) error
	PromoteSnapshotsFn func(ctx context.Context, sourceIDs []string) error
}

func (s *SnapshotService) FindSnapshot(ctx context.Context, stage docsnap.Stage, sourceID string) (*docsnap.Snapshot, error) {
	return s.FindSnapshotFn(ctx, stage, sourceID)
}

func (s *SnapshotService) UpsertSnapshot(ctx context.Context, stage docsnap.Stage, snap *docsnap.Snapshot) error {
	return s.UpsertSnapshotFn(ctx, stage, snap)
}

func (s *SnapshotService) DeleteSnapshots(ctx context.Context, stage docsnap.Stage, sourceIDs []string) error {
	return s.DeleteSnapshotsFn(ctx, stage, sourceIDs)
}

func (s *SnapshotService) PromoteSnapshots(ctx context.Context, sourceIDs []string) error {
	return s.PromoteSnapshotsFn(ctx, sourceIDs)
}

var _ docsnap.SnapshotReader = (*SnapshotReader)(nil)

// SnapshotReader is a mock implementation of docsnap.SnapshotReader.
type SnapshotReader struct {
	GetSnapshotFn func(ctx context.Context, sourceID string) (*docsnap.Snapshot, error)
}

func (r *SnapshotReader) GetSnapshot(ctx context.Context, sourceID string) (*docsnap.Snapshot, error) {
	return r.GetSnapshotFn(ctx, sourceID)
}
