package docsnap

import (
	"context"
	"time"
)

// Stage identifies which copy of a source's snapshot a record holds.
type Stage string

// Snapshot stages.
const (
	// StageStaging holds the snapshot being built by the current refresh.
	StageStaging Stage = "staging"
	// StageProduction holds the last complete snapshot. Readers only see this one.
	StageProduction Stage = "production"
)

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	return s == StageStaging || s == StageProduction
}

// Snapshot is the full crawl result for one source.
type Snapshot struct {
	SourceID   string       `json:"sourceId"`
	RootURL    string       `json:"rootUrl"`
	Pages      []PageRecord `json:"pages"`
	CapturedAt time.Time    `json:"capturedAt"`
}

// Validate returns an error if the snapshot contains invalid fields.
func (s *Snapshot) Validate() error {
	if s.SourceID == "" {
		return Errorf(EINVALID, "snapshot source ID required")
	}
	return nil
}

// Age returns how long ago the snapshot was captured.
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.CapturedAt)
}

// SnapshotService persists snapshots keyed by stage and source ID.
type SnapshotService interface {
	// FindSnapshot retrieves the snapshot of a source at a stage.
	// Returns ENOTFOUND if no such snapshot exists.
	FindSnapshot(ctx context.Context, stage Stage, sourceID string) (*Snapshot, error)

	// UpsertSnapshot inserts or replaces the snapshot of snap.SourceID at a stage.
	UpsertSnapshot(ctx context.Context, stage Stage, snap *Snapshot) error

	// DeleteSnapshots removes the snapshots of the given sources at a stage.
	// Missing snapshots are ignored.
	DeleteSnapshots(ctx context.Context, stage Stage, sourceIDs []string) error

	// PromoteSnapshots copies the staging snapshot of every listed source into
	// production and deletes the staging records, all-or-nothing.
	// Returns ENOTFOUND, and changes nothing, if any staging snapshot is missing.
	PromoteSnapshots(ctx context.Context, sourceIDs []string) error
}

// SnapshotReader is the read path used by the chat and response layer.
type SnapshotReader interface {
	// GetSnapshot returns the production snapshot of a source.
	// Its CapturedAt is the source's last update time.
	// Returns ENOTFOUND if the source has never been refreshed.
	GetSnapshot(ctx context.Context, sourceID string) (*Snapshot, error)
}
