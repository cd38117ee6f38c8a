package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Sam9733/docsnap"
)

// Compile-time interface verification.
var _ docsnap.SnapshotService = (*SnapshotService)(nil)

// SnapshotService implements docsnap.SnapshotService using SQLite.
// Each row holds one source's snapshot at one stage, with the pages
// encoded as a JSON array in the body column.
type SnapshotService struct {
	db *DB

	// Now stamps updated_at. Defaults to time.Now.
	Now func() time.Time
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(db *DB) *SnapshotService {
	return &SnapshotService{db: db, Now: time.Now}
}

// FindSnapshot retrieves the snapshot of a source at a stage.
func (s *SnapshotService) FindSnapshot(ctx context.Context, stage docsnap.Stage, sourceID string) (*docsnap.Snapshot, error) {
	if !stage.Valid() {
		return nil, docsnap.Errorf(docsnap.EINVALID, "unknown stage %q", stage)
	}

	var (
		snap       = docsnap.Snapshot{SourceID: sourceID}
		body       string
		capturedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT root_url, body, captured_at
		FROM snapshots
		WHERE stage = ? AND source_id = ?
	`, string(stage), sourceID).Scan(&snap.RootURL, &body, &capturedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, docsnap.Errorf(docsnap.ENOTFOUND, "%s snapshot of %q not found", stage, sourceID)
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(body), &snap.Pages); err != nil {
		return nil, fmt.Errorf("failed to decode pages of %q: %w", sourceID, err)
	}
	if snap.CapturedAt, err = parseTime(capturedAt, "captured_at"); err != nil {
		return nil, err
	}

	return &snap, nil
}

// UpsertSnapshot inserts or replaces the snapshot of snap.SourceID at a stage.
func (s *SnapshotService) UpsertSnapshot(ctx context.Context, stage docsnap.Stage, snap *docsnap.Snapshot) error {
	if !stage.Valid() {
		return docsnap.Errorf(docsnap.EINVALID, "unknown stage %q", stage)
	}
	if err := snap.Validate(); err != nil {
		return err
	}

	pages := snap.Pages
	if pages == nil {
		pages = []docsnap.PageRecord{}
	}
	body, err := json.Marshal(pages)
	if err != nil {
		return fmt.Errorf("failed to encode pages of %q: %w", snap.SourceID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (stage, source_id, root_url, body, page_count, captured_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (stage, source_id) DO UPDATE SET
			root_url = excluded.root_url,
			body = excluded.body,
			page_count = excluded.page_count,
			captured_at = excluded.captured_at,
			updated_at = excluded.updated_at
	`, string(stage), snap.SourceID, snap.RootURL, string(body), len(pages),
		formatTime(snap.CapturedAt), formatTime(s.now()))

	return err
}

// DeleteSnapshots removes the snapshots of the given sources at a stage.
func (s *SnapshotService) DeleteSnapshots(ctx context.Context, stage docsnap.Stage, sourceIDs []string) error {
	if !stage.Valid() {
		return docsnap.Errorf(docsnap.EINVALID, "unknown stage %q", stage)
	}
	if len(sourceIDs) == 0 {
		return nil
	}

	args := make([]any, 0, len(sourceIDs)+1)
	args = append(args, string(stage))
	for _, id := range sourceIDs {
		args = append(args, id)
	}

	query := "DELETE FROM snapshots WHERE stage = ? AND source_id IN (?" +
		strings.Repeat(", ?", len(sourceIDs)-1) + ")"
	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}

// PromoteSnapshots copies every listed staging snapshot into production and
// deletes the staging rows in a single transaction. If any staging snapshot
// is missing the transaction is rolled back and production is untouched.
func (s *SnapshotService) PromoteSnapshots(ctx context.Context, sourceIDs []string) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin promotion: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	updatedAt := formatTime(s.now())
	for _, id := range sourceIDs {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO snapshots (stage, source_id, root_url, body, page_count, captured_at, updated_at)
			SELECT 'production', source_id, root_url, body, page_count, captured_at, ?
			FROM snapshots
			WHERE stage = 'staging' AND source_id = ?
			ON CONFLICT (stage, source_id) DO UPDATE SET
				root_url = excluded.root_url,
				body = excluded.body,
				page_count = excluded.page_count,
				captured_at = excluded.captured_at,
				updated_at = excluded.updated_at
		`, updatedAt, id)
		if err != nil {
			return fmt.Errorf("failed to promote %q: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return docsnap.Errorf(docsnap.ENOTFOUND, "staging snapshot of %q not found", id)
		}

		if _, err := tx.ExecContext(ctx, `
			DELETE FROM snapshots WHERE stage = 'staging' AND source_id = ?
		`, id); err != nil {
			return fmt.Errorf("failed to clear staging of %q: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit promotion: %w", err)
	}
	return nil
}

func (s *SnapshotService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
