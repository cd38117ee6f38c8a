package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Sam9733/docsnap"
	"github.com/google/uuid"
)

// Ensure SnapshotStore implements docsnap.SnapshotService at compile time.
var _ docsnap.SnapshotService = (*SnapshotStore)(nil)

// Layout of a store directory.
const (
	stagingDir     = "staging"
	generationsDir = "generations"
	currentFile    = "CURRENT"
)

// SnapshotStore implements docsnap.SnapshotService on a directory tree:
//
//	staging/<source>.json
//	generations/<uuid>/<source>.json
//	CURRENT
//
// CURRENT names the production generation. Promotion builds a new
// generation and swaps CURRENT with a single rename, so production
// changes all at once or not at all.
type SnapshotStore struct {
	dir string

	// mu serializes promotion against reads of the production generation.
	mu sync.RWMutex
}

// NewSnapshotStore creates a store rooted at dir. The directory is created
// on first write.
func NewSnapshotStore(dir string) *SnapshotStore {
	return &SnapshotStore{dir: dir}
}

func (s *SnapshotStore) stagingPath(sourceID string) string {
	return filepath.Join(s.dir, stagingDir, sourceID+".json")
}

func (s *SnapshotStore) generationPath(gen string) string {
	return filepath.Join(s.dir, generationsDir, gen)
}

// currentGeneration returns the production generation, or "" if nothing
// has been promoted yet.
func (s *SnapshotStore) currentGeneration() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, currentFile))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *SnapshotStore) path(stage docsnap.Stage, sourceID string) (string, error) {
	switch stage {
	case docsnap.StageStaging:
		return s.stagingPath(sourceID), nil
	case docsnap.StageProduction:
		gen, err := s.currentGeneration()
		if err != nil || gen == "" {
			return "", err
		}
		return filepath.Join(s.generationPath(gen), sourceID+".json"), nil
	default:
		return "", docsnap.Errorf(docsnap.EINVALID, "unknown stage %q", stage)
	}
}

func validSourceID(id string) error {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return docsnap.Errorf(docsnap.EINVALID, "invalid source ID %q", id)
	}
	return nil
}

// FindSnapshot retrieves the snapshot of a source at a stage.
func (s *SnapshotStore) FindSnapshot(ctx context.Context, stage docsnap.Stage, sourceID string) (*docsnap.Snapshot, error) {
	if err := validSourceID(sourceID); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	path, err := s.path(stage, sourceID)
	if err != nil {
		return nil, err
	}
	notFound := docsnap.Errorf(docsnap.ENOTFOUND, "%s snapshot of %q not found", stage, sourceID)
	if path == "" {
		return nil, notFound
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && stage == docsnap.StageProduction {
		// A store in another process may have promoted and pruned the
		// generation that path was resolved against.
		if again, perr := s.path(stage, sourceID); perr == nil && again != "" && again != path {
			path = again
			data, err = os.ReadFile(path)
		}
	}
	if errors.Is(err, os.ErrNotExist) {
		return nil, notFound
	}
	if err != nil {
		return nil, err
	}

	var snap docsnap.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &snap, nil
}

// UpsertSnapshot writes the snapshot of snap.SourceID at a stage.
// Production snapshots are only written through PromoteSnapshots.
func (s *SnapshotStore) UpsertSnapshot(ctx context.Context, stage docsnap.Stage, snap *docsnap.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	if err := validSourceID(snap.SourceID); err != nil {
		return err
	}
	if stage != docsnap.StageStaging {
		return docsnap.Errorf(docsnap.EINVALID, "only staging snapshots can be written directly")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot of %q: %w", snap.SourceID, err)
	}
	return writeFileAtomic(s.stagingPath(snap.SourceID), data)
}

// DeleteSnapshots removes the staging snapshots of the given sources.
func (s *SnapshotStore) DeleteSnapshots(ctx context.Context, stage docsnap.Stage, sourceIDs []string) error {
	if stage != docsnap.StageStaging {
		return docsnap.Errorf(docsnap.EINVALID, "only staging snapshots can be deleted")
	}
	for _, id := range sourceIDs {
		if err := validSourceID(id); err != nil {
			return err
		}
		if err := os.Remove(s.stagingPath(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// PromoteSnapshots builds a new production generation from the current one
// overlaid with the listed staging snapshots, then points CURRENT at it.
func (s *SnapshotStore) PromoteSnapshots(ctx context.Context, sourceIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range sourceIDs {
		if err := validSourceID(id); err != nil {
			return err
		}
		ok, err := exists(s.stagingPath(id))
		if err != nil {
			return err
		}
		if !ok {
			return docsnap.Errorf(docsnap.ENOTFOUND, "staging snapshot of %q not found", id)
		}
	}

	oldGen, err := s.currentGeneration()
	if err != nil {
		return err
	}
	if err := s.pruneGenerations(oldGen); err != nil {
		return err
	}
	newGen := uuid.New().String()
	newDir := s.generationPath(newGen)

	if err := s.buildGeneration(ctx, oldGen, newDir, sourceIDs); err != nil {
		os.RemoveAll(newDir)
		return err
	}

	if err := writeFileAtomic(filepath.Join(s.dir, currentFile), []byte(newGen+"\n")); err != nil {
		os.RemoveAll(newDir)
		return fmt.Errorf("failed to switch production generation: %w", err)
	}

	// oldGen stays readable until the next promotion prunes it.
	for _, id := range sourceIDs {
		os.Remove(s.stagingPath(id))
	}
	return nil
}

// pruneGenerations removes every generation directory except keep.
func (s *SnapshotStore) pruneGenerations(keep string) error {
	entries, err := os.ReadDir(filepath.Join(s.dir, generationsDir))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() || e.Name() == keep {
			continue
		}
		if err := os.RemoveAll(s.generationPath(e.Name())); err != nil {
			return fmt.Errorf("failed to prune generation %s: %w", e.Name(), err)
		}
	}
	return nil
}

func (s *SnapshotStore) buildGeneration(ctx context.Context, oldGen, newDir string, sourceIDs []string) error {
	if err := os.MkdirAll(newDir, 0755); err != nil {
		return err
	}

	if oldGen != "" {
		entries, err := os.ReadDir(s.generationPath(oldGen))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
				continue
			}
			if err := copyFile(filepath.Join(s.generationPath(oldGen), e.Name()), filepath.Join(newDir, e.Name())); err != nil {
				return err
			}
		}
	}

	for _, id := range sourceIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := copyFile(s.stagingPath(id), filepath.Join(newDir, id+".json")); err != nil {
			return err
		}
	}
	return nil
}
