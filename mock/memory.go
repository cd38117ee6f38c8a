package mock

import (
	"context"
	"slices"
	"sync"

	"github.com/Sam9733/docsnap"
)

var _ docsnap.SnapshotService = (*MemorySnapshots)(nil)

// MemorySnapshots is an in-memory docsnap.SnapshotService for tests that
// need real storage behavior rather than scripted responses.
type MemorySnapshots struct {
	mu    sync.Mutex
	snaps map[docsnap.Stage]map[string]docsnap.Snapshot
}

// NewMemorySnapshots returns an empty store.
func NewMemorySnapshots() *MemorySnapshots {
	return &MemorySnapshots{snaps: map[docsnap.Stage]map[string]docsnap.Snapshot{
		docsnap.StageStaging:    {},
		docsnap.StageProduction: {},
	}}
}

func (m *MemorySnapshots) FindSnapshot(_ context.Context, stage docsnap.Stage, sourceID string) (*docsnap.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.snaps[stage][sourceID]
	if !ok {
		return nil, docsnap.Errorf(docsnap.ENOTFOUND, "snapshot not found")
	}
	snap.Pages = slices.Clone(snap.Pages)
	return &snap, nil
}

func (m *MemorySnapshots) UpsertSnapshot(_ context.Context, stage docsnap.Stage, snap *docsnap.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *snap
	cp.Pages = slices.Clone(snap.Pages)
	m.snaps[stage][snap.SourceID] = cp
	return nil
}

func (m *MemorySnapshots) DeleteSnapshots(_ context.Context, stage docsnap.Stage, sourceIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range sourceIDs {
		delete(m.snaps[stage], id)
	}
	return nil
}

func (m *MemorySnapshots) PromoteSnapshots(_ context.Context, sourceIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range sourceIDs {
		if _, ok := m.snaps[docsnap.StageStaging][id]; !ok {
			return docsnap.Errorf(docsnap.ENOTFOUND, "staging snapshot %q not found", id)
		}
	}
	for _, id := range sourceIDs {
		m.snaps[docsnap.StageProduction][id] = m.snaps[docsnap.StageStaging][id]
		delete(m.snaps[docsnap.StageStaging], id)
	}
	return nil
}
