package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/Sam9733/docsnap"
	main "github.com/Sam9733/docsnap/cmd/docsnap"
	"github.com/Sam9733/docsnap/crawl"
	"github.com/Sam9733/docsnap/mock"
	"github.com/Sam9733/docsnap/refresh"
	"github.com/stretchr/testify/require"
)

// committerFunc adapts a function to refresh.Committer.
type committerFunc func(ctx context.Context) ([]*crawl.Result, error)

func (f committerFunc) Commit(ctx context.Context) ([]*crawl.Result, error) {
	return f(ctx)
}

// testDeps holds command dependencies backed by an in-memory store.
type testDeps struct {
	*main.Dependencies
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	store  *mock.MemorySnapshots
}

func newTestDeps(t *testing.T, commit committerFunc) *testDeps {
	t.Helper()

	cfg := docsnap.DefaultConfig()
	cfg.Sources = []docsnap.Source{{
		ID:              "docs",
		RootURL:         "https://example.test/docs",
		MaxPages:        docsnap.DefaultMaxPages,
		MaxLinksPerPage: docsnap.DefaultMaxLinksPerPage,
		BatchSize:       docsnap.DefaultBatchSize,
	}}

	if commit == nil {
		commit = func(context.Context) ([]*crawl.Result, error) { return nil, nil }
	}
	store := mock.NewMemorySnapshots()
	refresher := refresh.NewRefresher(commit, nil)

	d := &testDeps{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		store:  store,
	}
	d.Dependencies = &main.Dependencies{
		Ctx:       context.Background(),
		Stdout:    d.stdout,
		Stderr:    d.stderr,
		Config:    cfg,
		Snapshots: store,
		Refresher: refresher,
		Reader: &refresh.Reader{
			Snapshots: store,
			Refresher: refresher,
			Policy:    cfg.Staleness,
		},
	}
	return d
}

// promote stores snap as the production snapshot.
func (d *testDeps) promote(t *testing.T, snap *docsnap.Snapshot) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, d.store.UpsertSnapshot(ctx, docsnap.StageStaging, snap))
	require.NoError(t, d.store.PromoteSnapshots(ctx, []string{snap.SourceID}))
}

func freshSnapshot() *docsnap.Snapshot {
	return &docsnap.Snapshot{
		SourceID:   "docs",
		RootURL:    "https://example.test/docs",
		CapturedAt: time.Now().Add(-time.Minute),
		Pages: []docsnap.PageRecord{
			{URL: "https://example.test/docs", Title: "Home", Body: "Welcome."},
			{URL: "https://example.test/docs/guide", Title: "Guide", Body: "How to."},
		},
	}
}
