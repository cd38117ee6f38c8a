package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Sam9733/docsnap"
	"github.com/Sam9733/docsnap/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot(id string, urls ...string) *docsnap.Snapshot {
	snap := &docsnap.Snapshot{
		SourceID:   id,
		RootURL:    "https://example.com/" + id,
		CapturedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	for _, u := range urls {
		snap.Pages = append(snap.Pages, docsnap.PageRecord{URL: u, Title: "T", Body: "Body"})
	}
	return snap
}

func readCurrent(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "CURRENT"))
	require.NoError(t, err)
	return strings.TrimSpace(string(data))
}

func TestSnapshotStore_Staging(t *testing.T) {
	t.Parallel()

	t.Run("round trips a staging snapshot", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := fs.NewSnapshotStore(t.TempDir())
		want := testSnapshot("docs", "https://example.com/docs", "https://example.com/docs/a")

		require.NoError(t, store.UpsertSnapshot(ctx, docsnap.StageStaging, want))

		got, err := store.FindSnapshot(ctx, docsnap.StageStaging, "docs")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("deletes staging snapshots and ignores missing ones", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := fs.NewSnapshotStore(t.TempDir())
		require.NoError(t, store.UpsertSnapshot(ctx, docsnap.StageStaging, testSnapshot("docs")))

		require.NoError(t, store.DeleteSnapshots(ctx, docsnap.StageStaging, []string{"docs", "missing"}))

		_, err := store.FindSnapshot(ctx, docsnap.StageStaging, "docs")
		assert.Equal(t, docsnap.ENOTFOUND, docsnap.ErrorCode(err))
	})

	t.Run("refuses direct production writes", func(t *testing.T) {
		t.Parallel()

		store := fs.NewSnapshotStore(t.TempDir())

		err := store.UpsertSnapshot(context.Background(), docsnap.StageProduction, testSnapshot("docs"))

		assert.Equal(t, docsnap.EINVALID, docsnap.ErrorCode(err))
	})

	t.Run("rejects source IDs that escape the directory", func(t *testing.T) {
		t.Parallel()

		store := fs.NewSnapshotStore(t.TempDir())

		err := store.UpsertSnapshot(context.Background(), docsnap.StageStaging, testSnapshot("../evil"))

		assert.Equal(t, docsnap.EINVALID, docsnap.ErrorCode(err))
	})
}

func TestSnapshotStore_PromoteSnapshots(t *testing.T) {
	t.Parallel()

	t.Run("production is empty before the first promotion", func(t *testing.T) {
		t.Parallel()

		store := fs.NewSnapshotStore(t.TempDir())

		_, err := store.FindSnapshot(context.Background(), docsnap.StageProduction, "docs")

		assert.Equal(t, docsnap.ENOTFOUND, docsnap.ErrorCode(err))
	})

	t.Run("switches production to a new generation", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		dir := t.TempDir()
		store := fs.NewSnapshotStore(dir)
		require.NoError(t, store.UpsertSnapshot(ctx, docsnap.StageStaging, testSnapshot("a", "https://example.com/a/1")))
		require.NoError(t, store.PromoteSnapshots(ctx, []string{"a"}))
		first := readCurrent(t, dir)

		require.NoError(t, store.UpsertSnapshot(ctx, docsnap.StageStaging, testSnapshot("a", "https://example.com/a/2")))
		require.NoError(t, store.PromoteSnapshots(ctx, []string{"a"}))

		second := readCurrent(t, dir)
		assert.NotEqual(t, first, second)

		got, err := store.FindSnapshot(ctx, docsnap.StageProduction, "a")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/a/2", got.Pages[0].URL)

		_, err = store.FindSnapshot(ctx, docsnap.StageStaging, "a")
		assert.Equal(t, docsnap.ENOTFOUND, docsnap.ErrorCode(err))
	})

	t.Run("carries over sources that were not promoted", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := fs.NewSnapshotStore(t.TempDir())
		require.NoError(t, store.UpsertSnapshot(ctx, docsnap.StageStaging, testSnapshot("a", "https://example.com/a")))
		require.NoError(t, store.UpsertSnapshot(ctx, docsnap.StageStaging, testSnapshot("b", "https://example.com/b")))
		require.NoError(t, store.PromoteSnapshots(ctx, []string{"a", "b"}))

		require.NoError(t, store.UpsertSnapshot(ctx, docsnap.StageStaging, testSnapshot("a", "https://example.com/a/new")))
		require.NoError(t, store.PromoteSnapshots(ctx, []string{"a"}))

		b, err := store.FindSnapshot(ctx, docsnap.StageProduction, "b")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/b", b.Pages[0].URL)
	})

	t.Run("missing staging snapshot leaves production untouched", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		dir := t.TempDir()
		store := fs.NewSnapshotStore(dir)
		require.NoError(t, store.UpsertSnapshot(ctx, docsnap.StageStaging, testSnapshot("a", "https://example.com/a/old")))
		require.NoError(t, store.PromoteSnapshots(ctx, []string{"a"}))
		before := readCurrent(t, dir)

		require.NoError(t, store.UpsertSnapshot(ctx, docsnap.StageStaging, testSnapshot("a", "https://example.com/a/new")))
		err := store.PromoteSnapshots(ctx, []string{"a", "b"})

		assert.Equal(t, docsnap.ENOTFOUND, docsnap.ErrorCode(err))
		assert.Equal(t, before, readCurrent(t, dir))
		got, err := store.FindSnapshot(ctx, docsnap.StageProduction, "a")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/a/old", got.Pages[0].URL)

		entries, err := os.ReadDir(filepath.Join(dir, "generations"))
		require.NoError(t, err)
		assert.Len(t, entries, 1, "no partial generation is left behind")
	})

	t.Run("keeps the previous generation until the next promotion", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		dir := t.TempDir()
		store := fs.NewSnapshotStore(dir)

		var gens []string
		for _, u := range []string{"https://example.com/a/1", "https://example.com/a/2", "https://example.com/a/3"} {
			require.NoError(t, store.UpsertSnapshot(ctx, docsnap.StageStaging, testSnapshot("a", u)))
			require.NoError(t, store.PromoteSnapshots(ctx, []string{"a"}))
			gens = append(gens, readCurrent(t, dir))
		}

		_, err := os.Stat(filepath.Join(dir, "generations", gens[0]))
		assert.True(t, os.IsNotExist(err), "older generations are pruned")
		_, err = os.Stat(filepath.Join(dir, "generations", gens[1]))
		assert.NoError(t, err, "previous generation is kept")

		entries, err := os.ReadDir(filepath.Join(dir, "generations"))
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("a second store on the same directory always finds production", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		dir := t.TempDir()
		writer := fs.NewSnapshotStore(dir)
		reader := fs.NewSnapshotStore(dir)

		require.NoError(t, writer.UpsertSnapshot(ctx, docsnap.StageStaging, testSnapshot("a", "https://example.com/a")))
		require.NoError(t, writer.PromoteSnapshots(ctx, []string{"a"}))

		done := make(chan struct{})
		var reads, misses int
		var readErr error
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				_, err := reader.FindSnapshot(ctx, docsnap.StageProduction, "a")
				reads++
				switch {
				case docsnap.ErrorCode(err) == docsnap.ENOTFOUND:
					misses++
				case err != nil && readErr == nil:
					readErr = err
				}
			}
		}()

		for range 200 {
			require.NoError(t, writer.UpsertSnapshot(ctx, docsnap.StageStaging, testSnapshot("a", "https://example.com/a")))
			require.NoError(t, writer.PromoteSnapshots(ctx, []string{"a"}))
		}
		close(done)
		wg.Wait()

		assert.NoError(t, readErr)
		assert.Positive(t, reads)
		assert.Zero(t, misses, "production snapshot went missing during promotion")
	})
}
