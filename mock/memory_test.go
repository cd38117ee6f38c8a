package mock_test

import (
	"context"
	"testing"

	"github.com/Sam9733/docsnap"
	"github.com/Sam9733/docsnap/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySnapshots_PromoteSnapshots(t *testing.T) {
	t.Parallel()

	t.Run("moves staging to production", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		m := mock.NewMemorySnapshots()
		require.NoError(t, m.UpsertSnapshot(ctx, docsnap.StageStaging, &docsnap.Snapshot{SourceID: "a"}))

		require.NoError(t, m.PromoteSnapshots(ctx, []string{"a"}))

		_, err := m.FindSnapshot(ctx, docsnap.StageStaging, "a")
		assert.Equal(t, docsnap.ENOTFOUND, docsnap.ErrorCode(err))
		snap, err := m.FindSnapshot(ctx, docsnap.StageProduction, "a")
		require.NoError(t, err)
		assert.Equal(t, "a", snap.SourceID)
	})

	t.Run("changes nothing when a staging snapshot is missing", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		m := mock.NewMemorySnapshots()
		require.NoError(t, m.UpsertSnapshot(ctx, docsnap.StageStaging, &docsnap.Snapshot{SourceID: "a"}))

		err := m.PromoteSnapshots(ctx, []string{"a", "b"})

		assert.Equal(t, docsnap.ENOTFOUND, docsnap.ErrorCode(err))
		_, err = m.FindSnapshot(ctx, docsnap.StageProduction, "a")
		assert.Equal(t, docsnap.ENOTFOUND, docsnap.ErrorCode(err))
	})
}
