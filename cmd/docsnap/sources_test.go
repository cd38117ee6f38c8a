package main_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Sam9733/docsnap"
	main "github.com/Sam9733/docsnap/cmd/docsnap"
	"github.com/Sam9733/docsnap/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourcesCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("shows never for sources without a snapshot", func(t *testing.T) {
		t.Parallel()

		deps := newTestDeps(t, nil)

		err := (&main.SourcesCmd{}).Run(deps.Dependencies)

		require.NoError(t, err)
		assert.Contains(t, deps.stdout.String(), "docs  https://example.test/docs  max 50 pages  0 pages  updated never")
	})

	t.Run("shows page count of the production snapshot", func(t *testing.T) {
		t.Parallel()

		deps := newTestDeps(t, nil)
		deps.promote(t, freshSnapshot())

		err := (&main.SourcesCmd{}).Run(deps.Dependencies)

		require.NoError(t, err)
		assert.Contains(t, deps.stdout.String(), "2 pages")
		assert.NotContains(t, deps.stdout.String(), "never")
	})

	t.Run("reports store errors", func(t *testing.T) {
		t.Parallel()

		deps := newTestDeps(t, nil)
		deps.Snapshots = &mock.SnapshotService{
			FindSnapshotFn: func(context.Context, docsnap.Stage, string) (*docsnap.Snapshot, error) {
				return nil, errors.New("database is locked")
			},
		}

		err := (&main.SourcesCmd{}).Run(deps.Dependencies)

		require.Error(t, err)
		assert.Contains(t, deps.stderr.String(), "database is locked")
	})
}
