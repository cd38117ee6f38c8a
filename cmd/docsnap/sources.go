package main

import (
	"fmt"
	"time"

	"github.com/Sam9733/docsnap"
)

// Run executes the sources command.
func (c *SourcesCmd) Run(deps *Dependencies) error {
	for _, src := range deps.Config.Sources {
		updated := "never"
		pages := 0
		snap, err := deps.Snapshots.FindSnapshot(deps.Ctx, docsnap.StageProduction, src.ID)
		switch {
		case err == nil:
			updated = snap.CapturedAt.Format(time.RFC3339)
			pages = len(snap.Pages)
		case docsnap.ErrorCode(err) != docsnap.ENOTFOUND:
			fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  max %d pages  %d pages  updated %s\n",
			src.ID, src.RootURL, src.MaxPages, pages, updated)
	}
	return nil
}
