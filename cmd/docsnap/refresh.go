package main

import (
	"fmt"
	"time"

	"github.com/Sam9733/docsnap"
)

// Run executes the refresh command.
func (c *RefreshCmd) Run(deps *Dependencies) error {
	fmt.Fprintf(deps.Stdout, "Refreshing %d sources...\n", len(deps.Config.Sources))

	results, err := deps.Refresher.Refresh(deps.Ctx)
	for _, r := range results {
		if r == nil {
			continue
		}
		fmt.Fprintf(deps.Stdout, "  %s: %d saved, %d skipped, %d failed\n", r.SourceID, r.Saved, r.Skipped, r.Failed)
	}

	status := deps.Refresher.Status()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: refresh failed: %s\n", errorText(err))
		fmt.Fprintln(deps.Stderr, "Production snapshots were left unchanged.")
		return err
	}

	fmt.Fprintf(deps.Stdout, "Refresh completed at %s (attempt %s)\n",
		status.LastSuccessAt.Format(time.RFC3339), status.AttemptID)
	return nil
}

// errorText returns the message of an application error, or the full error
// text otherwise.
func errorText(err error) string {
	if docsnap.ErrorCode(err) == docsnap.EINTERNAL {
		return err.Error()
	}
	return docsnap.ErrorMessage(err)
}
