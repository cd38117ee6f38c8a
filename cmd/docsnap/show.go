package main

import (
	"fmt"
	"time"

	"github.com/Sam9733/docsnap"
	dsfs "github.com/Sam9733/docsnap/fs"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	if !hasSource(deps.Config.Sources, c.Source) {
		fmt.Fprintf(deps.Stderr, "error: source %q is not configured. Use 'docsnap sources' to see available sources.\n", c.Source)
		return docsnap.Errorf(docsnap.ENOTFOUND, "source %q not configured", c.Source)
	}

	snap, err := deps.Reader.GetSnapshot(deps.Ctx, c.Source)
	// A stale read may have started a refresh; let it finish before exiting.
	defer waitForRefresh(deps)

	if docsnap.ErrorCode(err) == docsnap.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "error: source %q has no snapshot yet. Run 'docsnap refresh' first.\n", c.Source)
		return err
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}

	if c.Export != "" {
		n, err := dsfs.Export(snap, c.Export)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: export failed: %v\n", err)
			return err
		}
		fmt.Fprintf(deps.Stdout, "Exported %d pages to %s\n", n, c.Export)
		return nil
	}

	if c.Full {
		fmt.Fprintln(deps.Stdout, docsnap.FormatSnapshot(snap))
		return nil
	}

	age := snap.Age(time.Now()).Round(time.Second)
	fmt.Fprintf(deps.Stdout, "Snapshot of %s (%d pages, captured %s, %s ago):\n\n",
		c.Source, len(snap.Pages), snap.CapturedAt.Format(time.RFC3339), age)
	for i, p := range snap.Pages {
		fmt.Fprintf(deps.Stdout, "  %d. %s\n     %s\n", i+1, p.Title, p.URL)
	}

	return nil
}

func hasSource(sources []docsnap.Source, id string) bool {
	for _, s := range sources {
		if s.ID == id {
			return true
		}
	}
	return false
}

func waitForRefresh(deps *Dependencies) {
	if !deps.Refresher.Status().IsRefreshing {
		return
	}
	fmt.Fprintln(deps.Stderr, "Snapshot is stale; waiting for the refresh to finish...")
	deps.Refresher.Wait()
	if status := deps.Refresher.Status(); status.LastError != "" {
		fmt.Fprintf(deps.Stderr, "refresh failed: %s\n", status.LastError)
	}
}
