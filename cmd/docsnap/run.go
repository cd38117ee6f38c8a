package main

import (
	"fmt"
	"time"

	"github.com/Sam9733/docsnap"
	"github.com/Sam9733/docsnap/cron"
)

// Run executes the run command. It blocks until the context is canceled,
// then waits for an in-flight refresh to complete.
func (c *RunCmd) Run(deps *Dependencies) error {
	schedule := c.Schedule
	if schedule == "" {
		schedule = deps.Config.Refresh.Schedule
	}

	scheduler, err := cron.NewScheduler(schedule, deps.Refresher, deps.Logger)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}

	stale, err := anyStale(deps)
	if err != nil {
		return err
	}
	if stale {
		scheduler.Tick()
	}

	scheduler.Start()
	fmt.Fprintf(deps.Stdout, "Refreshing %d sources on schedule %q. Press Ctrl+C to stop.\n",
		len(deps.Config.Sources), schedule)

	<-deps.Ctx.Done()

	<-scheduler.Stop().Done()
	if deps.Refresher.Status().IsRefreshing {
		fmt.Fprintln(deps.Stdout, "Waiting for the running refresh to finish...")
	}
	deps.Refresher.Wait()
	return nil
}

// anyStale reports whether some source lacks a production snapshot or has
// one that the staleness policy considers stale.
func anyStale(deps *Dependencies) (bool, error) {
	now := time.Now()
	for _, src := range deps.Config.Sources {
		snap, err := deps.Snapshots.FindSnapshot(deps.Ctx, docsnap.StageProduction, src.ID)
		if docsnap.ErrorCode(err) == docsnap.ENOTFOUND {
			return true, nil
		}
		if err != nil {
			return false, err
		}
		if deps.Config.Staleness.IsStale(snap.CapturedAt, now) {
			return true, nil
		}
	}
	return false, nil
}
