// Package refresh coordinates whole-corpus refreshes: crawling every source
// into staging, promoting the result to production in one step, and
// serving production snapshots to readers.
package refresh

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Sam9733/docsnap"
	"github.com/Sam9733/docsnap/crawl"
	"golang.org/x/sync/errgroup"
)

// SourceCrawler crawls one source into a page writer.
type SourceCrawler interface {
	CrawlSource(ctx context.Context, src docsnap.Source, w docsnap.PageWriter) (*crawl.Result, error)
}

// Coordinator runs one refresh attempt over all sources. Either every
// source's new snapshot reaches production or none does.
type Coordinator struct {
	Sources   []docsnap.Source
	Snapshots docsnap.SnapshotService
	Crawler   SourceCrawler

	// Concurrency is the number of sources crawled at once. Defaults to 1.
	Concurrency int

	// Now stamps capture times. Defaults to time.Now.
	Now func() time.Time

	Logger *slog.Logger
}

// Commit crawls every source into staging and promotes the lot.
//
// Leftover staging snapshots from an interrupted attempt are removed first.
// If any source fails or captures no pages, staging is discarded and
// production is left exactly as it was.
func (c *Coordinator) Commit(ctx context.Context) ([]*crawl.Result, error) {
	if len(c.Sources) == 0 {
		return nil, docsnap.Errorf(docsnap.EINVALID, "no sources configured")
	}

	ids := docsnap.SourceIDs(c.Sources)
	logger := c.logger()

	if err := c.Snapshots.DeleteSnapshots(ctx, docsnap.StageStaging, ids); err != nil {
		return nil, fmt.Errorf("clear staging: %w", err)
	}

	results := make([]*crawl.Result, len(c.Sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.Concurrency, 1))

	for i, src := range c.Sources {
		g.Go(func() (err error) {
			defer func() {
				if p := recover(); p != nil {
					err = fmt.Errorf("source %s: crawl panicked: %v", src.ID, p)
				}
			}()

			w := crawl.NewBatchWriter(c.Snapshots, src)
			w.Now = c.Now

			result, err := c.Crawler.CrawlSource(gctx, src, w)
			results[i] = result
			if err != nil {
				return err
			}
			if result.Saved == 0 {
				return fmt.Errorf("source %s: %w", src.ID, docsnap.ErrEmptySnapshot)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		c.discard(ctx, ids)
		return results, err
	}

	if err := c.Snapshots.PromoteSnapshots(ctx, ids); err != nil {
		c.discard(ctx, ids)
		return results, fmt.Errorf("promote: %w", err)
	}

	logger.Info("snapshots promoted", "sources", len(ids))
	return results, nil
}

// discard removes staging snapshots after a failed attempt. It runs even
// when ctx was canceled.
func (c *Coordinator) discard(ctx context.Context, ids []string) {
	ctx = context.WithoutCancel(ctx)
	if err := c.Snapshots.DeleteSnapshots(ctx, docsnap.StageStaging, ids); err != nil {
		c.logger().Error("discard staging failed", "err", err)
	}
}

func (c *Coordinator) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}
