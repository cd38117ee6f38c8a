// Package crawl walks documentation sources breadth-first and hands the
// extracted pages to a docsnap.PageWriter.
package crawl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"github.com/Sam9733/docsnap"
)

// Crawler drives the breadth-first traversal of one source at a time.
// A Crawler may crawl several sources concurrently; all per-crawl state
// lives in the frontier and writer passed to CrawlSource.
type Crawler struct {
	Fetcher     docsnap.Fetcher
	Extractor   docsnap.Extractor
	Retry       *RetryPolicy
	Politeness  Politeness
	RateLimiter docsnap.DomainLimiter // optional
	Logger      *slog.Logger
}

// Result holds the outcome of one source's crawl.
type Result struct {
	SourceID string
	Saved    int // pages handed to the writer
	Skipped  int // pages with too little content
	Failed   int // pages that could not be fetched or parsed
	Fetched  int // URLs whose fetch was attempted
}

// CrawlSource crawls src starting at its root URL and appends every kept
// page to w, flushing w when the crawl ends.
//
// Page-level failures are logged and counted, never returned. The returned
// error is non-nil only when the writer fails or ctx is canceled; in both
// cases the staged pages of this crawl must be discarded.
func (c *Crawler) CrawlSource(ctx context.Context, src docsnap.Source, w docsnap.PageWriter) (*Result, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	logger := c.logger().With("source", src.ID)
	result := &Result{SourceID: src.ID}

	frontier := NewFrontier(FrontierCapacity(src))
	frontier.Push(src.RootURL)

	for result.Saved < src.MaxPages {
		pageURL, ok := frontier.Pop()
		if !ok {
			break // Frontier empty
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if !frontier.Visit(pageURL) {
			continue
		}

		result.Fetched++
		logger.Debug("fetching", "url", pageURL)
		html, err := c.fetch(ctx, pageURL)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			result.Failed++
			logger.Warn("fetch failed", "url", pageURL, "err", err)
			continue
		}

		extraction, err := c.Extractor.Extract(html, pageURL, src.RootURL)
		if err != nil {
			result.Failed++
			logger.Warn("extract failed", "url", pageURL, "err", err)
			continue
		}
		if extraction.Skip || extraction.Page == nil {
			result.Skipped++
			logger.Debug("skipped thin page", "url", pageURL)
			continue
		}

		if err := w.Append(ctx, *extraction.Page); err != nil {
			return result, fmt.Errorf("source %s: %w", src.ID, err)
		}
		result.Saved++
		logger.Debug("saved", "url", pageURL, "chars", len(extraction.Page.Body))

		enqueued := 0
		for _, link := range extraction.Links {
			if enqueued >= src.MaxLinksPerPage {
				break
			}
			if !src.Contains(link) {
				continue
			}
			if frontier.Push(link) {
				enqueued++
			}
		}
	}

	if err := w.Flush(ctx); err != nil {
		return result, fmt.Errorf("source %s: %w", src.ID, err)
	}

	logger.Info("crawl completed",
		"saved", result.Saved,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"fetched", result.Fetched,
	)
	return result, nil
}

// fetch performs one page fetch under the retry policy, taking the courteous
// delay and rate limit before every attempt.
func (c *Crawler) fetch(ctx context.Context, pageURL string) (string, error) {
	policy := c.Retry
	if policy == nil {
		policy = DefaultRetryPolicy()
	}

	host := ""
	if u, err := url.Parse(pageURL); err == nil {
		host = u.Host
	}

	var html string
	err := policy.Do(ctx, func(ctx context.Context, attempt int) error {
		if err := c.Politeness.Wait(ctx); err != nil {
			return err
		}
		if c.RateLimiter != nil {
			if err := c.RateLimiter.Wait(ctx, host); err != nil {
				return err
			}
		}

		body, err := c.Fetcher.Fetch(ctx, pageURL)
		if err != nil {
			if attempt > 1 || docsnap.IsTransient(err) {
				c.logger().Debug("fetch attempt failed", "url", pageURL, "attempt", attempt, "err", err)
			}
			return err
		}
		html = body
		return nil
	})
	return html, err
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}
