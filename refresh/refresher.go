package refresh

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Sam9733/docsnap"
	"github.com/Sam9733/docsnap/crawl"
	"github.com/google/uuid"
)

var _ docsnap.Refresher = (*Refresher)(nil)

// Committer performs one refresh attempt.
type Committer interface {
	Commit(ctx context.Context) ([]*crawl.Result, error)
}

// Refresher admits at most one refresh at a time across the process and
// records the outcome of each attempt.
type Refresher struct {
	Committer Committer

	// Now stamps status times. Defaults to time.Now.
	Now func() time.Time

	Logger *slog.Logger

	running atomic.Bool
	wg      sync.WaitGroup

	mu     sync.Mutex
	status docsnap.RefreshStatus
}

// NewRefresher returns a Refresher running attempts through c.
func NewRefresher(c Committer, logger *slog.Logger) *Refresher {
	return &Refresher{Committer: c, Logger: logger}
}

// Trigger starts a refresh in the background. The refresh outlives ctx's
// cancellation; only ctx's values are carried over.
func (r *Refresher) Trigger(ctx context.Context) docsnap.TriggerResult {
	attemptID, ok := r.begin()
	if !ok {
		return docsnap.TriggerResult{Accepted: false, Message: "refresh already in progress"}
	}

	go func() {
		defer r.wg.Done()
		_, _ = r.run(context.WithoutCancel(ctx), attemptID)
	}()

	return docsnap.TriggerResult{Accepted: true, Message: "refresh started"}
}

// Refresh runs a refresh in the calling goroutine and returns its outcome.
// It returns an ECONFLICT error if another refresh is running.
func (r *Refresher) Refresh(ctx context.Context) ([]*crawl.Result, error) {
	attemptID, ok := r.begin()
	if !ok {
		return nil, docsnap.Errorf(docsnap.ECONFLICT, "refresh already in progress")
	}
	defer r.wg.Done()
	return r.run(ctx, attemptID)
}

// Status returns a copy of the current refresh state.
func (r *Refresher) Status() docsnap.RefreshStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Wait blocks until no refresh, background or synchronous, is running.
func (r *Refresher) Wait() {
	r.wg.Wait()
}

// begin claims the refresh slot and marks a new attempt. The caller must
// call r.wg.Done once the attempt ends.
func (r *Refresher) begin() (string, bool) {
	if !r.running.CompareAndSwap(false, true) {
		return "", false
	}
	// Counted before IsRefreshing is published so Wait cannot miss it.
	r.wg.Add(1)

	attemptID := uuid.New().String()
	now := r.now()

	r.mu.Lock()
	r.status.IsRefreshing = true
	r.status.AttemptID = attemptID
	r.status.StartedAt = now
	r.status.LastAttemptAt = now
	r.mu.Unlock()

	return attemptID, true
}

func (r *Refresher) run(ctx context.Context, attemptID string) (results []*crawl.Result, err error) {
	logger := r.logger().With("attempt", attemptID)
	logger.Info("refresh started")

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("refresh panicked: %v", p)
		}
		r.finish(err)
		if err != nil {
			logger.Error("refresh failed", "err", err)
		} else {
			logger.Info("refresh completed")
		}
	}()

	return r.Committer.Commit(ctx)
}

// finish records the attempt's outcome and releases the refresh slot.
func (r *Refresher) finish(err error) {
	r.mu.Lock()
	r.status.IsRefreshing = false
	if err != nil {
		r.status.LastError = err.Error()
	} else {
		r.status.LastError = ""
		r.status.LastSuccessAt = r.now()
	}
	r.mu.Unlock()

	r.running.Store(false)
}

func (r *Refresher) now() time.Time {
	if r.Now == nil {
		return time.Now().UTC()
	}
	return r.Now()
}

func (r *Refresher) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r.Logger
}
