package crawl

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/Sam9733/docsnap"
)

// Default fetch retry settings.
const (
	DefaultMaxAttempts    = 3
	DefaultRetryBaseDelay = time.Second
	DefaultPoliteDelay    = 500 * time.Millisecond
	DefaultPoliteJitter   = 500 * time.Millisecond
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep waits for d or until ctx is done, returning ctx.Err() in the latter case.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryPolicy decides how often and how patiently a failed fetch is retried.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// BaseDelay is multiplied by the attempt number to get the wait after
	// that attempt fails.
	BaseDelay time.Duration

	// Retryable reports whether an error may succeed on retry.
	// Defaults to docsnap.IsTransient.
	Retryable func(error) bool

	// Sleep waits between attempts. Defaults to Sleep.
	Sleep SleepFunc
}

// DefaultRetryPolicy returns the policy used for page fetches:
// 3 attempts, waiting 1s then 2s, retrying transient errors only.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultRetryBaseDelay,
		Retryable:   docsnap.IsTransient,
	}
}

// Delay returns the wait after the given failed attempt (1-based).
func (p *RetryPolicy) Delay(attempt int) time.Duration {
	return p.BaseDelay * time.Duration(attempt)
}

// Do calls fn until it succeeds, fails with a non-retryable error, or the
// attempt budget is spent. fn receives the 1-based attempt number.
// The last error is returned on failure.
func (p *RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = docsnap.IsTransient
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = fn(ctx, attempt)
		if lastErr == nil {
			return nil
		}
		if attempt == maxAttempts || !retryable(lastErr) {
			break
		}
		if err := sleep(ctx, p.Delay(attempt)); err != nil {
			return err
		}
	}
	return lastErr
}

// Politeness is the courteous delay taken before every request to a site.
type Politeness struct {
	// Min is always waited.
	Min time.Duration

	// Jitter adds a random wait in [0, Jitter).
	Jitter time.Duration

	// Sleep waits. Defaults to Sleep.
	Sleep SleepFunc
}

// DefaultPoliteness returns a delay of 500ms to 1s.
func DefaultPoliteness() Politeness {
	return Politeness{Min: DefaultPoliteDelay, Jitter: DefaultPoliteJitter}
}

// Delay returns the next randomized delay.
func (p Politeness) Delay() time.Duration {
	d := p.Min
	if p.Jitter > 0 {
		d += rand.N(p.Jitter)
	}
	return d
}

// Wait blocks for the next delay or until ctx is done.
func (p Politeness) Wait(ctx context.Context) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	return sleep(ctx, p.Delay())
}
