package crawl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sam9733/docsnap"
	"github.com/Sam9733/docsnap/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transientErr() error {
	return &docsnap.FetchError{URL: "https://example.com", Kind: docsnap.Transient, Err: errors.New("connection reset")}
}

func permanentErr() error {
	return &docsnap.FetchError{URL: "https://example.com", Kind: docsnap.Permanent, StatusCode: 404}
}

// recordSleep returns a SleepFunc that records requested delays without waiting.
func recordSleep(delays *[]time.Duration) crawl.SleepFunc {
	return func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return ctx.Err()
	}
}

func TestRetryPolicy_Do(t *testing.T) {
	t.Parallel()

	t.Run("stops after the first success", func(t *testing.T) {
		t.Parallel()

		var delays []time.Duration
		p := crawl.DefaultRetryPolicy()
		p.Sleep = recordSleep(&delays)

		calls := 0
		err := p.Do(context.Background(), func(_ context.Context, _ int) error {
			calls++
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Empty(t, delays)
	})

	t.Run("retries transient errors with linear backoff", func(t *testing.T) {
		t.Parallel()

		var delays []time.Duration
		p := crawl.DefaultRetryPolicy()
		p.Sleep = recordSleep(&delays)

		var attempts []int
		err := p.Do(context.Background(), func(_ context.Context, attempt int) error {
			attempts = append(attempts, attempt)
			return transientErr()
		})

		require.Error(t, err)
		assert.True(t, docsnap.IsTransient(err))
		assert.Equal(t, []int{1, 2, 3}, attempts)
		assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, delays)
	})

	t.Run("succeeds on a later attempt", func(t *testing.T) {
		t.Parallel()

		var delays []time.Duration
		p := crawl.DefaultRetryPolicy()
		p.Sleep = recordSleep(&delays)

		err := p.Do(context.Background(), func(_ context.Context, attempt int) error {
			if attempt < 3 {
				return transientErr()
			}
			return nil
		})

		require.NoError(t, err)
		assert.Len(t, delays, 2)
	})

	t.Run("does not retry permanent errors", func(t *testing.T) {
		t.Parallel()

		var delays []time.Duration
		p := crawl.DefaultRetryPolicy()
		p.Sleep = recordSleep(&delays)

		calls := 0
		err := p.Do(context.Background(), func(_ context.Context, _ int) error {
			calls++
			return permanentErr()
		})

		var fe *docsnap.FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, 404, fe.StatusCode)
		assert.Equal(t, 1, calls)
		assert.Empty(t, delays)
	})

	t.Run("custom retryable predicate", func(t *testing.T) {
		t.Parallel()

		var delays []time.Duration
		p := &crawl.RetryPolicy{
			MaxAttempts: 2,
			BaseDelay:   time.Millisecond,
			Retryable:   func(error) bool { return true },
			Sleep:       recordSleep(&delays),
		}

		calls := 0
		_ = p.Do(context.Background(), func(_ context.Context, _ int) error {
			calls++
			return permanentErr()
		})

		assert.Equal(t, 2, calls)
		assert.Equal(t, []time.Duration{time.Millisecond}, delays)
	})

	t.Run("returns context error when canceled between attempts", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		p := crawl.DefaultRetryPolicy()
		p.Sleep = crawl.Sleep

		calls := 0
		err := p.Do(ctx, func(_ context.Context, _ int) error {
			calls++
			cancel()
			return transientErr()
		})

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

func TestPoliteness_Delay(t *testing.T) {
	t.Parallel()

	p := crawl.DefaultPoliteness()

	for range 100 {
		d := p.Delay()
		assert.GreaterOrEqual(t, d, 500*time.Millisecond)
		assert.Less(t, d, time.Second)
	}
}

func TestPoliteness_Wait(t *testing.T) {
	t.Parallel()

	var delays []time.Duration
	p := crawl.Politeness{Min: 10 * time.Millisecond, Sleep: recordSleep(&delays)}

	require.NoError(t, p.Wait(context.Background()))
	assert.Equal(t, []time.Duration{10 * time.Millisecond}, delays)
}

func TestSleep(t *testing.T) {
	t.Parallel()

	t.Run("returns immediately for zero duration", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, crawl.Sleep(context.Background(), 0))
	})

	t.Run("returns context error when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := crawl.Sleep(ctx, time.Hour)

		require.ErrorIs(t, err, context.Canceled)
	})
}
