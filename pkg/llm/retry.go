package llm

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/stellaroneai/swara/pkg/resilience"
)

// RetryConfig bounds how long a spoken question may wait on a flaky provider.
// Delays double from BaseDelay up to MaxDelay; Jitter adds up to that share
// of the delay at random.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      float64
	IsRetryable func(error) bool
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = 100 * time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 2 * time.Second
	}
	if c.MaxDelay < c.BaseDelay {
		c.MaxDelay = c.BaseDelay
	}
	if c.IsRetryable == nil {
		c.IsRetryable = DefaultIsRetryable
	}
	return c
}

// PermanentError marks a provider failure that retrying cannot fix, such as
// a rejected request.
type PermanentError struct {
	Err error
}

func (e PermanentError) Error() string { return e.Err.Error() }
func (e PermanentError) Unwrap() error { return e.Err }

// Retry calls fn until it succeeds, fails permanently or attempts run out.
// A rate limit asking for a longer wait than MaxDelay ends the loop at once.
func Retry(ctx context.Context, cfg RetryConfig, fn func(context.Context) (Response, error)) (Response, error) {
	cfg = cfg.withDefaults()
	var err error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if cerr := ctx.Err(); cerr != nil {
			return Response{}, cerr
		}
		var resp Response
		if resp, err = fn(ctx); err == nil {
			return resp, nil
		}
		if !cfg.IsRetryable(err) || attempt == cfg.MaxAttempts-1 {
			break
		}
		wait, ok := cfg.delay(attempt, err)
		if !ok {
			break
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return Response{}, ctx.Err()
		case <-t.C:
		}
	}
	return Response{}, fmt.Errorf("llm: gave up: %w", err)
}

// DefaultIsRetryable retries everything except cancellation and
// PermanentError.
func DefaultIsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var perm PermanentError
	return !errors.As(err, &perm)
}

func (c RetryConfig) delay(attempt int, err error) (time.Duration, bool) {
	d := c.BaseDelay << attempt
	if d <= 0 || d > c.MaxDelay {
		d = c.MaxDelay
	}
	if c.Jitter > 0 {
		d += time.Duration(float64(d) * c.Jitter * rand.Float64())
	}
	var rl resilience.RateLimitError
	if errors.As(err, &rl) && rl.RetryAfter > d {
		if rl.RetryAfter > c.MaxDelay {
			return 0, false
		}
		d = rl.RetryAfter
	}
	return d, true
}
