// Package retry implements a bounded, fixed-delay retry policy.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/raoulx24/hcloud-snapshot-rotator/internal/clock"
)

// Policy retries an operation up to Attempts times, waiting Delay between
// attempts. The wait after the final attempt is skipped.
type Policy struct {
	Attempts int
	Delay    time.Duration
	Clock    clock.Clock

	// OnRetry, if set, is called after a failed attempt that will be retried.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// Do runs fn until it succeeds or the attempts are exhausted.
func (p Policy) Do(ctx context.Context, opName string, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	clk := p.Clock
	if clk == nil {
		clk = clock.Real{}
	}

	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}

		lastErr = err

		if attempt == attempts {
			break
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, err, p.Delay)
		}
		if err := clk.Sleep(ctx, p.Delay); err != nil {
			return err
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", opName, attempts, lastErr)
}
