package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raoulx24/hcloud-snapshot-rotator/internal/clock"
)

func TestDoSucceedsFirstTry(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	p := Policy{Attempts: 3, Delay: 5 * time.Second, Clock: clk}

	calls := 0
	err := p.Do(context.Background(), "send", func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, clk.Sleeps())
}

func TestDoExhaustsAttempts(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	boom := errors.New("status 500")

	var retried []int
	p := Policy{
		Attempts: 3,
		Delay:    5 * time.Second,
		Clock:    clk,
		OnRetry:  func(attempt int, _ error, _ time.Duration) { retried = append(retried, attempt) },
	}

	calls := 0
	err := p.Do(context.Background(), "send", func(context.Context) error {
		calls++
		return boom
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "send failed after 3 attempts")
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
	assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second}, clk.Sleeps())
}

func TestDoRecoversAfterFailure(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	p := Policy{Attempts: 3, Delay: time.Second, Clock: clk}

	calls := 0
	err := p.Do(context.Background(), "send", func(context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("flaky")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, clk.Sleeps(), 1)
}

func TestDoZeroAttemptsRunsOnce(t *testing.T) {
	p := Policy{Clock: clock.NewFake(time.Unix(0, 0))}

	calls := 0
	err := p.Do(context.Background(), "op", func(context.Context) error {
		calls++
		return errors.New("nope")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Policy{Attempts: 3, Clock: clock.NewFake(time.Unix(0, 0))}.Do(ctx, "op", func(context.Context) error {
		calls++
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}
