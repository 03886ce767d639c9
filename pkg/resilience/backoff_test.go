package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExponentialBackoff_NextDelay(t *testing.T) {
	backoff := &ExponentialBackoff{
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   time.Second,
		Multiplier: 2.0,
	}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{-1, 100 * time.Millisecond},
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{3, 800 * time.Millisecond},
		{4, time.Second},
		{10, time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, backoff.NextDelay(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestExponentialBackoff_JitterStaysInRange(t *testing.T) {
	backoff := WebhookBackoff()
	for i := 0; i < 100; i++ {
		d := backoff.NextDelay(1)
		assert.GreaterOrEqual(t, d, 450*time.Millisecond)
		assert.LessOrEqual(t, d, 550*time.Millisecond)
	}
}

func TestRetry(t *testing.T) {
	ctx := context.Background()
	noWait := &FixedBackoff{}
	errTemp := errors.New("temporary")

	t.Run("succeeds after failures", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 3, noWait, nil, func(int) error {
			calls++
			if calls < 3 {
				return errTemp
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns last error", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 2, noWait, nil, func(int) error {
			calls++
			return errTemp
		})
		assert.ErrorIs(t, err, errTemp)
		assert.Equal(t, 2, calls)
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		calls := 0
		errPerm := errors.New("permanent")
		err := Retry(ctx, 5, noWait, func(err error) bool { return err != errPerm }, func(int) error {
			calls++
			return errPerm
		})
		assert.ErrorIs(t, err, errPerm)
		assert.Equal(t, 1, calls)
	})

	t.Run("zero attempts runs once", func(t *testing.T) {
		calls := 0
		_ = Retry(ctx, 0, noWait, nil, func(int) error { calls++; return errTemp })
		assert.Equal(t, 1, calls)
	})

	t.Run("context cancelled while waiting", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := Retry(cctx, 3, &FixedBackoff{Delay: time.Minute}, nil, func(int) error { return errTemp })
		assert.ErrorIs(t, err, context.Canceled)
	})
}
