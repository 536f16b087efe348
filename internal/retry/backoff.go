// Package retry provides backoff helpers for the synthesis pipeline.
package retry

import (
	"context"
	"time"
)

// Delay returns base*2^(attempt-1), optionally capped by max. attempt is
// 1-based; values < 1 are treated as 1.
func Delay(base, max time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if base <= 0 {
		return 0
	}

	delay := base * (1 << uint(attempt-1))
	if max > 0 && delay > max {
		return max
	}
	return delay
}

// Sleep waits for the backoff delay of the given attempt, returning early
// with ctx.Err() if the context is cancelled first.
func Sleep(ctx context.Context, base, max time.Duration, attempt int) error {
	d := Delay(base, max, attempt)
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
