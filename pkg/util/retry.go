package util

import (
	"context"
	"time"
)

// Retry calls fn up to maxAttempts times, sleeping delay between attempts.
// It returns nil on the first successful call, or the last error once the
// attempt cap is reached. Context cancellation is respected between retries,
// so a capped loop never blocks past its deadline.
func Retry(ctx context.Context, maxAttempts int, delay time.Duration, fn func() error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}

		// No sleep after the last failed attempt.
		if attempt < maxAttempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return err
}
