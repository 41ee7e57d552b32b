package fetch

import (
	"context"
	"time"
)

// RetryDelays returns n exponential backoff delays starting at 1s:
// 1s, 2s, 4s and so on.
func RetryDelays(n int) []time.Duration {
	delays := make([]time.Duration, 0, max(n, 0))
	d := time.Second
	for range n {
		delays = append(delays, d)
		d *= 2
	}
	return delays
}

// retry calls fn until it succeeds, waiting delays[i] before attempt i+2.
// onRetry, if set, is called before each wait. Context errors end the loop
// immediately.
func retry(ctx context.Context, delays []time.Duration, fn func() (string, error), onRetry func(attempt int, err error)) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= len(delays); attempt++ {
		out, err := fn()
		if err == nil {
			return out, nil
		}
		lastErr = err

		if attempt == len(delays) || ctx.Err() != nil {
			break
		}

		if onRetry != nil {
			onRetry(attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}
	return "", lastErr
}
