package batch

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/blogimport"
)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// WithRetry calls fn until it succeeds, attempting once more per delay.
// Not-found and invalid errors are permanent and returned immediately.
func WithRetry[T any](ctx context.Context, url string, delays []time.Duration, logger *slog.Logger, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; attempt <= len(delays); attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if !retryable(err) || attempt == len(delays) {
			break
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		if logger != nil {
			logger.Debug("retry", "url", url, "attempt", attempt+2, "err", err)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}
	return zero, lastErr
}

func retryable(err error) bool {
	switch blogimport.ErrorCode(err) {
	case blogimport.ENOTFOUND, blogimport.EINVALID:
		return false
	}
	return true
}
