package blogimport

import (
	"context"
	"time"
)

// DefaultPollInterval is how often a Waiter re-checks its condition.
const DefaultPollInterval = 100 * time.Millisecond

// Poll calls ready every interval until it reports true, returns an error,
// or ctx is done. The first check happens immediately.
func Poll(ctx context.Context, interval time.Duration, ready func() (bool, error)) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ok, err := ready()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
