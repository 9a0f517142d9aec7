package notify

import (
	"context"
	"time"
)

// Retrier runs an operation up to Attempts times with linear backoff: after
// attempt n fails (except the last), it waits BaseDelay multiplied by n. The
// error from the final attempt is returned.
type Retrier struct {
	Attempts  int
	BaseDelay time.Duration

	// sleep is replaceable in tests.
	sleep func(time.Duration)
}

func NewRetrier(attempts int, baseDelay time.Duration) *Retrier {
	if attempts < 1 {
		attempts = 1
	}
	return &Retrier{Attempts: attempts, BaseDelay: baseDelay, sleep: time.Sleep}
}

func (r *Retrier) Do(ctx context.Context, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= r.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt < r.Attempts {
			r.sleep(r.BaseDelay * time.Duration(attempt))
		}
	}
	return lastErr
}
