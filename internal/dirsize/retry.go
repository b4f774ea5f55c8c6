package dirsize

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// DefaultMaxRetries bounds retries of a single path when Options.MaxRetries is 0.
	DefaultMaxRetries = 64

	retryInitialInterval = time.Millisecond
	retryMaxInterval     = 100 * time.Millisecond
)

// retryState tracks the resubmissions of one operation on one path.
type retryState struct {
	attempt int
	backoff backoff.BackOff
}

// next advances the state and returns the delay before the next attempt.
// ok is false once limit attempts were made; a negative limit never stops.
func (r *retryState) next(limit int) (time.Duration, bool) {
	if limit >= 0 && r.attempt >= limit {
		return 0, false
	}

	if r.backoff == nil {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = retryInitialInterval
		b.MaxInterval = retryMaxInterval
		b.MaxElapsedTime = 0
		b.Reset()
		r.backoff = b
	}

	r.attempt++

	return r.backoff.NextBackOff(), true
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
