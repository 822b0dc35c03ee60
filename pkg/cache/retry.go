package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks a failure to reach a remote backend.
var ErrNetwork = errors.New("network error")

type retryable struct{ err error }

func (e retryable) Error() string { return e.err.Error() }
func (e retryable) Unwrap() error { return e.err }

// Retryable marks err as transient so [Backoff.Do] tries again. It returns
// nil for a nil err.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return retryable{err}
}

// IsRetryable reports whether err, or an error it wraps, was marked with
// [Retryable].
func IsRetryable(err error) bool {
	var r retryable
	return errors.As(err, &r)
}

// Backoff is a bounded exponential retry policy.
type Backoff struct {
	Attempts int
	Initial  time.Duration
}

// DefaultBackoff suits a cache in front of a request: three attempts over
// roughly 150ms, after which the caller treats the cache as unavailable.
var DefaultBackoff = Backoff{Attempts: 3, Initial: 50 * time.Millisecond}

// Do calls fn until it succeeds, returns an error not marked retryable, the
// attempts run out or ctx is done. It returns the last error of fn, or the
// context error.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Initial
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return err
}

// RetryWithBackoff is DefaultBackoff.Do.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultBackoff.Do(ctx, fn)
}
