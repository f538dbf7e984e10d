package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a transient failure that [Retry] should attempt again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Policy controls how [Retry] spaces its attempts.
type Policy struct {
	Attempts int           // total tries, at least 1
	Delay    time.Duration // wait before the second try; doubles afterwards
	MaxDelay time.Duration // cap on a single wait; zero means uncapped
}

// DefaultPolicy is three attempts starting at 500ms, capped at 4s.
var DefaultPolicy = Policy{Attempts: 3, Delay: 500 * time.Millisecond, MaxDelay: 4 * time.Second}

// Retry runs fn until it succeeds, returns a non-retryable error, or the
// policy runs out of attempts. It returns ctx.Err() if cancelled while waiting.
func Retry(ctx context.Context, p Policy, fn func() error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if p.MaxDelay > 0 && delay > p.MaxDelay {
				delay = p.MaxDelay
			}
		}
	}
	return lastErr
}

// RetryWithBackoff is [Retry] with [DefaultPolicy].
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, DefaultPolicy, fn)
}

// IsRetryable reports whether err is wrapped in a [RetryableError].
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
