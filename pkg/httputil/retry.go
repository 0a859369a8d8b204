package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a transient failure such as a connection reset, a 5xx
// response or a 429. [Retry] only repeats operations that fail with one.
type RetryableError struct {
	Err error
	// After is the server-requested wait (Retry-After), zero if none.
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a RetryableError. It returns nil for a nil err.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err, or anything it wraps, is a RetryableError.
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// Policy controls Retry. The zero value makes a single attempt.
type Policy struct {
	Attempts int           // total attempts, at least 1
	Delay    time.Duration // first backoff, doubled after each failure
	MaxDelay time.Duration // backoff ceiling, zero for none
}

// DefaultPolicy is three attempts starting at one second.
var DefaultPolicy = Policy{Attempts: 3, Delay: time.Second, MaxDelay: 10 * time.Second}

// Retry executes fn up to attempts times with exponential backoff.
// Errors that are not a [RetryableError] are returned immediately.
// Returns the last error if all attempts fail, or ctx.Err() if cancelled.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	return Policy{Attempts: attempts, Delay: delay}.Do(ctx, fn)
}

// RetryWithBackoff runs fn under [DefaultPolicy].
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultPolicy.Do(ctx, fn)
}

// Do runs fn under the policy. A server-requested wait replaces the computed
// backoff for that attempt.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay
	var lastErr error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		var re *RetryableError
		if !errors.As(err, &re) {
			return err
		}
		if i == attempts-1 {
			break
		}

		wait := delay
		if re.After > 0 {
			wait = re.After
		}
		if p.MaxDelay > 0 {
			wait = min(wait, p.MaxDelay)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		delay *= 2
	}
	return lastErr
}
