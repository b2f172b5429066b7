package retry

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"
)

const (
	DefaultAttempts  = 3
	DefaultBaseDelay = 200 * time.Millisecond
	DefaultMaxDelay  = 10 * time.Second
)

// Config controls retry behavior.
type Config struct {
	// Attempts is the total number of calls, the first one included.
	// If zero or negative, DefaultAttempts is used.
	Attempts int

	// BaseDelay is the delay before the first retry; each later retry doubles
	// it, up to MaxDelay. Zero values select the defaults.
	BaseDelay time.Duration
	MaxDelay  time.Duration

	// DelayFunc, if set, replaces the backoff for a given attempt and error.
	// It receives the computed backoff so it can fall back to it.
	DelayFunc func(attempt int, err error, backoff time.Duration) time.Duration

	// ShouldRetry decides whether err is worth another attempt. If nil, only
	// errors marked with Retryable are retried.
	ShouldRetry func(error) bool

	// Sleep waits between attempts. Tests replace it; the default honors ctx.
	Sleep func(ctx context.Context, d time.Duration) error
}

// RetryableError marks an error as explicitly retryable.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	if e.Err == nil {
		return "retryable error"
	}
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// Retryable wraps err so IsRetryable reports true for it. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err or any wrapped error is a RetryableError.
func IsRetryable(err error) bool {
	var r *RetryableError
	return errors.As(err, &r)
}

// Unwrap strips a RetryableError marker, returning the error it carries.
func Unwrap(err error) error {
	var r *RetryableError
	if errors.As(err, &r) {
		return r.Err
	}
	return err
}

// StatusRetryable reports whether an HTTP status is transient: any 5xx or 429.
func StatusRetryable(code int) bool {
	return code >= 500 || code == http.StatusTooManyRequests
}

// RetryAfterDelay parses an HTTP Retry-After header value and returns the advised
// delay. If parsing fails or the header is empty, fallback is returned.
func RetryAfterDelay(header string, fallback time.Duration) time.Duration {
	if header == "" {
		return fallback
	}

	if secs, err := strconv.Atoi(header); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}

	if ts, err := http.ParseTime(header); err == nil {
		now := time.Now()
		if ts.After(now) {
			return ts.Sub(now)
		}
		return 0
	}

	return fallback
}

// Backoff returns base * 2^attempt, capped at ceiling.
func Backoff(attempt int, base, ceiling time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := base
	for i := 0; i < attempt && delay < ceiling; i++ {
		delay *= 2
	}
	if delay > ceiling {
		return ceiling
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do calls op until it succeeds, returns an error ShouldRetry rejects, or
// runs out of attempts. The last error is returned as is. Cancellation of ctx
// stops the loop with the context error.
func Do(ctx context.Context, cfg Config, op func(attempt int) error) error {
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	base := cfg.BaseDelay
	if base <= 0 {
		base = DefaultBaseDelay
	}
	maxDelay := cfg.MaxDelay
	if maxDelay <= 0 {
		maxDelay = DefaultMaxDelay
	}
	shouldRetry := cfg.ShouldRetry
	if shouldRetry == nil {
		shouldRetry = IsRetryable
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op(attempt)
		if lastErr == nil {
			return nil
		}
		if attempt == attempts-1 || !shouldRetry(lastErr) {
			return lastErr
		}

		// No jitter, so tests can assert exact delays.
		delay := Backoff(attempt, base, maxDelay)
		if cfg.DelayFunc != nil {
			delay = cfg.DelayFunc(attempt, lastErr, delay)
		}
		if delay <= 0 {
			continue
		}
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}

	return lastErr
}
