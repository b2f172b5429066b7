package retry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

// recordSleeps returns a Sleep func that records delays instead of waiting.
func recordSleeps(sleeps *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*sleeps = append(*sleeps, d)
		return nil
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), Config{}, func(int) error {
		attempts++
		return nil
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestDoRetriesThenSucceedsWithBackoff(t *testing.T) {
	attempts := 0
	var sleeps []time.Duration
	err := Do(context.Background(), Config{
		Attempts:  3,
		BaseDelay: 100 * time.Millisecond,
		Sleep:     recordSleeps(&sleeps),
	}, func(int) error {
		attempts++
		if attempts < 3 {
			return Retryable(errors.New("temporary"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	wantSleeps := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
	}
	if len(sleeps) != len(wantSleeps) {
		t.Fatalf("expected %d sleeps, got %d", len(wantSleeps), len(sleeps))
	}
	for i, got := range sleeps {
		if got != wantSleeps[i] {
			t.Fatalf("sleep %d: expected %v, got %v", i, wantSleeps[i], got)
		}
	}
}

func TestDoDefaultOnlyRetriesMarkedErrors(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), Config{Attempts: 3}, func(int) error {
		attempts++
		return errors.New("permanent")
	})
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if attempts != 1 {
		t.Fatalf("expected no retries, got %d attempts", attempts)
	}
}

func TestDoHonorsShouldRetry(t *testing.T) {
	attempts := 0
	var sleeps []time.Duration
	err := Do(context.Background(), Config{
		Attempts: 3,
		ShouldRetry: func(err error) bool {
			return !errors.Is(err, errStop)
		},
		Sleep: recordSleeps(&sleeps),
	}, func(int) error {
		attempts++
		if attempts == 2 {
			return errStop
		}
		return errors.New("unmarked but allowed")
	})
	if !errors.Is(err, errStop) {
		t.Fatalf("expected errStop, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

var errStop = errors.New("stop")

func TestDoUsesCustomDelayFunc(t *testing.T) {
	attempts := 0
	var sleeps []time.Duration
	var backoffs []time.Duration
	err := Do(context.Background(), Config{
		Attempts:  3,
		BaseDelay: 10 * time.Millisecond,
		DelayFunc: func(attempt int, _ error, backoff time.Duration) time.Duration {
			backoffs = append(backoffs, backoff)
			return time.Duration(attempt+1) * time.Second
		},
		Sleep: recordSleeps(&sleeps),
	}, func(int) error {
		attempts++
		if attempts < 3 {
			return Retryable(errors.New("again"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	wantSleeps := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(sleeps) != len(wantSleeps) {
		t.Fatalf("expected %d sleeps, got %d", len(wantSleeps), len(sleeps))
	}
	for i, got := range sleeps {
		if got != wantSleeps[i] {
			t.Fatalf("sleep %d: expected %v, got %v", i, wantSleeps[i], got)
		}
	}
	if backoffs[0] != 10*time.Millisecond || backoffs[1] != 20*time.Millisecond {
		t.Fatalf("DelayFunc should receive the computed backoff, got %v", backoffs)
	}
}

func TestDoSkipsSleepForZeroDelay(t *testing.T) {
	var sleeps []time.Duration
	attempts := 0
	err := Do(context.Background(), Config{
		Attempts:  2,
		DelayFunc: func(int, error, time.Duration) time.Duration { return 0 },
		Sleep:     recordSleeps(&sleeps),
	}, func(int) error {
		attempts++
		if attempts == 1 {
			return Retryable(errors.New("once"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(sleeps) != 0 {
		t.Fatalf("expected no sleeps, got %v", sleeps)
	}
}

func TestDoStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := Do(ctx, Config{
		Attempts:  5,
		BaseDelay: 1 * time.Millisecond,
	}, func(int) error {
		attempts++
		cancel()
		return Retryable(errors.New("fail"))
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected stop after first attempt due to cancel, got %d", attempts)
	}
}

func TestDoReturnsLastErrorWhenExhausted(t *testing.T) {
	lastErr := errors.New("last")
	attempts := 0
	err := Do(context.Background(), Config{
		Attempts:  2,
		BaseDelay: 1 * time.Millisecond,
	}, func(int) error {
		attempts++
		return Retryable(lastErr)
	})
	if !errors.Is(err, lastErr) {
		t.Fatalf("expected lastErr, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
	if Unwrap(err) != lastErr {
		t.Fatalf("Unwrap should strip the retry marker, got %v", Unwrap(err))
	}
}

func TestBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{-1, 100 * time.Millisecond},
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{3, 800 * time.Millisecond},
		{4, time.Second},
		{40, time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.attempt), func(t *testing.T) {
			got := Backoff(tt.attempt, 100*time.Millisecond, time.Second)
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestStatusRetryable(t *testing.T) {
	tests := map[int]bool{
		http.StatusOK:                  false,
		http.StatusNotFound:            false,
		http.StatusConflict:            false,
		http.StatusGone:                false,
		http.StatusTooManyRequests:     true,
		http.StatusInternalServerError: true,
		http.StatusBadGateway:          true,
		http.StatusServiceUnavailable:  true,
	}

	for code, want := range tests {
		if got := StatusRetryable(code); got != want {
			t.Errorf("StatusRetryable(%d) = %v, want %v", code, got, want)
		}
	}
}

func TestRetryAfterDelayParsesSeconds(t *testing.T) {
	fb := 5 * time.Second
	got := RetryAfterDelay("10", fb)
	if got != 10*time.Second {
		t.Fatalf("expected 10s, got %v", got)
	}
}

func TestRetryAfterDelayParsesHTTPDate(t *testing.T) {
	now := time.Now()
	header := now.Add(3 * time.Second).UTC().Format(http.TimeFormat)
	fb := 1 * time.Second
	got := RetryAfterDelay(header, fb)
	if got < 2*time.Second || got > 4*time.Second {
		t.Fatalf("expected about 3s, got %v", got)
	}
}

func TestRetryAfterDelayFallbackOnInvalid(t *testing.T) {
	fb := 2 * time.Second
	if got := RetryAfterDelay("not-a-date", fb); got != fb {
		t.Fatalf("expected fallback %v, got %v", fb, got)
	}
	if got := RetryAfterDelay("", fb); got != fb {
		t.Fatalf("expected fallback %v for empty header, got %v", fb, got)
	}
}

func TestIsRetryable(t *testing.T) {
	base := errors.New("base")
	r := Retryable(base)
	if !IsRetryable(r) {
		t.Fatalf("expected retryable")
	}
	wrapped := fmt.Errorf("wrap: %w", r)
	if !IsRetryable(wrapped) {
		t.Fatalf("expected wrapped retryable")
	}
	if IsRetryable(base) {
		t.Fatalf("expected non-retryable base")
	}
	if Retryable(nil) != nil {
		t.Fatalf("Retryable(nil) should be nil")
	}
}
