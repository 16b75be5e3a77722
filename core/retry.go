package core

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// RetryPolicy determines retry behavior for failed requests.
type RetryPolicy interface {
	// NextDelay returns the delay before the next retry attempt and whether
	// to retry. attempt starts at 0 for the first retry after the initial
	// failure. If ok is false, no more attempts are made.
	NextDelay(attempt int, err error) (delay time.Duration, ok bool)
}

// RetryConfig configures retry behavior.
type RetryConfig struct {
	MaxRetries int           // maximum retry attempts after the first (default: 3)
	BaseDelay  time.Duration // delay before the first retry (default: 1s)
	MaxDelay   time.Duration // delay cap (default: 30s)
	Jitter     float64       // jitter factor 0.0-1.0 (default: 0.2)
}

// DefaultRetryPolicy returns exponential backoff with jitter, max 3 retries.
func DefaultRetryPolicy() RetryPolicy {
	return NewRetryPolicy(RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   30 * time.Second,
		Jitter:     0.2,
	})
}

// NewRetryPolicy creates a retry policy with the given configuration.
// Zero or out-of-range fields fall back to defaults; MaxRetries 0 is honored
// (single attempt, no retries).
func NewRetryPolicy(cfg RetryConfig) RetryPolicy {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 30 * time.Second
	}
	if cfg.Jitter < 0 || cfg.Jitter > 1 {
		cfg.Jitter = 0.2
	}
	return &exponentialBackoff{cfg: cfg}
}

type exponentialBackoff struct {
	cfg RetryConfig
}

func (e *exponentialBackoff) NextDelay(attempt int, err error) (time.Duration, bool) {
	if attempt >= e.cfg.MaxRetries {
		return 0, false
	}

	if !isRetryable(err) {
		return 0, false
	}

	// baseDelay * 2^attempt
	delay := float64(e.cfg.BaseDelay) * math.Pow(2, float64(attempt))

	// delay * (1 + random(-jitter, +jitter))
	if e.cfg.Jitter > 0 {
		jitterRange := delay * e.cfg.Jitter
		delay += (rand.Float64()*2 - 1) * jitterRange
	}

	if delay > float64(e.cfg.MaxDelay) {
		delay = float64(e.cfg.MaxDelay)
	}
	if delay < 0 {
		delay = 0
	}

	return time.Duration(delay), true
}

// isRetryable reports whether an error should trigger a retry.
//
// Remote HTTP errors are not distinguished from transient ones at this layer:
// any status-bearing APIError lands in the same retry bucket as a network
// failure. Only decode failures, context cancellation, and client-side
// validation errors are terminal.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if errors.Is(err, ErrDecode) {
		return false
	}

	if errors.Is(err, ErrNetwork) {
		return true
	}

	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status != 0
	}

	return false
}
