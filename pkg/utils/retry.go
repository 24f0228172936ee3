package utils

import (
	"context"
	"time"
)

// RetryConfig holds retry configuration. The delay between attempts is fixed:
// no backoff growth, no jitter.
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
	// Sleep is called to wait between attempts. Defaults to time.Sleep;
	// tests replace it to observe delays without waiting.
	Sleep func(time.Duration)
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 10,
		Delay:       60 * time.Second,
	}
}

// RetryWithResult executes fn up to cfg.MaxAttempts times with a fixed delay
// between attempts and returns the first successful result. On exhaustion it
// returns the last error. Every failure is binary: there is no partial-success
// handling per attempt.
func RetryWithResult[T any](ctx context.Context, cfg RetryConfig, fn func(attempt int) (T, error)) (T, error) {
	var lastErr error
	var zero T

	sleep := cfg.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		result, err := fn(attempt)
		if err == nil {
			return result, nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		// Don't sleep after the last attempt
		if attempt < cfg.MaxAttempts {
			sleep(cfg.Delay)
		}
	}

	return zero, lastErr
}

// Retry executes fn with fixed-delay retry, discarding any result.
func Retry(ctx context.Context, cfg RetryConfig, fn func(attempt int) error) error {
	_, err := RetryWithResult(ctx, cfg, func(attempt int) (struct{}, error) {
		return struct{}{}, fn(attempt)
	})
	return err
}
