package resilience

import (
	"context"
	"errors"
	"time"
)

type RetryConfig struct {
	Attempts int
	Delay    time.Duration
	// OnRetry is called after each failed attempt that will be retried.
	OnRetry func(attempt int, err error)
}

// Retry calls fn up to cfg.Attempts times through cb. It stops early when
// the breaker opens or ctx is done, and returns the last error seen.
func Retry(ctx context.Context, cb *CircuitBreaker, cfg RetryConfig, fn func(ctx context.Context) error) error {
	if cfg.Attempts <= 0 {
		cfg.Attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		err := cb.Do(ctx, fn)
		if err == nil {
			return nil
		}

		if errors.Is(err, ErrCircuitOpen) {
			if lastErr == nil {
				return err
			}
			return errors.Join(err, lastErr)
		}
		lastErr = err

		if ctx.Err() != nil {
			return lastErr
		}
		if attempt == cfg.Attempts {
			break
		}
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err)
		}

		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(cfg.Delay):
		}
	}

	return lastErr
}
