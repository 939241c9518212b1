package service

import (
	"context"
	"time"

	"rentwheels-backend/internal/logger"
)

// RetryConfig bounds the explicit retry helper. The helper wraps
// notification delivery only; payment calls are never blindly retried.
type RetryConfig struct {
	MaxAttempts int
	BackoffBase time.Duration
}

// WithRetry runs fn up to MaxAttempts times with exponential backoff,
// honoring context cancellation between attempts.
func WithRetry(ctx context.Context, cfg RetryConfig, op string, fn func() error) error {
	var err error
	backoff := cfg.BackoffBase
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		logger.Warn("operation failed, will retry", "operation", op, "attempt", attempt, "max_attempts", cfg.MaxAttempts, "error", err)
		if attempt == cfg.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}
