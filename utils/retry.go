package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryConfig holds the parameters for the retry strategy.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Logger      *Logger
}

// Do executes fn with exponential back-off retry logic.
func (r *RetryConfig) Do(operationName string, fn func() error) error {
	return r.DoContext(context.Background(), operationName, fn)
}

// DoContext is Do bounded by ctx; cancellation stops further attempts.
func (r *RetryConfig) DoContext(ctx context.Context, operationName string, fn func() error) error {
	attempts := r.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = r.BaseDelay
	eb.Multiplier = 2
	eb.RandomizationFactor = 0
	eb.MaxElapsedTime = 0
	if r.MaxDelay > 0 {
		eb.MaxInterval = r.MaxDelay
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(attempts-1)), ctx)

	attempt := 0
	var lastErr error
	err := backoff.RetryNotify(func() error {
		attempt++
		lastErr = fn()
		return lastErr
	}, policy, func(err error, delay time.Duration) {
		if r.Logger != nil {
			r.Logger.Warn("[retry] %s failed (attempt %d/%d): %v, retrying in %v",
				operationName, attempt, attempts, err, delay)
		}
	})
	if err == nil {
		return nil
	}
	if lastErr == nil {
		lastErr = err
	}
	return fmt.Errorf("%s failed after %d attempts: %w", operationName, attempt, lastErr)
}
