// Package retry runs operations again with exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Config holds retry behavior.
type Config struct {
	Attempts int
	Delay    time.Duration
	MaxDelay time.Duration
	Factor   float64
}

// Option adjusts the retry configuration.
type Option func(*Config)

// Do runs op until it succeeds, the attempt budget is spent, or the context
// is canceled. Delays grow exponentially up to MaxDelay. Errors wrapped with
// Permanent are returned immediately.
func Do(ctx context.Context, op func() error, opts ...Option) error {
	cfg := &Config{
		Attempts: 5,
		Delay:    time.Second,
		MaxDelay: 30 * time.Second,
		Factor:   2.0,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	delay := cfg.Delay
	var lastErr error

	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		lastErr = err
		if IsPermanent(err) {
			return fmt.Errorf("permanent error after %d attempt(s): %w", attempt, err)
		}

		if attempt == cfg.Attempts {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("canceled after %d attempt(s): %w", attempt, errors.Join(ctx.Err(), lastErr))
		case <-time.After(delay):
			delay = time.Duration(float64(delay) * cfg.Factor)
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		}
	}

	return fmt.Errorf("failed after %d attempt(s): %w", cfg.Attempts, lastErr)
}

// WithAttempts sets the total attempt budget.
func WithAttempts(n int) Option {
	return func(c *Config) { c.Attempts = n }
}

// WithDelay sets the initial delay between attempts.
func WithDelay(d time.Duration) Option {
	return func(c *Config) { c.Delay = d }
}

// WithMaxDelay caps the delay between attempts.
func WithMaxDelay(d time.Duration) Option {
	return func(c *Config) { c.MaxDelay = d }
}

// permanentError marks an error as not worth retrying.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as non-retryable.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}
