// Package retry runs an operation until it succeeds, the error is not
// retryable or the attempts run out.
package retry

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

const defaultDelay = 100 * time.Millisecond

// A Backoff returns the pause after the given failed attempt, counted
// from 1.
type Backoff func(attempt int) time.Duration

type ShouldRetry func(error) bool

// An OnRetry hook sees every failure that is followed by another
// attempt.
type OnRetry func(attempt int, wait time.Duration, err error)

type RetryConfig struct {
	MaxAttempts int
	Backoff     Backoff
	ShouldRetry ShouldRetry
	OnRetry     OnRetry
}

func (c *RetryConfig) normalize() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 1
	}
	if c.Backoff == nil {
		c.Backoff = ExponentialBackoff(defaultDelay, 0)
	}
	if c.ShouldRetry == nil {
		c.ShouldRetry = func(error) bool { return true }
	}
	if c.OnRetry == nil {
		c.OnRetry = func(int, time.Duration, error) {}
	}
}

// ExponentialBackoff doubles delay on every attempt and adds up to a
// half of it as jitter. A positive maxDelay caps the result.
func ExponentialBackoff(delay, maxDelay time.Duration) Backoff {
	return func(attempt int) time.Duration {
		base := (1 << attempt) * delay
		if maxDelay > 0 && base > maxDelay {
			base = maxDelay
		}
		wait := base + time.Duration(rand.IntN(int(base/2)+1))
		if maxDelay > 0 && wait > maxDelay {
			wait = maxDelay
		}
		return wait
	}
}

func ConstantBackoff(delay time.Duration) Backoff {
	return func(int) time.Duration {
		return delay
	}
}

func Do(ctx context.Context, c RetryConfig, fn func() error) error {
	_, err := DoWithResult(ctx, c, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// DoWithResult returns the first successful result of fn. The last error
// is returned when it is not retryable or no attempts are left, and it is
// joined with the context error when ctx ends while waiting.
func DoWithResult[T any](
	ctx context.Context, c RetryConfig, fn func() (T, error),
) (T, error) {
	var zero T

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	c.normalize()
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	var err error
	for attempt := 1; ; attempt++ {
		var result T
		result, err = fn()
		if err == nil {
			return result, nil
		}
		if !c.ShouldRetry(err) || attempt >= c.MaxAttempts {
			return zero, err
		}

		wait := c.Backoff(attempt)
		c.OnRetry(attempt, wait, err)
		timer.Reset(wait)
		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("%w: %w", ctx.Err(), err)
		case <-timer.C:
		}
	}
}
