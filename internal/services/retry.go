package services

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ytlist/ytlist/internal/shared"
)

// RetryPolicy retries an operation with exponential backoff. One policy
// instance is applied uniformly to every remote call; what counts as
// retryable is a property of the policy, not of call sites.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
	Retryable   func(error) bool
	Logger      *log.Logger
}

// DefaultRetryPolicy matches the service defaults: three attempts, one second
// base delay doubling per attempt, capped at thirty seconds. Quota errors are
// excluded by shared.IsRetryable.
func DefaultRetryPolicy(logger *log.Logger) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
		Multiplier:  2.0,
		Retryable:   shared.IsRetryable,
		Logger:      logger,
	}
}

// Do runs op, retrying transient failures until the attempt budget runs out.
// The last error is returned unwrapped so callers can classify it.
func (p RetryPolicy) Do(ctx context.Context, name string, op func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = op(); err == nil {
			return nil
		}

		retryable := p.Retryable != nil && p.Retryable(err)
		if !retryable || attempt == attempts-1 {
			return err
		}

		delay := p.delay(attempt)
		if p.Logger != nil {
			p.Logger.Warn("transient failure, retrying", "op", name, "attempt", attempt+1, "delay", delay, "error", err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

// delay computes the backoff for the given 0-based attempt, capped at MaxDelay.
func (p RetryPolicy) delay(attempt int) time.Duration {
	multiplier := p.Multiplier
	if multiplier <= 1 {
		multiplier = 2.0
	}

	delay := float64(p.BaseDelay)
	for i := 0; i < attempt; i++ {
		delay *= multiplier
		if p.MaxDelay > 0 && delay >= float64(p.MaxDelay) {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && delay > float64(p.MaxDelay) {
		return p.MaxDelay
	}
	return time.Duration(delay)
}
