// Package retry wraps read operations in exponential backoff.
// It is meant for idempotent listings; access validation never goes through it.
package retry

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"

	"securedoc/internal/config"
)

// Policy bounds a retried call.
type Policy struct {
	MaxTries        uint
	InitialInterval time.Duration
	MaxElapsed      time.Duration
}

// FromConfig converts retry settings into a Policy.
func FromConfig(c config.RetryConfig) Policy {
	return Policy{MaxTries: c.MaxTries, InitialInterval: c.InitialInterval, MaxElapsed: c.MaxElapsed}
}

// Do runs op until it succeeds, returns a permanent error, or the policy is exhausted.
// sql.ErrNoRows and context cancellation are never retried.
func Do[T any](ctx context.Context, p Policy, log *slog.Logger, name string, op func(ctx context.Context) (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}

	opts := []backoff.RetryOption{
		backoff.WithBackOff(b),
		backoff.WithNotify(func(err error, next time.Duration) {
			if log != nil {
				log.Warn("retrying", "operation", name, "error", err.Error(), "next_in_ms", next.Milliseconds())
			}
		}),
	}
	if p.MaxTries > 0 {
		opts = append(opts, backoff.WithMaxTries(p.MaxTries))
	}
	if p.MaxElapsed > 0 {
		opts = append(opts, backoff.WithMaxElapsedTime(p.MaxElapsed))
	}

	return backoff.Retry(ctx, func() (T, error) {
		v, err := op(ctx)
		if err != nil && isPermanent(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, opts...)
}

func isPermanent(err error) bool {
	return errors.Is(err, sql.ErrNoRows) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
