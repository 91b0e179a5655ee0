// Package retry wraps transient storage work in bounded exponential backoff
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	perr "qbank/internal/platform/errors"
	"qbank/internal/platform/logger"
)

// Config bounds one retry loop
type Config struct {
	// InitialInterval is the first pause between attempts
	InitialInterval time.Duration

	// Multiplier grows the pause after every failed attempt
	Multiplier float64

	// MaxInterval caps the pause regardless of growth
	MaxInterval time.Duration

	// MaxRetries is the number of re-attempts after the first try
	MaxRetries uint64
}

// Default is the platform budget for transient database failures
func Default() Config {
	return Config{
		InitialInterval: 50 * time.Millisecond,
		Multiplier:      2,
		MaxInterval:     time.Second,
		MaxRetries:      3,
	}
}

// Do runs fn, retrying only errors the platform classifies as transient.
// Non-retryable errors surface unchanged from the first failing attempt.
// A spent budget wraps the last transient error as RETRY_EXHAUSTED and a
// dead deadline maps to TIMEOUT so callers never loop on it again
func Do(ctx context.Context, name string, cfg Config, fn func(ctx context.Context) error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = cfg.InitialInterval
	bo.Multiplier = cfg.Multiplier
	bo.MaxInterval = cfg.MaxInterval
	bo.MaxElapsedTime = 0 // attempts bound the loop, not wall time

	attempts := 0
	op := func() error {
		attempts++
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !perr.Retryable(err) {
			return backoff.Permanent(err)
		}
		logger.Named("retry").Debug().
			Str("op", name).
			Int("attempt", attempts).
			Err(err).
			Msg("transient failure, backing off")
		return err
	}

	err := backoff.Retry(op, backoff.WithMaxRetries(backoff.WithContext(bo, ctx), cfg.MaxRetries))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return perr.Wrapf(err, perr.ErrorCodeTimeout, "%s ran out of time after %d attempts", name, attempts)
	case perr.Retryable(err):
		return perr.Wrapf(err, perr.ErrorCodeRetryExhausted, "%s still failing after %d attempts", name, attempts)
	default:
		return err
	}
}
