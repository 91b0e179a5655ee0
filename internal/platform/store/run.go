package store

import (
	"context"
	"errors"
	"time"

	perr "qbank/internal/platform/errors"
)

// RunWithTimeout executes fn inside a transaction bounded by d.
// Zero d inherits the parent deadline untouched. A deadline hit inside
// the unit surfaces as a TIMEOUT error so callers never retry it
func RunWithTimeout(ctx context.Context, tx TxRunner, d time.Duration, fn func(ctx context.Context, q RowQuerier) error) error {
	if d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	err := tx.Tx(ctx, func(q RowQuerier) error {
		return fn(ctx, q)
	})
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return perr.Wrapf(err, perr.ErrorCodeTimeout, "transactional unit exceeded %s", d)
	}
	return err
}
