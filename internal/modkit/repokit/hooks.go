package repokit

import (
	"context"
	"fmt"
	"time"
)

// BeginHook runs at the start of a transaction on the tx bound Queryer
type BeginHook func(ctx context.Context, q Queryer) error

// LockTimeout returns a hook that bounds every lock wait inside the
// transaction. A timed out wait surfaces as SQLSTATE 55P03, which the
// retry layer treats as transient
func LockTimeout(d time.Duration) BeginHook {
	// SET LOCAL is a utility statement; it takes no bind parameters
	stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", d.Milliseconds())
	return func(ctx context.Context, q Queryer) error {
		_, err := q.Exec(ctx, stmt)
		return err
	}
}

// WithBeginHooks wraps a TxRunner so hooks run inside every
// transaction before fn
func WithBeginHooks(inner TxRunner, hooks ...BeginHook) TxRunner {
	if len(hooks) == 0 {
		return inner
	}
	return hookedTx{inner: inner, hooks: hooks}
}

type hookedTx struct {
	inner TxRunner
	hooks []BeginHook
}

// Tx begins on inner, runs the hooks, then fn
func (h hookedTx) Tx(ctx context.Context, fn func(q Queryer) error) error {
	return h.inner.Tx(ctx, func(q Queryer) error {
		for _, hk := range h.hooks {
			if err := hk(ctx, q); err != nil {
				return err
			}
		}
		return fn(q)
	})
}

// non transactional calls pass straight through
func (h hookedTx) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return h.inner.Exec(ctx, sql, args...)
}

func (h hookedTx) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return h.inner.Query(ctx, sql, args...)
}

func (h hookedTx) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return h.inner.QueryRow(ctx, sql, args...)
}
