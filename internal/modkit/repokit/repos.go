// Package repokit carries the shared repo plumbing: the Queryer seam
// domain repos bind to, transaction helpers and begin hooks
package repokit

import (
	"context"

	"qbank/internal/platform/store"
)

// Queryer is the read and write surface a bound repo runs on. Pool and
// transaction scopes both satisfy it, so repo code never knows which
// one it got
type Queryer = store.RowQuerier

// TxRunner runs a function inside a transaction
type TxRunner = store.TxRunner

type (
	// Rows is a multi row result
	Rows = store.Rows

	// Row is a single row result
	Row = store.Row

	// CommandTag reports what a write touched
	CommandTag = store.CommandTag
)

// WithTx runs fn inside a transaction on tx
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	return tx.Tx(ctx, fn)
}
