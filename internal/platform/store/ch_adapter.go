package store

import (
	"context"
	"errors"

	"qbank/internal/platform/store/ch"
)

// chClient is the surface the adapter needs from *ch.CH, kept as an
// interface so tests can fake the driver
type chClient interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Insert(ctx context.Context, table string, cols []string, rows [][]any) error
	Query(ctx context.Context, sql string, args ...any) (ch.Rows, error)
	Ping(ctx context.Context) error
	Close() error
}

// chAdapter presents the ch client through the Clickhouse seam
type chAdapter struct {
	c chClient
}

var _ Clickhouse = (*chAdapter)(nil)

func newCHAdapter(c chClient) Clickhouse { return &chAdapter{c: c} }

func (a *chAdapter) Exec(ctx context.Context, sql string, args ...any) error {
	return a.c.Exec(ctx, sql, args...)
}

func (a *chAdapter) Insert(ctx context.Context, table string, cols []string, rows [][]any) error {
	return a.c.Insert(ctx, table, cols, rows)
}

func (a *chAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	r, err := a.c.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRowSet{inner: r}, nil
}

// Ping lets Guard verify connectivity before routes mount
func (a *chAdapter) Ping(ctx context.Context) error {
	if a == nil || a.c == nil {
		return errors.New("store: nil clickhouse adapter")
	}
	return a.c.Ping(ctx)
}

func (a *chAdapter) Close() error { return a.c.Close() }

// chRowSet narrows ch.Rows (whose Close returns error) onto the
// package seam
type chRowSet struct{ inner ch.Rows }

func (x chRowSet) Next() bool             { return x.inner.Next() }
func (x chRowSet) Scan(dest ...any) error { return x.inner.Scan(dest...) }
func (x chRowSet) Err() error             { return x.inner.Err() }
func (x chRowSet) Close()                 { _ = x.inner.Close() }
func (x chRowSet) Columns() []string      { return x.inner.Columns() }
