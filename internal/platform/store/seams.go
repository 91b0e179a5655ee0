package store

import "context"

// The seams below are deliberately small. Repos and the audit sink
// compile against them, so tests can stub a cursor or a transaction
// without a live driver.

// Row scans one result row
type Row interface {
	Scan(dest ...any) error
}

// Rows iterates a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag reports what a write statement touched
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the sql read and write surface. Pool and transaction
// scopes both satisfy it
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner adds transactional execution to the sql surface
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the columnar seam the audit trail writes through
type Clickhouse interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Insert(ctx context.Context, table string, cols []string, rows [][]any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close() error
}

// Pinger marks a seam that can prove connectivity
type Pinger interface{ Ping(context.Context) error }
