package store

import (
	"context"
	"errors"
	"time"

	"qbank/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxQuerier captures what pool and transaction scopes share, so one
// traced implementation serves both
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// traced runs statements on one pgx scope and reports each to the
// tracer. slowUS < 0 never flags slow; 0 flags everything
type traced struct {
	q      pgxQuerier
	tracer pg.QueryTracer
	slowUS int64
}

func (t traced) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := t.q.Exec(ctx, sql, args...)
	emitQuery(ctx, t.tracer, t.slowUS, sql, args, start, err)
	return cmdTag{ct}, err
}

func (t traced) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := t.q.Query(ctx, sql, args...)
	// timing covers the open, not the scan loop
	emitQuery(ctx, t.tracer, t.slowUS, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return rowSet{r: rs}, nil
}

func (t traced) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	r := t.q.QueryRow(ctx, sql, args...)
	// pgx defers execution until Scan, so the event fires after it
	return oneRow{
		r: r,
		after: func(scanErr error) {
			emitQuery(ctx, t.tracer, t.slowUS, sql, args, start, scanErr)
		},
	}
}

// emitQuery reports one statement to the tracer, stamping the request
// id when the context carries one
func emitQuery(ctx context.Context, tracer pg.QueryTracer, slowUS int64, sql string, args []any, start time.Time, err error) {
	if tracer == nil {
		return
	}
	elapsedUS := time.Since(start).Microseconds()
	ev := pg.QueryEvent{
		SQL:       sql,
		Args:      args,
		ElapsedUS: elapsedUS,
		Err:       err,
		Slow:      slowUS >= 0 && elapsedUS >= slowUS,
	}
	if id, ok := RequestID(ctx); ok {
		ev.ReqID = id
	}
	tracer.OnQuery(ctx, ev)
}

// pgAdapter exposes pg.PG as RowQuerier + TxRunner. Pool statements go
// through the embedded traced scope; Tx builds a fresh one per
// transaction so statements inside it trace the same way
type pgAdapter struct {
	p *pg.PG
	traced
}

func newPGAdapter(p *pg.PG) *pgAdapter {
	return &pgAdapter{
		p: p,
		traced: traced{
			q:      p.Pool,
			tracer: p.Tracer,
			slowUS: int64(p.SlowMs) * 1000,
		},
	}
}

func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil {
		return errors.New("pg: nil adapter")
	}
	var one int
	return a.QueryRow(ctx, "SELECT 1").Scan(&one)
}

func (a *pgAdapter) Close() error { a.p.Close(); return nil }

func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.p.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	scope := traced{q: tx, tracer: a.tracer, slowUS: a.slowUS}
	if err := fn(scope); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// thin pgx wrappers onto the package's Row/Rows/CommandTag seams

type oneRow struct {
	r     pgx.Row
	after func(error)
}

func (x oneRow) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	if x.after != nil {
		x.after(err)
	}
	return err
}

type rowSet struct{ r pgx.Rows }

func (x rowSet) Next() bool            { return x.r.Next() }
func (x rowSet) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x rowSet) Err() error            { return x.r.Err() }
func (x rowSet) Close()                { x.r.Close() }
func (x rowSet) Columns() []string {
	fields := x.r.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}
	return cols
}

type cmdTag struct{ t pgconn.CommandTag }

func (t cmdTag) String() string      { return t.t.String() }
func (t cmdTag) RowsAffected() int64 { return t.t.RowsAffected() }
