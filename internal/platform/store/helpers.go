package store

import (
	"context"
	"fmt"

	perr "qbank/internal/platform/errors"
)

// Scalar queries a single value (first row, first column) into T
func Scalar[T any](ctx context.Context, q RowQuerier, sql string, args ...any) (T, error) {
	var v T
	if err := q.QueryRow(ctx, sql, args...).Scan(&v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// One maps exactly one row into T via scan. No rows is
// perr.ErrNotFound; a second row is an error
func One[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) (T, error) {
	var zero T
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return zero, err
	}
	defer rows.Close()

	var (
		item  T
		found bool
	)
	cur := cursorRow{rows}
	for rows.Next() {
		if found {
			return zero, fmt.Errorf("expected 1 row, got more")
		}
		if item, err = scan(cur); err != nil {
			return zero, err
		}
		found = true
	}
	if err := rows.Err(); err != nil {
		return zero, err
	}
	if !found {
		return zero, perr.ErrNotFound
	}
	return item, nil
}

// Many maps every row into []T via scan. An empty result is a nil
// slice, not an error
func Many[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	cur := cursorRow{rows}
	for rows.Next() {
		item, err := scan(cur)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// cursorRow presents the current Rows position as a single Row so the
// same scan func serves One and Many
type cursorRow struct{ rows Rows }

func (c cursorRow) Scan(dest ...any) error { return c.rows.Scan(dest...) }
