package errors

// Postgres classification: SQLSTATE predicates and retry semantics for
// errors surfaced by pgx

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATEs the service reacts to. The contention trio marks a
// transaction worth retrying; unique violations surface as duplicates
const (
	sqlstateUniqueViolation      = "23505"
	sqlstateSerializationFailure = "40001"
	sqlstateDeadlockDetected     = "40P01"
	sqlstateLockNotAvailable     = "55P03"
)

// pgError digs the root cause out of err as a *pgconn.PgError
func pgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(Root(err), &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsSQLState reports whether err's root cause is a Postgres error with
// the given SQLSTATE
func IsSQLState(err error, code string) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == code
}

// IsDuplicateKey reports a unique constraint violation. The bootstrap
// path uses it to translate an insert race into DUPLICATE_USER
func IsDuplicateKey(err error) bool { return IsSQLState(err, sqlstateUniqueViolation) }

// retryableTexts covers driver strings that arrive without a SQLSTATE,
// mostly commit-time aborts and server-side cancellations
var retryableTexts = []string{
	"commit unexpectedly resulted in rollback",
	"deadlock detected",
	"could not serialize access",
	"serialization failure",
	"canceling statement due to statement timeout",
	"canceling statement due to lock timeout",
	"could not obtain lock on row",
	"terminating connection due to administrator command",
}

// IsRetryable reports whether a database error is transient contention
// worth another attempt. Local cancellations never retry; the caller
// owns its own deadline
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}

	if pgErr, ok := pgError(err); ok {
		switch pgErr.Code {
		case sqlstateSerializationFailure, sqlstateDeadlockDetected, sqlstateLockNotAvailable:
			return true
		}
		return false
	}

	msg := strings.ToLower(Root(err).Error())
	for _, pattern := range retryableTexts {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
