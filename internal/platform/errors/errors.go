// Package errors carries the structured error the whole service speaks:
// a stable machine code, a human reason, and optional field metadata.
// Import it as perr
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode is the stable machine-facing code carried on the wire.
// Values are part of the API contract; add sparingly and never rename
type ErrorCode string

const (
	// ErrorCodeInternal is for unclassified failures and recovered panics
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"

	// ErrorCodeNotFound is the internal absence sentinel; repos translate
	// it to a domain code before it reaches the wire
	ErrorCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrorCodeUnauthorized is for identity binding violations
	ErrorCodeUnauthorized ErrorCode = "UNAUTHORIZED_ACCESS"

	// ErrorCodeBankNotFound is for missing, foreign, or inactive banks
	ErrorCodeBankNotFound ErrorCode = "QUESTION_BANK_NOT_FOUND"

	// ErrorCodeTaxonomyNotFound is for unknown taxonomy references
	ErrorCodeTaxonomyNotFound ErrorCode = "TAXONOMY_REFERENCE_NOT_FOUND"

	// ErrorCodeDuplicateUser is for bootstrap over an existing user
	ErrorCodeDuplicateUser ErrorCode = "DUPLICATE_USER"

	// ErrorCodeDuplicateSource is for natural key collisions outside upsert
	ErrorCodeDuplicateSource ErrorCode = "DUPLICATE_SOURCE_QUESTION_ID"

	// ErrorCodeMissingField is for absent required input fields
	ErrorCodeMissingField ErrorCode = "MISSING_REQUIRED_FIELD"

	// ErrorCodeInvalidQuestionType is for unknown question_type values
	ErrorCodeInvalidQuestionType ErrorCode = "INVALID_QUESTION_TYPE"

	// ErrorCodeTypeDataMismatch is for payload blocks that contradict the declared type
	ErrorCodeTypeDataMismatch ErrorCode = "TYPE_DATA_MISMATCH"

	// ErrorCodeConstraintViolation is for structural input violations (bad JSON included)
	ErrorCodeConstraintViolation ErrorCode = "CONSTRAINT_VIOLATION"

	// ErrorCodeInvalidQueryParam is for rejected query string input
	ErrorCodeInvalidQueryParam ErrorCode = "INVALID_QUERY_PARAMETER"

	// ErrorCodeDB is for general database errors
	ErrorCodeDB ErrorCode = "DATABASE_ERROR"

	// ErrorCodeTxFailed is for transactional units that rolled back
	ErrorCodeTxFailed ErrorCode = "TRANSACTION_FAILED"

	// ErrorCodeRetryExhausted is for retry budgets spent on transient failures
	ErrorCodeRetryExhausted ErrorCode = "RETRY_EXHAUSTED"

	// ErrorCodeTimeout is for deadline-bounded operations that ran out
	ErrorCodeTimeout ErrorCode = "TIMEOUT"

	// ErrorCodeOwnership is for ownership probes that failed as infrastructure
	ErrorCodeOwnership ErrorCode = "OWNERSHIP_VALIDATION_ERROR"

	// ErrorCodeUpsert is the upsert engine catch-all
	ErrorCodeUpsert ErrorCode = "UPSERT_ERROR"

	// ErrorCodeQuery is the query engine catch-all
	ErrorCodeQuery ErrorCode = "QUERY_ERROR"
)

// HTTPStatusCode turns an ErrorCode into an http status code.
// Strategy codes (MCQ_*, TRUE_FALSE_*, ESSAY_*) and the DUPLICATE_ family
// are matched by prefix so type packages can mint sub-codes freely
func HTTPStatusCode(c ErrorCode) int {
	switch c {
	case ErrorCodeUnauthorized, ErrorCodeBankNotFound, ErrorCodeTaxonomyNotFound:
		return http.StatusUnprocessableEntity
	case ErrorCodeMissingField, ErrorCodeInvalidQuestionType, ErrorCodeTypeDataMismatch,
		ErrorCodeConstraintViolation, ErrorCodeInvalidQueryParam:
		return http.StatusBadRequest
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeDB, ErrorCodeTxFailed, ErrorCodeRetryExhausted, ErrorCodeTimeout,
		ErrorCodeOwnership, ErrorCodeUpsert, ErrorCodeQuery, ErrorCodeInternal:
		return http.StatusInternalServerError
	}
	s := string(c)
	switch {
	case strings.HasPrefix(s, "DUPLICATE_"):
		return http.StatusConflict
	case strings.HasPrefix(s, "MCQ_"), strings.HasPrefix(s, "TRUE_FALSE_"), strings.HasPrefix(s, "ESSAY_"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ErrNotFound is the shared absence sentinel
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error pairs a machine code with a developer-facing reason. field names
// the offending input for validation replies; orig keeps the cause for
// logs without ever reaching the wire
type Error struct {
	code  ErrorCode
	msg   string
	field string
	orig  error
}

// Wire is the JSON-facing slice of an Error. Message always begins with
// "CODE: reason"
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// Error renders "CODE: reason", appending the cause when one is wrapped
func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.orig == nil:
		return e.prefixed()
	default:
		return e.prefixed() + ": " + e.orig.Error()
	}
}

func (e *Error) prefixed() string {
	if e.code == "" {
		return e.msg
	}
	return string(e.code) + ": " + e.msg
}

// Unwrap returns the wrapped cause, if any
func (e *Error) Unwrap() error { return e.orig }

// Code returns the machine code
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the offending field, if any
func (e *Error) Field() string { return e.field }

// ToWire slices off the wire-safe part. The wrapped cause stays out of
// the message; only code and reason cross the boundary
func (e *Error) ToWire() Wire { return Wire{Code: e.code, Message: e.prefixed(), Field: e.field} }

// WireFrom converts any error into a Wire payload. Foreign errors map
// to INTERNAL_ERROR; nil maps to the zero Wire
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{
		Code:    ErrorCodeInternal,
		Message: fmt.Sprintf("%s: %v", ErrorCodeInternal, err),
	}
}

// Root walks Unwrap to the deepest cause
func Root(err error) error {
	if err == nil {
		return nil
	}
	for {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
}

// CodeOf extracts the ErrorCode from any error, defaulting to Internal
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeInternal
}

// IsCode reports whether err carries the given code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus returns the mapped HTTP status for any error
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// As unwraps and returns (*Error, true) if err is one of ours
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// WithField attaches a field name copy-on-write. Foreign errors come
// back unchanged
func WithField(err error, field string) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	c := *e
	c.field = field
	return &c
}

// New returns an *Error with code and message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf is New with formatting
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap keeps orig as the cause under a new code and message
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf is Wrap with formatting
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// Sugar for the codes minted all over the service

// NotFoundf mints the internal absence sentinel
func NotFoundf(format string, a ...any) error { return Newf(ErrorCodeNotFound, format, a...) }

// BankNotFoundf mints a bank ownership failure
func BankNotFoundf(format string, a ...any) error { return Newf(ErrorCodeBankNotFound, format, a...) }

// TaxonomyNotFoundf mints an unknown taxonomy reference failure
func TaxonomyNotFoundf(format string, a ...any) error {
	return Newf(ErrorCodeTaxonomyNotFound, format, a...)
}

// Unauthorizedf mints an identity binding failure
func Unauthorizedf(format string, a ...any) error { return Newf(ErrorCodeUnauthorized, format, a...) }

// ConstraintViolationf mints a structural input failure
func ConstraintViolationf(format string, a ...any) error {
	return Newf(ErrorCodeConstraintViolation, format, a...)
}

// QueryParamf mints a rejected query parameter failure
func QueryParamf(format string, a ...any) error { return Newf(ErrorCodeInvalidQueryParam, format, a...) }

// DuplicateUserf mints a duplicate bootstrap failure
func DuplicateUserf(format string, a ...any) error { return Newf(ErrorCodeDuplicateUser, format, a...) }

// DBf mints a general database failure
func DBf(format string, a ...any) error { return Newf(ErrorCodeDB, format, a...) }

// PanicErrf mints the internal error reported for recovered panics
func PanicErrf(format string, a ...any) error { return Newf(ErrorCodeInternal, format, a...) }

// Retryable reports whether the error is transient. Backed by the
// Postgres classification in pg.go
func Retryable(err error) bool { return IsRetryable(err) }
