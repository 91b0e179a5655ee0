package net

import (
	"net/http"

	perr "qbank/internal/platform/errors"
)

// Wire is the envelope for replies written outside the http package
// helpers, such as middleware that answers before a handler runs
type Wire struct {
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	Code      perr.ErrorCode `json:"code,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Data      any            `json:"data"`
}

// OK builds a 200 envelope
func OK(data any, reqID string) (int, Wire) { return succeed(http.StatusOK, data, reqID) }

// Created builds a 201 envelope
func Created(data any, reqID string) (int, Wire) { return succeed(http.StatusCreated, data, reqID) }

// NoContent builds a 204 envelope with no payload
func NoContent(reqID string) (int, Wire) { return succeed(http.StatusNoContent, nil, reqID) }

// succeed fills the ok shape; Message mirrors the status text so clients
// see "OK", "Created", "No Content" without a lookup table of their own
func succeed(status int, data any, reqID string) (int, Wire) {
	return status, Wire{
		Success:   true,
		Message:   http.StatusText(status),
		RequestID: reqID,
		Data:      data,
	}
}

// HTTPStatus maps a project error to its http status. nil reads as 200
// so callers can pass a handler result straight through
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return perr.HTTPStatus(err)
}

// Error renders err through the project error vocabulary. A nil err
// degrades to OK so callers need no special case
func Error(err error, reqID string) (int, Wire) {
	if err == nil {
		return OK(nil, reqID)
	}
	w := perr.WireFrom(err)
	return HTTPStatus(err), Wire{
		Success:   false,
		Message:   w.Message,
		Code:      w.Code,
		RequestID: reqID,
	}
}
