// Package http carries the JSON envelope every endpoint answers with,
// plus the return-style Response handlers are written against
package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "qbank/internal/platform/errors"
	pnet "qbank/internal/platform/net"
)

// Envelope is the standard response body for all endpoints.
// Success/message/data are the contract; code is set on failures only and
// message then begins with "CODE: reason"
type Envelope struct {
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	Code      perr.ErrorCode `json:"code,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Data      any            `json:"data"`
}

// JSON encodes v as application/json under the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Response is what return-style handlers produce. A zero Status means 200
// and an error Body takes over the status and envelope
type Response struct {
	Status int
	Body   any
	// extra headers to set before the body goes out
	Header stdhttp.Header
}

// Handle turns a Response-returning handler into a stdlib HandlerFunc
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w, r)
	}
}

// OK wraps data in a 200 response
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Created wraps data in a 201 response
func Created(data any) Response { return Response{Status: stdhttp.StatusCreated, Body: data} }

// Error defers to the body error for both status and envelope
func Error(err error) Response { return Response{Body: err} }

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}

	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	if status == stdhttp.StatusNoContent {
		w.WriteHeader(stdhttp.StatusNoContent)
		return
	}

	reqID := pnet.RequestID(r.Context())

	// an error body decides the status before the envelope is built
	if err, ok := resp.Body.(error); ok && err != nil {
		wire := perr.WireFrom(err)
		JSON(w, perr.HTTPStatus(err), Envelope{
			Success:   false,
			Message:   wire.Message,
			Code:      wire.Code,
			RequestID: reqID,
		})
		return
	}

	JSON(w, status, Envelope{
		Success:   true,
		Message:   stdhttp.StatusText(status),
		RequestID: reqID,
		Data:      resp.Body,
	})
}
