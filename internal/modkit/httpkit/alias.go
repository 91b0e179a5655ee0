// Package httpkit is the http surface modules build on: envelope
// aliases, route sugar and the bearer auth port. Modules import this
// instead of internal/platform/net/http so the platform stays swappable
package httpkit

import (
	"net/http"

	phttp "qbank/internal/platform/net/http"
)

type (
	// Envelope is the wire envelope every response is wrapped in
	Envelope = phttp.Envelope

	// Response pairs a status with a payload
	Response = phttp.Response

	// Handler is the envelope-aware handler the router mounts
	Handler = phttp.Handler

	// Router is the platform routing seam
	Router = phttp.Router
)

// OK wraps data in a 200 response
func OK(data any) Response { return phttp.OK(data) }

// Created wraps data in a 201 response
func Created(data any) Response { return phttp.Created(data) }

// Error maps an error onto its status and envelope
func Error(err error) Response { return phttp.Error(err) }

// Param reads the named URL path parameter
func Param(r *http.Request, name string) string { return phttp.Param(r, name) }

// Handle adapts a Response returning function
func Handle(fn func(*http.Request) Response) Handler { return phttp.Handle(fn) }

// Call adapts a body-less handler onto the envelope pipeline. Handlers
// may return a full Response to control status and headers themselves
func Call(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		out, err := fn(r)
		if err != nil {
			return Error(err)
		}
		if resp, ok := out.(Response); ok {
			return resp
		}
		return OK(out)
	})
}
