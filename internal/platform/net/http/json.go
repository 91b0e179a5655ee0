package http

import (
	"net/http"

	"qbank/internal/platform/net/http/bind"
)

// JSONHandler decodes and validates T from the request body, then runs
// fn. Handlers may return a Response to control status and headers;
// any other value rides the 200 envelope
func JSONHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return Error(err)
		}
		out, err := fn(r, in)
		if err != nil {
			return Error(err)
		}
		if resp, ok := out.(Response); ok {
			return resp
		}
		return OK(out)
	})
}
