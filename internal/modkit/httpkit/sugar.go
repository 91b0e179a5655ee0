package httpkit

import (
	"net/http"

	phttp "qbank/internal/platform/net/http"
)

// PostJSON mounts a JSON-body handler under POST. T is decoded with
// unknown fields rejected before the handler runs
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.JSONHandler(h))
}

// PutJSON mounts a JSON-body handler under PUT
func PutJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Put(path, phttp.JSONHandler(h))
}

// Get mounts a body-less handler under GET through the envelope adapter
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Call(h))
}
