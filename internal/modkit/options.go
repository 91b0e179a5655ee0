package modkit

import (
	"net/http"

	"qbank/internal/modkit/httpkit"
)

// Option adjusts a module's build state. Options write straight into the
// Built value; Build fills hook defaults afterwards
type Option func(*Built)

// WithName names the module for logs and the registry
func WithName(name string) Option {
	return func(b *Built) { b.Name = name }
}

// WithPrefix mounts the module under a path prefix
func WithPrefix(prefix string) Option {
	return func(b *Built) { b.Prefix = prefix }
}

// WithMiddlewares appends per-module middleware, applied in order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// WithPorts hands the module ports declared elsewhere; the concrete
// type belongs to the receiving module
func WithPorts[T any](p T) Option {
	return func(b *Built) { b.Ports = p }
}

// WithSubrouter supplies the subrouter factory used at mount time
func WithSubrouter(fn func(httpkit.Router) httpkit.Router) Option {
	return func(b *Built) { b.Subrouter = fn }
}

// WithRegister supplies the endpoint registration hook
func WithRegister(fn func(httpkit.Router)) Option {
	return func(b *Built) { b.Register = fn }
}
