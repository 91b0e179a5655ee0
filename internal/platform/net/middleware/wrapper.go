// Package middleware provides thin adapters over chi middleware without leaking chi types
package middleware

import (
	"net/http"
	"time"

	pstrings "qbank/internal/platform/strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// Stack is the shape every adapter here returns
type Stack = func(http.Handler) http.Handler

// RequestID attaches or propagates X-Request-ID and stores it on context
func RequestID() Stack { return chimw.RequestID }

// RealIP sets RemoteAddr from X-Forwarded-For / X-Real-IP headers
func RealIP() Stack { return chimw.RealIP }

// Timeout cancels the request context after d
func Timeout(d time.Duration) Stack { return chimw.Timeout(d) }

// NoCache sets headers that disable client and proxy caching
func NoCache() Stack { return chimw.NoCache }

// Compress wraps chi's compressor at the given flate level
func Compress(level int) Stack {
	c := chimw.NewCompressor(level)
	return func(next http.Handler) http.Handler { return c.Handler(next) }
}

// RedirectSlashes redirects /questions/ to /questions
func RedirectSlashes() Stack { return chimw.RedirectSlashes }

// StripSlashes strips a trailing slash from the request path
func StripSlashes() Stack { return chimw.StripSlashes }

// Heartbeat replies 200 OK to GET path for load balancer checks
func Heartbeat(path string) Stack { return chimw.Heartbeat(path) }

// CORSOptions is a narrow surface over go-chi/cors
type CORSOptions struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// CORS wraps go-chi/cors. Methods and headers fall back to the verbs and
// headers the api actually serves when left empty
func CORS(o CORSOptions) Stack {
	return chicors.Handler(chicors.Options{
		AllowedOrigins: o.AllowedOrigins,
		AllowedMethods: pstrings.IfEmpty(o.AllowedMethods, []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		AllowedHeaders: pstrings.IfEmpty(o.AllowedHeaders, []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
		}),
		ExposedHeaders:   o.ExposedHeaders,
		AllowCredentials: o.AllowCredentials,
		MaxAge:           o.MaxAge,
	})
}
