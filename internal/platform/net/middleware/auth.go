package middleware

import (
	"net/http"

	"qbank/internal/platform/logger"
	pnet "qbank/internal/platform/net"
)

// AuthPort resolves the authenticated principal from the request
type AuthPort interface {
	// Parse returns the principal user id from the request or an error
	Parse(r *http.Request) (userID string, err error)
}

// Auth binds the principal onto the context for handlers downstream.
// A nil port lets the chain continue unauthenticated so public routes
// and tests can mount without token plumbing
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if p == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			ctx := pnet.WithUser(r.Context(), uid)
			ctx = logger.WithRequest(ctx, "", uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
