// Package net carries request scoped identity between middleware and
// handlers without making either import the other
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type userKey struct{}

// WithRequest stamps ctx with the request id under chi's key so
// chimw.GetReqID keeps working outside the middleware chain
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, reqID)
}

// WithUser stamps ctx with the authenticated user id
func WithUser(ctx context.Context, userID string) context.Context {
	if userID == "" {
		return ctx
	}
	return context.WithValue(ctx, userKey{}, userID)
}

// RequestID reads the request id, or "" when the request carries none
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// UserID reads the authenticated user id, or "" before auth ran
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userKey{}).(string)
	return id
}
