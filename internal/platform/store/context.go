package store

import "context"

type reqIDKey struct{}

// WithRequestID stamps the request id onto ctx so statements run on
// its behalf carry attribution in the sql trace
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, reqIDKey{}, id)
}

// RequestID reports the request id stamped on ctx, if any
func RequestID(ctx context.Context) (string, bool) {
	id, _ := ctx.Value(reqIDKey{}).(string)
	return id, id != ""
}
