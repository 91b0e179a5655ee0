package httpkit

import (
	"net/http"
	"strconv"

	perrs "qbank/internal/platform/errors"
	pnet "qbank/internal/platform/net"
)

// User returns the authenticated principal from the request context.
// Routes behind Protected always carry one; elsewhere this errors
func User(r *http.Request) (string, error) {
	if uid := pnet.UserID(r.Context()); uid != "" {
		return uid, nil
	}
	return "", perrs.Unauthorizedf("missing bearer token")
}

// UserInt64 returns the authenticated user id in its numeric form.
// Auth guarantees the principal is numeric, so a parse failure here means
// the request never went through the middleware
func UserInt64(r *http.Request) (int64, error) {
	uid, err := User(r)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(uid, 10, 64)
	if err != nil {
		return 0, perrs.Unauthorizedf("invalid bearer token")
	}
	return n, nil
}
