package httpkit

import (
	"net/http"
	"strings"

	perrs "qbank/internal/platform/errors"
)

// TokenFunc resolves a bearer token to the principal user id
type TokenFunc func(token string) (userID string, err error)

// Port satisfies middleware.AuthPort by reading the Authorization
// header and delegating token resolution to a TokenFunc
type Port struct {
	parse TokenFunc
}

// NewPortFunc builds a Port from a parser function
func NewPortFunc(fn TokenFunc) *Port { return &Port{parse: fn} }

// Parse pulls the bearer token out of r and resolves it. A missing or
// malformed header and a parser failure all come back unauthorized
func (p *Port) Parse(r *http.Request) (string, error) {
	tok, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	if p.parse == nil {
		return "", perrs.Unauthorizedf("invalid bearer token")
	}
	uid, err := p.parse(tok)
	if err != nil {
		return "", perrs.Unauthorizedf("invalid bearer token")
	}
	return uid, nil
}

// bearerToken accepts any case for the scheme and tolerates padding
// around both the scheme and the token itself
func bearerToken(header string) (string, bool) {
	s := strings.TrimSpace(header)
	const scheme = "bearer"
	if len(s) < len(scheme) || !strings.EqualFold(s[:len(scheme)], scheme) {
		return "", false
	}
	tok := strings.TrimSpace(s[len(scheme):])
	return tok, tok != ""
}
