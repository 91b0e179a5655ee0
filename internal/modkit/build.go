package modkit

import (
	"net/http"

	"qbank/internal/modkit/httpkit"
	pstrings "qbank/internal/platform/strings"
)

// Built is the resolved option set a module reads after Build
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any

	// router hooks; Build guarantees both are non-nil
	Subrouter func(httpkit.Router) httpkit.Router
	Register  func(httpkit.Router)
}

// Build folds opts into a Built. Hooks default to the identity subrouter
// and a no-op register so modules never nil-check them. A set prefix is
// normalized to the /banks shape modules mount under
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	if b.Prefix != "" {
		b.Prefix = pstrings.MustPrefix(b.Prefix)
	}
	if b.Subrouter == nil {
		b.Subrouter = func(r httpkit.Router) httpkit.Router { return r }
	}
	if b.Register == nil {
		b.Register = func(httpkit.Router) {}
	}
	return b
}
