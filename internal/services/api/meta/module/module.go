// Package module wires the meta endpoints into the API
package module

import (
	"net/http"
	"time"

	modkit "qbank/internal/modkit"
	"qbank/internal/modkit/httpkit"

	metahttp "qbank/internal/services/api/meta/http"
)

// Module serves health, readiness, version and seed info
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws []func(http.Handler) http.Handler

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	startedAt time.Time
}

// New constructs the meta module (config-driven, parity with other API modules)
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		startedAt: time.Now(),
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		metahttp.Register(r, metahttp.Deps{
			ServiceName: "qbank-api",
			StartedAt:   m.startedAt,
			PG:          deps.PG,
			CH:          deps.CH,
		})
		external(r)
	}
	return m
}

// MountRoutes mounts the module routes under the module prefix. Build
// guarantees both hooks, so no nil checks here
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		m.register(m.subrouter(rr))
	})
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return m.prefix }

// Ports returns the module ports; meta exports none
func (m *Module) Ports() any { return nil }
