// Package module wires banks into the API using modkit
package module

import (
	"net/http"

	modkit "qbank/internal/modkit"
	"qbank/internal/modkit/httpkit"

	bhttp "qbank/internal/services/api/banks/http"
	bsvc "qbank/internal/services/api/banks/service"
	adom "qbank/internal/services/audit/domain"
)

// Module implements the banks API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports any

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc *bsvc.Svc
}

// Ports declares the required injected port(s) for this API module
type Ports struct {
	Audit adom.RecorderPort
}

// New constructs the banks module (config-driven, parity with other API modules)
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("banks"),
		modkit.WithPrefix("/banks"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Audit == nil {
		panic("banks API module requires Audit port (from services/audit)")
	}

	svc := bsvc.New(deps, bsvc.Options{Audit: injected.Audit})

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptBanksPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		bhttp.Register(r, m.svc)
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
