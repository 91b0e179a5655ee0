// Package module wires questions into the API using modkit
package module

import (
	"net/http"

	modkit "qbank/internal/modkit"
	"qbank/internal/modkit/httpkit"

	bdom "qbank/internal/services/api/banks/domain"
	qhttp "qbank/internal/services/api/questions/http"
	qsvc "qbank/internal/services/api/questions/service"
	adom "qbank/internal/services/audit/domain"
)

// Module implements the questions API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws []func(http.Handler) http.Handler

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc *qsvc.Svc
}

// Ports declares the required injected ports for this API module
type Ports struct {
	Audit     adom.RecorderPort
	Ownership bdom.OwnershipPort
	Taxonomy  bdom.TaxonomyPort
}

// New constructs the questions module (config-driven, parity with other API modules)
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("questions"),
		modkit.WithPrefix("/users"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Audit == nil {
		panic("questions API module requires Audit port (from services/audit)")
	}
	if injected.Ownership == nil {
		panic("questions API module requires Ownership port (from api/banks)")
	}
	if injected.Taxonomy == nil {
		panic("questions API module requires Taxonomy port (from api/banks)")
	}

	svc := qsvc.New(deps, qsvc.Options{
		Audit:     injected.Audit,
		Ownership: injected.Ownership,
		Taxonomy:  injected.Taxonomy,
	})

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		qhttp.Register(r, m.svc)
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

// Ports returns the module ports; questions exports none
func (m *Module) Ports() any { return nil }
