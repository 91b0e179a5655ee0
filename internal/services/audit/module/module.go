// Package module wires the audit sink and exposes its ports
package module

import (
	"qbank/internal/modkit"
	"qbank/internal/modkit/httpkit"
	"qbank/internal/services/audit/service"
)

// Module defines the audit worker module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the audit module with its ports
func New(deps modkit.Deps, overrides Options) *Module {
	// Load defaults, then apply non-zero overrides
	opts := FromConfig(deps.Cfg)

	if overrides.QueueSize != 0 {
		opts.QueueSize = overrides.QueueSize
	}
	if overrides.WriteTimeout != 0 {
		opts.WriteTimeout = overrides.WriteTimeout
	}

	svc := service.New(deps, service.Config{
		QueueSize:    opts.QueueSize,
		WriteTimeout: opts.WriteTimeout,
	})

	m := &Module{deps: deps}
	m.ports = Ports{
		Recorder: svc,
		Worker:   svc,
	}
	return m
}

// Ports returns the module ports (Recorder, Worker)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "audit" }

// Prefix returns the module config prefix (none for worker-only service)
func (m *Module) Prefix() string { return "" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
