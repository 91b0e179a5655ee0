package modkit

import (
	phttp "qbank/internal/platform/net/http"
)

// Module is the shared surface every API module presents to the host.
// Small on purpose; modules stay decoupled behind it
type Module interface {
	// MountRoutes attaches the module's HTTP routes to r
	MountRoutes(r phttp.Router)

	// Ports returns the module's cross-wiring surface. The concrete
	// type is owned by the module; callers assert what they need
	Ports() any

	// Name identifies the module in logs and the registry
	Name() string
}
