// Package module holds the minimal module contract plus port discovery.
// Sibling to modkit so a module can export its own ports type without
// an import knot
package module

import (
	phttp "qbank/internal/platform/net/http"
)

// Module is what the host needs from a mounted module
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
