package module

import (
	"sync"

	pstrings "qbank/internal/platform/strings"
)

// registry is the process-wide port directory filled during bootstrap.
// Single-process composition only; tests Reset between cases
type registry struct {
	mu      sync.RWMutex
	bundles map[string]any
}

var ports = &registry{bundles: map[string]any{}}

// Register files a module's port bundle under its name. A blank name
// would shadow every lookup, so it panics instead
func Register(name string, bundle any) {
	name = pstrings.MustString(name, "module name")
	ports.mu.Lock()
	defer ports.mu.Unlock()
	ports.bundles[name] = bundle
}

// PortsAs looks up name and asserts the bundle to T
func PortsAs[T any](name string) (T, bool) {
	ports.mu.RLock()
	v, found := ports.bundles[name]
	ports.mu.RUnlock()

	var zero T
	if !found {
		return zero, false
	}
	out, ok := v.(T)
	return out, ok
}

// Reset clears the registry between tests
func Reset() {
	ports.mu.Lock()
	defer ports.mu.Unlock()
	ports.bundles = map[string]any{}
}
