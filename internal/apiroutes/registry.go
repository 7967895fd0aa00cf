// Package apiroutes keeps a registry of the HTTP surface so the API root can
// describe itself.
package apiroutes

import "sync"

// Route is one registered endpoint.
type Route struct {
	Path        string `json:"path"`
	Method      string `json:"method"`
	Description string `json:"description"`
}

var (
	registry   = make([]Route, 0)
	registryMu sync.RWMutex
)

// Register records an endpoint. Handlers call this while wiring routes.
func Register(path, method, description string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = append(registry, Route{Path: path, Method: method, Description: description})
}

// List returns a copy of the registered endpoints.
func List() []Route {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Route, len(registry))
	copy(out, registry)
	return out
}

// Reset clears the registry so a rebuilt router can re-register its routes.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = registry[:0]
}
