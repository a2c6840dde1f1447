package provider

import "sync"

// Registry holds the configured adapters. Registration order is part of
// the contract: the merger breaks confidence ties in favor of the
// earliest-registered adapter, so Ready must return adapters in a
// stable, deterministic order.
//
// Reads vastly outnumber writes; the RWMutex exists so credentials can
// be swapped at runtime (re-registration replaces the prior entry)
// without readers observing a partial update.
type Registry struct {
	mu       sync.RWMutex
	order    []string
	adapters map[string]Adapter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register adds an adapter keyed by its name. Re-registration replaces
// the prior entry but keeps its original order position.
func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.adapters[a.Name()]; !exists {
		r.order = append(r.order, a.Name())
	}
	r.adapters[a.Name()] = a
}

// Get returns an adapter by name, or nil if not registered.
func (r *Registry) Get(name string) Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.adapters[name]
}

// List returns all registered adapters in registration order.
func (r *Registry) List() []Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Adapter, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.adapters[name])
	}
	return out
}

// Ready returns every registered adapter that declares the capability
// and reports itself configured, in registration order.
func (r *Registry) Ready(cap Capability) []Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Adapter
	for _, name := range r.order {
		a := r.adapters[name]
		if !a.Configured() {
			continue
		}
		for _, c := range a.Capabilities() {
			if c == cap {
				out = append(out, a)
				break
			}
		}
	}
	return out
}
