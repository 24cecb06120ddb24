package shipping

import (
	"fmt"
	"sync"
)

// Registry holds the configured connectors in declared order.
type Registry struct {
	connectors map[string]Connector
	order      []string
	mu         sync.RWMutex
}

// NewRegistry creates a new connector registry.
func NewRegistry() *Registry {
	return &Registry{
		connectors: make(map[string]Connector),
	}
}

// Register adds a connector. Registering a name twice replaces the connector
// but keeps its original position.
func (r *Registry) Register(c Connector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.connectors[c.Name()]; !ok {
		r.order = append(r.order, c.Name())
	}
	r.connectors[c.Name()] = c
}

// Get returns a connector by name.
func (r *Registry) Get(name string) (Connector, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.connectors[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrSupplierNotFound, name)
}

// All returns the connectors in declared order.
func (r *Registry) All() []Connector {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Connector, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.connectors[name])
	}
	return result
}

// Names returns the connector names in declared order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Validate checks that every connector can take part in a selection.
func (r *Registry) Validate() error {
	for _, c := range r.All() {
		if len(c.ShippingMethods()) == 0 {
			return NewConfigurationError(c.Name(), "shipping methods", "catalog is empty")
		}
		if c.OriginZip() == "" {
			return NewConfigurationError(c.Name(), "origin zip", "not configured")
		}
	}
	return nil
}
