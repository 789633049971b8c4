// Package registry keeps a named catalog of capabilities so declarative
// configuration can bind workers to implementations at load time.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/convoy/pkg/ports"
)

// Registry maps capability names to their implementations.
type Registry struct {
	mu           sync.RWMutex
	capabilities map[string]ports.Capability
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		capabilities: make(map[string]ports.Capability),
	}
}

// Register adds a capability under the given name.
// If the name is already taken, the previous entry is overwritten.
func (r *Registry) Register(name string, cap ports.Capability) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.capabilities[name] = cap
}

// RegisterFunc adds a plain function as a capability.
func (r *Registry) RegisterFunc(name string, fn ports.CapabilityFunc) {
	r.Register(name, fn)
}

// Lookup returns the capability registered under name.
func (r *Registry) Lookup(name string) (ports.Capability, error) {
	r.mu.RLock()
	cap, ok := r.capabilities[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("capability not registered: %s", name)
	}
	return cap, nil
}

// Invoke looks up a capability by name and invokes it.
func (r *Registry) Invoke(ctx context.Context, name string, instruction string) (string, error) {
	cap, err := r.Lookup(name)
	if err != nil {
		return "", err
	}
	return cap.Invoke(ctx, instruction)
}

// Names lists the registered capability names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.capabilities))
	for name := range r.capabilities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
