package provider

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is a thread-safe registry of provider factories keyed by name.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

type entry struct {
	info    Info
	factory Factory
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds a provider. Duplicate registrations overwrite the previous entry.
func (r *Registry) Register(info Info, factory Factory) error {
	if info.Name == "" {
		return fmt.Errorf("provider name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("provider %q: nil factory", info.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[info.Name] = entry{info: info, factory: factory}
	return nil
}

// Get returns a provider's info by name, or an error if not found.
func (r *Registry) Get(name string) (Info, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return Info{}, &ErrProviderNotFound{Name: name}
	}
	return e.info, nil
}

// List returns info about all registered providers, sorted by name.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.entries))
	for _, e := range r.entries {
		infos = append(infos, e.info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}

// New builds a client of the named provider for apiKey.
// An empty key yields a KeyRequired error without touching the factory.
func (r *Registry) New(name, apiKey string, opts Options) (Client, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &ErrProviderNotFound{Name: name}
	}
	if apiKey == "" {
		return nil, KeyRequired()
	}
	return e.factory(apiKey, opts.withDefaults(e.info))
}
