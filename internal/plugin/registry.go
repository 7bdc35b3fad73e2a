package plugin

import (
	"fmt"
	"sort"
	"sync"
)

// RegistryError reports a registration conflict or a missing plugin.
type RegistryError struct {
	Name   string
	Reason string
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("plugin %q: %s", e.Name, e.Reason)
}

// Registry tracks the plugin contexts active in one host process.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]*Context
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{plugins: map[string]*Context{}}
}

// Register adds a plugin context. Names are unique; re-registering one is
// an error.
func (r *Registry) Register(c *Context) error {
	if c.Info.Name == "" {
		return &RegistryError{Reason: "empty plugin name"}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.plugins[c.Info.Name]; exists {
		return &RegistryError{Name: c.Info.Name, Reason: "already registered"}
	}
	r.plugins[c.Info.Name] = c
	return nil
}

// Get returns the named plugin context.
func (r *Registry) Get(name string) (*Context, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.plugins[name]
	if !ok {
		return nil, &RegistryError{Name: name, Reason: "not registered"}
	}
	return c, nil
}

// Names lists the registered plugins, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
