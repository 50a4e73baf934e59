// Copyright (c) 2026 Canopy Authors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package canopy

import (
	"fmt"
	"sync"
)

// DefaultKey is the registry key used for the process-wide default
// configuration.
const DefaultKey = "default"

// registry holds the process-wide named configuration instances and the
// shared dependency container. Lifecycle is explicit: nothing is ever
// registered implicitly, and tests reset it with [ResetRegistry].
var registry = struct {
	mu      sync.RWMutex
	configs map[string]*Settings
	deps    *Deps
}{
	configs: make(map[string]*Settings),
	deps:    NewDeps(),
}

// GetConfig returns the configuration registered under the given key,
// creating and registering an empty one if none exists.
func GetConfig(key string) *Settings {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	s, ok := registry.configs[key]
	if !ok {
		s = New()
		registry.configs[key] = s
	}
	return s
}

// SetConfig registers a configuration under the given key, replacing any
// previous instance.
func SetConfig(key string, s *Settings) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.configs[key] = s
}

// RemoveConfig removes the configuration registered under the given key.
func RemoveConfig(key string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	delete(registry.configs, key)
}

// GetDeps returns the process-wide dependency container.
func GetDeps() *Deps {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return registry.deps
}

// ResetRegistry drops every registered configuration and dependency
// provider. It exists so tests can isolate themselves from each other.
func ResetRegistry() {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.configs = make(map[string]*Settings)
	registry.deps = NewDeps()
}

// UnknownDependencyError occurs when no provider is registered under the
// requested name.
type UnknownDependencyError struct {
	Name string
}

// Error implements the error interface.
func (e UnknownDependencyError) Error() string {
	return fmt.Sprintf("dependency %q not found", e.Name)
}

// DependencyTypeError occurs when a registered provider yields a value of
// a different type than the caller requested.
type DependencyTypeError struct {
	Name string
}

// Error implements the error interface.
func (e DependencyTypeError) Error() string {
	return fmt.Sprintf("dependency %q has unexpected type", e.Name)
}

// Deps is a container of named dependency providers. Providers are
// invoked on every Get.
type Deps struct {
	mu        sync.RWMutex
	providers map[string]func() any
}

// NewDeps returns an empty dependency container.
func NewDeps() *Deps {
	return &Deps{
		providers: make(map[string]func() any),
	}
}

// Register registers a provider under the given name, replacing any
// previous one.
func (d *Deps) Register(name string, provider func() any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.providers[name] = provider
}

// Get invokes the provider registered under the given name and returns
// its value. It fails with [UnknownDependencyError] if no provider is
// registered.
func (d *Deps) Get(name string) (any, error) {
	d.mu.RLock()
	provider, ok := d.providers[name]
	d.mu.RUnlock()
	if !ok {
		return nil, UnknownDependencyError{Name: name}
	}
	return provider(), nil
}
