// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: registry/registry.go
// Summary: Maps app locations and entry points to factories.
// Usage: Built once at startup; the launcher resolves (path, callable) here
// instead of importing code by name.

package registry

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
)

var (
	// ErrModuleNotFound means nothing is registered under the app's path.
	ErrModuleNotFound = errors.New("module not found")

	// ErrCallableNotFound means the path is known but lacks the entry point.
	ErrCallableNotFound = errors.New("callable not found")
)

// Registry manages the collection of app factories.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]map[string]AppFactory // path -> callable -> factory
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		modules: make(map[string]map[string]AppFactory),
	}
}

// Register binds a factory to a path and entry point.
// Registering the same key twice replaces the earlier factory.
func (r *Registry) Register(key Key, factory AppFactory) {
	if factory == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	callables, ok := r.modules[key.Path]
	if !ok {
		callables = make(map[string]AppFactory)
		r.modules[key.Path] = callables
	}
	if _, exists := callables[key.Callable]; exists {
		log.Printf("Registry: Replacing factory for %s", key)
	}
	callables[key.Callable] = factory
	debugLog.Printf("Registry: Registered %s", key)
}

// Resolve returns the factory for path and callable.
func (r *Registry) Resolve(path, callable string) (AppFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	callables, ok := r.modules[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, path)
	}
	factory, ok := callables[callable]
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrCallableNotFound, callable, path)
	}
	return factory, nil
}

// Has reports whether a factory is registered for key.
func (r *Registry) Has(key Key) bool {
	_, err := r.Resolve(key.Path, key.Callable)
	return err == nil
}

// Keys returns all registered keys sorted by path, then callable.
func (r *Registry) Keys() []Key {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var keys []Key
	for path, callables := range r.modules {
		for callable := range callables {
			keys = append(keys, Key{Path: path, Callable: callable})
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Path != keys[j].Path {
			return keys[i].Path < keys[j].Path
		}
		return keys[i].Callable < keys[j].Callable
	})
	return keys
}

// Count returns the total number of registered factories.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, callables := range r.modules {
		n += len(callables)
	}
	return n
}
