// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: registry/builtins.go
// Summary: Lets app packages add themselves to every registry from init.

package registry

import (
	"log"
	"sync"
)

// BuiltInProvider yields one compiled-in app: its key and its factory.
type BuiltInProvider func() (Key, AppFactory)

var builtIns struct {
	sync.Mutex
	providers []BuiltInProvider
}

// RegisterBuiltInProvider queues provider for RegisterBuiltIns. App packages
// call it from init.
func RegisterBuiltInProvider(provider BuiltInProvider) {
	if provider == nil {
		return
	}
	builtIns.Lock()
	defer builtIns.Unlock()
	builtIns.providers = append(builtIns.providers, provider)
}

// RegisterBuiltIns adds every queued app to reg and returns how many were
// added. Providers returning a nil factory are skipped.
func RegisterBuiltIns(reg *Registry) int {
	if reg == nil {
		return 0
	}
	builtIns.Lock()
	providers := append([]BuiltInProvider(nil), builtIns.providers...)
	builtIns.Unlock()

	added := 0
	for _, provider := range providers {
		key, factory := provider()
		if factory == nil {
			debugLog.Printf("Registry: Built-in %s has no factory", key)
			continue
		}
		reg.Register(key, factory)
		added++
	}
	log.Printf("Registry: Registered %d built-in apps", added)
	return added
}
