// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/builtin/register.go
// Summary: Registers the core app stand-ins with the registry.

package builtin

import "github.com/framegrace/bootmenu/registry"

func init() {
	for _, entry := range registry.CoreApps() {
		entry := entry
		registry.RegisterBuiltInProvider(func() (registry.Key, registry.AppFactory) {
			if entry.Callable == torchID {
				return entry.Key(), func() registry.App { return Torch{} }
			}
			return entry.Key(), func() registry.App { return NewPlaceholder(entry) }
		})
	}
}
