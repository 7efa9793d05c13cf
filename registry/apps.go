// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: registry/apps.go
// Summary: Enumerates built-in core apps and user apps found on search paths.

package registry

import (
	"os"
	"path/filepath"
	"strings"
)

// coreApps is the boot menu's fixed list, in display order.
var coreApps = []struct{ name, path, callable string }{
	{"USB Keyboard", "hid", "USBKeyboard"},
	{"Name Badge", "hello", "Hello"},
	{"Torch", "torch", "Torch"},
	{"Logo", "emflogo", "EMFLogo"},
	{"Update Firmware", "otaupdate", "OtaUpdate"},
	{"Wi-Fi Connect", "wifi_client", "WifiClient"},
	{"Sponsors", "sponsors", "Sponsors"},
	{"Battery", "battery", "Battery"},
	{"Accelerometer", "accel_app", "Accel"},
	{"Settings", "settings_app", "SettingsApp"},
	// {"Swatch", "swatch", "Swatch"},
	{"uGUI Demo", "ugui_demo", "uGUIDemo"},
}

// CoreApps returns the built-in apps in their fixed order.
// Core apps never carry metadata and are never hidden.
func CoreApps() []AppEntry {
	entries := make([]AppEntry, 0, len(coreApps))
	for _, app := range coreApps {
		entries = append(entries, AppEntry{
			Path:     app.path,
			Callable: app.callable,
			Name:     app.name,
			Category: DefaultCategory,
		})
	}
	return entries
}

// UserApps lists every entry of every search path, in search path order and
// name order within a path, applying metadata overrides and dropping hidden
// apps. Unreadable search paths contribute nothing.
func UserApps(searchPaths []string) []AppEntry {
	var entries []AppEntry
	for _, folder := range searchPaths {
		// os.ReadDir sorts by name, so listings are stable.
		files, err := os.ReadDir(folder)
		if err != nil {
			debugLog.Printf("Registry: Cannot list %s: %v", folder, err)
			files = nil
		}

		prefix := pathComponents(folder)
		for _, file := range files {
			name := file.Name()
			entry := AppEntry{
				Path:     strings.Join(append(prefix, name), "."),
				Callable: DefaultCallable,
				Name:     name,
				Category: DefaultCategory,
				Source:   filepath.Join(folder, name),
			}
			entry = entry.Apply(LoadMetadata(folder, name))
			if entry.Hidden {
				debugLog.Printf("Registry: Skipping hidden app %s", entry.Path)
				continue
			}
			entries = append(entries, entry)
		}
	}
	return entries
}

// pathComponents splits a slash-separated folder into its non-empty parts.
func pathComponents(folder string) []string {
	var parts []string
	for _, part := range strings.Split(filepath.ToSlash(folder), "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
