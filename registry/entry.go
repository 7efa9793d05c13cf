// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: registry/entry.go
// Summary: Defines the launchable app entry and its metadata overrides.

package registry

// DefaultCategory is assigned to entries whose metadata does not name one.
const DefaultCategory = "unknown"

// DefaultCallable is the entry point assumed for user-installed apps.
const DefaultCallable = "main"

// App is a launchable application instance.
type App interface {
	AppID() string
}

// AppFactory creates a new app instance.
type AppFactory func() App

// Key identifies an app by its location and entry point.
type Key struct {
	Path     string
	Callable string
}

func (k Key) String() string {
	return k.Path + ":" + k.Callable
}

// AppEntry describes one launchable application.
type AppEntry struct {
	// Path identifies where the app lives (e.g., "torch", "apps.weather")
	Path string

	// Callable names the entry point within Path
	Callable string

	// Name is the menu label. The badge screen fits 16 cells.
	Name string

	// Icon is unused by the menu today; empty means absent
	Icon string

	Category string
	Hidden   bool

	// Source is the file or directory a user app was found at; empty for
	// core apps. Metadata cannot override it.
	Source string
}

// Key returns the registry key for the entry.
func (e AppEntry) Key() Key {
	return Key{Path: e.Path, Callable: e.Callable}
}

// Metadata holds per-app overrides read from metadata.json.
// Nil fields leave the default untouched; the zero value overrides nothing.
type Metadata struct {
	Name     *string `json:"name,omitempty"`
	Icon     *string `json:"icon,omitempty"`
	Category *string `json:"category,omitempty"`
	Hidden   *bool   `json:"hidden,omitempty"`
	Path     *string `json:"path,omitempty"`
	Callable *string `json:"callable,omitempty"`
}

// Empty reports whether the metadata overrides nothing.
func (m Metadata) Empty() bool {
	return m == Metadata{}
}

// Apply returns a copy of e with every field set in m overridden.
func (e AppEntry) Apply(m Metadata) AppEntry {
	if m.Name != nil {
		e.Name = *m.Name
	}
	if m.Icon != nil {
		e.Icon = *m.Icon
	}
	if m.Category != nil {
		e.Category = *m.Category
	}
	if m.Hidden != nil {
		e.Hidden = *m.Hidden
	}
	if m.Path != nil {
		e.Path = *m.Path
	}
	if m.Callable != nil {
		e.Callable = *m.Callable
	}
	return e
}
