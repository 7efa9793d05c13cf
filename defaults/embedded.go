// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: defaults/embedded.go
// Summary: Embedded default configuration and boot splash.

package defaults

import "embed"

//go:embed bootmenu.json splash.png
var fs embed.FS

// SystemConfig returns the embedded system config JSON.
func SystemConfig() ([]byte, error) {
	return fs.ReadFile("bootmenu.json")
}

// Splash returns the embedded boot splash PNG.
func Splash() ([]byte, error) {
	return fs.ReadFile("splash.png")
}
