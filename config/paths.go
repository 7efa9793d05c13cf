// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/paths.go
// Summary: Path helpers for bootmenu configuration.

package config

import (
	"os"
	"path/filepath"
)

// Root returns the bootmenu config directory.
func Root() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "bootmenu"), nil
}

func systemConfigPath() (string, error) {
	mu.RLock()
	override := pathOverride
	mu.RUnlock()
	if override != "" {
		return override, nil
	}
	return defaultSystemConfigPath()
}

func defaultSystemConfigPath() (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, systemConfigName), nil
}
