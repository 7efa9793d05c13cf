// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: registry/metadata.go
// Summary: Loads optional metadata.json overrides for user apps.
// Usage: <search path>/<app>/metadata.json, every key optional.

package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MetadataFile is the per-app override file name.
const MetadataFile = "metadata.json"

// LoadMetadata reads <folder>/<name>/metadata.json.
// Any failure yields empty metadata; the caller cannot tell a broken file
// from a missing one.
func LoadMetadata(folder, name string) Metadata {
	m, err := readMetadata(filepath.Join(folder, name, MetadataFile))
	if err != nil {
		debugLog.Printf("Registry: No metadata for %s in %s: %v", name, folder, err)
		return Metadata{}
	}
	return m
}

// readMetadata matches keys exactly; encoding/json alone would also accept
// "Hidden" or "NAME".
func readMetadata(path string) (Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("read metadata: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Metadata{}, fmt.Errorf("parse metadata: %w", err)
	}

	var m Metadata
	fields := []struct {
		key string
		dst interface{}
	}{
		{"name", &m.Name},
		{"icon", &m.Icon},
		{"category", &m.Category},
		{"hidden", &m.Hidden},
		{"path", &m.Path},
		{"callable", &m.Callable},
	}
	for _, f := range fields {
		value, ok := raw[f.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, f.dst); err != nil {
			return Metadata{}, fmt.Errorf("parse metadata key %q: %w", f.key, err)
		}
	}
	return m, nil
}
