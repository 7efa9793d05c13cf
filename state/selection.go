// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: state/selection.go
// Summary: Persists the last launched menu index across reboots.

package state

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// SelectionFile stores a single decimal menu index.
type SelectionFile struct {
	path string
}

// NewSelectionFile creates a selection file manager for path.
func NewSelectionFile(path string) *SelectionFile {
	return &SelectionFile{path: path}
}

// Path returns the selection file path.
func (f *SelectionFile) Path() string {
	return f.path
}

// Read returns the stored index.
func (f *SelectionFile) Read() (int, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return 0, fmt.Errorf("read selection: %w", err)
	}

	idx, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parse selection: %w", err)
	}
	return idx, nil
}

// Write replaces the stored index.
func (f *SelectionFile) Write(idx int) error {
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create selection directory: %w", err)
		}
	}
	if err := os.WriteFile(f.path, []byte(strconv.Itoa(idx)), 0644); err != nil {
		return fmt.Errorf("write selection: %w", err)
	}
	return nil
}

// Restore returns the stored index, or 0 when it cannot be read.
func (f *SelectionFile) Restore() int {
	idx, err := f.Read()
	if err != nil {
		return 0
	}
	return idx
}
