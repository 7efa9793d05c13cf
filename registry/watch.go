// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: registry/watch.go
// Summary: Watches user app search paths for installs and removals.
// Usage: The command forwards change notifications to the menu so newly
// installed apps show up without a reboot.

package registry

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce coalesces bursts of events (e.g. copying an app folder).
const DefaultWatchDebounce = 250 * time.Millisecond

// Watcher reports changes below the user app search paths.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	onChange func()
}

// NewWatcher watches every existing search path and the app folders inside it.
// Missing search paths are skipped. onChange runs on the watcher goroutine.
func NewWatcher(searchPaths []string, debounce time.Duration, onChange func()) (*Watcher, error) {
	if onChange == nil {
		return nil, fmt.Errorf("watcher requires a change callback")
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{fs: fw, debounce: debounce, onChange: onChange}
	watched := 0
	for _, folder := range searchPaths {
		if err := fw.Add(folder); err != nil {
			debugLog.Printf("Registry: Not watching %s: %v", folder, err)
			continue
		}
		watched++
		w.addAppFolders(folder)
	}
	log.Printf("Registry: Watching %d of %d search paths", watched, len(searchPaths))
	return w, nil
}

// addAppFolders watches the immediate subdirectories of folder so that
// metadata.json edits are noticed.
func (w *Watcher) addAppFolders(folder string) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := w.fs.Add(filepath.Join(folder, entry.Name())); err != nil {
			debugLog.Printf("Registry: Not watching %s: %v", entry.Name(), err)
		}
	}
}

// Run delivers debounced change notifications until ctx is done or the
// watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.fs.Add(ev.Name)
				}
			}
			debugLog.Printf("Registry: %s", ev)
			fire = time.After(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			log.Printf("Registry: Watch error: %v", err)

		case <-fire:
			fire = nil
			w.onChange()
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
