// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Default values and typed settings for the boot menu.

package config

import (
	"log"
	"path/filepath"
	"time"
)

// Keys of the top-level section.
const (
	KeyTitle       = "title"
	KeySplashMS    = "splash_ms"
	KeySearchPaths = "search_paths"
	KeyStateFile   = "state_file"
	KeyHistoryDB   = "history_db"
	KeyWatchApps   = "watch_apps"
)

const (
	defaultTitle    = "EMF 2022 - TiDAL\nBoot Menu"
	defaultSplashMS = 300
	stateFileName   = "lastapplaunch.txt"
	appsDirName     = "apps"
)

func applySystemDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	section := Section{
		KeyTitle:     defaultTitle,
		KeySplashMS:  defaultSplashMS,
		KeyHistoryDB: "",
		KeyWatchApps: false,
	}
	if root, err := Root(); err == nil {
		section[KeySearchPaths] = []interface{}{filepath.Join(root, appsDirName)}
		section[KeyStateFile] = filepath.Join(root, stateFileName)
	} else {
		log.Printf("Config: No config root, search paths and state file unset: %v", err)
	}
	cfg.RegisterDefaults("", section)
}

// Settings is the typed view of the boot menu config.
type Settings struct {
	Title       string
	Splash      time.Duration
	SearchPaths []string
	StateFile   string
	HistoryDB   string
	WatchApps   bool
}

// Settings reads the boot menu settings, falling back to defaults for
// missing or mistyped keys. A negative splash_ms disables the splash.
func (c Config) Settings() Settings {
	ms := c.GetInt("", KeySplashMS, defaultSplashMS)
	if ms < 0 {
		ms = 0
	}
	s := Settings{
		Title:       c.GetString("", KeyTitle, defaultTitle),
		Splash:      time.Duration(ms) * time.Millisecond,
		SearchPaths: c.GetStrings("", KeySearchPaths, nil),
		StateFile:   c.GetString("", KeyStateFile, ""),
		HistoryDB:   c.GetString("", KeyHistoryDB, ""),
		WatchApps:   c.GetBool("", KeyWatchApps, false),
	}
	if root, err := Root(); err == nil {
		if s.SearchPaths == nil {
			s.SearchPaths = []string{filepath.Join(root, appsDirName)}
		}
		if s.StateFile == "" {
			s.StateFile = filepath.Join(root, stateFileName)
		}
	}
	return s
}
