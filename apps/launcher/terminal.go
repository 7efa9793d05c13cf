// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/launcher/terminal.go
// Summary: Text-mode menu loop for hosts without a display.

package launcher

import "strings"

// TerminalMenu is a blocking text menu.
type TerminalMenu interface {
	Clear() error

	// Menu shows title and items and returns the chosen index.
	Menu(title string, items []string) (int, error)
}

// RunTerminal drives the launcher from a text menu. It loops until the
// menu or a launch fails and returns that error.
func (l *Launcher) RunTerminal(m TerminalMenu) error {
	for {
		if err := m.Clear(); err != nil {
			return err
		}

		choices := l.Choices()
		names := make([]string, len(choices))
		for i, c := range choices {
			names[i] = c.Name
		}

		title := l.window.Title()
		if title == "" {
			title = l.ComputeTitle()
		}
		idx, err := m.Menu(strings.ReplaceAll(title, "\n", " "), names)
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(choices) {
			continue
		}

		l.window.SetFocusIdx(idx, false)
		if err := choices[idx].Action(); err != nil {
			return err
		}
	}
}
