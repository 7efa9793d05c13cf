// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/builtin/builtin.go
// Summary: Stand-ins for the badge's core apps on the development host.
// Usage: Importing the package registers one app per core menu entry.

package builtin

import (
	"github.com/framegrace/bootmenu/registry"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

var (
	styleName = tcell.StyleDefault.Bold(true)
	styleHint = tcell.StyleDefault.Dim(true)
)

// Placeholder stands in for a core app that needs badge hardware.
type Placeholder struct {
	entry       registry.AppEntry
	activations int
}

// NewPlaceholder returns a stand-in for entry.
func NewPlaceholder(entry registry.AppEntry) *Placeholder {
	return &Placeholder{entry: entry}
}

// AppID returns the entry's callable name.
func (p *Placeholder) AppID() string {
	return p.entry.Callable
}

// OnActivate counts how often the app was brought to the front.
func (p *Placeholder) OnActivate() {
	p.activations++
}

// Activations reports how often the app was brought to the front.
func (p *Placeholder) Activations() int {
	return p.activations
}

// Draw shows the app name and a note that it runs on the badge only.
func (p *Placeholder) Draw(screen tcell.Screen) {
	cols, rows := screen.Size()
	centered(screen, cols, rows/2-1, p.entry.Name, styleName)
	centered(screen, cols, rows/2+1, "needs badge hardware", styleHint)
	centered(screen, cols, rows-1, "esc back to menu", styleHint)
}

func centered(screen tcell.Screen, cols, y int, text string, style tcell.Style) {
	text = runewidth.Truncate(text, cols, "…")
	x := (cols - runewidth.StringWidth(text)) / 2
	if x < 0 {
		x = 0
	}
	for _, r := range text {
		screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}
