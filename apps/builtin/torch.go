// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/builtin/torch.go
// Summary: Torch app, which lights the whole panel.

package builtin

import "github.com/gdamore/tcell/v2"

const torchID = "Torch"

// Torch fills the panel with white.
type Torch struct{}

// AppID implements registry.App.
func (Torch) AppID() string { return torchID }

// Draw paints every cell white.
func (Torch) Draw(screen tcell.Screen) {
	cols, rows := screen.Size()
	style := tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorWhite)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			screen.SetContent(x, y, ' ', nil, style)
		}
	}
}
