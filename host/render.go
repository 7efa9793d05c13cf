// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: host/render.go
// Summary: Draws the splash, the menu and the foreground app.

package host

import (
	"fmt"
	"strings"

	"github.com/framegrace/bootmenu/splash"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

const helpLine = "↑↓ select  ⏎ launch  f title  c chg  u usb  s sleep  q quit"

var (
	styleTitle   = tcell.StyleDefault.Bold(true)
	styleNormal  = tcell.StyleDefault
	styleFocused = tcell.StyleDefault.Reverse(true)
	styleStatus  = tcell.StyleDefault.Dim(true)
)

func (h *Host) draw() {
	if h.screen == nil {
		return
	}
	h.screen.Clear()
	switch {
	case h.splash != nil:
		h.drawSplash()
	case h.current != nil:
		h.drawApp()
	default:
		h.drawMenu()
	}
	h.screen.Show()
}

// drawSplash packs two pixel rows into each cell with an upper half block.
func (h *Host) drawSplash() {
	f := h.splash
	cols, rows := h.screen.Size()
	for py := 0; py < f.h; py += 2 {
		cy := (f.y + py) / 2
		if cy >= rows {
			break
		}
		for px := 0; px < f.w; px++ {
			cx := f.x + px
			if cx >= cols {
				break
			}
			top := pixelColor(f.pix[py*f.w+px])
			bottom := top
			if py+1 < f.h {
				bottom = pixelColor(f.pix[(py+1)*f.w+px])
			}
			h.screen.SetContent(cx, cy, '▀', nil, tcell.StyleDefault.Foreground(top).Background(bottom))
		}
	}
}

func pixelColor(p uint16) tcell.Color {
	r, g, b := splash.Unpack565(p)
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func (h *Host) drawMenu() {
	cols, rows := h.screen.Size()
	y := 0
	for _, line := range strings.Split(h.title, "\n") {
		drawText(h.screen, 0, y, cols, line, styleTitle)
		y++
	}
	y++

	// Scroll so the focused row stays visible above the status line.
	visible := rows - y - 1
	if visible < 1 {
		visible = 1
	}
	first := 0
	if h.focus >= visible {
		first = h.focus - visible + 1
	}
	for i := first; i < len(h.choices) && y < rows-1; i++ {
		style := styleNormal
		marker := "  "
		if i == h.focus {
			style = styleFocused
			marker = "> "
		}
		drawText(h.screen, 0, y, cols, marker+h.choices[i].Name, style)
		y++
	}

	status := h.status
	if status == "" {
		status = helpLine
	}
	drawText(h.screen, 0, rows-1, cols, status, styleStatus)
}

func (h *Host) drawApp() {
	if d, ok := h.current.(Drawer); ok {
		d.Draw(h.screen)
		return
	}
	cols, rows := h.screen.Size()
	msg := fmt.Sprintf("Running %s", h.current.AppID())
	x := (cols - runewidth.StringWidth(msg)) / 2
	if x < 0 {
		x = 0
	}
	drawText(h.screen, x, rows/2, cols-x, msg, styleTitle)
	drawText(h.screen, 0, rows-1, cols, "esc back to menu", styleStatus)
}

// drawText writes s at x, y, truncated to width display cells.
func drawText(s tcell.Screen, x, y, width int, text string, style tcell.Style) {
	if width <= 0 {
		return
	}
	text = runewidth.Truncate(text, width, "…")
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}
