// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: host/input.go
// Summary: Maps keys to menu navigation and simulated badge hardware.

package host

import (
	"log"

	"github.com/framegrace/bootmenu/apps/launcher"
	"github.com/gdamore/tcell/v2"
)

// handleKey processes one key and reports whether the host should quit.
func (h *Host) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return true
	}

	if h.current != nil {
		if ev.Key() == tcell.KeyEscape {
			h.returnToMenu()
		}
		return false
	}

	if ev.Key() == tcell.KeyRune {
		switch ev.Rune() {
		case 'q':
			return true
		case 'c':
			h.SetCharging(!h.charge)
		case 'u':
			h.SetUSBConnected(!h.usb)
			h.Press(launcher.ButtonFront)
		case 's':
			h.SetSleepEnabled(!h.sleepEnabled)
			h.Press(launcher.ButtonFront)
		case 'f':
			h.Press(launcher.ButtonFront)
		}
		return false
	}

	if !h.inputActive {
		return false
	}
	switch ev.Key() {
	case tcell.KeyUp:
		if h.focus > 0 {
			h.SetFocusIdx(h.focus-1, true)
		}
	case tcell.KeyDown:
		if h.focus < len(h.choices)-1 {
			h.SetFocusIdx(h.focus+1, true)
		}
	case tcell.KeyEnter:
		h.selectFocused()
	}
	return false
}

func (h *Host) selectFocused() {
	if h.focus < 0 || h.focus >= len(h.choices) {
		return
	}
	choice := h.choices[h.focus]
	h.status = ""
	if err := choice.Action(); err != nil {
		log.Printf("Host: Launch of %q failed: %v", choice.Name, err)
		h.status = err.Error()
		h.draw()
	}
}

// returnToMenu brings the boot app back to the front.
func (h *Host) returnToMenu() {
	h.current = nil
	if a, ok := h.root.(Activator); ok {
		a.OnActivate()
	}
	h.draw()
}
