// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/launcher/host.go
// Summary: Interfaces the launcher consumes from the host firmware.

package launcher

import (
	"time"

	"github.com/framegrace/bootmenu/registry"
)

// Button names a hardware input the launcher listens to.
type Button int

const (
	// ButtonFront is the badge's front button; pressing it refreshes the title.
	ButtonFront Button = iota

	// ChargeDetect is the USB charge-detect line.
	ChargeDetect
)

func (b Button) String() string {
	switch b {
	case ButtonFront:
		return "front"
	case ChargeDetect:
		return "charge-detect"
	}
	return "unknown"
}

// Scheduler runs apps cooperatively on a single event loop.
type Scheduler interface {
	// Main hands the boot app to the scheduler.
	Main(app registry.App)

	// SwitchApp transfers execution to app.
	SwitchApp(app registry.App)

	IsSleepEnabled() bool

	// USBPlugEvent forwards a charge-detect transition.
	USBPlugEvent(charging bool)

	// After runs fn once on the event loop after delay.
	After(delay time.Duration, fn func())
}

// Window is the host's menu widget.
type Window interface {
	Title() string
	SetTitle(title string, redraw bool)
	SetChoices(choices []Choice, redraw bool)
	FocusIdx() int
	SetFocusIdx(idx int, redraw bool)

	// Activate draws the menu and re-enables input.
	Activate()
}

// Display is the raw frame buffer.
type Display interface {
	// Size returns the panel size in pixels.
	Size() (w, h int)

	// BlitBuffer copies a row-major RGB565 buffer of w x h pixels to x, y.
	BlitBuffer(pix []uint16, x, y, w, h int)
}

// Buttons registers input handlers.
type Buttons interface {
	OnPress(b Button, fn func())
	OnUpDown(b Button, fn func(down bool))

	// Deactivate suspends all handlers until the window is activated again.
	Deactivate()
}

// Hardware reports power and connection state.
type Hardware interface {
	// ChargeDetect reports whether USB power is present.
	ChargeDetect() bool
	USBConnected() bool
}

// Recorder journals launches.
type Recorder interface {
	RecordLaunch(key registry.Key, focusIdx int) error
}
