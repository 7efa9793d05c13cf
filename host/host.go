// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: host/host.go
// Summary: tcell-backed stand-in for the badge firmware.
// Usage: Provides the scheduler, menu window, frame buffer, buttons and
// power pins the launcher expects, so the boot menu runs in a terminal.

package host

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/framegrace/bootmenu/apps/launcher"
	"github.com/framegrace/bootmenu/registry"
	"github.com/gdamore/tcell/v2"
)

// Headless display size, matching the badge panel.
const (
	PanelWidth  = 240
	PanelHeight = 135
)

// ErrHeadless is returned by Run when the host has no screen.
var ErrHeadless = errors.New("host has no screen")

// Compile-time interface checks
var (
	_ launcher.Scheduler = (*Host)(nil)
	_ launcher.Window    = (*Host)(nil)
	_ launcher.Display   = (*Host)(nil)
	_ launcher.Buttons   = (*Host)(nil)
	_ launcher.Hardware  = (*Host)(nil)
)

// Starter is implemented by apps with a start hook.
type Starter interface {
	OnStart()
}

// Activator is implemented by apps that redraw when brought to front.
type Activator interface {
	OnActivate()
}

// Drawer is implemented by apps that render themselves.
type Drawer interface {
	Draw(screen tcell.Screen)
}

// Refresher is implemented by apps that change outside of input handling.
// The notifier is safe to call from any goroutine.
type Refresher interface {
	SetRefreshNotifier(fn func())
}

type frame struct {
	pix        []uint16
	x, y, w, h int
}

// Host runs one event loop. Apart from Post and After, its methods must be
// called from that loop.
type Host struct {
	screen tcell.Screen

	calls    chan func()
	quit     chan struct{}
	quitOnce sync.Once

	root    registry.App
	current registry.App

	title   string
	choices []launcher.Choice
	focus   int
	status  string
	splash  *frame

	inputActive bool
	press       map[launcher.Button][]func()
	updown      map[launcher.Button][]func(bool)

	charge       bool
	usb          bool
	sleepEnabled bool
	plugged      []bool
}

// New creates a host drawing on screen. A nil screen runs headless: nothing
// is drawn and Run is unavailable.
func New(screen tcell.Screen) *Host {
	return &Host{
		screen:       screen,
		calls:        make(chan func(), 16),
		quit:         make(chan struct{}),
		press:        make(map[launcher.Button][]func()),
		updown:       make(map[launcher.Button][]func(bool)),
		sleepEnabled: true,
	}
}

// --- Scheduler ---

// Main makes app the boot app and runs its start and activate hooks.
func (h *Host) Main(app registry.App) {
	h.root = app
	h.current = nil
	if s, ok := app.(Starter); ok {
		s.OnStart()
	}
	if a, ok := app.(Activator); ok {
		a.OnActivate()
	}
}

// SwitchApp brings app to the front. Headless hosts only log the switch.
func (h *Host) SwitchApp(app registry.App) {
	log.Printf("Host: Switching to %s", app.AppID())
	if h.screen == nil {
		return
	}
	h.current = app
	if r, ok := app.(Refresher); ok {
		r.SetRefreshNotifier(func() {
			h.Post(func() {
				if h.current == app {
					h.draw()
				}
			})
		})
	}
	if a, ok := app.(Activator); ok {
		a.OnActivate()
	}
	h.draw()
}

// Current returns the foreground app, or nil while the boot app is shown.
func (h *Host) Current() registry.App {
	return h.current
}

// IsSleepEnabled implements launcher.Scheduler.
func (h *Host) IsSleepEnabled() bool {
	return h.sleepEnabled
}

// SetSleepEnabled toggles the simulated sleep setting.
func (h *Host) SetSleepEnabled(enabled bool) {
	h.sleepEnabled = enabled
}

// USBPlugEvent records a charge-detect transition.
func (h *Host) USBPlugEvent(charging bool) {
	debugLog.Printf("Host: USB plug event charging=%v", charging)
	h.plugged = append(h.plugged, charging)
}

// PlugEvents returns the forwarded charge-detect transitions.
func (h *Host) PlugEvents() []bool {
	return append([]bool(nil), h.plugged...)
}

// After runs fn on the event loop once delay has passed. Headless hosts
// have no loop; they run fn at once on the caller's goroutine.
func (h *Host) After(delay time.Duration, fn func()) {
	if h.screen == nil {
		fn()
		return
	}
	time.AfterFunc(delay, func() { h.Post(fn) })
}

// Post queues fn for the event loop. It is safe from any goroutine and
// drops fn once the host has stopped.
func (h *Host) Post(fn func()) {
	select {
	case h.calls <- fn:
	case <-h.quit:
	}
}

// Stop ends Run.
func (h *Host) Stop() {
	h.quitOnce.Do(func() { close(h.quit) })
}

// Run processes input, timers and posted calls until ctx is done, Stop is
// called or the user quits.
func (h *Host) Run(ctx context.Context) error {
	if h.screen == nil {
		return ErrHeadless
	}

	events := make(chan tcell.Event)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-h.quit:
				return
			}
		}
	}()

	h.draw()
	for {
		select {
		case <-ctx.Done():
			h.Stop()
			return ctx.Err()
		case <-h.quit:
			return nil
		case fn := <-h.calls:
			fn()
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if h.handleKey(ev) {
					h.Stop()
					return nil
				}
			case *tcell.EventResize:
				h.screen.Sync()
				h.draw()
			}
		}
	}
}

// --- Window ---

// Title implements launcher.Window.
func (h *Host) Title() string {
	return h.title
}

// SetTitle implements launcher.Window.
func (h *Host) SetTitle(title string, redraw bool) {
	h.title = title
	if redraw {
		h.draw()
	}
}

// SetChoices implements launcher.Window.
func (h *Host) SetChoices(choices []launcher.Choice, redraw bool) {
	h.choices = choices
	h.clampFocus()
	if redraw {
		h.draw()
	}
}

// Choices returns the menu rows.
func (h *Host) Choices() []launcher.Choice {
	return h.choices
}

// FocusIdx implements launcher.Window.
func (h *Host) FocusIdx() int {
	return h.focus
}

// SetFocusIdx implements launcher.Window. The index is clamped to the menu.
func (h *Host) SetFocusIdx(idx int, redraw bool) {
	h.focus = idx
	h.clampFocus()
	if redraw {
		h.draw()
	}
}

func (h *Host) clampFocus() {
	if h.focus >= len(h.choices) {
		h.focus = len(h.choices) - 1
	}
	if h.focus < 0 {
		h.focus = 0
	}
}

// Activate clears any splash, re-enables input and draws the menu.
func (h *Host) Activate() {
	h.splash = nil
	h.inputActive = true
	h.draw()
}

// --- Display ---

// Size returns the panel size in pixels; each cell holds two pixel rows.
func (h *Host) Size() (int, int) {
	if h.screen == nil {
		return PanelWidth, PanelHeight
	}
	cols, rows := h.screen.Size()
	return cols, rows * 2
}

// BlitBuffer shows an RGB565 frame until the window is activated.
func (h *Host) BlitBuffer(pix []uint16, x, y, w, height int) {
	h.splash = &frame{pix: pix, x: x, y: y, w: w, h: height}
	h.draw()
}

// --- Buttons ---

// OnPress implements launcher.Buttons.
func (h *Host) OnPress(b launcher.Button, fn func()) {
	h.press[b] = append(h.press[b], fn)
}

// OnUpDown implements launcher.Buttons.
func (h *Host) OnUpDown(b launcher.Button, fn func(bool)) {
	h.updown[b] = append(h.updown[b], fn)
}

// Deactivate ignores input until the next Activate.
func (h *Host) Deactivate() {
	h.inputActive = false
}

// InputActive reports whether button handlers run.
func (h *Host) InputActive() bool {
	return h.inputActive
}

// Press simulates a button press.
func (h *Host) Press(b launcher.Button) {
	if !h.inputActive {
		return
	}
	for _, fn := range h.press[b] {
		fn()
	}
}

// --- Hardware ---

// ChargeDetect implements launcher.Hardware.
func (h *Host) ChargeDetect() bool {
	return h.charge
}

// USBConnected implements launcher.Hardware.
func (h *Host) USBConnected() bool {
	return h.usb
}

// SetCharging changes the charge-detect level and fires its edge handlers.
// The pin is not a button, so edges are delivered while input is suspended.
func (h *Host) SetCharging(charging bool) {
	if h.charge == charging {
		return
	}
	h.charge = charging
	for _, fn := range h.updown[launcher.ChargeDetect] {
		fn(charging)
	}
}

// SetUSBConnected changes the simulated USB host connection.
func (h *Host) SetUSBConnected(connected bool) {
	h.usb = connected
}
