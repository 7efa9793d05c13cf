// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/launcher/launcher.go
// Summary: Implements the badge boot menu.
// Usage: Lists core and user apps; selecting one creates it once and
// switches the scheduler to it.

package launcher

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/framegrace/bootmenu/registry"
	"github.com/framegrace/bootmenu/splash"
	"github.com/framegrace/bootmenu/state"
)

const (
	// AppID identifies the boot menu to the scheduler.
	AppID = "menu"

	// DefaultTitle is shown above the app list.
	DefaultTitle = "EMF 2022 - TiDAL\nBoot Menu"

	// DefaultSplashDuration is how long the splash stays up; zero skips it.
	DefaultSplashDuration = 300 * time.Millisecond
)

// Compile-time interface check
var _ registry.App = (*Launcher)(nil)

// State is the launcher's activation phase.
type State int

const (
	StateBooting State = iota
	StateSplash
	StateActive
)

func (s State) String() string {
	switch s {
	case StateBooting:
		return "booting"
	case StateSplash:
		return "splash"
	case StateActive:
		return "active"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Choice is one menu row.
type Choice struct {
	Name   string
	Entry  registry.AppEntry
	Action func() error
}

// Options configures a Launcher.
type Options struct {
	Title          string
	SplashDuration time.Duration

	// SplashImage is a PNG; empty disables the splash.
	SplashImage []byte

	// SearchPaths are scanned for user apps on every Choices call.
	SearchPaths []string

	// SelectionPath stores the last launched menu index.
	SelectionPath string

	// UserFactory builds the factory for a user-installed entry. Entries
	// are registered as they are listed; nil leaves them unregistered.
	UserFactory func(entry registry.AppEntry) registry.AppFactory
}

// Deps are the host collaborators. Recorder may be nil.
type Deps struct {
	Registry  *registry.Registry
	Scheduler Scheduler
	Window    Window
	Display   Display
	Buttons   Buttons
	Hardware  Hardware
	Recorder  Recorder
}

// Launcher is the boot menu app.
// All methods must be called from the scheduler's event loop.
type Launcher struct {
	registry  *registry.Registry
	scheduler Scheduler
	window    Window
	display   Display
	buttons   Buttons
	hardware  Hardware
	recorder  Recorder

	title          string
	splashDuration time.Duration
	splashImage    []byte
	searchPaths    []string
	selection      *state.SelectionFile
	userFactory    func(registry.AppEntry) registry.AppFactory

	apps       map[registry.Key]registry.App
	showSplash bool
	state      State
}

// New creates the boot menu.
func New(deps Deps, opts Options) *Launcher {
	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}
	reg := deps.Registry
	if reg == nil {
		reg = registry.New()
	}
	return &Launcher{
		registry:       reg,
		scheduler:      deps.Scheduler,
		window:         deps.Window,
		display:        deps.Display,
		buttons:        deps.Buttons,
		hardware:       deps.Hardware,
		recorder:       deps.Recorder,
		title:          title,
		splashDuration: opts.SplashDuration,
		splashImage:    opts.SplashImage,
		searchPaths:    append([]string(nil), opts.SearchPaths...),
		selection:      state.NewSelectionFile(opts.SelectionPath),
		userFactory:    opts.UserFactory,
		apps:           make(map[registry.Key]registry.App),
		showSplash:     true,
		state:          StateBooting,
	}
}

// AppID implements registry.App.
func (l *Launcher) AppID() string {
	return AppID
}

// State reports the activation phase.
func (l *Launcher) State() State {
	return l.state
}

// ShowingSplash reports whether the splash is still up (or pending).
func (l *Launcher) ShowingSplash() bool {
	return l.showSplash
}

// Main hands the launcher to the scheduler as the boot app.
func (l *Launcher) Main() {
	l.scheduler.Main(l)
}

// Entries returns core apps followed by visible user apps. User apps new
// to the registry are registered on the way.
func (l *Launcher) Entries() []registry.AppEntry {
	users := registry.UserApps(l.searchPaths)
	l.registerUserApps(users)
	return append(registry.CoreApps(), users...)
}

func (l *Launcher) registerUserApps(entries []registry.AppEntry) {
	if l.userFactory == nil {
		return
	}
	for _, entry := range entries {
		if l.registry.Has(entry.Key()) {
			continue
		}
		if factory := l.userFactory(entry); factory != nil {
			l.registry.Register(entry.Key(), factory)
		}
	}
}

// Choices builds the menu rows. The list is rebuilt on every call so that
// apps installed since the last call appear.
func (l *Launcher) Choices() []Choice {
	entries := l.Entries()
	choices := make([]Choice, 0, len(entries))
	for _, entry := range entries {
		path, callable := entry.Path, entry.Callable
		choices = append(choices, Choice{
			Name:  entry.Name,
			Entry: entry,
			Action: func() error {
				return l.Launch(path, callable)
			},
		})
	}
	return choices
}

// RefreshChoices pushes a fresh app list to the window.
func (l *Launcher) RefreshChoices() {
	l.window.SetChoices(l.Choices(), true)
}

// OnStart fills the menu, wires input and restores the last selection.
func (l *Launcher) OnStart() {
	choices := l.Choices()
	l.window.SetChoices(choices, false)
	l.buttons.OnUpDown(ChargeDetect, l.ChargeStateChanged)
	l.buttons.OnPress(ButtonFront, func() { l.UpdateTitle(true) })

	idx := l.selection.Restore()
	l.window.SetFocusIdx(idx, false)
	log.Printf("Launcher: Started with %d apps, focus %d", len(choices), idx)
}

// OnActivate shows the splash on first activation, otherwise the menu.
func (l *Launcher) OnActivate() {
	if l.showSplash && l.splashDuration > 0 && l.blitSplash() {
		l.state = StateSplash
		l.scheduler.After(l.splashDuration, l.dismissSplash)
		return
	}

	l.showSplash = false
	l.UpdateTitle(false)
	l.window.Activate()
	l.state = StateActive
}

// blitSplash suspends input and draws the splash. It reports false when
// there is nothing to draw.
func (l *Launcher) blitSplash() bool {
	if l.display == nil || len(l.splashImage) == 0 {
		return false
	}
	w, h := l.display.Size()
	img, err := splash.Decode565(l.splashImage, w, h)
	if err != nil {
		log.Printf("Launcher: Skipping splash: %v", err)
		return false
	}

	// No input until the splash is dismissed.
	l.buttons.Deactivate()
	l.display.BlitBuffer(img.Pix, 0, 0, img.W, img.H)
	return true
}

func (l *Launcher) dismissSplash() {
	l.showSplash = false
	l.OnActivate()
}

// ComputeTitle returns the title with the sleep and USB status lines.
func (l *Launcher) ComputeTitle() string {
	title := l.title
	if !l.scheduler.IsSleepEnabled() {
		title += "\nSLEEP DISABLED"
	}
	pwr, conn := 0, 0
	if l.hardware.ChargeDetect() {
		pwr = 1
	}
	if l.hardware.USBConnected() {
		conn = 1
	}
	if pwr == 1 || conn == 1 {
		title += fmt.Sprintf("\nUSB pwr=%d conn=%d", pwr, conn)
	}
	return title
}

// UpdateTitle sets the window title if it changed.
func (l *Launcher) UpdateTitle(redraw bool) {
	title := l.ComputeTitle()
	if title != l.window.Title() {
		l.window.SetTitle(title, redraw)
	}
}

// Launch creates the app at path/callable on first use, remembers the
// focused row and switches to the app.
func (l *Launcher) Launch(path, callable string) error {
	key := registry.Key{Path: path, Callable: callable}
	app, ok := l.apps[key]
	if !ok {
		log.Printf("Launcher: Creating app %s...", key)
		factory, err := l.registry.Resolve(path, callable)
		if err != nil {
			return fmt.Errorf("launch %s: %w", key, err)
		}
		app = factory()
		if app == nil {
			return fmt.Errorf("launch %s: factory returned no app", key)
		}
		l.apps[key] = app
	}

	idx := l.window.FocusIdx()
	if err := l.selection.Write(idx); err != nil {
		return err
	}
	if l.recorder != nil {
		if err := l.recorder.RecordLaunch(key, idx); err != nil {
			log.Printf("Launcher: Failed to journal launch of %s: %v", key, err)
		}
	}

	l.scheduler.SwitchApp(app)
	return nil
}

// Close closes every created app that holds resources.
func (l *Launcher) Close() error {
	var first error
	for key, app := range l.apps {
		c, ok := app.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			log.Printf("Launcher: Closing %s failed: %v", key, err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// ChargeStateChanged handles charge-detect edges.
func (l *Launcher) ChargeStateChanged(charging bool) {
	if !l.showSplash {
		l.UpdateTitle(true)
	}
	l.scheduler.USBPlugEvent(charging)
}
