// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package launcher

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/framegrace/bootmenu/registry"
)

// mockScheduler records hand-offs and queues After callbacks until fired.
type mockScheduler struct {
	sleepEnabled bool
	mainApp      registry.App
	switched     []registry.App
	plugEvents   []bool
	pending      []func()
	delays       []time.Duration
}

func (s *mockScheduler) Main(app registry.App)      { s.mainApp = app }
func (s *mockScheduler) SwitchApp(app registry.App) { s.switched = append(s.switched, app) }
func (s *mockScheduler) IsSleepEnabled() bool       { return s.sleepEnabled }
func (s *mockScheduler) USBPlugEvent(charging bool) { s.plugEvents = append(s.plugEvents, charging) }
func (s *mockScheduler) After(delay time.Duration, fn func()) {
	s.delays = append(s.delays, delay)
	s.pending = append(s.pending, fn)
}

func (s *mockScheduler) fire() {
	pending := s.pending
	s.pending = nil
	for _, fn := range pending {
		fn()
	}
}

type mockWindow struct {
	title        string
	titleSets    int
	redraws      int
	choices      []Choice
	choiceRedraw bool
	focus        int
	activations  int
}

func (w *mockWindow) Title() string { return w.title }
func (w *mockWindow) SetTitle(title string, redraw bool) {
	w.title = title
	w.titleSets++
	if redraw {
		w.redraws++
	}
}
func (w *mockWindow) SetChoices(choices []Choice, redraw bool) {
	w.choices = choices
	w.choiceRedraw = redraw
}
func (w *mockWindow) FocusIdx() int                     { return w.focus }
func (w *mockWindow) SetFocusIdx(idx int, redraw bool) { w.focus = idx }
func (w *mockWindow) Activate()                         { w.activations++ }

type mockDisplay struct {
	w, h         int
	blits        int
	blitW, blitH int
	pixels       int
}

func (d *mockDisplay) Size() (int, int) { return d.w, d.h }
func (d *mockDisplay) BlitBuffer(pix []uint16, x, y, w, h int) {
	d.blits++
	d.blitW, d.blitH = w, h
	d.pixels = len(pix)
}

type mockButtons struct {
	press         map[Button]func()
	updown        map[Button]func(bool)
	deactivations int
}

func newMockButtons() *mockButtons {
	return &mockButtons{press: make(map[Button]func()), updown: make(map[Button]func(bool))}
}

func (b *mockButtons) OnPress(btn Button, fn func())       { b.press[btn] = fn }
func (b *mockButtons) OnUpDown(btn Button, fn func(bool)) { b.updown[btn] = fn }
func (b *mockButtons) Deactivate()                        { b.deactivations++ }

type mockHardware struct {
	charge, usb bool
}

func (h *mockHardware) ChargeDetect() bool { return h.charge }
func (h *mockHardware) USBConnected() bool { return h.usb }

type mockRecorder struct {
	keys []registry.Key
	err  error
}

func (r *mockRecorder) RecordLaunch(key registry.Key, idx int) error {
	r.keys = append(r.keys, key)
	return r.err
}

type mockApp struct{ id string }

func (a *mockApp) AppID() string { return a.id }

type fixture struct {
	launcher  *Launcher
	registry  *registry.Registry
	scheduler *mockScheduler
	window    *mockWindow
	display   *mockDisplay
	buttons   *mockButtons
	hardware  *mockHardware
	selection string
	apps      string
	created   map[string]int
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		registry:  registry.New(),
		scheduler: &mockScheduler{sleepEnabled: true},
		window:    &mockWindow{},
		display:   &mockDisplay{w: 24, h: 12},
		buttons:   newMockButtons(),
		hardware:  &mockHardware{},
		selection: filepath.Join(dir, "lastapplaunch.txt"),
		apps:      filepath.Join(dir, "apps"),
		created:   make(map[string]int),
	}
	for _, entry := range registry.CoreApps() {
		f.register(entry.Path, entry.Callable)
	}

	if opts.SelectionPath == "" {
		opts.SelectionPath = f.selection
	}
	if opts.SearchPaths == nil {
		opts.SearchPaths = []string{f.apps}
	}
	f.launcher = New(Deps{
		Registry:  f.registry,
		Scheduler: f.scheduler,
		Window:    f.window,
		Display:   f.display,
		Buttons:   f.buttons,
		Hardware:  f.hardware,
	}, opts)
	return f
}

// register adds a factory that counts constructions.
func (f *fixture) register(path, callable string) {
	f.registry.Register(registry.Key{Path: path, Callable: callable}, func() registry.App {
		f.created[callable]++
		return &mockApp{id: callable}
	})
}

func (f *fixture) installApp(t *testing.T, name, metadata string) {
	t.Helper()
	dir := filepath.Join(f.apps, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if metadata != "" {
		if err := os.WriteFile(filepath.Join(dir, registry.MetadataFile), []byte(metadata), 0644); err != nil {
			t.Fatalf("write metadata: %v", err)
		}
	}
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 4))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func choiceNames(choices []Choice) []string {
	names := make([]string, len(choices))
	for i, c := range choices {
		names[i] = c.Name
	}
	return names
}

func TestLauncher_ChoicesCoreBeforeUser(t *testing.T) {
	f := newFixture(t, Options{})
	f.installApp(t, "aardvark", `{"name": "Aardvark"}`)
	f.installApp(t, "snake", "")

	choices := f.launcher.Choices()
	core := registry.CoreApps()
	if len(choices) != len(core)+2 {
		t.Fatalf("expected %d choices, got %d", len(core)+2, len(choices))
	}
	for i, entry := range core {
		if choices[i].Name != entry.Name {
			t.Errorf("choice %d: expected core app %q, got %q", i, entry.Name, choices[i].Name)
		}
	}
	tail := choiceNames(choices[len(core):])
	if strings.Join(tail, ",") != "Aardvark,snake" {
		t.Errorf("unexpected user apps %v", tail)
	}
}

func TestLauncher_HiddenAppsExcluded(t *testing.T) {
	f := newFixture(t, Options{})
	f.installApp(t, "secret", `{"hidden": true, "name": "Secret"}`)

	for _, entry := range f.launcher.Entries() {
		if entry.Name == "Secret" {
			t.Fatalf("hidden app listed in entries")
		}
	}
	for _, c := range f.launcher.Choices() {
		if c.Name == "Secret" {
			t.Fatalf("hidden app listed in choices")
		}
	}
}

func TestLauncher_ChoicesRecomputed(t *testing.T) {
	f := newFixture(t, Options{})
	f.installApp(t, "snake", "")

	first := f.launcher.Choices()
	second := f.launcher.Choices()
	if len(first) != len(second) {
		t.Fatalf("choice lists differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		if a.Name != b.Name || a.Entry.Path != b.Entry.Path || a.Entry.Callable != b.Entry.Callable {
			t.Errorf("choice %d differs: %+v vs %+v", i, a.Entry, b.Entry)
		}
	}

	f.installApp(t, "tetris", "")
	if third := f.launcher.Choices(); len(third) != len(first)+1 {
		t.Fatalf("expected newly installed app to appear, got %d choices", len(third))
	}
}

func TestLauncher_LaunchCachesInstance(t *testing.T) {
	f := newFixture(t, Options{})

	for i := 0; i < 2; i++ {
		if err := f.launcher.Launch("torch", "Torch"); err != nil {
			t.Fatalf("Launch: %v", err)
		}
	}
	if f.created["Torch"] != 1 {
		t.Fatalf("expected Torch to be constructed once, got %d", f.created["Torch"])
	}
	if len(f.scheduler.switched) != 2 {
		t.Fatalf("expected 2 switches, got %d", len(f.scheduler.switched))
	}
	if f.scheduler.switched[0] != f.scheduler.switched[1] {
		t.Fatalf("second launch did not reuse the cached instance")
	}
}

func TestLauncher_CacheKeyedByPathAndCallable(t *testing.T) {
	f := newFixture(t, Options{})
	f.register("apps.one", "main")
	f.register("apps.two", "main")

	if err := f.launcher.Launch("apps.one", "main"); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if err := f.launcher.Launch("apps.two", "main"); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if f.created["main"] != 2 {
		t.Fatalf("apps sharing a callable name should get separate instances, got %d constructions", f.created["main"])
	}
}

func TestLauncher_LaunchUnknownApp(t *testing.T) {
	f := newFixture(t, Options{})

	err := f.launcher.Launch("apps.missing", "main")
	if !errors.Is(err, registry.ErrModuleNotFound) {
		t.Fatalf("expected ErrModuleNotFound, got %v", err)
	}
	err = f.launcher.Launch("torch", "Lamp")
	if !errors.Is(err, registry.ErrCallableNotFound) {
		t.Fatalf("expected ErrCallableNotFound, got %v", err)
	}
	if len(f.scheduler.switched) != 0 {
		t.Fatalf("failed launches must not switch apps")
	}
	if _, err := os.Stat(f.selection); !os.IsNotExist(err) {
		t.Fatalf("failed launches must not write the selection file")
	}
}

func TestLauncher_LaunchSelectionWriteError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	f := newFixture(t, Options{SelectionPath: filepath.Join(blocker, "lastapplaunch.txt")})

	if err := f.launcher.Launch("torch", "Torch"); err == nil {
		t.Fatal("expected selection write error")
	}
	if len(f.scheduler.switched) != 0 {
		t.Fatal("app switch happened despite write failure")
	}
}

func TestLauncher_SelectionRoundTrip(t *testing.T) {
	f := newFixture(t, Options{})
	f.window.focus = 3
	if err := f.launcher.Launch("torch", "Torch"); err != nil {
		t.Fatalf("Launch: %v", err)
	}

	// Reboot with the same selection file.
	restarted := newFixture(t, Options{SelectionPath: f.selection})
	restarted.launcher.OnStart()
	if restarted.window.focus != 3 {
		t.Fatalf("expected focus 3 after restart, got %d", restarted.window.focus)
	}
}

func TestLauncher_SelectionDefaultsToZero(t *testing.T) {
	f := newFixture(t, Options{})
	if err := os.WriteFile(f.selection, []byte("torch"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	f.window.focus = 9
	f.launcher.OnStart()
	if f.window.focus != 0 {
		t.Fatalf("expected focus 0 for corrupt file, got %d", f.window.focus)
	}

	missing := newFixture(t, Options{})
	missing.window.focus = 9
	missing.launcher.OnStart()
	if missing.window.focus != 0 {
		t.Fatalf("expected focus 0 for missing file, got %d", missing.window.focus)
	}
}

func TestLauncher_OnStartWiresInput(t *testing.T) {
	f := newFixture(t, Options{})
	f.launcher.OnStart()

	if len(f.window.choices) != len(registry.CoreApps()) {
		t.Fatalf("expected core apps in window, got %d", len(f.window.choices))
	}
	if f.window.choiceRedraw {
		t.Errorf("OnStart should not redraw")
	}
	if f.buttons.updown[ChargeDetect] == nil {
		t.Fatalf("charge-detect handler not registered")
	}
	press := f.buttons.press[ButtonFront]
	if press == nil {
		t.Fatalf("front button handler not registered")
	}

	f.hardware.usb = true
	press()
	if f.window.redraws != 1 {
		t.Errorf("front button should refresh the title with redraw, got %d redraws", f.window.redraws)
	}
}

func TestLauncher_UpdateTitle(t *testing.T) {
	f := newFixture(t, Options{Title: "Boot"})

	f.launcher.UpdateTitle(true)
	if f.window.title != "Boot" || f.window.titleSets != 1 || f.window.redraws != 1 {
		t.Fatalf("unexpected first update: %+v", f.window)
	}

	f.launcher.UpdateTitle(true)
	if f.window.titleSets != 1 {
		t.Fatalf("unchanged title should not be set again")
	}

	f.scheduler.sleepEnabled = false
	f.hardware.charge = true
	f.launcher.UpdateTitle(false)
	want := "Boot\nSLEEP DISABLED\nUSB pwr=1 conn=0"
	if f.window.title != want {
		t.Fatalf("expected %q, got %q", want, f.window.title)
	}
	if f.window.redraws != 1 {
		t.Fatalf("redraw=false must not redraw")
	}

	f.scheduler.sleepEnabled = true
	f.hardware.charge = false
	f.hardware.usb = true
	if got := f.launcher.ComputeTitle(); got != "Boot\nUSB pwr=0 conn=1" {
		t.Fatalf("unexpected title %q", got)
	}
}

func TestLauncher_SplashGating(t *testing.T) {
	f := newFixture(t, Options{SplashDuration: 300 * time.Millisecond, SplashImage: testPNG(t)})
	f.launcher.OnStart()
	f.launcher.OnActivate()

	if f.launcher.State() != StateSplash {
		t.Fatalf("expected splash state, got %s", f.launcher.State())
	}
	if f.display.blits != 1 || f.display.blitW != 24 || f.display.blitH != 12 || f.display.pixels != 24*12 {
		t.Fatalf("splash not blitted full screen: %+v", f.display)
	}
	if f.buttons.deactivations != 1 {
		t.Fatalf("input not suspended during splash")
	}
	if f.window.titleSets != 0 || f.window.activations != 0 {
		t.Fatalf("menu activated before splash dismissed")
	}
	if len(f.scheduler.delays) != 1 || f.scheduler.delays[0] != 300*time.Millisecond {
		t.Fatalf("unexpected timers %v", f.scheduler.delays)
	}

	// Charge events during the splash are forwarded but do not touch the title.
	f.hardware.charge = true
	f.buttons.updown[ChargeDetect](true)
	if f.window.titleSets != 0 {
		t.Fatalf("title updated during splash")
	}
	if len(f.scheduler.plugEvents) != 1 || !f.scheduler.plugEvents[0] {
		t.Fatalf("charge event not forwarded: %v", f.scheduler.plugEvents)
	}

	f.scheduler.fire()
	if f.launcher.State() != StateActive || f.launcher.ShowingSplash() {
		t.Fatalf("expected active state after splash, got %s", f.launcher.State())
	}
	if f.window.activations != 1 || f.window.titleSets != 1 || f.window.redraws != 0 {
		t.Fatalf("unexpected window after splash: %+v", f.window)
	}
	if f.display.blits != 1 {
		t.Fatalf("splash blitted again")
	}
}

func TestLauncher_SplashDisabled(t *testing.T) {
	f := newFixture(t, Options{SplashDuration: 0, SplashImage: testPNG(t)})
	f.launcher.OnStart()
	f.launcher.OnActivate()

	if f.launcher.State() != StateActive {
		t.Fatalf("expected active state, got %s", f.launcher.State())
	}
	if f.display.blits != 0 || f.buttons.deactivations != 0 || len(f.scheduler.pending) != 0 {
		t.Fatalf("splash work done while disabled")
	}
	if f.window.activations != 1 || f.window.titleSets != 1 {
		t.Fatalf("menu not activated directly: %+v", f.window)
	}
}

func TestLauncher_SplashDecodeFailureFallsThrough(t *testing.T) {
	f := newFixture(t, Options{SplashDuration: time.Second, SplashImage: []byte("garbage")})
	f.launcher.OnActivate()

	if f.launcher.State() != StateActive || f.launcher.ShowingSplash() {
		t.Fatalf("expected active state, got %s", f.launcher.State())
	}
	if f.buttons.deactivations != 0 {
		t.Fatalf("input suspended without a splash")
	}
}

func TestLauncher_ChargeStateChangedAfterSplash(t *testing.T) {
	f := newFixture(t, Options{})
	f.launcher.OnActivate()

	f.hardware.charge = true
	f.launcher.ChargeStateChanged(true)
	if !strings.Contains(f.window.title, "USB pwr=1 conn=0") {
		t.Fatalf("title not refreshed: %q", f.window.title)
	}
	if f.window.redraws != 1 {
		t.Fatalf("expected forced redraw, got %d", f.window.redraws)
	}
	if len(f.scheduler.plugEvents) != 1 {
		t.Fatalf("charge event not forwarded")
	}
}

func TestLauncher_RecorderFailureIgnored(t *testing.T) {
	f := newFixture(t, Options{})
	rec := &mockRecorder{err: errors.New("disk full")}
	f.launcher.recorder = rec

	if err := f.launcher.Launch("battery", "Battery"); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if len(rec.keys) != 1 || rec.keys[0] != (registry.Key{Path: "battery", Callable: "Battery"}) {
		t.Fatalf("launch not journaled: %v", rec.keys)
	}
	if len(f.scheduler.switched) != 1 {
		t.Fatalf("journal failure blocked the launch")
	}
}

func TestLauncher_EndToEndTorch(t *testing.T) {
	f := newFixture(t, Options{SearchPaths: []string{}})
	f.launcher.Main()
	if f.scheduler.mainApp != f.launcher {
		t.Fatalf("launcher not handed to the scheduler")
	}

	f.launcher.OnStart()
	var torch *Choice
	for i := range f.window.choices {
		if f.window.choices[i].Name == "Torch" {
			torch = &f.window.choices[i]
			break
		}
	}
	if torch == nil {
		t.Fatal("Torch missing from menu")
	}
	if torch.Entry.Path != "torch" || torch.Entry.Callable != "Torch" {
		t.Fatalf("unexpected Torch entry %+v", torch.Entry)
	}

	if err := torch.Action(); err != nil {
		t.Fatalf("Torch action: %v", err)
	}
	if f.created["Torch"] != 1 {
		t.Fatalf("Torch constructed %d times", f.created["Torch"])
	}
	if len(f.scheduler.switched) != 1 || f.scheduler.switched[0].AppID() != "Torch" {
		t.Fatalf("scheduler not switched to Torch: %v", f.scheduler.switched)
	}
}

func TestLauncher_AppID(t *testing.T) {
	f := newFixture(t, Options{})
	if f.launcher.AppID() != "menu" {
		t.Fatalf("unexpected app id %q", f.launcher.AppID())
	}
	if f.launcher.State() != StateBooting {
		t.Fatalf("expected booting state, got %s", f.launcher.State())
	}
}

type closingApp struct {
	mockApp
	closed int
}

func (a *closingApp) Close() error {
	a.closed++
	return nil
}

func TestLauncher_LaunchesUserApp(t *testing.T) {
	var built []registry.AppEntry
	f := newFixture(t, Options{
		UserFactory: func(entry registry.AppEntry) registry.AppFactory {
			built = append(built, entry)
			return func() registry.App { return &closingApp{mockApp: mockApp{id: entry.Path}} }
		},
	})
	f.installApp(t, "weather", `{"name": "Weather"}`)

	choices := f.launcher.Choices()
	last := choices[len(choices)-1]
	if last.Name != "Weather" {
		t.Fatalf("expected user app last, got %q", last.Name)
	}
	f.window.focus = len(choices) - 1
	if err := last.Action(); err != nil {
		t.Fatalf("user app action: %v", err)
	}
	if len(f.scheduler.switched) != 1 || f.scheduler.switched[0].AppID() != last.Entry.Path {
		t.Fatalf("scheduler not switched to the user app: %v", f.scheduler.switched)
	}
	if last.Entry.Source != filepath.Join(f.apps, "weather") {
		t.Fatalf("unexpected source %q", last.Entry.Source)
	}

	// Listing again must not replace the registered factory.
	f.launcher.Choices()
	if len(built) != 1 {
		t.Fatalf("expected one factory built, got %d", len(built))
	}

	app := f.scheduler.switched[0].(*closingApp)
	if err := f.launcher.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if app.closed != 1 {
		t.Fatalf("expected user app closed once, got %d", app.closed)
	}
}

func TestLauncher_UserFactoryDoesNotShadowCoreApps(t *testing.T) {
	f := newFixture(t, Options{
		UserFactory: func(entry registry.AppEntry) registry.AppFactory {
			return func() registry.App { return &mockApp{id: "user"} }
		},
	})
	f.installApp(t, "lamp", `{"path": "torch", "callable": "Torch"}`)

	f.launcher.Choices()
	if err := f.launcher.Launch("torch", "Torch"); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if got := f.scheduler.switched[0].AppID(); got != "Torch" {
		t.Fatalf("core factory was replaced, got app %q", got)
	}
}
