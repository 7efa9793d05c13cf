// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/bootmenu/main.go
// Summary: Boot menu command for the terminal development host.
// Usage: Run `bootmenu` for the tcell host or `bootmenu -terminal` for the
// plain text menu.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/framegrace/bootmenu/apps/launcher"
	"github.com/framegrace/bootmenu/apps/userapp"
	"github.com/framegrace/bootmenu/config"
	"github.com/framegrace/bootmenu/defaults"
	"github.com/framegrace/bootmenu/history"
	"github.com/framegrace/bootmenu/host"
	"github.com/framegrace/bootmenu/registry"
	"github.com/framegrace/bootmenu/term"
	"github.com/gdamore/tcell/v2"

	_ "github.com/framegrace/bootmenu/apps/builtin"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath  string
	terminal    bool
	noSplash    bool
	verboseLogs bool
	logFile     string
}

func run() error {
	fs := flag.NewFlagSet("bootmenu", flag.ContinueOnError)
	var opts options
	fs.StringVar(&opts.configPath, "config", "", "Config file (default: <config dir>/bootmenu/bootmenu.json)")
	fs.BoolVar(&opts.terminal, "terminal", false, "Use the plain text menu instead of the screen host")
	fs.BoolVar(&opts.noSplash, "no-splash", false, "Skip the boot splash")
	fs.BoolVar(&opts.verboseLogs, "verbose-logs", false, "Enable verbose registry and host logging")
	fs.StringVar(&opts.logFile, "log-file", "", "Append logs to this file (default: <config dir>/bootmenu/logs/bootmenu.log for the screen host)")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	logOut, closeLog, err := setupLogging(opts)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer closeLog()
	if opts.verboseLogs {
		registry.SetDebugOutput(logOut)
		host.SetDebugOutput(logOut)
	}

	if opts.configPath != "" {
		config.SetPath(opts.configPath)
	}
	cfg := config.System()
	if err := config.Err(); err != nil {
		log.Printf("Config: Using defaults after load error: %v", err)
	}
	if path, err := config.Path(); err == nil {
		log.Printf("Bootmenu: Config file %s", path)
	}
	settings := cfg.Settings()
	if opts.noSplash || opts.terminal {
		settings.Splash = 0
	}

	reg := registry.New()
	registry.RegisterBuiltIns(reg)

	var recorder launcher.Recorder
	if settings.HistoryDB != "" {
		journal, err := history.Open(settings.HistoryDB)
		if err != nil {
			return fmt.Errorf("open launch history: %w", err)
		}
		defer journal.Close()
		recorder = journal
	}

	launchOpts := launcher.Options{
		Title:          settings.Title,
		SplashDuration: settings.Splash,
		SearchPaths:    settings.SearchPaths,
		SelectionPath:  settings.StateFile,
		UserFactory:    userapp.Factory,
	}
	if settings.Splash > 0 {
		img, err := defaults.Splash()
		if err != nil {
			log.Printf("Bootmenu: No splash image: %v", err)
		}
		launchOpts.SplashImage = img
	}

	if opts.terminal {
		return runTerminal(reg, recorder, launchOpts)
	}
	return runScreen(reg, recorder, launchOpts, settings)
}

func runTerminal(reg *registry.Registry, recorder launcher.Recorder, opts launcher.Options) error {
	h := host.New(nil)
	l := launcher.New(deps(h, reg, recorder), opts)
	defer l.Close()
	l.Main()

	err := l.RunTerminal(term.Stdio())
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func runScreen(reg *registry.Registry, recorder launcher.Recorder, opts launcher.Options, settings config.Settings) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen failed: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen failed: %w", err)
	}
	screen.HideCursor()
	defer screen.Fini()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			log.Printf("Bootmenu: Received %v, exiting", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	h := host.New(screen)
	l := launcher.New(deps(h, reg, recorder), opts)
	defer l.Close()

	if settings.WatchApps {
		w, err := registry.NewWatcher(settings.SearchPaths, registry.DefaultWatchDebounce, func() {
			h.Post(l.RefreshChoices)
		})
		if err != nil {
			log.Printf("Bootmenu: App watcher disabled: %v", err)
		} else {
			defer w.Close()
			go func() {
				if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Printf("Bootmenu: App watcher stopped: %v", err)
				}
			}()
		}
	}

	l.Main()
	if err := h.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func deps(h *host.Host, reg *registry.Registry, recorder launcher.Recorder) launcher.Deps {
	return launcher.Deps{
		Registry:  reg,
		Scheduler: h,
		Window:    h,
		Display:   h,
		Buttons:   h,
		Hardware:  h,
		Recorder:  recorder,
	}
}

// setupLogging sends the standard logger to a file when one is given or
// when tcell owns the terminal. Terminal mode logs to stderr otherwise.
func setupLogging(opts options) (io.Writer, func(), error) {
	path := opts.logFile
	if path == "" && !opts.terminal {
		root, err := config.Root()
		if err != nil {
			return nil, nil, err
		}
		path = filepath.Join(root, "logs", "bootmenu.log")
	}
	if path == "" {
		return os.Stderr, func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, nil, err
	}
	log.SetOutput(file)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return file, func() { file.Close() }, nil
}
