// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/userapp/userapp.go
// Summary: Runs a user-installed app's program in a pty.
// Usage: <search path>/<name>/<callable> is the program; a plain
// executable file on the search path runs as itself.

package userapp

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/creack/pty"
	"github.com/framegrace/bootmenu/registry"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// ErrNotExecutable is returned when an app's program cannot be run.
var ErrNotExecutable = errors.New("not executable")

var styleStatus = tcell.StyleDefault.Reverse(true)

// Command resolves the program for entry.
func Command(entry registry.AppEntry) (string, error) {
	if entry.Source == "" {
		return "", fmt.Errorf("%s: no source", entry.Path)
	}
	info, err := os.Stat(entry.Source)
	if err != nil {
		return "", err
	}
	prog := entry.Source
	if info.IsDir() {
		prog = filepath.Join(entry.Source, entry.Callable)
		if info, err = os.Stat(prog); err != nil {
			return "", err
		}
	}
	if info.IsDir() || info.Mode().Perm()&0111 == 0 {
		return "", fmt.Errorf("%s: %w", prog, ErrNotExecutable)
	}
	return prog, nil
}

// Factory returns a registry factory for entry.
func Factory(entry registry.AppEntry) registry.AppFactory {
	return func() registry.App { return New(entry) }
}

// App shows the output of one user program. The program starts the first
// time the app is activated and is not restarted once it exits.
type App struct {
	entry registry.AppEntry

	mu         sync.Mutex
	cmd        *exec.Cmd
	pty        *os.File
	out        outputLog
	status     string
	cols, rows int
	refresh    func()

	done     chan struct{}
	doneOnce sync.Once
}

// New creates the app for entry without starting it.
func New(entry registry.AppEntry) *App {
	return &App{entry: entry, done: make(chan struct{})}
}

// AppID returns the entry's dotted path.
func (a *App) AppID() string {
	return a.entry.Path
}

// SetRefreshNotifier sets the function called when new output arrives.
// It is called from the reader goroutine.
func (a *App) SetRefreshNotifier(fn func()) {
	a.mu.Lock()
	a.refresh = fn
	a.mu.Unlock()
}

// OnActivate starts the program on first activation.
func (a *App) OnActivate() {
	a.mu.Lock()
	tried := a.status != ""
	a.mu.Unlock()
	if tried {
		return
	}
	if err := a.Start(); err != nil {
		log.Printf("UserApp: Failed to start %s: %v", a.entry.Path, err)
	}
}

// Start runs the program. A failed start is final and closes Done.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.status != "" {
		return nil
	}

	prog, err := Command(a.entry)
	if err != nil {
		a.status = err.Error()
		a.finish()
		return err
	}

	cols, rows := a.cols, a.rows
	if cols <= 0 || rows <= 0 {
		cols, rows = 80, 24
	}
	cmd := exec.Command(prog)
	cmd.Dir = filepath.Dir(prog)
	cmd.Env = append(os.Environ(),
		"TERM=dumb",
		"COLUMNS="+strconv.Itoa(cols),
		"LINES="+strconv.Itoa(rows),
		"BOOTMENU_APP="+a.entry.Path,
	)
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		a.status = err.Error()
		a.finish()
		return fmt.Errorf("start %s: %w", prog, err)
	}

	a.cmd, a.pty = cmd, ptmx
	a.status = "running"
	log.Printf("UserApp: Started %s (pid %d)", prog, cmd.Process.Pid)
	go a.readLoop(cmd, ptmx)
	return nil
}

func (a *App) readLoop(cmd *exec.Cmd, ptmx *os.File) {
	buf := make([]byte, 4096)
	for {
		n, err := ptmx.Read(buf)
		if n > 0 {
			a.mu.Lock()
			a.out.Write(buf[:n])
			a.mu.Unlock()
			a.notify()
		}
		if err != nil {
			break
		}
	}

	waitErr := cmd.Wait()
	a.mu.Lock()
	if waitErr != nil {
		a.status = "exited: " + waitErr.Error()
	} else {
		a.status = "exited"
	}
	a.finish()
	a.mu.Unlock()
	log.Printf("UserApp: %s %s", a.entry.Path, a.Status())
	a.notify()
}

func (a *App) finish() {
	a.doneOnce.Do(func() { close(a.done) })
}

func (a *App) notify() {
	a.mu.Lock()
	fn := a.refresh
	a.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Done is closed once the program has exited or failed to start.
func (a *App) Done() <-chan struct{} {
	return a.done
}

// Status describes the program state.
func (a *App) Status() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.status == "" {
		return "not started"
	}
	return a.status
}

// Output returns the most recent n output lines.
func (a *App) Output(n int) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.out.Tail(n)
}

// Draw shows the program output above a status line.
func (a *App) Draw(screen tcell.Screen) {
	cols, rows := screen.Size()
	body := rows - 1
	a.mu.Lock()
	a.resizeLocked(cols, body)
	lines := a.out.Tail(body)
	status := a.status
	a.mu.Unlock()

	for y, line := range lines {
		drawText(screen, y, cols, line, tcell.StyleDefault)
	}
	if status == "" {
		status = "not started"
	}
	drawText(screen, rows-1, cols, fmt.Sprintf("%s: %s  esc back to menu", a.entry.Name, status), styleStatus)
}

func (a *App) resizeLocked(cols, rows int) {
	if cols <= 0 || rows <= 0 || (cols == a.cols && rows == a.rows) {
		return
	}
	a.cols, a.rows = cols, rows
	if a.pty != nil {
		if err := pty.Setsize(a.pty, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)}); err != nil {
			log.Printf("UserApp: Resize of %s failed: %v", a.entry.Path, err)
		}
	}
}

// Close kills the program if it is still running.
func (a *App) Close() error {
	a.mu.Lock()
	cmd, ptmx := a.cmd, a.pty
	a.mu.Unlock()
	if cmd != nil && cmd.Process != nil {
		select {
		case <-a.done:
		default:
			_ = cmd.Process.Kill()
		}
	}
	if ptmx != nil {
		return ptmx.Close()
	}
	return nil
}

func drawText(screen tcell.Screen, y, width int, text string, style tcell.Style) {
	if width <= 0 || y < 0 {
		return
	}
	text = runewidth.Truncate(text, width, "…")
	x := 0
	for _, r := range text {
		screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}
