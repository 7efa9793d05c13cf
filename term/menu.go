// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/menu.go
// Summary: Numbered text menu for running the launcher without a display.

package term

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	xterm "golang.org/x/term"
)

const clearScreen = "\x1b[2J\x1b[H"

// Terminal reads menu selections from in and writes to out.
type Terminal struct {
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader
	fd     int
	isTTY  bool
}

// New creates a terminal menu. When in is an interactive terminal, lines
// are read in raw mode with line editing.
func New(in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{in: in, out: out, fd: -1}
	if f, ok := in.(*os.File); ok && xterm.IsTerminal(int(f.Fd())) {
		t.fd = int(f.Fd())
		t.isTTY = true
	} else {
		t.reader = bufio.NewReader(in)
	}
	return t
}

// Stdio returns a terminal menu over stdin and stdout.
func Stdio() *Terminal {
	return New(os.Stdin, os.Stdout)
}

// Clear wipes the screen.
func (t *Terminal) Clear() error {
	_, err := io.WriteString(t.out, clearScreen)
	return err
}

// Menu prints title and numbered items and blocks until a valid number is
// entered. It returns the zero-based index.
func (t *Terminal) Menu(title string, items []string) (int, error) {
	if len(items) == 0 {
		return 0, fmt.Errorf("menu has no items")
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\r\n\r\n")
	for i, item := range items {
		fmt.Fprintf(&b, "%3d) %s\r\n", i+1, item)
	}
	if _, err := io.WriteString(t.out, b.String()); err != nil {
		return 0, err
	}

	for {
		line, err := t.readLine(fmt.Sprintf("Select [1-%d]: ", len(items)))
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && n >= 1 && n <= len(items) {
			return n - 1, nil
		}
		if _, err := fmt.Fprintf(t.out, "Invalid choice %q\r\n", strings.TrimSpace(line)); err != nil {
			return 0, err
		}
	}
}

func (t *Terminal) readLine(prompt string) (string, error) {
	if t.isTTY {
		return t.readRawLine(prompt)
	}
	if _, err := io.WriteString(t.out, prompt); err != nil {
		return "", err
	}
	line, err := t.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return line, nil
}

func (t *Terminal) readRawLine(prompt string) (string, error) {
	oldState, err := xterm.MakeRaw(t.fd)
	if err != nil {
		return "", fmt.Errorf("enter raw mode: %w", err)
	}
	defer xterm.Restore(t.fd, oldState)

	rw := struct {
		io.Reader
		io.Writer
	}{t.in, t.out}
	return xterm.NewTerminal(rw, prompt).ReadLine()
}
