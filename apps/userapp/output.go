// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/userapp/output.go
// Summary: Line buffer for program output with escape sequences removed.

package userapp

import "unicode/utf8"

const (
	maxLines = 500
	tabWidth = 8
)

type escState int

const (
	escNone escState = iota
	escStart
	escCSI
	escOSC
)

// outputLog keeps the last maxLines lines of plain text. Cursor movement
// and colour sequences are dropped rather than interpreted.
type outputLog struct {
	lines   []string
	line    []rune
	pending []byte
	state   escState
}

func (o *outputLog) Write(p []byte) {
	data := append(o.pending, p...)
	o.pending = nil
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size <= 1 && !utf8.FullRune(data) {
			o.pending = append([]byte(nil), data...)
			return
		}
		data = data[size:]
		o.put(r)
	}
}

func (o *outputLog) put(r rune) {
	switch o.state {
	case escStart:
		switch r {
		case '[':
			o.state = escCSI
		case ']':
			o.state = escOSC
		default:
			o.state = escNone
		}
		return
	case escCSI:
		if r >= 0x40 && r <= 0x7e {
			o.state = escNone
		}
		return
	case escOSC:
		switch r {
		case 0x07:
			o.state = escNone
		case 0x1b:
			o.state = escStart
		}
		return
	}

	switch {
	case r == 0x1b:
		o.state = escStart
	case r == '\n':
		o.newline()
	case r == '\t':
		o.line = append(o.line, ' ')
		for len(o.line)%tabWidth != 0 {
			o.line = append(o.line, ' ')
		}
	case r == '\b':
		if len(o.line) > 0 {
			o.line = o.line[:len(o.line)-1]
		}
	case r < 0x20 || r == 0x7f:
		// \r and other controls
	default:
		o.line = append(o.line, r)
	}
}

func (o *outputLog) newline() {
	o.lines = append(o.lines, string(o.line))
	o.line = o.line[:0]
	if len(o.lines) > maxLines {
		o.lines = append([]string(nil), o.lines[len(o.lines)-maxLines:]...)
	}
}

// Tail returns up to n trailing lines, including an unterminated last line.
func (o *outputLog) Tail(n int) []string {
	all := o.lines
	if len(o.line) > 0 {
		all = append(append([]string(nil), o.lines...), string(o.line))
	}
	if n <= 0 {
		return nil
	}
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return append([]string(nil), all...)
}
