// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package host

import (
	"io"
	"log"
)

var debugLog = log.New(io.Discard, "", log.LstdFlags)

// SetDebugOutput enables verbose host logging to w; nil discards it.
func SetDebugOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	debugLog.SetOutput(w)
}
