package main

import (
	"os"

	"golang.org/x/term"
)

var keypressWait = waitForKeypress

// waitForKeypress blocks until one byte is read from in. A terminal is put
// in raw mode for the read so any key counts without Enter.
func waitForKeypress(in *os.File) {
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		if state, err := term.MakeRaw(fd); err == nil {
			defer func() { _ = term.Restore(fd, state) }()
		}
	}
	var buf [1]byte
	_, _ = in.Read(buf[:])
}
