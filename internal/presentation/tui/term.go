package tui

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// ProfileFor picks the color profile for output written to f.
// NO_COLOR and redirected output both disable colors.
func ProfileFor(f *os.File) termenv.Profile {
	if !IsTerminal(f) || os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}
