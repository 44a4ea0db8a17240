package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text, color string
}{
	{"  ____                             ", "#38bdf8"},
	{" / ___|_      _____ _ ____   _____ ", "#22d3ee"},
	{" \\___ \\ \\ /\\ / / _ \\ '__\\ \\ / / _ \\", "#2dd4bf"},
	{"  ___) \\ V  V /  __/ |   \\ V /  __/", "#34d399"},
	{" |____/ \\_/\\_/ \\___|_|    \\_/ \\___|", "#4ade80"},
}

// PrintBanner writes the swerve ASCII art banner.
func PrintBanner(w io.Writer, p termenv.Profile) {
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, paint(p, l.text, l.color))
	}
	fmt.Fprintln(w)
}

// paint colors s for profile p. The Ascii profile gets s untouched.
func paint(p termenv.Profile, s, hex string) string {
	if p == termenv.Ascii {
		return s
	}
	return termenv.String(s).Foreground(p.Color(hex)).String()
}
