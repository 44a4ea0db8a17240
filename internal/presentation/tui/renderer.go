package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// Terminals get the auto-detected light or dark style; pipes get plain
// text without escape sequences.
func NewRenderer(tty bool) (func(string) (string, error), error) {
	style := glamour.WithStandardStyle("notty")
	if tty {
		style = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(100))
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}
