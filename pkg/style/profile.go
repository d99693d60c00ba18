package style

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
)

// ColorEnabled reports whether styled output should be written to f
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return termenv.NewOutput(f).Profile != termenv.Ascii
}

var enabled bool

// Enabled reports whether the last SetupColor turned color on
func Enabled() bool {
	return enabled
}

// SetupColor configures lipgloss and pterm for output going to f
func SetupColor(f *os.File) {
	if ColorEnabled(f) {
		lipgloss.SetColorProfile(termenv.NewOutput(f).Profile)
		pterm.EnableColor()
		enabled = true
		return
	}
	DisableColor()
}

// DisableColor switches every renderer to plain ASCII output
func DisableColor() {
	enabled = false
	lipgloss.SetColorProfile(termenv.Ascii)
	pterm.DisableColor()
}
