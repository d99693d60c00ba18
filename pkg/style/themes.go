package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette names a color per role in a report. Each color adapts to light
// and dark terminals.
type Palette struct {
	Heading lipgloss.AdaptiveColor
	Muted   lipgloss.AdaptiveColor
	Path    lipgloss.AdaptiveColor
	Link    lipgloss.AdaptiveColor
	Linked  lipgloss.AdaptiveColor
	Skipped lipgloss.AdaptiveColor
	Failed  lipgloss.AdaptiveColor
	Info    lipgloss.AdaptiveColor
}

// Catppuccin Latte on light backgrounds, Mocha on dark ones
var DefaultPalette = Palette{
	Heading: lipgloss.AdaptiveColor{Light: "#4C4F69", Dark: "#CDD6F4"},
	Muted:   lipgloss.AdaptiveColor{Light: "#8C8FA1", Dark: "#7F849C"},
	Path:    lipgloss.AdaptiveColor{Light: "#7287FD", Dark: "#B4BEFE"},
	Link:    lipgloss.AdaptiveColor{Light: "#209FB5", Dark: "#74C7EC"},
	Linked:  lipgloss.AdaptiveColor{Light: "#40A02B", Dark: "#A6E3A1"},
	Skipped: lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#F9E2AF"},
	Failed:  lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#F38BA8"},
	Info:    lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"},
}
