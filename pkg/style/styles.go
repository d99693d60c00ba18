package style

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle   lipgloss.Style
	MutedStyle   lipgloss.Style
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
	PathStyle    lipgloss.Style
	LinkStyle    lipgloss.Style

	// NameStyle pads target names so paths line up
	NameStyle = lipgloss.NewStyle().Bold(true).Width(14)
)

func init() {
	UsePalette(DefaultPalette)
}

// UsePalette rebuilds the report styles from p
func UsePalette(p Palette) {
	fg := func(c lipgloss.AdaptiveColor) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	TitleStyle = fg(p.Heading).Bold(true)
	MutedStyle = fg(p.Muted)
	SuccessStyle = fg(p.Linked).Bold(true)
	ErrorStyle = fg(p.Failed).Bold(true)
	WarningStyle = fg(p.Skipped).Bold(true)
	InfoStyle = fg(p.Info)
	PathStyle = fg(p.Path).Italic(true)
	LinkStyle = fg(p.Link)
}

func SuccessIndicator() string { return SuccessStyle.Render("✓") }
func ErrorIndicator() string   { return ErrorStyle.Render("✗") }
func WarningIndicator() string { return WarningStyle.Render("!") }
func InfoIndicator() string    { return InfoStyle.Render("•") }
func PendingIndicator() string { return MutedStyle.Render("○") }

// Indent pads s by level steps of two spaces
func Indent(s string, level int) string {
	return lipgloss.NewStyle().PaddingLeft(level * 2).Render(s)
}
