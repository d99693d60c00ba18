// Package style renders dotrig reports for the terminal with lipgloss and
// pterm. Call SetupColor (or DisableColor) before rendering.
package style
