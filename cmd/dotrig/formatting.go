package dotrig

import (
	"strings"
	"text/template"

	"github.com/dotrig/dotrig/pkg/style"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func formatBold(s string) string {
	if !style.Enabled() {
		return s
	}
	return pterm.Bold.Sprint(s)
}

func formatBoldUpper(s string) string {
	return formatBold(strings.ToUpper(s))
}

// initTemplateFormatting adds the template functions the usage template uses
func initTemplateFormatting() {
	cobra.AddTemplateFuncs(template.FuncMap{
		"bold":      formatBold,
		"upper":     strings.ToUpper,
		"boldUpper": formatBoldUpper,
	})
}
