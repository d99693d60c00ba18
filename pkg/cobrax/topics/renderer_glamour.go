package topics

import (
	"github.com/charmbracelet/glamour"
)

// Renderer formats topic content for the terminal
type Renderer interface {
	Render(content string, ext string) string
}

// PlainRenderer returns content unchanged
type PlainRenderer struct{}

func (PlainRenderer) Render(content string, _ string) string {
	return content
}

// GlamourRenderer renders markdown topics with glamour. Other formats pass
// through.
type GlamourRenderer struct {
	// Style is a glamour standard style name; empty detects from the terminal
	Style string
	Width int
}

// NewGlamourRenderer picks the glamour style for the terminal, or the plain
// "notty" style when color is off
func NewGlamourRenderer(color bool) *GlamourRenderer {
	r := &GlamourRenderer{Width: 80}
	if !color {
		r.Style = "notty"
	}
	return r
}

func (r *GlamourRenderer) Render(content string, ext string) string {
	if ext != ".md" {
		return content
	}

	options := []glamour.TermRendererOption{glamour.WithWordWrap(r.Width)}
	if r.Style != "" {
		options = append(options, glamour.WithStandardStyle(r.Style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
