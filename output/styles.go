package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color constants - Dracula theme
const (
	colorComment = "#6272a4"
	colorGreen   = "#50fa7b"
	colorRed     = "#ff5555"
)

// Color modes accepted by the `color` setting.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// styles bundles the lipgloss styles used for terminal output.
type styles struct {
	success lipgloss.Style
	failure lipgloss.Style
	id      lipgloss.Style
	branch  lipgloss.Style
}

// creates a renderer for w honoring the configured color mode
func newRenderer(w io.Writer, mode string) *lipgloss.Renderer {
	renderer := lipgloss.NewRenderer(w)

	switch mode {
	case ColorAlways:
		renderer.SetColorProfile(termenv.TrueColor)
	case ColorNever:
		renderer.SetColorProfile(termenv.Ascii)
	}

	return renderer
}

func newStyles(renderer *lipgloss.Renderer) styles {
	return styles{
		success: renderer.NewStyle().Foreground(lipgloss.Color(colorGreen)),
		failure: renderer.NewStyle().Foreground(lipgloss.Color(colorRed)),
		id:      renderer.NewStyle().Foreground(lipgloss.Color(colorGreen)),
		branch:  renderer.NewStyle().Foreground(lipgloss.Color(colorComment)).Faint(true),
	}
}
