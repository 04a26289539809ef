package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type styles struct {
	markdown lipgloss.Style
	spaces   lipgloss.Style
	title    lipgloss.Style
	dim      lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.ANSI)

	return styles{
		markdown: r.NewStyle().Foreground(lipgloss.Color("3")),
		spaces:   r.NewStyle().Foreground(lipgloss.Color("6")),
		title:    r.NewStyle().Bold(true),
		dim:      r.NewStyle().Faint(true),
	}
}
