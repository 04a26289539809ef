package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	markdownStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	spacesStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	snippetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))
)
