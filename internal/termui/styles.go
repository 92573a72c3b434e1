// Package termui renders the engine's view models for a terminal
package termui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	sessionStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	badgeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	actionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	stateStyles = map[string]lipgloss.Style{
		"completed": lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"wrong":     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}

	difficultyStyles = map[string]lipgloss.Style{
		"Easy":   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"Medium": lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		"Hard":   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}

	cellStyle      = lipgloss.NewStyle().Width(12).Padding(0, 1)
	todayCellStyle = cellStyle.Bold(true).Underline(true)
	activeCell     = cellStyle.Reverse(true)
)
