package tui

import "github.com/charmbracelet/lipgloss"

var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true)

	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	errorBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(0, 1)

	barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
)
