package tui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Help     lipgloss.Style
	Card     lipgloss.Style
	Cursor   lipgloss.Style
	Done     lipgloss.Style
	Overdue  lipgloss.Style
	Error    lipgloss.Style
}

func DefaultTheme() Theme {
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true),
		Subtitle: lipgloss.NewStyle().Faint(true),
		Help:     lipgloss.NewStyle().Faint(true),
		Card: lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),
		Cursor:  lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true),
		Done:    lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Overdue: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
}
