package tui

import "github.com/charmbracelet/lipgloss"

// Styles contains the style definitions for the view.
type Styles struct {
	Title         lipgloss.Style
	Pane          lipgloss.Style
	FocusedPane   lipgloss.Style
	PaneTitle     lipgloss.Style
	LineNumber    lipgloss.Style
	Dim           lipgloss.Style
	Prompt        lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
}

// NewStyles creates a Styles instance with default values.
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Pane: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241")),
		FocusedPane: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("62")),
		PaneTitle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")),
		LineNumber: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Dim:        lipgloss.NewStyle().Faint(true),
		Prompt: lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 1),
		StatusInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
	}
}
