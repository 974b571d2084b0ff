package ui

import "github.com/charmbracelet/lipgloss"

// Styles centralizes the lipgloss styles used for command output. They are
// bound to one renderer so color follows the destination writer.
type Styles struct {
	Title   lipgloss.Style
	Name    lipgloss.Style
	Value   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
}

func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title: r.NewStyle().
			Foreground(lipgloss.Color("#FFF")).
			Background(lipgloss.Color("#7D56F4")). // Brand Color
			Bold(true).
			Padding(0, 1),
		Name: r.NewStyle().
			Foreground(lipgloss.Color("212")). // Light purple
			Bold(true),
		Value: r.NewStyle().
			Foreground(lipgloss.Color("86")), // Cyan/Teal
		Muted: r.NewStyle().
			Foreground(lipgloss.Color("240")),
		Success: r.NewStyle().
			Foreground(lipgloss.Color("46")). // Green
			Bold(true),
		Error: r.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true),
	}
}
