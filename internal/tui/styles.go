package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#2563EB")
	colorMuted   = lipgloss.Color("#6B7280")
	colorBorder  = lipgloss.Color("#D1D5DB")
	colorError   = lipgloss.Color("#DC2626")
)

// Styles groups the lipgloss styles used by the browser.
type Styles struct {
	Title   lipgloss.Style
	Search  lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Total   lipgloss.Style
	Current lipgloss.Style
	Page    lipgloss.Style
	Help    lipgloss.Style
}

// DefaultStyles returns the browser's default styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		Search: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1),
		Muted:   lipgloss.NewStyle().Foreground(colorMuted),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(colorError),
		Total:   lipgloss.NewStyle().Bold(true),
		Current: lipgloss.NewStyle().Bold(true).Underline(true).Foreground(colorPrimary),
		Page:    lipgloss.NewStyle().Foreground(colorMuted),
		Help:    lipgloss.NewStyle().Foreground(colorMuted).Italic(true),
	}
}
