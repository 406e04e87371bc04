package tui

import "github.com/charmbracelet/lipgloss"

var (
	primary     = lipgloss.Color("#8BC34A")
	muted       = lipgloss.Color("#6b7785")
	destructive = lipgloss.Color("#e53935")
	info        = lipgloss.Color("#2196F3")
	border      = lipgloss.Color("#2a3850")
)

// Styles holds the panel's lipgloss styles
type Styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Box     lipgloss.Style
	Label   lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Muted   lipgloss.Style
	You     lipgloss.Style
	System  lipgloss.Style
	MicOn   lipgloss.Style
	MicOff  lipgloss.Style
}

// DefaultStyles returns the panel theme
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(primary).MarginBottom(1),
		Header:  lipgloss.NewStyle().Bold(true).Padding(0, 1).Border(lipgloss.NormalBorder(), false, false, true, false).BorderForeground(border),
		Box:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(1, 2),
		Label:   lipgloss.NewStyle().Width(10).Foreground(muted),
		Error:   lipgloss.NewStyle().Foreground(destructive),
		Success: lipgloss.NewStyle().Foreground(primary),
		Muted:   lipgloss.NewStyle().Foreground(muted),
		You:     lipgloss.NewStyle().Bold(true).Foreground(info),
		System:  lipgloss.NewStyle().Foreground(muted),
		MicOn:   lipgloss.NewStyle().Bold(true).Foreground(primary),
		MicOff:  lipgloss.NewStyle().Foreground(muted),
	}
}
