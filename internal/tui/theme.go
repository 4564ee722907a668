package tui

import (
	"github.com/charmbracelet/lipgloss"

	"clustertop/internal/api"
)

// Theme holds all colors used by the TUI. Views reference theme fields,
// never raw color values.
type Theme struct {
	Fg       lipgloss.Color
	FgDim    lipgloss.Color
	Border   lipgloss.Color
	Accent   lipgloss.Color
	Healthy  lipgloss.Color
	Warning  lipgloss.Color
	Critical lipgloss.Color
}

// DefaultTheme returns ANSI defaults so the TUI inherits the terminal palette.
func DefaultTheme() Theme {
	return Theme{
		Fg:       lipgloss.Color("7"),
		FgDim:    lipgloss.Color("8"),
		Border:   lipgloss.Color("8"),
		Accent:   lipgloss.Color("4"),
		Healthy:  lipgloss.Color("2"),
		Warning:  lipgloss.Color("3"),
		Critical: lipgloss.Color("1"),
	}
}

// StateColor returns a color for an instance or replicaset state.
func (t Theme) StateColor(s api.State) lipgloss.Color {
	switch s {
	case api.StateOnline:
		return t.Healthy
	case api.StateOffline:
		return t.Critical
	case api.StateExpelled:
		return t.FgDim
	default:
		return t.Warning
	}
}

// UsageColor returns green/yellow/red based on a usage percentage.
func (t Theme) UsageColor(percent float64) lipgloss.Color {
	switch {
	case percent >= 90:
		return t.Critical
	case percent >= 70:
		return t.Warning
	default:
		return t.Healthy
	}
}

func fgStyle(t *Theme) lipgloss.Style    { return lipgloss.NewStyle().Foreground(t.Fg) }
func mutedStyle(t *Theme) lipgloss.Style { return lipgloss.NewStyle().Foreground(t.FgDim) }
func accentStyle(t *Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
}
