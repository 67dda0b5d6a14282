// Package ui holds the terminal styling shared by the CLI tables and the
// interactive dashboard.
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/alfredjeanlab/swarmdash/internal/model"
)

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent  = "74"  // blue
	colorCmd     = "250" // light gray
	colorMuted   = "245" // medium gray
	colorOnline  = "114" // green
	colorBusy    = "215" // amber
	colorOffline = "203" // red
)

var noColor bool

var (
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(colorAccent))
	cmdStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(colorCmd))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted))
	onlineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(colorOnline))
	busyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorBusy))
	offlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorOffline))
)

func render(style lipgloss.Style, s string) string {
	if noColor {
		return s
	}
	return style.Render(s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string { return render(accentStyle, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return render(mutedStyle, s) }

// RenderCommand returns s styled as a command name (light gray).
func RenderCommand(s string) string { return render(cmdStyle, s) }

// StatusStyle returns the style for an agent status.
func StatusStyle(s model.AgentStatus) lipgloss.Style {
	switch s {
	case model.AgentOnline:
		return onlineStyle
	case model.AgentBusy:
		return busyStyle
	default:
		return offlineStyle
	}
}

// StatusDot is the indicator shown before an agent name.
func StatusDot(s model.AgentStatus) string {
	return render(StatusStyle(s), "●")
}

// RenderStatus returns the status name in its color.
func RenderStatus(s model.AgentStatus) string {
	return render(StatusStyle(s), s.String())
}

// RenderSigned formats v with an explicit sign, green when non-negative and
// red otherwise.
func RenderSigned(v float64, format string) string {
	text := fmt.Sprintf("%+"+format, v)
	if v >= 0 {
		return render(onlineStyle, text)
	}
	return render(offlineStyle, text)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}

// ColorEnabled reports whether styling is applied.
func ColorEnabled() bool { return !noColor }
