package monitor

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/s22625/planwatch/internal/timeline"
)

// Color palette
var (
	colorGreen  = lipgloss.Color("42")
	colorYellow = lipgloss.Color("214")
	colorRed    = lipgloss.Color("196")
	colorBlue   = lipgloss.Color("39")
	colorCyan   = lipgloss.Color("45")
	colorGray   = lipgloss.Color("245")
	colorWhite  = lipgloss.Color("255")
)

// Styles defines the visual styles for the live dashboard.
type Styles struct {
	Title     lipgloss.Style
	StatusBar lipgloss.Style
	HelpBar   lipgloss.Style
	Normal    lipgloss.Style
	Muted     lipgloss.Style

	EventInfo     lipgloss.Style
	EventRunning  lipgloss.Style
	EventSuccess  lipgloss.Style
	EventWarning  lipgloss.Style
	EventError    lipgloss.Style
	EventRecovery lipgloss.Style
}

// DefaultStyles returns the default dashboard styles.
func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Background(colorBlue).Padding(0, 1),
		StatusBar: lipgloss.NewStyle().Foreground(colorCyan),
		HelpBar:   lipgloss.NewStyle().Foreground(colorGray),
		Normal:    lipgloss.NewStyle().Foreground(colorWhite),
		Muted:     lipgloss.NewStyle().Foreground(colorGray),

		EventInfo:     lipgloss.NewStyle().Foreground(colorGray),
		EventRunning:  lipgloss.NewStyle().Foreground(colorBlue),
		EventSuccess:  lipgloss.NewStyle().Foreground(colorGreen),
		EventWarning:  lipgloss.NewStyle().Foreground(colorYellow),
		EventError:    lipgloss.NewStyle().Foreground(colorRed),
		EventRecovery: lipgloss.NewStyle().Foreground(colorYellow),
	}
}

// EventStyle returns the style for an event severity.
func (s Styles) EventStyle(status timeline.Status) lipgloss.Style {
	switch status {
	case timeline.StatusRunning:
		return s.EventRunning
	case timeline.StatusSuccess:
		return s.EventSuccess
	case timeline.StatusWarning:
		return s.EventWarning
	case timeline.StatusError:
		return s.EventError
	case timeline.StatusRecovery:
		return s.EventRecovery
	default:
		return s.EventInfo
	}
}
