package survey

import (
	"charm.land/lipgloss/v2"
)

// Color palette (Catppuccin Mocha)
var (
	colorMauve    = lipgloss.Color("#cba6f7") // Mauve
	colorGreen    = lipgloss.Color("#a6e3a1") // Green
	colorRed      = lipgloss.Color("#f38ba8") // Red
	colorSubtext0 = lipgloss.Color("#a6adc8") // Subtext0
	colorText     = lipgloss.Color("#cdd6f4") // Text
)

var (
	styleFieldLabel = lipgloss.NewStyle().
			Foreground(colorSubtext0)

	styleSelected = lipgloss.NewStyle().
			Foreground(colorMauve).
			Bold(true)

	styleListItem = lipgloss.NewStyle().
			Foreground(colorText)

	styleSectionTitle = lipgloss.NewStyle().
				Foreground(colorMauve).
				Bold(true).
				MarginBottom(1)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorSubtext0)
)
