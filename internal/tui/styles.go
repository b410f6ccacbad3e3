package tui

import (
	"charm.land/lipgloss/v2"
)

// Color palette (Catppuccin Mocha)
var (
	colorMauve    = lipgloss.Color("#cba6f7")
	colorGreen    = lipgloss.Color("#a6e3a1")
	colorYellow   = lipgloss.Color("#f9e2af")
	colorRed      = lipgloss.Color("#f38ba8")
	colorText     = lipgloss.Color("#cdd6f4")
	colorSubtext0 = lipgloss.Color("#a6adc8")
	colorSurface2 = lipgloss.Color("#585b70")
)

var (
	styleModal = lipgloss.NewStyle().
			Width(modalWidth).
			Padding(modalPadding).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface2)

	styleConfirmModal = lipgloss.NewStyle().
				Width(50).
				Padding(2).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorRed)

	styleHeader = lipgloss.NewStyle().
			Foreground(colorMauve).
			Bold(true)

	styleStepLine = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	styleText = lipgloss.NewStyle().
			Foreground(colorText)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorSubtext0)

	styleToast = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleSuccessText = lipgloss.NewStyle().
				Foreground(colorGreen).
				Bold(true)

	styleWarningText = lipgloss.NewStyle().
				Foreground(colorYellow)

	styleErrorText = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)
)
