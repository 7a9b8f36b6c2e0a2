package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha subset.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorLavender lipgloss.Color = "#b4befe"
	colorText     lipgloss.Color = "#cdd6f4"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface2 lipgloss.Color = "#585b70"
)

const (
	colorBrand   = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(colorBrand)
	labelStyle   = lipgloss.NewStyle().Foreground(colorOverlay1)
	focusStyle   = lipgloss.NewStyle().Foreground(colorFocus).Bold(true)
	textStyle    = lipgloss.NewStyle().Foreground(colorText)
	helpStyle    = lipgloss.NewStyle().Foreground(colorOverlay1)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)

	padIdleBorder    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSurface2)
	padDrawingBorder = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorFocus)
)
