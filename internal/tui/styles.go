package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorText   = lipgloss.Color("#FAFAFA")
	colorAccent = lipgloss.Color("#7D56F4")
	colorGreen  = lipgloss.Color("#96CEB4")
	colorGold   = lipgloss.Color("#FFD700")
	colorRed    = lipgloss.Color("#FF6B6B")
	colorYellow = lipgloss.Color("#FFEAA7")
	colorMuted  = lipgloss.Color("#626262")
	focusColor  = lipgloss.Color("#04B575")
	borderColor = colorMuted
)

var (
	handHeaderStyle = lipgloss.NewStyle().Foreground(colorText).Background(colorAccent).Bold(true)
	handInfoStyle   = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	actionsStyle    = lipgloss.NewStyle().Foreground(colorGold).Bold(true)

	// Suits: hearts and diamonds red, spades and clubs light on dark terminals
	redCardStyle   = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	blackCardStyle = lipgloss.NewStyle().Foreground(colorText).Bold(true)

	successStyle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)

	currentSeatStyle = lipgloss.NewStyle().Foreground(colorGold).Bold(true)
	foldedSeatStyle  = lipgloss.NewStyle().Foreground(colorMuted).Strikethrough(true)
)
