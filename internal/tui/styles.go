package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorTeal  = lipgloss.Color("30")  // chat header teal
	colorGreen = lipgloss.Color("35")  // outgoing bubble green
	colorMuted = lipgloss.Color("244") // timestamps, notices
	colorMark  = lipgloss.Color("220") // cursor
	colorFrame = lipgloss.Color("237")

	styleInputPrompt = lipgloss.NewStyle().Foreground(colorTeal).Bold(true)
	styleInput       = lipgloss.NewStyle().Foreground(colorGreen)

	styleCursor       = lipgloss.NewStyle().Foreground(colorMark).Bold(true)
	styleSender       = lipgloss.NewStyle().Foreground(colorGreen)
	styleUser         = lipgloss.NewStyle().Foreground(colorTeal).Bold(true)
	styleNotification = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	styleSubtitle     = lipgloss.NewStyle().Foreground(colorMuted)

	styleListPanel    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorFrame)
	stylePreviewPanel = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorTeal)

	styleStatusBar = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)
	styleNotice    = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
)
