package main

import "github.com/charmbracelet/lipgloss"

// chromeHeight is the screen space taken by everything except the scrolling
// block list: header, heap bar, stats and help lines.
const chromeHeight = 8

var (
	// Color palette
	primaryColor = lipgloss.Color("#7D56F4")
	allocColor   = lipgloss.Color("#FF8700")
	freeColor    = lipgloss.Color("#04B575")
	mutedColor   = lipgloss.Color("#666666")
	errorColor   = lipgloss.Color("#FF4B4B")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	opStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00D7FF"))

	allocCell = lipgloss.NewStyle().
			Foreground(allocColor)

	freeCell = lipgloss.NewStyle().
			Foreground(freeColor)

	sentinelCell = lipgloss.NewStyle().
			Foreground(mutedColor)

	statsStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	errStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 1)
)
