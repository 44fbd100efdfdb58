// Package ui renders catapult's terminal output: the banner, the menu
// chrome, and chat transcript lines. Styling is ANSI-16 on purpose so the
// client looks the same over ssh and in bare terminals.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Transcript colors: own messages yellow, incoming blue, timestamps
	// dim.
	sentStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	receivedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	stampStyle    = lipgloss.NewStyle().Faint(true)

	bannerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)
