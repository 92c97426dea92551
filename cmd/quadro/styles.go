package main

import "github.com/charmbracelet/lipgloss"

var (
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	muted     = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}
	danger    = lipgloss.AdaptiveColor{Light: "#D94C4C", Dark: "#FF6B6B"}

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(highlight)

	idStyle = lipgloss.NewStyle().
		Foreground(muted)

	tagStyle = lipgloss.NewStyle().
			Foreground(special)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(danger)

	lockStyle = lipgloss.NewStyle().
			Foreground(danger)
)
