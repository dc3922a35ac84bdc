package ui

import "github.com/charmbracelet/lipgloss"

// Palette shared with the huh Catppuccin prompts.
const (
	accent  = lipgloss.Color("63")
	ok      = lipgloss.Color("42")
	muted   = lipgloss.Color("241")
	caution = lipgloss.Color("214")
	failure = lipgloss.Color("196")
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(accent)
	okStyle      = lipgloss.NewStyle().Bold(true).Foreground(ok)
	keyStyle     = lipgloss.NewStyle().Foreground(muted).Width(11).PaddingLeft(2)
	cautionStyle = lipgloss.NewStyle().Bold(true).Foreground(caution)
	failureStyle = lipgloss.NewStyle().Bold(true).Foreground(failure)
)
