package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The TUI must remain readable on both light and dark terminal backgrounds.
// We use lipgloss.AdaptiveColor where possible and only apply "faint" styling
// on dark backgrounds (faint text on light terminals often becomes illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if hasDarkBackground {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted         lipgloss.TerminalColor = ac("240", "243")
	colorChromeMutedFg lipgloss.TerminalColor = ac("240", "245")

	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")

	colorAccent lipgloss.TerminalColor = ac("25", "39")
	colorError  lipgloss.TerminalColor = ac("124", "203")

	colorPaneBorder    lipgloss.TerminalColor = ac("250", "243")
	colorFocusedBorder lipgloss.TerminalColor = ac("232", "255")
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle  = faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
	errorStyle  = lipgloss.NewStyle().Foreground(colorError)
	accentStyle = lipgloss.NewStyle().Foreground(colorAccent)
)

func paneStyle(focused bool) lipgloss.Style {
	st := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorPaneBorder)
	if focused {
		st = st.BorderForeground(colorFocusedBorder)
	}
	return st
}

// hasDarkBackground is resolved once; termenv queries the terminal.
var hasDarkBackground = termenv.HasDarkBackground()
