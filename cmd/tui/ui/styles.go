package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Amber marks the morning check-in, green the evening check-out.
var (
	colorInk   = lipgloss.Color("#E6E1D6")
	colorDim   = lipgloss.Color("#8A8F98")
	colorEdge  = lipgloss.Color("#3C4452")
	colorAmber = lipgloss.Color("#F2A541")
	colorGreen = lipgloss.Color("#7BC96F")
	colorRed   = lipgloss.Color("#E5534B")
	colorBar   = lipgloss.Color("#1F242C")
)

const panelWidth = 78

var (
	titleStyle    = lipgloss.NewStyle().Foreground(colorAmber).Bold(true)
	textStyle     = lipgloss.NewStyle().Foreground(colorInk)
	hintStyle     = lipgloss.NewStyle().Foreground(colorDim)
	keyStyle      = lipgloss.NewStyle().Foreground(colorInk).Bold(true)
	okStyle       = lipgloss.NewStyle().Foreground(colorGreen)
	failStyle     = lipgloss.NewStyle().Foreground(colorRed)
	checkInStyle  = lipgloss.NewStyle().Foreground(colorAmber)
	checkOutStyle = lipgloss.NewStyle().Foreground(colorGreen)

	labelStyle       = lipgloss.NewStyle().Foreground(colorDim).Width(12)
	activeLabelStyle = labelStyle.Foreground(colorAmber)
	fieldStyle       = lipgloss.NewStyle().
				Foreground(colorInk).
				Border(lipgloss.NormalBorder(), false, false, true, false).
				BorderForeground(colorEdge)
	activeFieldStyle = fieldStyle.BorderForeground(colorAmber)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(colorEdge).
			Padding(1, 3).
			Width(panelWidth)
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(colorEdge).
			PaddingLeft(1)
	activeCardStyle = cardStyle.BorderForeground(colorAmber)
	reportStyle     = lipgloss.NewStyle().
			Foreground(colorInk).
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorEdge).
			Padding(0, 1)

	barStyle = lipgloss.NewStyle().
			Background(colorBar).
			Foreground(colorInk).
			Padding(0, 2).
			Width(panelWidth + 4)
)

// keyHelp renders "key action" pairs as a single footer line.
func keyHelp(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, keyStyle.Render(pairs[i])+" "+hintStyle.Render(pairs[i+1]))
	}
	return strings.Join(parts, hintStyle.Render("  ·  "))
}

// heading renders the app name followed by the current screen.
func heading(screen string) string {
	return titleStyle.Render("attendly") + hintStyle.Render("  /  ") + textStyle.Bold(true).Render(screen)
}

func clockOrDash(clock string) string {
	if clock == "" {
		return "--:--"
	}
	return clock
}
