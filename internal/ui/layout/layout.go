package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyplan/internal/ui/theme"
)

// DefaultWidth is used when the terminal width is unknown.
const DefaultWidth = 72

// MinWidth is the narrowest layout the views support.
const MinWidth = 40

// ClampWidth maps an unknown or tiny width onto a usable one.
func ClampWidth(width int) int {
	if width <= 0 {
		return DefaultWidth
	}
	return max(width, MinWidth)
}

// RenderHeader renders the title bar with the streak and hours on the right.
func RenderHeader(title string, streak int, hours float64, width int) string {
	left := theme.Title.Render("studyplan") + "  " + theme.Body.Render(title)

	right := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Render(fmt.Sprintf("★ %d day", streak)) +
		"   " +
		theme.Subtitle.Render(fmt.Sprintf("%.1fh", hours))

	innerWidth := width - 4 // border + padding
	gap := innerWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return theme.Card.
		Width(width).
		Render(left + strings.Repeat(" ", gap) + right)
}

// RenderSection renders a titled block of lines.
func RenderSection(title string, lines []string) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(title))
	for _, l := range lines {
		b.WriteString("\n")
		b.WriteString(l)
	}
	return b.String()
}
