package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyplan/internal/schedule"
)

// Color palette
var (
	Primary   = lipgloss.Color("#0B5FF4") // Blue
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
)

// Block states
var (
	Pending = lipgloss.NewStyle().
		Foreground(Text)

	Completed = lipgloss.NewStyle().
			Foreground(Success).
			Strikethrough(true)

	Skipped = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)

// StatusStyle returns the style for a block status.
func StatusStyle(s schedule.Status) lipgloss.Style {
	switch s {
	case schedule.StatusCompleted:
		return Completed
	case schedule.StatusSkipped:
		return Skipped
	default:
		return Pending
	}
}

// StatusIcon returns the marker shown next to a block.
func StatusIcon(s schedule.Status) string {
	switch s {
	case schedule.StatusCompleted:
		return "✓"
	case schedule.StatusSkipped:
		return "–"
	default:
		return "○"
	}
}

// SubjectColor parses a subject's hex color, falling back to Primary.
func SubjectColor(hex string) color.Color {
	if hex == "" {
		return Primary
	}
	return lipgloss.Color(hex)
}
