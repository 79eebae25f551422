// Package render turns planner views into styled terminal text for the CLI.
package render

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/studyplan/internal/alerts"
	"github.com/abhisek/studyplan/internal/progress"
	"github.com/abhisek/studyplan/internal/schedule"
	"github.com/abhisek/studyplan/internal/syllabus"
	"github.com/abhisek/studyplan/internal/ui/components"
	"github.com/abhisek/studyplan/internal/ui/layout"
	"github.com/abhisek/studyplan/internal/ui/theme"
)

const dayFormat = "Mon 02 Jan 2006"

func swatch(hex string) string {
	return lipgloss.NewStyle().Foreground(theme.SubjectColor(hex)).Render("●")
}

func blockLine(b progress.ResolvedBlock, width int) string {
	label := fmt.Sprintf("%s · %s", b.SubjectName, b.TopicName)
	meta := fmt.Sprintf("%-9s %3dm", b.Type, b.Duration)
	// icon, swatch, spaces and meta take the rest
	label = ansi.Truncate(label, max(10, width-len(meta)-8), "…")

	style := theme.StatusStyle(b.Status)
	return fmt.Sprintf("%s %s %s  %s\n    %s",
		style.Render(theme.StatusIcon(b.Status)),
		swatch(b.SubjectColor),
		style.Render(label),
		theme.Subtitle.Render(meta),
		theme.Hint.Render(b.ID))
}

// Day renders one day's blocks with its completion bar.
func Day(d progress.DaySchedule, width int) string {
	width = layout.ClampWidth(width)
	title := d.Date.Format(dayFormat)

	var lines []string
	switch {
	case d.IsRestDay && len(d.Blocks) == 0:
		lines = append(lines, theme.Hint.Render("Rest day. Nothing scheduled."))
	case len(d.Blocks) == 0:
		lines = append(lines, theme.Hint.Render("No blocks scheduled. Run `studyplan generate` to build a plan."))
	default:
		for _, b := range d.Blocks {
			lines = append(lines, blockLine(b, width))
		}
		lines = append(lines, "", components.NewProgressBar("Done", d.Progress, true, width).View())
	}
	if d.Orphans > 0 {
		lines = append(lines, theme.Hint.Render(fmt.Sprintf("%d block(s) reference removed topics; regenerate to clean up.", d.Orphans)))
	}
	return layout.RenderSection(title, lines)
}

// Week renders a Sunday-to-Saturday overview with the week summary.
func Week(w progress.WeekSchedule, width int) string {
	width = layout.ClampWidth(width)
	title := fmt.Sprintf("Week %d · %s", w.WeekNumber, w.Start.Format("02 Jan 2006"))

	var lines []string
	for _, d := range w.Days {
		day := d.Date.Format("Mon 02")
		switch {
		case d.IsRestDay && len(d.Blocks) == 0:
			lines = append(lines, fmt.Sprintf("%s  %s", day, theme.Hint.Render("rest")))
		case len(d.Blocks) == 0:
			lines = append(lines, fmt.Sprintf("%s  %s", day, theme.Hint.Render("nothing scheduled")))
		default:
			done := 0
			for _, b := range d.Blocks {
				if b.Status == schedule.StatusCompleted {
					done++
				}
			}
			bar := components.NewProgressBar("", d.Progress, false, 12).View()
			lines = append(lines, fmt.Sprintf("%s  %s  %d/%d done  %s",
				day, bar, done, len(d.Blocks), subjectNames(d.Blocks)))
		}
	}
	s := w.Summary
	lines = append(lines, "", theme.Subtitle.Render(fmt.Sprintf(
		"%d blocks · %d completed · %.1fh studied · %d topics finished",
		s.TotalBlocks, s.CompletedBlocks, s.HoursStudied, s.TopicsCompleted)))
	return layout.RenderSection(title, lines)
}

func subjectNames(blocks []progress.ResolvedBlock) string {
	seen := make(map[string]bool)
	var names []string
	for _, b := range blocks {
		if !seen[b.SubjectID] {
			seen[b.SubjectID] = true
			names = append(names, b.SubjectName)
		}
	}
	return theme.Subtitle.Render(strings.Join(names, ", "))
}

// Stats renders the progress overview.
func Stats(o progress.Overview, width int) string {
	width = layout.ClampWidth(width)
	var b strings.Builder

	b.WriteString(layout.RenderHeader(o.Date.Format(dayFormat), o.Streak, o.HoursStudied, width))
	b.WriteString("\n\n")

	var lines []string
	if len(o.Subjects) == 0 {
		lines = append(lines, theme.Hint.Render("No subjects yet. Add one with `studyplan subject add`."))
	}
	for _, s := range o.Subjects {
		label := fmt.Sprintf("%s %-16s %3d/%-3d", swatch(s.Color), ansi.Truncate(s.Name, 16, "…"), s.CompletedTopics, s.TotalTopics)
		lines = append(lines, components.NewProgressBar(label, float64(s.Percent)/100, true, width).View())
	}
	b.WriteString(layout.RenderSection("Subjects", lines))
	b.WriteString("\n\n")

	b.WriteString(layout.RenderSection("Schedule", []string{
		components.NewProgressBar("Today    ", o.DayProgress, true, width).View(),
		components.NewProgressBar("This week", o.WeekProgress, true, width).View(),
		theme.Subtitle.Render(fmt.Sprintf("%d pending · %d completed · %d skipped",
			o.PendingBlocks, o.CompletedBlocks, o.SkippedBlocks)),
		theme.Subtitle.Render(fmt.Sprintf("%d/%d topics completed · %d unread alert(s)",
			o.CompletedTopics, o.TotalTopics, o.UnreadAlerts)),
	}))
	return b.String()
}

// Subjects renders subjects and their ordered topics.
func Subjects(list []syllabus.Subject) string {
	if len(list) == 0 {
		return theme.Hint.Render("No subjects yet.")
	}
	var lines []string
	for _, s := range list {
		lines = append(lines, fmt.Sprintf("%s %s  %s  %s",
			swatch(s.Color),
			theme.Body.Bold(true).Render(s.Name),
			theme.Subtitle.Render(fmt.Sprintf("weight %d · %d%%", s.Weight, progress.SubjectProgress(s))),
			theme.Hint.Render(s.ID)))
		for _, t := range s.Topics {
			icon, style := "○", theme.Pending
			if t.Completed {
				icon, style = "✓", theme.Completed
			}
			lines = append(lines, fmt.Sprintf("   %s %s  %s  %s",
				style.Render(icon), style.Render(t.Name),
				theme.Subtitle.Render(string(t.Difficulty)),
				theme.Hint.Render(t.ID)))
		}
	}
	return layout.RenderSection("Subjects", lines)
}

// Alerts renders alerts newest first, unread ones highlighted.
func Alerts(list []alerts.Alert, loc *time.Location) string {
	if len(list) == 0 {
		return theme.Hint.Render("No alerts.")
	}
	if loc == nil {
		loc = time.Local
	}
	lines := make([]string, 0, len(list))
	for _, a := range list {
		marker, style := "●", lipgloss.NewStyle().Foreground(theme.Accent)
		if a.Read {
			marker, style = " ", theme.Subtitle
		}
		lines = append(lines, fmt.Sprintf("%s %s %s  %s  %s",
			style.Render(marker),
			style.Render(fmt.Sprintf("%-11s", a.Type)),
			theme.Body.Render(a.Message),
			theme.Subtitle.Render(a.CreatedAt.In(loc).Format("2006-01-02 15:04")),
			theme.Hint.Render(a.ID)))
	}
	return layout.RenderSection(fmt.Sprintf("Alerts (%d unread)", alerts.UnreadCount(list)), lines)
}
