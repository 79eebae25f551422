package progress

import (
	"math"
	"time"

	"github.com/abhisek/studyplan/internal/alerts"
	"github.com/abhisek/studyplan/internal/schedule"
	"github.com/abhisek/studyplan/internal/syllabus"
)

// SubjectProgress returns the percentage of a subject's topics that are
// completed, rounded to the nearest integer. A subject without topics is 0.
func SubjectProgress(s syllabus.Subject) int {
	total := len(s.Topics)
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(s.CompletedTopics()) / float64(total)))
}

// DayProgress returns the fraction of blocks on date's calendar day that are
// completed, in [0, 1]. A day without blocks is 0.
func DayProgress(blocks []schedule.Block, date time.Time) float64 {
	return completionRatio(schedule.OnDate(blocks, date))
}

// WeekStart returns the Sunday midnight that begins the week containing t.
func WeekStart(t time.Time) time.Time {
	day := schedule.StartOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// InWeek returns the blocks scheduled in the Sunday-to-Saturday week containing t.
func InWeek(blocks []schedule.Block, t time.Time) []schedule.Block {
	start := WeekStart(t)
	end := start.AddDate(0, 0, 7)
	var out []schedule.Block
	for _, b := range blocks {
		at := b.ScheduledFor.In(start.Location())
		if !at.Before(start) && at.Before(end) {
			out = append(out, b)
		}
	}
	return out
}

// WeekProgress returns the completed fraction of blocks in the week
// containing t. A week without blocks is 0.
func WeekProgress(blocks []schedule.Block, t time.Time) float64 {
	return completionRatio(InWeek(blocks, t))
}

// HoursStudied sums the durations of completed blocks, in hours rounded to
// one decimal place.
func HoursStudied(blocks []schedule.Block) float64 {
	minutes := 0
	for _, b := range blocks {
		if b.Status == schedule.StatusCompleted {
			minutes += b.Duration
		}
	}
	return math.Round(float64(minutes)/60*10) / 10
}

// PendingBlockCount counts blocks not yet completed or skipped.
func PendingBlockCount(blocks []schedule.Block) int {
	return countStatus(blocks, schedule.StatusPending)
}

// CompletedBlockCount counts completed blocks.
func CompletedBlockCount(blocks []schedule.Block) int {
	return countStatus(blocks, schedule.StatusCompleted)
}

// SkippedBlockCount counts skipped blocks.
func SkippedBlockCount(blocks []schedule.Block) int {
	return countStatus(blocks, schedule.StatusSkipped)
}

// UnreadAlertCount counts alerts that have not been read.
func UnreadAlertCount(list []alerts.Alert) int {
	return alerts.UnreadCount(list)
}

// Streak returns the number of consecutive calendar days with at least one
// completed block, ending today. If nothing is completed today yet, the
// streak may still end yesterday.
func Streak(blocks []schedule.Block, today time.Time) int {
	days := make(map[string]bool)
	for _, b := range blocks {
		if b.Status != schedule.StatusCompleted {
			continue
		}
		// Completion day counts, not the day the block was planned for.
		at := b.ScheduledFor
		if b.CompletedAt != nil {
			at = *b.CompletedAt
		}
		days[schedule.DateKey(at.In(today.Location()))] = true
	}

	day := schedule.StartOfDay(today)
	if !days[schedule.DateKey(day)] {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for days[schedule.DateKey(day)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func completionRatio(blocks []schedule.Block) float64 {
	if len(blocks) == 0 {
		return 0
	}
	return float64(CompletedBlockCount(blocks)) / float64(len(blocks))
}

func countStatus(blocks []schedule.Block, status schedule.Status) int {
	n := 0
	for _, b := range blocks {
		if b.Status == status {
			n++
		}
	}
	return n
}
