package progress

import (
	"time"

	"github.com/abhisek/studyplan/internal/alerts"
	"github.com/abhisek/studyplan/internal/schedule"
	"github.com/abhisek/studyplan/internal/syllabus"
)

// SubjectSummary is the per-subject line of an Overview.
type SubjectSummary struct {
	SubjectID       string `json:"subjectId"`
	Name            string `json:"name"`
	Color           string `json:"color"`
	Weight          int    `json:"weight"`
	TotalTopics     int    `json:"totalTopics"`
	CompletedTopics int    `json:"completedTopics"`
	Percent         int    `json:"percent"`
}

// Overview is the dashboard roll-up of a learner's state at a point in time.
type Overview struct {
	Date            time.Time        `json:"date"`
	Subjects        []SubjectSummary `json:"subjects"`
	TotalTopics     int              `json:"totalTopics"`
	CompletedTopics int              `json:"completedTopics"`
	PendingBlocks   int              `json:"pendingBlocks"`
	CompletedBlocks int              `json:"completedBlocks"`
	SkippedBlocks   int              `json:"skippedBlocks"`
	HoursStudied    float64          `json:"hoursStudied"`
	DayProgress     float64          `json:"dayProgress"`
	WeekProgress    float64          `json:"weekProgress"`
	Streak          int              `json:"streak"`
	UnreadAlerts    int              `json:"unreadAlerts"`
}

// Summarize computes an Overview. All inputs are read only.
func Summarize(subjects []syllabus.Subject, blocks []schedule.Block, list []alerts.Alert, now time.Time) Overview {
	o := Overview{
		Date:            schedule.StartOfDay(now),
		Subjects:        make([]SubjectSummary, 0, len(subjects)),
		PendingBlocks:   PendingBlockCount(blocks),
		CompletedBlocks: CompletedBlockCount(blocks),
		SkippedBlocks:   SkippedBlockCount(blocks),
		HoursStudied:    HoursStudied(blocks),
		DayProgress:     DayProgress(blocks, now),
		WeekProgress:    WeekProgress(blocks, now),
		Streak:          Streak(blocks, now),
		UnreadAlerts:    UnreadAlertCount(list),
	}
	for _, s := range subjects {
		done := s.CompletedTopics()
		o.TotalTopics += len(s.Topics)
		o.CompletedTopics += done
		o.Subjects = append(o.Subjects, SubjectSummary{
			SubjectID:       s.ID,
			Name:            s.Name,
			Color:           s.Color,
			Weight:          s.Weight,
			TotalTopics:     len(s.Topics),
			CompletedTopics: done,
			Percent:         SubjectProgress(s),
		})
	}
	return o
}
