package render

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/abhisek/studyplan/internal/alerts"
	"github.com/abhisek/studyplan/internal/progress"
	"github.com/abhisek/studyplan/internal/schedule"
	"github.com/abhisek/studyplan/internal/syllabus"
)

var monday = time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

func resolved(id, subject, topic string, status schedule.Status) progress.ResolvedBlock {
	return progress.ResolvedBlock{
		Block: schedule.Block{
			ID:           id,
			SubjectID:    "s-" + subject,
			TopicID:      "t-" + topic,
			Duration:     45,
			Type:         schedule.TypeTheory,
			Status:       status,
			ScheduledFor: monday,
		},
		SubjectName:  subject,
		SubjectColor: "#0B5FF4",
		TopicName:    topic,
		Difficulty:   syllabus.DifficultyMedium,
	}
}

func TestDay(t *testing.T) {
	d := progress.DaySchedule{
		Date: monday,
		Blocks: []progress.ResolvedBlock{
			resolved("b1", "Math", "Limits", schedule.StatusCompleted),
			resolved("b2", "Physics", "Optics", schedule.StatusPending),
		},
		Progress: 0.5,
		Orphans:  1,
	}
	out := ansi.Strip(Day(d, 80))

	assert.Contains(t, out, "Mon 08 Jan 2024")
	assert.Contains(t, out, "Math · Limits")
	assert.Contains(t, out, "Physics · Optics")
	assert.Contains(t, out, "b1")
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "50%")
	assert.Contains(t, out, "1 block(s) reference removed topics")
}

func TestDay_Empty(t *testing.T) {
	rest := ansi.Strip(Day(progress.DaySchedule{Date: monday.AddDate(0, 0, -1), IsRestDay: true}, 0))
	assert.Contains(t, rest, "Rest day")

	empty := ansi.Strip(Day(progress.DaySchedule{Date: monday}, 0))
	assert.Contains(t, empty, "studyplan generate")
}

func TestWeek(t *testing.T) {
	sunday := monday.AddDate(0, 0, -1)
	w := progress.WeekSchedule{
		WeekNumber: 2,
		Start:      sunday,
		Summary:    progress.WeekSummary{TotalBlocks: 2, CompletedBlocks: 1, HoursStudied: 0.8, TopicsCompleted: 1},
	}
	for i := 0; i < 7; i++ {
		d := progress.DaySchedule{Date: sunday.AddDate(0, 0, i), IsRestDay: i == 0 || i == 6}
		if i == 1 {
			d.Blocks = []progress.ResolvedBlock{
				resolved("b1", "Math", "Limits", schedule.StatusCompleted),
				resolved("b2", "Math", "Series", schedule.StatusPending),
			}
			d.Progress = 0.5
		}
		w.Days = append(w.Days, d)
	}

	out := ansi.Strip(Week(w, 80))
	assert.Contains(t, out, "Week 2 · 07 Jan 2024")
	assert.Contains(t, out, "Sun 07  rest")
	assert.Contains(t, out, "1/2 done")
	assert.Contains(t, out, "Tue 09  nothing scheduled")
	assert.Contains(t, out, "2 blocks · 1 completed · 0.8h studied · 1 topics finished")
	assert.Equal(t, 1, strings.Count(out, "Math"), "subject names are listed once per day")
}

func TestStats(t *testing.T) {
	o := progress.Overview{
		Date: monday,
		Subjects: []progress.SubjectSummary{
			{SubjectID: "s1", Name: "Mathematics and Statistics", Color: "#F97316", TotalTopics: 4, CompletedTopics: 1, Percent: 25},
		},
		TotalTopics:     4,
		CompletedTopics: 1,
		PendingBlocks:   3,
		CompletedBlocks: 1,
		HoursStudied:    0.8,
		DayProgress:     0.25,
		Streak:          3,
		UnreadAlerts:    2,
	}
	out := ansi.Strip(Stats(o, 80))

	assert.Contains(t, out, "studyplan")
	assert.Contains(t, out, "★ 3 day")
	assert.Contains(t, out, "0.8h")
	assert.Contains(t, out, "Mathematics and…")
	assert.Contains(t, out, "25%")
	assert.Contains(t, out, "3 pending · 1 completed · 0 skipped")
	assert.Contains(t, out, "1/4 topics completed · 2 unread alert(s)")
}

func TestStats_NoSubjects(t *testing.T) {
	out := ansi.Strip(Stats(progress.Overview{Date: monday}, 0))
	assert.Contains(t, out, "No subjects yet")
}

func TestSubjects(t *testing.T) {
	list := []syllabus.Subject{{
		ID: "s1", Name: "Math", Color: "#0B5FF4", Weight: 10,
		Topics: []syllabus.Topic{
			{ID: "t1", SubjectID: "s1", Name: "Limits", Difficulty: syllabus.DifficultyEasy, Completed: true},
			{ID: "t2", SubjectID: "s1", Name: "Series", Difficulty: syllabus.DifficultyHard},
		},
	}}
	out := ansi.Strip(Subjects(list))

	assert.Contains(t, out, "weight 10 · 50%")
	assert.Contains(t, out, "✓ Limits  easy  t1")
	assert.Contains(t, out, "○ Series  hard  t2")
	assert.Contains(t, ansi.Strip(Subjects(nil)), "No subjects yet")
}

func TestAlerts(t *testing.T) {
	list := []alerts.Alert{
		{ID: "a2", Type: alerts.TypeDelay, Message: "Behind on Physics", CreatedAt: monday.Add(time.Hour)},
		{ID: "a1", Type: alerts.TypeRevision, Message: "Revise Limits", CreatedAt: monday, Read: true},
	}
	out := ansi.Strip(Alerts(list, time.UTC))

	assert.Contains(t, out, "Alerts (1 unread)")
	assert.Contains(t, out, "● delay")
	assert.Contains(t, out, "Behind on Physics")
	assert.Contains(t, out, "2024-01-08 01:00")
	assert.Less(t, strings.Index(out, "a2"), strings.Index(out, "a1"))
	assert.Contains(t, ansi.Strip(Alerts(nil, nil)), "No alerts")
}
