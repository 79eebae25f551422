package progress

import (
	"time"

	"github.com/abhisek/studyplan/internal/schedule"
	"github.com/abhisek/studyplan/internal/syllabus"
)

// ResolvedBlock is a block joined with the subject and topic it references.
type ResolvedBlock struct {
	schedule.Block
	SubjectName  string              `json:"subjectName"`
	SubjectColor string              `json:"subjectColor"`
	TopicName    string              `json:"topicName"`
	Difficulty   syllabus.Difficulty `json:"difficulty"`
}

// Resolve joins blocks with their subjects and topics. Blocks whose subject
// or topic no longer exists are dropped and counted as orphans.
func Resolve(blocks []schedule.Block, subjects []syllabus.Subject) ([]ResolvedBlock, int) {
	byID := make(map[string]syllabus.Subject, len(subjects))
	for _, s := range subjects {
		byID[s.ID] = s
	}

	out := make([]ResolvedBlock, 0, len(blocks))
	orphans := 0
	for _, b := range blocks {
		s, ok := byID[b.SubjectID]
		if !ok {
			orphans++
			continue
		}
		t, _, ok := s.FindTopic(b.TopicID)
		if !ok {
			orphans++
			continue
		}
		out = append(out, ResolvedBlock{
			Block:        b,
			SubjectName:  s.Name,
			SubjectColor: s.Color,
			TopicName:    t.Name,
			Difficulty:   t.Difficulty,
		})
	}
	return out, orphans
}

// DaySchedule is the resolved plan for one calendar day.
type DaySchedule struct {
	Date      time.Time       `json:"date"`
	Blocks    []ResolvedBlock `json:"blocks"`
	IsRestDay bool            `json:"isRestDay"`
	Progress  float64         `json:"progress"`
	Orphans   int             `json:"orphans,omitempty"`
}

// Day builds the schedule view for date. A day is a rest day when its
// weekday is not one of studyDays.
func Day(blocks []schedule.Block, subjects []syllabus.Subject, studyDays []time.Weekday, date time.Time) DaySchedule {
	day := schedule.StartOfDay(date)
	onDay := schedule.OnDate(blocks, day)
	resolved, orphans := Resolve(onDay, subjects)
	return DaySchedule{
		Date:      day,
		Blocks:    resolved,
		IsRestDay: !isStudyDay(studyDays, day.Weekday()),
		Progress:  completionRatio(onDay),
		Orphans:   orphans,
	}
}

// WeekSummary aggregates the blocks of one week.
type WeekSummary struct {
	TotalBlocks     int     `json:"totalBlocks"`
	CompletedBlocks int     `json:"completedBlocks"`
	HoursStudied    float64 `json:"hoursStudied"`
	TopicsCompleted int     `json:"topicsCompleted"`
}

// WeekSchedule is the resolved Sunday-to-Saturday plan containing a date.
type WeekSchedule struct {
	WeekNumber int           `json:"weekNumber"`
	Start      time.Time     `json:"start"`
	Days       []DaySchedule `json:"days"`
	Summary    WeekSummary   `json:"summary"`
}

// Week builds the seven-day view for the week containing date. WeekNumber
// is the ISO week of the week's Monday.
func Week(blocks []schedule.Block, subjects []syllabus.Subject, studyDays []time.Weekday, date time.Time) WeekSchedule {
	start := WeekStart(date)
	_, isoWeek := start.AddDate(0, 0, 1).ISOWeek()

	w := WeekSchedule{
		WeekNumber: isoWeek,
		Start:      start,
		Days:       make([]DaySchedule, 0, 7),
	}
	for i := 0; i < 7; i++ {
		w.Days = append(w.Days, Day(blocks, subjects, studyDays, start.AddDate(0, 0, i)))
	}

	inWeek := InWeek(blocks, start)
	topics := make(map[string]bool)
	for _, b := range inWeek {
		if b.Status == schedule.StatusCompleted {
			topics[b.SubjectID+"/"+b.TopicID] = true
		}
	}
	w.Summary = WeekSummary{
		TotalBlocks:     len(inWeek),
		CompletedBlocks: CompletedBlockCount(inWeek),
		HoursStudied:    HoursStudied(inWeek),
		TopicsCompleted: len(topics),
	}
	return w
}

func isStudyDay(days []time.Weekday, wd time.Weekday) bool {
	for _, d := range days {
		if d == wd {
			return true
		}
	}
	return false
}
