package schedule

import (
	"sort"
	"time"

	"github.com/abhisek/studyplan/internal/syllabus"
)

// IDFunc produces block identifiers. IDs only need to be unique.
type IDFunc func() string

// Generator builds study schedules with day-driven subject rotation.
type Generator struct {
	NewID IDFunc
}

// NewGenerator creates a Generator that assigns random UUIDs.
func NewGenerator() *Generator {
	return &Generator{NewID: syllabus.NewID}
}

// Generate is a convenience wrapper around NewGenerator().Generate.
func Generate(subjects []syllabus.Subject, cfg Config, referenceDate time.Time) ([]Block, error) {
	return NewGenerator().Generate(subjects, cfg, referenceDate)
}

// Generate lays out HorizonDays calendar days starting at referenceDate and
// fills each study day with blocks:
//
//  1. Subjects are ranked by weight, highest first; ties keep input order.
//  2. Each study day takes a window of SubjectsPerDay ranked subjects,
//     starting at (studyDayIndex * SubjectsPerDay) mod len(subjects) and
//     wrapping around.
//  3. Slot i of the day goes to window[i mod len(window)], which consumes
//     the next unscheduled topic of that subject. A subject with no topics
//     left leaves its slot empty.
//
// Blocks alternate theory and questions across the whole run. The inputs
// are not modified.
func (g *Generator) Generate(subjects []syllabus.Subject, cfg Config, referenceDate time.Time) ([]Block, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(subjects) == 0 || len(cfg.StudyDays) == 0 {
		return []Block{}, nil
	}

	ranked := rankSubjects(subjects)
	cursors := make([]int, len(ranked))

	newID := g.NewID
	if newID == nil {
		newID = syllabus.NewID
	}

	blocks := []Block{}
	start := StartOfDay(referenceDate)
	studyDayIndex := 0
	emitted := 0

	for offset := 0; offset < HorizonDays; offset++ {
		day := start.AddDate(0, 0, offset)
		if !cfg.IsStudyDay(day.Weekday()) {
			continue
		}

		window := rotationWindow(len(ranked), studyDayIndex, cfg.SubjectsPerDay)
		studyDayIndex++

		for slot := 0; slot < cfg.BlocksPerDay; slot++ {
			idx := window[slot%len(window)]
			subject := ranked[idx]
			if cursors[idx] >= len(subject.Topics) {
				// Exhausted subjects leave the slot empty; no substitution.
				continue
			}
			topic := subject.Topics[cursors[idx]]
			cursors[idx]++

			blocks = append(blocks, Block{
				ID:           newID(),
				SubjectID:    subject.ID,
				TopicID:      topic.ID,
				Duration:     Duration(topic.Difficulty, cfg.BlockDuration),
				Type:         typeFor(emitted),
				Status:       StatusPending,
				ScheduledFor: day,
			})
			emitted++
		}
	}

	return blocks, nil
}

// Duration maps a topic difficulty to block minutes given the medium base.
func Duration(d syllabus.Difficulty, base int) int {
	switch d {
	case syllabus.DifficultyEasy:
		return max(MinDuration, base-DifficultyStep)
	case syllabus.DifficultyHard:
		return base + DifficultyStep
	default:
		return base
	}
}

// rankSubjects returns a copy of subjects ordered by weight, descending.
func rankSubjects(subjects []syllabus.Subject) []syllabus.Subject {
	ranked := make([]syllabus.Subject, len(subjects))
	copy(ranked, subjects)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Weight > ranked[j].Weight
	})
	return ranked
}

// rotationWindow returns the ranked-subject indexes active on a study day.
// Indexes repeat when size exceeds the subject count.
func rotationWindow(subjectCount, studyDayIndex, size int) []int {
	start := (studyDayIndex * size) % subjectCount
	window := make([]int, size)
	for i := range window {
		window[i] = (start + i) % subjectCount
	}
	return window
}

func typeFor(n int) BlockType {
	if n%2 == 0 {
		return TypeTheory
	}
	return TypeQuestions
}
