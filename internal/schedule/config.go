package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrInvalidConfig is returned when a generation config fails validation.
var ErrInvalidConfig = errors.New("invalid schedule config")

// Horizon constants.
const (
	HorizonWeeks = 4
	HorizonDays  = HorizonWeeks * 7
)

// Duration rules, in minutes.
const (
	DifficultyStep = 10 // easy subtracts, hard adds
	MinDuration    = 30 // floor for easy topics
)

// Config holds the learner's capacity constraints for generation.
type Config struct {
	// StudyDays lists the weekdays the learner can study (Sunday = 0).
	StudyDays []time.Weekday `json:"studyDays" yaml:"studyDays"`

	// BlocksPerDay is the number of block slots per study day.
	BlocksPerDay int `json:"blocksPerDay" yaml:"blocksPerDay"`

	// SubjectsPerDay is the size of the rotation window.
	SubjectsPerDay int `json:"subjectsPerDay" yaml:"subjectsPerDay"`

	// BlockDuration is the base duration in minutes for medium topics.
	BlockDuration int `json:"blockDuration" yaml:"blockDuration"`
}

// Defaults applied when no settings have been saved.
const (
	DefaultBlocksPerDay   = 4
	DefaultSubjectsPerDay = 2
	DefaultBlockDuration  = 45
)

// DefaultStudyDays is Monday through Friday.
func DefaultStudyDays() []time.Weekday {
	return []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
}

// DefaultConfig returns the out-of-the-box capacity settings.
func DefaultConfig() Config {
	return Config{
		StudyDays:      DefaultStudyDays(),
		BlocksPerDay:   DefaultBlocksPerDay,
		SubjectsPerDay: DefaultSubjectsPerDay,
		BlockDuration:  DefaultBlockDuration,
	}
}

// Validate rejects non-positive capacities and out-of-range weekdays.
// An empty StudyDays list is valid and simply yields an empty schedule.
func (c Config) Validate() error {
	if c.BlocksPerDay <= 0 {
		return fmt.Errorf("%w: blocksPerDay must be > 0, got %d", ErrInvalidConfig, c.BlocksPerDay)
	}
	if c.SubjectsPerDay <= 0 {
		return fmt.Errorf("%w: subjectsPerDay must be > 0, got %d", ErrInvalidConfig, c.SubjectsPerDay)
	}
	if c.BlockDuration <= 0 {
		return fmt.Errorf("%w: blockDuration must be > 0, got %d", ErrInvalidConfig, c.BlockDuration)
	}
	for _, d := range c.StudyDays {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("%w: study day %d out of range 0-6", ErrInvalidConfig, d)
		}
	}
	return nil
}

// IsStudyDay reports whether wd is one of the configured study days.
func (c Config) IsStudyDay(wd time.Weekday) bool {
	for _, d := range c.StudyDays {
		if d == wd {
			return true
		}
	}
	return false
}

// NormalizeStudyDays converts raw weekday indexes into a sorted,
// de-duplicated weekday list.
func NormalizeStudyDays(days []int) ([]time.Weekday, error) {
	seen := make(map[int]bool, len(days))
	out := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("%w: study day %d out of range 0-6", ErrInvalidConfig, d)
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, time.Weekday(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// WeekdayInts converts weekdays to their integer indexes.
func WeekdayInts(days []time.Weekday) []int {
	out := make([]int, len(days))
	for i, d := range days {
		out[i] = int(d)
	}
	return out
}
