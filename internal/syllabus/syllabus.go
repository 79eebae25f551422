package syllabus

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Difficulty is the effort tier of a topic. It drives block duration.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// AllDifficulties returns the difficulty tiers in ascending order.
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// Valid reports whether d is one of the known tiers.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ParseDifficulty parses a difficulty name. An empty string yields medium.
func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DifficultyMedium, nil
	}
	d := Difficulty(s)
	if !d.Valid() {
		return "", &ValidationError{Field: "difficulty", Reason: "must be easy, medium or hard, got " + strconv.Quote(s)}
	}
	return d, nil
}

// DefaultWeight is used when a subject weight is missing or not a positive integer.
const DefaultWeight = 10

// SubjectColors is the palette new subjects cycle through.
var SubjectColors = []string{
	"#0B5FF4", // Blue
	"#F97316", // Orange
	"#16A34A", // Green
	"#8B5CF6", // Purple
	"#E11D48", // Rose
	"#0EA5E9", // Sky
}

// ColorFor returns the palette color for the n-th subject.
func ColorFor(n int) string {
	if n < 0 {
		n = -n
	}
	return SubjectColors[n%len(SubjectColors)]
}

// Topic is a single learning unit within a subject.
type Topic struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	SubjectID    string     `json:"subjectId"`
	Difficulty   Difficulty `json:"difficulty"`
	Completed    bool       `json:"completed"`
	LastStudied  *time.Time `json:"lastStudied,omitempty"`
	NextRevision *time.Time `json:"nextRevision,omitempty"`
}

// Subject is a weighted syllabus category owning an ordered topic list.
// Topic order is the order in which the generator consumes topics.
type Subject struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	Weight int     `json:"weight"`
	Topics []Topic `json:"topics"`
}

// NewID returns a fresh random identifier.
func NewID() string {
	return uuid.NewString()
}

// NormalizeWeight maps non-positive weights to DefaultWeight.
func NormalizeWeight(w int) int {
	if w <= 0 {
		return DefaultWeight
	}
	return w
}

// ParseWeight parses user input into a weight. Anything that is not a
// positive integer yields DefaultWeight.
func ParseWeight(s string) int {
	w, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return DefaultWeight
	}
	return NormalizeWeight(w)
}

// WeightInput is a weight as sent by clients. It decodes from a JSON
// number, a numeric string or anything else, and never fails: values
// that are not a positive number become DefaultWeight. Fractions are
// truncated.
type WeightInput int

func (w *WeightInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*w = DefaultWeight
			return nil
		}
		*w = WeightInput(ParseWeight(s))
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil || f < 1 || f > math.MaxInt32 {
		*w = DefaultWeight
		return nil
	}
	*w = WeightInput(int(f))
	return nil
}

// Int returns the normalized weight.
func (w WeightInput) Int() int {
	return NormalizeWeight(int(w))
}

// NewSubject builds a validated subject with a fresh ID and an empty topic list.
func NewSubject(name, color string, weight int) (Subject, error) {
	s := Subject{
		ID:     NewID(),
		Name:   strings.TrimSpace(name),
		Color:  strings.TrimSpace(color),
		Weight: NormalizeWeight(weight),
		Topics: []Topic{},
	}
	if err := ValidateSubject(s); err != nil {
		return Subject{}, err
	}
	return s, nil
}

// NewTopic builds a validated, not yet completed topic for subjectID.
func NewTopic(subjectID, name string, difficulty Difficulty) (Topic, error) {
	t := Topic{
		ID:         NewID(),
		Name:       strings.TrimSpace(name),
		SubjectID:  subjectID,
		Difficulty: difficulty,
	}
	if err := validateTopic(t, subjectID); err != nil {
		return Topic{}, err
	}
	return t, nil
}

// FindTopic returns the topic with the given ID and its index.
func (s Subject) FindTopic(topicID string) (Topic, int, bool) {
	for i, t := range s.Topics {
		if t.ID == topicID {
			return t, i, true
		}
	}
	return Topic{}, -1, false
}

// CompletedTopics counts topics marked completed.
func (s Subject) CompletedTopics() int {
	n := 0
	for _, t := range s.Topics {
		if t.Completed {
			n++
		}
	}
	return n
}

// FindSubject returns the subject with the given ID.
func FindSubject(subjects []Subject, id string) (Subject, bool) {
	for _, s := range subjects {
		if s.ID == id {
			return s, true
		}
	}
	return Subject{}, false
}

// TotalTopics counts topics across all subjects.
func TotalTopics(subjects []Subject) int {
	n := 0
	for _, s := range subjects {
		n += len(s.Topics)
	}
	return n
}
