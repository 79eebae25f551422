package schedule

import (
	"time"
)

// BlockType is the kind of study activity a block asks for.
type BlockType string

const (
	TypeTheory    BlockType = "theory"
	TypeQuestions BlockType = "questions"
	// TypeRevision is a valid block type but the generator never emits it.
	// It is reserved for a future revision-scheduling pass.
	TypeRevision BlockType = "revision"
)

// Valid reports whether t is a known block type.
func (t BlockType) Valid() bool {
	switch t {
	case TypeTheory, TypeQuestions, TypeRevision:
		return true
	}
	return false
}

// Status is the lifecycle state of a block.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusSkipped   Status = "skipped"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusSkipped:
		return true
	}
	return false
}

// Block is one scheduled study session for a single subject and topic.
type Block struct {
	ID           string     `json:"id"`
	SubjectID    string     `json:"subjectId"`
	TopicID      string     `json:"topicId"`
	Duration     int        `json:"duration"` // minutes
	Type         BlockType  `json:"type"`
	Status       Status     `json:"status"`
	ScheduledFor time.Time  `json:"scheduledFor"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// DateLayout is the calendar-date format used for ScheduledFor keys.
const DateLayout = "2006-01-02"

// StartOfDay returns local midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DateKey formats the calendar day of t.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// OnDate returns the blocks scheduled on the calendar day of date,
// preserving order.
func OnDate(blocks []Block, date time.Time) []Block {
	var out []Block
	for _, b := range blocks {
		if SameDay(b.ScheduledFor, date) {
			out = append(out, b)
		}
	}
	return out
}

// Find returns the block with the given ID.
func Find(blocks []Block, id string) (Block, bool) {
	for _, b := range blocks {
		if b.ID == id {
			return b, true
		}
	}
	return Block{}, false
}
