package alerts

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/abhisek/studyplan/internal/syllabus"
)

// Type classifies an alert.
type Type string

const (
	TypeRevision    Type = "revision"
	TypeDelay       Type = "delay"
	TypeOverload    Type = "overload"
	TypeAchievement Type = "achievement"
)

// Valid reports whether t is a known alert type.
func (t Type) Valid() bool {
	switch t {
	case TypeRevision, TypeDelay, TypeOverload, TypeAchievement:
		return true
	}
	return false
}

// Alert is a user-facing notice. Only Read changes after creation.
type Alert struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	Read      bool      `json:"read"`
}

// New builds an unread alert.
func New(t Type, message string, now time.Time) (Alert, error) {
	if !t.Valid() {
		return Alert{}, &syllabus.ValidationError{Field: "type", Reason: fmt.Sprintf("unknown alert type %q", t)}
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return Alert{}, &syllabus.ValidationError{Field: "message", Reason: "alert message must not be empty"}
	}
	return Alert{
		ID:        syllabus.NewID(),
		Type:      t,
		Message:   message,
		CreatedAt: now,
	}, nil
}

// UnreadCount counts alerts not yet marked read.
func UnreadCount(list []Alert) int {
	n := 0
	for _, a := range list {
		if !a.Read {
			n++
		}
	}
	return n
}

// SortNewestFirst orders alerts by creation time, newest first.
func SortNewestFirst(list []Alert) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
