package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/studyplan/internal/alerts"
	"github.com/abhisek/studyplan/internal/schedule"
	"github.com/abhisek/studyplan/internal/syllabus"
)

// ErrNotFound is returned when a referenced record does not exist for the tenant.
var ErrNotFound = errors.New("not found")

// Tenant scopes every stored record. The application is single-user, but
// the tenant is still passed explicitly on every call.
type Tenant string

// DefaultTenant is used when no tenant is configured.
const DefaultTenant Tenant = "default_user"

// Settings holds the learner's saved capacity preferences.
type Settings struct {
	BlocksPerDay         int            `json:"blocksPerDay" yaml:"blocksPerDay"`
	BlockDuration        int            `json:"blockDuration" yaml:"blockDuration"`
	SubjectsPerDay       int            `json:"subjectsPerDay" yaml:"subjectsPerDay"`
	NotificationsEnabled bool           `json:"notificationsEnabled" yaml:"notificationsEnabled"`
	StudyDays            []time.Weekday `json:"studyDays" yaml:"studyDays"`
}

// DefaultSettings returns the settings used before anything is saved.
func DefaultSettings() Settings {
	cfg := schedule.DefaultConfig()
	return Settings{
		BlocksPerDay:         cfg.BlocksPerDay,
		BlockDuration:        cfg.BlockDuration,
		SubjectsPerDay:       cfg.SubjectsPerDay,
		NotificationsEnabled: true,
		StudyDays:            cfg.StudyDays,
	}
}

// ScheduleConfig converts settings into a generator config.
func (s Settings) ScheduleConfig() schedule.Config {
	return schedule.Config{
		StudyDays:      s.StudyDays,
		BlocksPerDay:   s.BlocksPerDay,
		SubjectsPerDay: s.SubjectsPerDay,
		BlockDuration:  s.BlockDuration,
	}
}

// withDefaults replaces zero capacities with defaults, as stored documents
// may predate a field.
func (s Settings) withDefaults() Settings {
	def := DefaultSettings()
	if s.BlocksPerDay <= 0 {
		s.BlocksPerDay = def.BlocksPerDay
	}
	if s.BlockDuration <= 0 {
		s.BlockDuration = def.BlockDuration
	}
	if s.SubjectsPerDay <= 0 {
		s.SubjectsPerDay = def.SubjectsPerDay
	}
	return s
}

// SubjectPatch lists subject fields to change. Nil fields are left alone.
type SubjectPatch struct {
	Name   *string `json:"name,omitempty"`
	Color  *string `json:"color,omitempty"`
	Weight *int    `json:"weight,omitempty"`
}

// TopicPatch lists topic fields to change. Nil fields are left alone.
type TopicPatch struct {
	Name         *string              `json:"name,omitempty"`
	Difficulty   *syllabus.Difficulty `json:"difficulty,omitempty"`
	Completed    *bool                `json:"completed,omitempty"`
	LastStudied  *time.Time           `json:"lastStudied,omitempty"`
	NextRevision *time.Time           `json:"nextRevision,omitempty"`
}

// BlockPatch lists block fields to change. Nil fields are left alone.
type BlockPatch struct {
	Status       *schedule.Status `json:"status,omitempty"`
	CompletedAt  *time.Time       `json:"completedAt,omitempty"`
	ScheduledFor *time.Time       `json:"scheduledFor,omitempty"`
	Duration     *int             `json:"duration,omitempty"`
}

// AlertPatch lists alert fields to change.
type AlertPatch struct {
	Read *bool `json:"read,omitempty"`
}

// SubjectRepo manages subjects and their ordered topics.
type SubjectRepo interface {
	// List returns all subjects ordered by name, each with its topics in order.
	List(ctx context.Context, tenant Tenant) ([]syllabus.Subject, error)

	// Get returns one subject with its topics.
	Get(ctx context.Context, tenant Tenant, id string) (syllabus.Subject, error)

	// Add stores a subject and any topics it carries.
	Add(ctx context.Context, tenant Tenant, s syllabus.Subject) error

	// Update applies a partial update to a subject.
	Update(ctx context.Context, tenant Tenant, id string, patch SubjectPatch) error

	// Remove deletes a subject and its topics. Blocks are left as orphans.
	Remove(ctx context.Context, tenant Tenant, id string) error

	// AddTopic appends a topic to the end of its subject's topic list.
	AddTopic(ctx context.Context, tenant Tenant, t syllabus.Topic) error

	// RemoveTopic deletes a topic from a subject.
	RemoveTopic(ctx context.Context, tenant Tenant, subjectID, topicID string) error

	// UpdateTopic applies a partial update to a topic.
	UpdateTopic(ctx context.Context, tenant Tenant, subjectID, topicID string, patch TopicPatch) error
}

// BlockRepo manages generated study blocks.
type BlockRepo interface {
	// List returns all blocks ordered by scheduled date, then generation order.
	List(ctx context.Context, tenant Tenant) ([]schedule.Block, error)

	// ListByDate returns the blocks scheduled on the calendar day of date.
	ListByDate(ctx context.Context, tenant Tenant, date time.Time) ([]schedule.Block, error)

	// Get returns one block.
	Get(ctx context.Context, tenant Tenant, id string) (schedule.Block, error)

	// Replace removes every block of the tenant and inserts blocks, as one unit.
	Replace(ctx context.Context, tenant Tenant, blocks []schedule.Block) error

	// Update applies a partial update to a block.
	Update(ctx context.Context, tenant Tenant, id string, patch BlockPatch) error

	// Remove deletes a single block.
	Remove(ctx context.Context, tenant Tenant, id string) error
}

// AlertRepo manages alerts.
type AlertRepo interface {
	// List returns alerts, newest first.
	List(ctx context.Context, tenant Tenant) ([]alerts.Alert, error)

	// Add stores a new alert.
	Add(ctx context.Context, tenant Tenant, a alerts.Alert) error

	// Update applies a partial update to an alert.
	Update(ctx context.Context, tenant Tenant, id string, patch AlertPatch) error
}

// SettingsRepo manages per-tenant settings.
type SettingsRepo interface {
	// Get returns saved settings, or DefaultSettings when none are saved.
	Get(ctx context.Context, tenant Tenant) (Settings, error)

	// Update replaces all settings, including study days.
	Update(ctx context.Context, tenant Tenant, s Settings) error

	// UpdateStudyDays replaces only the study days.
	UpdateStudyDays(ctx context.Context, tenant Tenant, days []time.Weekday) error
}
