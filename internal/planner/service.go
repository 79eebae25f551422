package planner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/abhisek/studyplan/internal/alerts"
	"github.com/abhisek/studyplan/internal/lifecycle"
	"github.com/abhisek/studyplan/internal/logger"
	"github.com/abhisek/studyplan/internal/progress"
	"github.com/abhisek/studyplan/internal/schedule"
	"github.com/abhisek/studyplan/internal/store"
	"github.com/abhisek/studyplan/internal/syllabus"
)

var tracer = otel.Tracer("github.com/abhisek/studyplan/internal/planner")

// Repos is the storage the service works against. *store.Store provides
// all four through NewFromStore.
type Repos struct {
	Subjects store.SubjectRepo
	Blocks   store.BlockRepo
	Alerts   store.AlertRepo
	Settings store.SettingsRepo
}

// Service is the application layer shared by the CLI and the HTTP API.
// Every call names the tenant it acts for.
type Service struct {
	repos Repos
	gen   *schedule.Generator
	now   func() time.Time
	log   *logger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithGenerator replaces the default schedule generator.
func WithGenerator(g *schedule.Generator) Option {
	return func(s *Service) { s.gen = g }
}

// WithLogger sets the service logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// New creates a Service over repos.
func New(repos Repos, opts ...Option) *Service {
	s := &Service{
		repos: repos,
		gen:   schedule.NewGenerator(),
		now:   time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.log = logger.OrNop(s.log).With("component", "planner")
	return s
}

// NewFromStore creates a Service backed by st.
func NewFromStore(st *store.Store, opts ...Option) *Service {
	return New(Repos{
		Subjects: st.Subjects(),
		Blocks:   st.Blocks(),
		Alerts:   st.Alerts(),
		Settings: st.Settings(),
	}, opts...)
}

func (s *Service) lifecycle(tenant store.Tenant) *lifecycle.Manager {
	scope := store.NewScope(s.repos.Subjects, s.repos.Blocks, tenant)
	return lifecycle.NewManager(scope, s.now, s.log.With("tenant", tenant))
}

// Subjects lists the tenant's subjects with their topics.
func (s *Service) Subjects(ctx context.Context, tenant store.Tenant) ([]syllabus.Subject, error) {
	return s.repos.Subjects.List(ctx, tenant)
}

// AddSubject creates a subject. An empty color picks the next palette
// color; a non-positive weight becomes the default weight.
func (s *Service) AddSubject(ctx context.Context, tenant store.Tenant, name, color string, weight int) (syllabus.Subject, error) {
	if strings.TrimSpace(color) == "" {
		existing, err := s.repos.Subjects.List(ctx, tenant)
		if err != nil {
			return syllabus.Subject{}, err
		}
		color = syllabus.ColorFor(len(existing))
	}
	subj, err := syllabus.NewSubject(name, color, weight)
	if err != nil {
		return syllabus.Subject{}, err
	}
	if err := s.repos.Subjects.Add(ctx, tenant, subj); err != nil {
		return syllabus.Subject{}, err
	}
	s.log.Info("subject added", "tenant", tenant, "subject_id", subj.ID, "name", subj.Name)
	return subj, nil
}

// UpdateSubject applies patch after validating it.
func (s *Service) UpdateSubject(ctx context.Context, tenant store.Tenant, id string, patch store.SubjectPatch) (syllabus.Subject, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return syllabus.Subject{}, &syllabus.ValidationError{Field: "name", Reason: "subject name must not be empty"}
		}
		patch.Name = &name
	}
	if patch.Weight != nil {
		w := syllabus.NormalizeWeight(*patch.Weight)
		patch.Weight = &w
	}
	if err := s.repos.Subjects.Update(ctx, tenant, id, patch); err != nil {
		return syllabus.Subject{}, err
	}
	return s.repos.Subjects.Get(ctx, tenant, id)
}

// RemoveSubject deletes a subject and its topics. Its blocks stay behind
// as orphans until the next regeneration.
func (s *Service) RemoveSubject(ctx context.Context, tenant store.Tenant, id string) error {
	if err := s.repos.Subjects.Remove(ctx, tenant, id); err != nil {
		return err
	}
	s.log.Info("subject removed", "tenant", tenant, "subject_id", id)
	return nil
}

// AddTopic appends a topic to a subject's ordered topic list.
func (s *Service) AddTopic(ctx context.Context, tenant store.Tenant, subjectID, name string, d syllabus.Difficulty) (syllabus.Topic, error) {
	topic, err := syllabus.NewTopic(subjectID, name, d)
	if err != nil {
		return syllabus.Topic{}, err
	}
	if err := s.repos.Subjects.AddTopic(ctx, tenant, topic); err != nil {
		return syllabus.Topic{}, err
	}
	return topic, nil
}

// RemoveTopic deletes a topic from a subject.
func (s *Service) RemoveTopic(ctx context.Context, tenant store.Tenant, subjectID, topicID string) error {
	return s.repos.Subjects.RemoveTopic(ctx, tenant, subjectID, topicID)
}

// MarkTopicComplete marks a topic completed without touching any block.
func (s *Service) MarkTopicComplete(ctx context.Context, tenant store.Tenant, subjectID, topicID string) error {
	return s.lifecycle(tenant).MarkTopicComplete(ctx, subjectID, topicID)
}

// Settings returns the tenant's saved settings or the defaults.
func (s *Service) Settings(ctx context.Context, tenant store.Tenant) (store.Settings, error) {
	return s.repos.Settings.Get(ctx, tenant)
}

// UpdateSettings validates and saves all settings.
func (s *Service) UpdateSettings(ctx context.Context, tenant store.Tenant, set store.Settings) (store.Settings, error) {
	days, err := schedule.NormalizeStudyDays(schedule.WeekdayInts(set.StudyDays))
	if err != nil {
		return store.Settings{}, err
	}
	set.StudyDays = days
	if err := set.ScheduleConfig().Validate(); err != nil {
		return store.Settings{}, err
	}
	if err := s.repos.Settings.Update(ctx, tenant, set); err != nil {
		return store.Settings{}, err
	}
	return set, nil
}

// SetStudyDays normalizes and saves the weekdays the learner studies on.
func (s *Service) SetStudyDays(ctx context.Context, tenant store.Tenant, days []int) ([]time.Weekday, error) {
	normalized, err := schedule.NormalizeStudyDays(days)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Settings.UpdateStudyDays(ctx, tenant, normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}

// Regenerate discards the tenant's schedule and generates a new one
// starting at referenceDate (today when zero). The swap is atomic.
func (s *Service) Regenerate(ctx context.Context, tenant store.Tenant, referenceDate time.Time) ([]schedule.Block, error) {
	ctx, span := tracer.Start(ctx, "planner.Regenerate")
	defer span.End()

	if referenceDate.IsZero() {
		referenceDate = s.now()
	}
	subjects, err := s.repos.Subjects.List(ctx, tenant)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	set, err := s.repos.Settings.Get(ctx, tenant)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	blocks, err := s.gen.Generate(subjects, set.ScheduleConfig(), referenceDate)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := s.repos.Blocks.Replace(ctx, tenant, blocks); err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("tenant", string(tenant)),
		attribute.Int("subjects", len(subjects)),
		attribute.Int("blocks", len(blocks)),
	)
	s.log.Info("schedule regenerated",
		"tenant", tenant,
		"reference_date", schedule.DateKey(referenceDate),
		"subjects", len(subjects),
		"blocks", len(blocks))
	return blocks, nil
}

// ClearSchedule removes every block of the tenant. Topics keep their
// completion state.
func (s *Service) ClearSchedule(ctx context.Context, tenant store.Tenant) error {
	if err := s.repos.Blocks.Replace(ctx, tenant, nil); err != nil {
		return err
	}
	s.log.Info("schedule cleared", "tenant", tenant)
	return nil
}

// Blocks lists the tenant's whole schedule.
func (s *Service) Blocks(ctx context.Context, tenant store.Tenant) ([]schedule.Block, error) {
	return s.repos.Blocks.List(ctx, tenant)
}

// Complete marks a block completed and its topic studied.
func (s *Service) Complete(ctx context.Context, tenant store.Tenant, blockID string) (schedule.Block, error) {
	ctx, span := tracer.Start(ctx, "planner.Complete")
	defer span.End()
	span.SetAttributes(attribute.String("block_id", blockID))

	b, err := s.lifecycle(tenant).Complete(ctx, blockID)
	if err != nil {
		span.RecordError(err)
	}
	return b, err
}

// Skip marks a block skipped.
func (s *Service) Skip(ctx context.Context, tenant store.Tenant, blockID string) (schedule.Block, error) {
	return s.lifecycle(tenant).Skip(ctx, blockID)
}

// RemoveBlock deletes a single block.
func (s *Service) RemoveBlock(ctx context.Context, tenant store.Tenant, blockID string) error {
	err := s.repos.Blocks.Remove(ctx, tenant, blockID)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %s", lifecycle.ErrBlockNotFound, blockID)
	}
	return err
}

// Alerts lists alerts, newest first.
func (s *Service) Alerts(ctx context.Context, tenant store.Tenant) ([]alerts.Alert, error) {
	return s.repos.Alerts.List(ctx, tenant)
}

// AddAlert creates an unread alert.
func (s *Service) AddAlert(ctx context.Context, tenant store.Tenant, t alerts.Type, message string) (alerts.Alert, error) {
	a, err := alerts.New(t, message, s.now())
	if err != nil {
		return alerts.Alert{}, err
	}
	if err := s.repos.Alerts.Add(ctx, tenant, a); err != nil {
		return alerts.Alert{}, err
	}
	return a, nil
}

// MarkAlertRead flags an alert as read.
func (s *Service) MarkAlertRead(ctx context.Context, tenant store.Tenant, id string) error {
	read := true
	return s.repos.Alerts.Update(ctx, tenant, id, store.AlertPatch{Read: &read})
}

// Snapshot is everything stored for a tenant, read in one call.
type Snapshot struct {
	Subjects []syllabus.Subject `json:"subjects"`
	Blocks   []schedule.Block   `json:"blocks"`
	Alerts   []alerts.Alert     `json:"alerts"`
	Settings store.Settings     `json:"settings"`
}

// Snapshot reads the tenant's full state.
func (s *Service) Snapshot(ctx context.Context, tenant store.Tenant) (Snapshot, error) {
	var snap Snapshot
	var err error
	if snap.Subjects, err = s.repos.Subjects.List(ctx, tenant); err != nil {
		return Snapshot{}, err
	}
	if snap.Blocks, err = s.repos.Blocks.List(ctx, tenant); err != nil {
		return Snapshot{}, err
	}
	if snap.Alerts, err = s.repos.Alerts.List(ctx, tenant); err != nil {
		return Snapshot{}, err
	}
	if snap.Settings, err = s.repos.Settings.Get(ctx, tenant); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Today returns the schedule for date, or for today when date is zero.
func (s *Service) Today(ctx context.Context, tenant store.Tenant, date time.Time) (progress.DaySchedule, error) {
	if date.IsZero() {
		date = s.now()
	}
	snap, err := s.Snapshot(ctx, tenant)
	if err != nil {
		return progress.DaySchedule{}, err
	}
	return progress.Day(snap.Blocks, snap.Subjects, snap.Settings.StudyDays, date), nil
}

// Week returns the Sunday-to-Saturday schedule containing date, or the
// current week when date is zero.
func (s *Service) Week(ctx context.Context, tenant store.Tenant, date time.Time) (progress.WeekSchedule, error) {
	if date.IsZero() {
		date = s.now()
	}
	snap, err := s.Snapshot(ctx, tenant)
	if err != nil {
		return progress.WeekSchedule{}, err
	}
	return progress.Week(snap.Blocks, snap.Subjects, snap.Settings.StudyDays, date), nil
}

// Progress returns the dashboard overview as of now.
func (s *Service) Progress(ctx context.Context, tenant store.Tenant) (progress.Overview, error) {
	snap, err := s.Snapshot(ctx, tenant)
	if err != nil {
		return progress.Overview{}, err
	}
	return progress.Summarize(snap.Subjects, snap.Blocks, snap.Alerts, s.now()), nil
}

// ImportSyllabus decodes a syllabus document and adds its subjects in
// document order. Nothing is stored if the document is invalid.
func (s *Service) ImportSyllabus(ctx context.Context, tenant store.Tenant, r io.Reader, format syllabus.Format) ([]syllabus.Subject, error) {
	ctx, span := tracer.Start(ctx, "planner.ImportSyllabus")
	defer span.End()

	subjects, err := syllabus.Decode(r, format)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	for i, subj := range subjects {
		if err := s.repos.Subjects.Add(ctx, tenant, subj); err != nil {
			span.RecordError(err)
			return subjects[:i], fmt.Errorf("import subject %q: %w", subj.Name, err)
		}
	}
	s.log.Info("syllabus imported", "tenant", tenant, "subjects", len(subjects), "topics", syllabus.TotalTopics(subjects))
	return subjects, nil
}
