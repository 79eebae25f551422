package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/studyplan/internal/logger"
	"github.com/abhisek/studyplan/internal/schedule"
	"github.com/abhisek/studyplan/internal/store"
	"github.com/abhisek/studyplan/internal/syllabus"
)

var (
	// ErrBlockNotFound is returned when a block ID does not resolve.
	ErrBlockNotFound = errors.New("block not found")

	// ErrTopicNotFound is returned when a subject/topic pair does not resolve.
	ErrTopicNotFound = errors.New("topic not found")

	// ErrInvalidTransition is returned for status changes the lifecycle
	// does not allow, such as completing a skipped block.
	ErrInvalidTransition = errors.New("invalid block status transition")
)

// Repo is the tenant-bound storage the manager mutates. *store.Scope
// implements it.
type Repo interface {
	GetBlock(ctx context.Context, id string) (schedule.Block, error)
	UpdateBlock(ctx context.Context, id string, patch store.BlockPatch) error
	GetSubject(ctx context.Context, id string) (syllabus.Subject, error)
	UpdateTopic(ctx context.Context, subjectID, topicID string, patch store.TopicPatch) error
}

// Manager applies block status transitions and mirrors completions onto topics.
//
// Completing a block also marks its topic completed. Transitions:
//
//	pending   -> completed (completedAt = now, topic completed + lastStudied = now)
//	pending   -> skipped   (topic untouched, nothing is rescheduled)
//	completed -> completed (no-op)
//	skipped   -> skipped   (no-op)
//
// Anything else is ErrInvalidTransition.
type Manager struct {
	repo Repo
	now  func() time.Time
	log  *logger.Logger
}

// NewManager creates a Manager. A nil clock defaults to time.Now.
func NewManager(repo Repo, now func() time.Time, log *logger.Logger) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{repo: repo, now: now, log: logger.OrNop(log)}
}

// Complete marks a pending block completed and mirrors the completion onto
// its topic. Completing an already completed block returns it unchanged.
// A block whose topic no longer exists is still completed.
func (m *Manager) Complete(ctx context.Context, blockID string) (schedule.Block, error) {
	b, err := m.block(ctx, blockID)
	if err != nil {
		return schedule.Block{}, err
	}

	switch b.Status {
	case schedule.StatusCompleted:
		return b, nil
	case schedule.StatusPending:
	default:
		return b, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, schedule.StatusCompleted)
	}

	now := m.now()
	status := schedule.StatusCompleted
	if err := m.repo.UpdateBlock(ctx, blockID, store.BlockPatch{Status: &status, CompletedAt: &now}); err != nil {
		return b, fmt.Errorf("complete block %s: %w", blockID, err)
	}
	b.Status = status
	b.CompletedAt = &now

	err = m.markTopic(ctx, b.SubjectID, b.TopicID, now, true)
	switch {
	case errors.Is(err, ErrTopicNotFound):
		m.log.Warn("completed block references a missing topic",
			"block_id", blockID, "subject_id", b.SubjectID, "topic_id", b.TopicID)
	case err != nil:
		return b, fmt.Errorf("mirror completion onto topic: %w", err)
	}

	m.log.Debug("block completed", "block_id", blockID, "topic_id", b.TopicID)
	return b, nil
}

// Skip marks a pending block skipped. Skipping an already skipped block
// returns it unchanged.
func (m *Manager) Skip(ctx context.Context, blockID string) (schedule.Block, error) {
	b, err := m.block(ctx, blockID)
	if err != nil {
		return schedule.Block{}, err
	}

	switch b.Status {
	case schedule.StatusSkipped:
		return b, nil
	case schedule.StatusPending:
	default:
		return b, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, schedule.StatusSkipped)
	}

	status := schedule.StatusSkipped
	if err := m.repo.UpdateBlock(ctx, blockID, store.BlockPatch{Status: &status}); err != nil {
		return b, fmt.Errorf("skip block %s: %w", blockID, err)
	}
	b.Status = status

	m.log.Debug("block skipped", "block_id", blockID)
	return b, nil
}

// MarkTopicComplete marks a topic completed independently of any block.
// A topic that is already completed keeps its original lastStudied.
func (m *Manager) MarkTopicComplete(ctx context.Context, subjectID, topicID string) error {
	return m.markTopic(ctx, subjectID, topicID, m.now(), false)
}

// markTopic sets completed and lastStudied on a topic. Unless studied is
// true, a topic that is already completed is left untouched.
func (m *Manager) markTopic(ctx context.Context, subjectID, topicID string, now time.Time, studied bool) error {
	subject, err := m.repo.GetSubject(ctx, subjectID)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: subject %s", ErrTopicNotFound, subjectID)
	}
	if err != nil {
		return fmt.Errorf("load subject %s: %w", subjectID, err)
	}

	topic, _, ok := subject.FindTopic(topicID)
	if !ok {
		return fmt.Errorf("%w: %s in subject %s", ErrTopicNotFound, topicID, subjectID)
	}
	if topic.Completed && !studied {
		return nil
	}

	completed := true
	err = m.repo.UpdateTopic(ctx, subjectID, topicID, store.TopicPatch{Completed: &completed, LastStudied: &now})
	if err != nil {
		return fmt.Errorf("update topic %s: %w", topicID, err)
	}
	return nil
}

func (m *Manager) block(ctx context.Context, id string) (schedule.Block, error) {
	b, err := m.repo.GetBlock(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return schedule.Block{}, fmt.Errorf("%w: %s", ErrBlockNotFound, id)
	}
	if err != nil {
		return schedule.Block{}, fmt.Errorf("load block %s: %w", id, err)
	}
	return b, nil
}
