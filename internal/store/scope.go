package store

import (
	"context"

	"github.com/abhisek/studyplan/internal/schedule"
	"github.com/abhisek/studyplan/internal/syllabus"
)

// Scope binds subject and block repos to one tenant.
type Scope struct {
	Tenant   Tenant
	subjects SubjectRepo
	blocks   BlockRepo
}

// NewScope creates a tenant-bound view over the given repos.
func NewScope(subjects SubjectRepo, blocks BlockRepo, tenant Tenant) *Scope {
	return &Scope{Tenant: tenant, subjects: subjects, blocks: blocks}
}

func (s *Scope) GetBlock(ctx context.Context, id string) (schedule.Block, error) {
	return s.blocks.Get(ctx, s.Tenant, id)
}

func (s *Scope) UpdateBlock(ctx context.Context, id string, patch BlockPatch) error {
	return s.blocks.Update(ctx, s.Tenant, id, patch)
}

func (s *Scope) GetSubject(ctx context.Context, id string) (syllabus.Subject, error) {
	return s.subjects.Get(ctx, s.Tenant, id)
}

func (s *Scope) UpdateTopic(ctx context.Context, subjectID, topicID string, patch TopicPatch) error {
	return s.subjects.UpdateTopic(ctx, s.Tenant, subjectID, topicID, patch)
}
