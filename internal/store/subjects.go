package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	"github.com/abhisek/studyplan/internal/notify"
	"github.com/abhisek/studyplan/internal/syllabus"
)

type subjectRow struct {
	ID     string `db:"id"`
	Name   string `db:"name"`
	Color  string `db:"color"`
	Weight int    `db:"weight"`
}

type topicRow struct {
	ID           string `db:"id"`
	SubjectID    string `db:"subject_id"`
	SortOrder    int    `db:"sort_order"`
	Name         string `db:"name"`
	Difficulty   string `db:"difficulty"`
	Completed    bool   `db:"completed"`
	LastStudied  *int64 `db:"last_studied"`
	NextRevision *int64 `db:"next_revision"`
}

var (
	subjectColumns = []string{"id", "name", "color", "weight"}
	topicColumns   = []string{"id", "subject_id", "sort_order", "name", "difficulty", "completed", "last_studied", "next_revision"}
)

// subjectRepo implements SubjectRepo.
type subjectRepo struct {
	s *Store
}

func (r *subjectRepo) List(ctx context.Context, tenant Tenant) ([]syllabus.Subject, error) {
	b := r.s.builder()

	var rows []subjectRow
	q := b.Select(subjectColumns...).From(b.Table("subjects")).
		Where(r.s.tenantEQ(tenant)).
		OrderBy("name", "id")
	if err := r.s.selectRows(ctx, r.s.db, &rows, q); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}

	var topics []topicRow
	tq := b.Select(topicColumns...).From(b.Table("topics")).
		Where(r.s.tenantEQ(tenant)).
		OrderBy("subject_id", "sort_order")
	if err := r.s.selectRows(ctx, r.s.db, &topics, tq); err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}

	bySubject := make(map[string][]syllabus.Topic, len(rows))
	for _, t := range topics {
		bySubject[t.SubjectID] = append(bySubject[t.SubjectID], r.toTopic(t))
	}

	out := make([]syllabus.Subject, 0, len(rows))
	for _, row := range rows {
		out = append(out, toSubject(row, bySubject[row.ID]))
	}
	return out, nil
}

func (r *subjectRepo) Get(ctx context.Context, tenant Tenant, id string) (syllabus.Subject, error) {
	b := r.s.builder()

	var row subjectRow
	q := b.Select(subjectColumns...).From(b.Table("subjects")).
		Where(entsql.And(r.s.tenantEQ(tenant), entsql.EQ("id", id)))
	if err := r.s.getRow(ctx, r.s.db, &row, q); err != nil {
		return syllabus.Subject{}, fmt.Errorf("get subject %s: %w", id, err)
	}

	topics, err := r.topics(ctx, r.s.db, tenant, id)
	if err != nil {
		return syllabus.Subject{}, err
	}
	return toSubject(row, topics), nil
}

func (r *subjectRepo) Add(ctx context.Context, tenant Tenant, subj syllabus.Subject) error {
	b := r.s.builder()
	err := r.s.runInTx(ctx, func(tx *sqlx.Tx) error {
		q := b.Insert("subjects").
			Columns("tenant", "id", "name", "color", "weight").
			Values(string(tenant), subj.ID, subj.Name, subj.Color, subj.Weight)
		if _, err := r.s.exec(ctx, tx, q); err != nil {
			return err
		}
		for i, t := range subj.Topics {
			t.SubjectID = subj.ID
			if err := r.insertTopic(ctx, tx, tenant, t, i); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("add subject %s: %w", subj.ID, err)
	}
	r.s.publish(ctx, tenant, notify.CollectionSubjects, notify.OpAdd, subj.ID)
	return nil
}

func (r *subjectRepo) Update(ctx context.Context, tenant Tenant, id string, patch SubjectPatch) error {
	u := r.s.builder().Update("subjects").
		Where(entsql.And(r.s.tenantEQ(tenant), entsql.EQ("id", id)))
	changed := false
	if patch.Name != nil {
		u.Set("name", *patch.Name)
		changed = true
	}
	if patch.Color != nil {
		u.Set("color", *patch.Color)
		changed = true
	}
	if patch.Weight != nil {
		u.Set("weight", *patch.Weight)
		changed = true
	}
	if !changed {
		_, err := r.Get(ctx, tenant, id)
		return err
	}

	n, err := r.s.exec(ctx, r.s.db, u)
	if err != nil {
		return fmt.Errorf("update subject %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("update subject %s: %w", id, ErrNotFound)
	}
	r.s.publish(ctx, tenant, notify.CollectionSubjects, notify.OpUpdate, id)
	return nil
}

func (r *subjectRepo) Remove(ctx context.Context, tenant Tenant, id string) error {
	b := r.s.builder()
	err := r.s.runInTx(ctx, func(tx *sqlx.Tx) error {
		n, err := r.s.exec(ctx, tx, b.Delete("subjects").
			Where(entsql.And(r.s.tenantEQ(tenant), entsql.EQ("id", id))))
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		_, err = r.s.exec(ctx, tx, b.Delete("topics").
			Where(entsql.And(r.s.tenantEQ(tenant), entsql.EQ("subject_id", id))))
		return err
	})
	if err != nil {
		return fmt.Errorf("remove subject %s: %w", id, err)
	}
	r.s.publish(ctx, tenant, notify.CollectionSubjects, notify.OpRemove, id)
	return nil
}

func (r *subjectRepo) AddTopic(ctx context.Context, tenant Tenant, t syllabus.Topic) error {
	b := r.s.builder()
	err := r.s.runInTx(ctx, func(tx *sqlx.Tx) error {
		var ids []string
		q := b.Select("id").From(b.Table("subjects")).
			Where(entsql.And(r.s.tenantEQ(tenant), entsql.EQ("id", t.SubjectID)))
		if err := r.s.selectRows(ctx, tx, &ids, q); err != nil {
			return err
		}
		if len(ids) == 0 {
			return ErrNotFound
		}

		var orders []int
		oq := b.Select("sort_order").From(b.Table("topics")).
			Where(entsql.And(r.s.tenantEQ(tenant), entsql.EQ("subject_id", t.SubjectID)))
		if err := r.s.selectRows(ctx, tx, &orders, oq); err != nil {
			return err
		}
		next := 0
		for _, o := range orders {
			if o >= next {
				next = o + 1
			}
		}
		return r.insertTopic(ctx, tx, tenant, t, next)
	})
	if err != nil {
		return fmt.Errorf("add topic %s: %w", t.ID, err)
	}
	r.s.publish(ctx, tenant, notify.CollectionTopics, notify.OpAdd, t.ID)
	return nil
}

func (r *subjectRepo) RemoveTopic(ctx context.Context, tenant Tenant, subjectID, topicID string) error {
	q := r.s.builder().Delete("topics").Where(entsql.And(
		r.s.tenantEQ(tenant),
		entsql.EQ("subject_id", subjectID),
		entsql.EQ("id", topicID),
	))
	n, err := r.s.exec(ctx, r.s.db, q)
	if err != nil {
		return fmt.Errorf("remove topic %s: %w", topicID, err)
	}
	if n == 0 {
		return fmt.Errorf("remove topic %s: %w", topicID, ErrNotFound)
	}
	r.s.publish(ctx, tenant, notify.CollectionTopics, notify.OpRemove, topicID)
	return nil
}

func (r *subjectRepo) UpdateTopic(ctx context.Context, tenant Tenant, subjectID, topicID string, patch TopicPatch) error {
	u := r.s.builder().Update("topics").Where(entsql.And(
		r.s.tenantEQ(tenant),
		entsql.EQ("subject_id", subjectID),
		entsql.EQ("id", topicID),
	))
	changed := false
	if patch.Name != nil {
		u.Set("name", *patch.Name)
		changed = true
	}
	if patch.Difficulty != nil {
		u.Set("difficulty", string(*patch.Difficulty))
		changed = true
	}
	if patch.Completed != nil {
		u.Set("completed", *patch.Completed)
		changed = true
	}
	if patch.LastStudied != nil {
		u.Set("last_studied", patch.LastStudied.UnixMilli())
		changed = true
	}
	if patch.NextRevision != nil {
		u.Set("next_revision", patch.NextRevision.UnixMilli())
		changed = true
	}
	if !changed {
		subj, err := r.Get(ctx, tenant, subjectID)
		if err != nil {
			return err
		}
		if _, _, ok := subj.FindTopic(topicID); !ok {
			return fmt.Errorf("update topic %s: %w", topicID, ErrNotFound)
		}
		return nil
	}

	n, err := r.s.exec(ctx, r.s.db, u)
	if err != nil {
		return fmt.Errorf("update topic %s: %w", topicID, err)
	}
	if n == 0 {
		return fmt.Errorf("update topic %s: %w", topicID, ErrNotFound)
	}
	r.s.publish(ctx, tenant, notify.CollectionTopics, notify.OpUpdate, topicID)
	return nil
}

func (r *subjectRepo) topics(ctx context.Context, qr sqlx.QueryerContext, tenant Tenant, subjectID string) ([]syllabus.Topic, error) {
	b := r.s.builder()
	var rows []topicRow
	q := b.Select(topicColumns...).From(b.Table("topics")).
		Where(entsql.And(r.s.tenantEQ(tenant), entsql.EQ("subject_id", subjectID))).
		OrderBy("sort_order")
	if err := r.s.selectRows(ctx, qr, &rows, q); err != nil {
		return nil, fmt.Errorf("list topics of %s: %w", subjectID, err)
	}
	out := make([]syllabus.Topic, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.toTopic(row))
	}
	return out, nil
}

func (r *subjectRepo) insertTopic(ctx context.Context, tx *sqlx.Tx, tenant Tenant, t syllabus.Topic, order int) error {
	q := r.s.builder().Insert("topics").
		Columns("tenant", "id", "subject_id", "sort_order", "name", "difficulty", "completed", "last_studied", "next_revision").
		Values(string(tenant), t.ID, t.SubjectID, order, t.Name, string(t.Difficulty), t.Completed,
			millisArg(t.LastStudied), millisArg(t.NextRevision))
	_, err := r.s.exec(ctx, tx, q)
	return err
}

func (r *subjectRepo) toTopic(row topicRow) syllabus.Topic {
	return syllabus.Topic{
		ID:           row.ID,
		Name:         row.Name,
		SubjectID:    row.SubjectID,
		Difficulty:   syllabus.Difficulty(row.Difficulty),
		Completed:    row.Completed,
		LastStudied:  r.s.fromMillis(row.LastStudied),
		NextRevision: r.s.fromMillis(row.NextRevision),
	}
}

func toSubject(row subjectRow, topics []syllabus.Topic) syllabus.Subject {
	if topics == nil {
		topics = []syllabus.Topic{}
	}
	return syllabus.Subject{
		ID:     row.ID,
		Name:   row.Name,
		Color:  row.Color,
		Weight: row.Weight,
		Topics: topics,
	}
}
