package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/studyplan/internal/alerts"
	"github.com/abhisek/studyplan/internal/notify"
)

type alertRow struct {
	ID        string `db:"id"`
	Type      string `db:"alert_type"`
	Message   string `db:"message"`
	CreatedAt int64  `db:"created_at"`
	Read      bool   `db:"is_read"`
}

// alertRepo implements AlertRepo.
type alertRepo struct {
	s *Store
}

func (r *alertRepo) List(ctx context.Context, tenant Tenant) ([]alerts.Alert, error) {
	b := r.s.builder()
	var rows []alertRow
	q := b.Select("id", "alert_type", "message", "created_at", "is_read").From(b.Table("alerts")).
		Where(r.s.tenantEQ(tenant))
	if err := r.s.selectRows(ctx, r.s.db, &rows, q); err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}

	out := make([]alerts.Alert, 0, len(rows))
	for _, row := range rows {
		out = append(out, alerts.Alert{
			ID:        row.ID,
			Type:      alerts.Type(row.Type),
			Message:   row.Message,
			CreatedAt: time.UnixMilli(row.CreatedAt).In(r.s.loc),
			Read:      row.Read,
		})
	}
	alerts.SortNewestFirst(out)
	return out, nil
}

func (r *alertRepo) Add(ctx context.Context, tenant Tenant, a alerts.Alert) error {
	q := r.s.builder().Insert("alerts").
		Columns("tenant", "id", "alert_type", "message", "created_at", "is_read").
		Values(string(tenant), a.ID, string(a.Type), a.Message, a.CreatedAt.UnixMilli(), a.Read)
	if _, err := r.s.exec(ctx, r.s.db, q); err != nil {
		return fmt.Errorf("add alert %s: %w", a.ID, err)
	}
	r.s.publish(ctx, tenant, notify.CollectionAlerts, notify.OpAdd, a.ID)
	return nil
}

func (r *alertRepo) Update(ctx context.Context, tenant Tenant, id string, patch AlertPatch) error {
	where := entsql.And(r.s.tenantEQ(tenant), entsql.EQ("id", id))
	if patch.Read == nil {
		b := r.s.builder()
		var ids []string
		q := b.Select("id").From(b.Table("alerts")).Where(where)
		if err := r.s.selectRows(ctx, r.s.db, &ids, q); err != nil {
			return fmt.Errorf("update alert %s: %w", id, err)
		}
		if len(ids) == 0 {
			return fmt.Errorf("update alert %s: %w", id, ErrNotFound)
		}
		return nil
	}

	n, err := r.s.exec(ctx, r.s.db, r.s.builder().Update("alerts").Set("is_read", *patch.Read).Where(where))
	if err != nil {
		return fmt.Errorf("update alert %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("update alert %s: %w", id, ErrNotFound)
	}
	r.s.publish(ctx, tenant, notify.CollectionAlerts, notify.OpUpdate, id)
	return nil
}
