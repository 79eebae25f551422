package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	"github.com/abhisek/studyplan/internal/notify"
	"github.com/abhisek/studyplan/internal/schedule"
)

type blockRow struct {
	ID           string `db:"id"`
	Seq          int    `db:"seq"`
	SubjectID    string `db:"subject_id"`
	TopicID      string `db:"topic_id"`
	Duration     int    `db:"duration"`
	Type         string `db:"block_type"`
	Status       string `db:"status"`
	ScheduledFor string `db:"scheduled_for"`
	CompletedAt  *int64 `db:"completed_at"`
}

var blockColumns = []string{"id", "seq", "subject_id", "topic_id", "duration", "block_type", "status", "scheduled_for", "completed_at"}

// blockRepo implements BlockRepo. Blocks keep the order they were
// generated in through the seq column.
type blockRepo struct {
	s *Store
}

func (r *blockRepo) List(ctx context.Context, tenant Tenant) ([]schedule.Block, error) {
	return r.list(ctx, r.s.tenantEQ(tenant))
}

func (r *blockRepo) ListByDate(ctx context.Context, tenant Tenant, date time.Time) ([]schedule.Block, error) {
	return r.list(ctx, entsql.And(r.s.tenantEQ(tenant), entsql.EQ("scheduled_for", schedule.DateKey(date))))
}

func (r *blockRepo) list(ctx context.Context, where *entsql.Predicate) ([]schedule.Block, error) {
	b := r.s.builder()
	var rows []blockRow
	q := b.Select(blockColumns...).From(b.Table("blocks")).
		Where(where).
		OrderBy("scheduled_for", "seq")
	if err := r.s.selectRows(ctx, r.s.db, &rows, q); err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}

	out := make([]schedule.Block, 0, len(rows))
	for _, row := range rows {
		blk, err := r.toBlock(row)
		if err != nil {
			return nil, err
		}
		out = append(out, blk)
	}
	return out, nil
}

func (r *blockRepo) Get(ctx context.Context, tenant Tenant, id string) (schedule.Block, error) {
	b := r.s.builder()
	var row blockRow
	q := b.Select(blockColumns...).From(b.Table("blocks")).
		Where(entsql.And(r.s.tenantEQ(tenant), entsql.EQ("id", id)))
	if err := r.s.getRow(ctx, r.s.db, &row, q); err != nil {
		return schedule.Block{}, fmt.Errorf("get block %s: %w", id, err)
	}
	return r.toBlock(row)
}

// Replace swaps the tenant's whole schedule in one transaction, so readers
// never see old and new blocks side by side.
func (r *blockRepo) Replace(ctx context.Context, tenant Tenant, blocks []schedule.Block) error {
	b := r.s.builder()
	err := r.s.runInTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := r.s.exec(ctx, tx, b.Delete("blocks").Where(r.s.tenantEQ(tenant))); err != nil {
			return err
		}
		for i, blk := range blocks {
			q := b.Insert("blocks").
				Columns("tenant", "id", "seq", "subject_id", "topic_id", "duration", "block_type", "status", "scheduled_for", "completed_at").
				Values(string(tenant), blk.ID, i, blk.SubjectID, blk.TopicID, blk.Duration, string(blk.Type),
					string(blk.Status), schedule.DateKey(blk.ScheduledFor), millisArg(blk.CompletedAt))
			if _, err := r.s.exec(ctx, tx, q); err != nil {
				return fmt.Errorf("insert block %s: %w", blk.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace blocks: %w", err)
	}
	r.s.publish(ctx, tenant, notify.CollectionBlocks, notify.OpReplace, "")
	return nil
}

func (r *blockRepo) Update(ctx context.Context, tenant Tenant, id string, patch BlockPatch) error {
	u := r.s.builder().Update("blocks").
		Where(entsql.And(r.s.tenantEQ(tenant), entsql.EQ("id", id)))
	changed := false
	if patch.Status != nil {
		u.Set("status", string(*patch.Status))
		changed = true
	}
	if patch.CompletedAt != nil {
		u.Set("completed_at", patch.CompletedAt.UnixMilli())
		changed = true
	}
	if patch.ScheduledFor != nil {
		u.Set("scheduled_for", schedule.DateKey(*patch.ScheduledFor))
		changed = true
	}
	if patch.Duration != nil {
		u.Set("duration", *patch.Duration)
		changed = true
	}
	if !changed {
		_, err := r.Get(ctx, tenant, id)
		return err
	}

	n, err := r.s.exec(ctx, r.s.db, u)
	if err != nil {
		return fmt.Errorf("update block %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("update block %s: %w", id, ErrNotFound)
	}
	r.s.publish(ctx, tenant, notify.CollectionBlocks, notify.OpUpdate, id)
	return nil
}

func (r *blockRepo) Remove(ctx context.Context, tenant Tenant, id string) error {
	q := r.s.builder().Delete("blocks").
		Where(entsql.And(r.s.tenantEQ(tenant), entsql.EQ("id", id)))
	n, err := r.s.exec(ctx, r.s.db, q)
	if err != nil {
		return fmt.Errorf("remove block %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("remove block %s: %w", id, ErrNotFound)
	}
	r.s.publish(ctx, tenant, notify.CollectionBlocks, notify.OpRemove, id)
	return nil
}

func (r *blockRepo) toBlock(row blockRow) (schedule.Block, error) {
	day, err := time.ParseInLocation(schedule.DateLayout, row.ScheduledFor, r.s.loc)
	if err != nil {
		return schedule.Block{}, fmt.Errorf("block %s: parse scheduled date %q: %w", row.ID, row.ScheduledFor, err)
	}
	return schedule.Block{
		ID:           row.ID,
		SubjectID:    row.SubjectID,
		TopicID:      row.TopicID,
		Duration:     row.Duration,
		Type:         schedule.BlockType(row.Type),
		Status:       schedule.Status(row.Status),
		ScheduledFor: day,
		CompletedAt:  r.s.fromMillis(row.CompletedAt),
	}, nil
}
