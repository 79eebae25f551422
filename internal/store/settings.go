package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/studyplan/internal/notify"
	"github.com/abhisek/studyplan/internal/schedule"
)

type settingsRow struct {
	BlocksPerDay         int    `db:"blocks_per_day"`
	BlockDuration        int    `db:"block_duration"`
	SubjectsPerDay       int    `db:"subjects_per_day"`
	NotificationsEnabled bool   `db:"notifications_enabled"`
	StudyDays            string `db:"study_days"`
}

// settingsRepo implements SettingsRepo. Study days are stored as a
// comma-separated list of weekday numbers.
type settingsRepo struct {
	s *Store
}

func (r *settingsRepo) Get(ctx context.Context, tenant Tenant) (Settings, error) {
	b := r.s.builder()
	var row settingsRow
	q := b.Select("blocks_per_day", "block_duration", "subjects_per_day", "notifications_enabled", "study_days").
		From(b.Table("settings")).
		Where(r.s.tenantEQ(tenant))
	err := r.s.getRow(ctx, r.s.db, &row, q)
	if errors.Is(err, ErrNotFound) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("get settings: %w", err)
	}

	days, err := decodeStudyDays(row.StudyDays)
	if err != nil {
		return Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return Settings{
		BlocksPerDay:         row.BlocksPerDay,
		BlockDuration:        row.BlockDuration,
		SubjectsPerDay:       row.SubjectsPerDay,
		NotificationsEnabled: row.NotificationsEnabled,
		StudyDays:            days,
	}.withDefaults(), nil
}

func (r *settingsRepo) Update(ctx context.Context, tenant Tenant, set Settings) error {
	q := r.s.builder().Insert("settings").
		Columns("tenant", "blocks_per_day", "block_duration", "subjects_per_day", "notifications_enabled", "study_days").
		Values(string(tenant), set.BlocksPerDay, set.BlockDuration, set.SubjectsPerDay,
			set.NotificationsEnabled, encodeStudyDays(set.StudyDays)).
		OnConflict(
			entsql.ConflictColumns("tenant"),
			entsql.ResolveWithNewValues(),
		)
	if _, err := r.s.exec(ctx, r.s.db, q); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	r.s.publish(ctx, tenant, notify.CollectionSettings, notify.OpUpdate, string(tenant))
	return nil
}

func (r *settingsRepo) UpdateStudyDays(ctx context.Context, tenant Tenant, days []time.Weekday) error {
	current, err := r.Get(ctx, tenant)
	if err != nil {
		return err
	}
	current.StudyDays = days
	return r.Update(ctx, tenant, current)
}

func encodeStudyDays(days []time.Weekday) string {
	parts := make([]string, len(days))
	for i, d := range schedule.WeekdayInts(days) {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

func decodeStudyDays(s string) ([]time.Weekday, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []time.Weekday{}, nil
	}
	raw := strings.Split(s, ",")
	ints := make([]int, 0, len(raw))
	for _, p := range raw {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("decode study days %q: %w", s, err)
		}
		ints = append(ints, n)
	}
	return schedule.NormalizeStudyDays(ints)
}
