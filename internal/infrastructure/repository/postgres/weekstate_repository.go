package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gridironpool/pickstick/internal/domain/weekstate"
)

type WeekStateRepository struct {
	db *sqlx.DB
}

func NewWeekStateRepository(db *sqlx.DB) *WeekStateRepository {
	return &WeekStateRepository{db: db}
}

func (r *WeekStateRepository) Get(ctx context.Context, week int) (weekstate.State, bool, error) {
	const query = `
SELECT week, is_draft_locked, is_simulated, punishment, created_at, updated_at
FROM week_states
WHERE week = $1`

	var row weekStateTableModel
	if err := r.db.GetContext(ctx, &row, query, week); err != nil {
		if isNotFound(err) {
			return weekstate.State{}, false, nil
		}
		return weekstate.State{}, false, fmt.Errorf("get week state: %w", err)
	}

	return weekstate.State{
		Week:          row.Week,
		IsDraftLocked: row.IsDraftLocked,
		IsSimulated:   row.IsSimulated,
		Punishment:    row.Punishment,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}, true, nil
}

func (r *WeekStateRepository) UpsertLock(ctx context.Context, week int, locked bool) error {
	const query = `
INSERT INTO week_states (week, is_draft_locked)
VALUES ($1, $2)
ON CONFLICT (week)
DO UPDATE SET is_draft_locked = EXCLUDED.is_draft_locked, updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, week, locked); err != nil {
		return fmt.Errorf("upsert week lock: %w", err)
	}

	return nil
}

func (r *WeekStateRepository) UpsertSimulated(ctx context.Context, week int, simulated bool) error {
	const query = `
INSERT INTO week_states (week, is_simulated)
VALUES ($1, $2)
ON CONFLICT (week)
DO UPDATE SET is_simulated = EXCLUDED.is_simulated, updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, week, simulated); err != nil {
		return fmt.Errorf("upsert week simulated: %w", err)
	}

	return nil
}

func (r *WeekStateRepository) UpsertPunishment(ctx context.Context, week int, punishment string) error {
	const query = `
INSERT INTO week_states (week, punishment)
VALUES ($1, $2)
ON CONFLICT (week)
DO UPDATE SET punishment = EXCLUDED.punishment, updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, week, punishment); err != nil {
		return fmt.Errorf("upsert week punishment: %w", err)
	}

	return nil
}
