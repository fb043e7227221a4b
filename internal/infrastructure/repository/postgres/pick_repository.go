package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gridironpool/pickstick/internal/domain/pick"
)

type PickRepository struct {
	db *sqlx.DB
}

func NewPickRepository(db *sqlx.DB) *PickRepository {
	return &PickRepository{db: db}
}

func (r *PickRepository) ListByWeek(ctx context.Context, week int) ([]pick.Pick, error) {
	const query = `
SELECT id, week, round, user_id, team_id, order_in_round, assigned_by_id, reasoning
FROM picks
WHERE week = $1
ORDER BY round, order_in_round, id`

	var rows []pickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, week); err != nil {
		return nil, fmt.Errorf("select picks by week: %w", err)
	}

	return picksFromRows(rows), nil
}

func (r *PickRepository) ListUpToWeek(ctx context.Context, week int) ([]pick.Pick, error) {
	const query = `
SELECT id, week, round, user_id, team_id, order_in_round, assigned_by_id, reasoning
FROM picks
WHERE week <= $1
ORDER BY week, round, order_in_round, id`

	var rows []pickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, week); err != nil {
		return nil, fmt.Errorf("select picks up to week: %w", err)
	}

	return picksFromRows(rows), nil
}

func (r *PickRepository) InsertMany(ctx context.Context, picks []pick.Pick) error {
	if len(picks) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for insert picks: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const query = `
INSERT INTO picks (week, round, user_id, team_id, order_in_round, assigned_by_id, reasoning)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, p := range picks {
		if _, err := tx.ExecContext(ctx, query,
			p.Week,
			p.Round,
			p.UserID,
			int64PtrToNullInt64(p.TeamID),
			p.OrderInRound,
			int64PtrToNullInt64(p.AssignedByID),
			p.Reasoning,
		); err != nil {
			return fmt.Errorf("insert pick: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert picks: %w", err)
	}

	return nil
}

func (r *PickRepository) UpdateTeam(ctx context.Context, pickID int64, teamID int64, reasoning string) error {
	const query = `
UPDATE picks
SET team_id = $2, reasoning = $3
WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, pickID, teamID, reasoning); err != nil {
		return fmt.Errorf("update pick team: %w", err)
	}

	return nil
}

func (r *PickRepository) DeleteByWeek(ctx context.Context, week int) error {
	const query = `DELETE FROM picks WHERE week = $1`

	if _, err := r.db.ExecContext(ctx, query, week); err != nil {
		return fmt.Errorf("delete picks by week: %w", err)
	}

	return nil
}

func picksFromRows(rows []pickTableModel) []pick.Pick {
	out := make([]pick.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, pick.Pick{
			ID:           row.ID,
			Week:         row.Week,
			Round:        row.Round,
			UserID:       row.UserID,
			TeamID:       nullInt64ToInt64Ptr(row.TeamID),
			OrderInRound: row.OrderInRound,
			AssignedByID: nullInt64ToInt64Ptr(row.AssignedByID),
			Reasoning:    row.Reasoning.String,
		})
	}

	return out
}
