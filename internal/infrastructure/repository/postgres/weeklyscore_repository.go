package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gridironpool/pickstick/internal/domain/weeklyscore"
)

type WeeklyScoreRepository struct {
	db *sqlx.DB
}

func NewWeeklyScoreRepository(db *sqlx.DB) *WeeklyScoreRepository {
	return &WeeklyScoreRepository{db: db}
}

func (r *WeeklyScoreRepository) ListByWeek(ctx context.Context, week int) ([]weeklyscore.Score, error) {
	const query = `
SELECT user_id, week, current_points, projected_points, completed_games, total_games, updated_at
FROM user_weekly_scores
WHERE week = $1
ORDER BY user_id`

	var rows []weeklyScoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, week); err != nil {
		return nil, fmt.Errorf("select weekly scores: %w", err)
	}

	out := make([]weeklyscore.Score, 0, len(rows))
	for _, row := range rows {
		out = append(out, weeklyscore.Score{
			UserID:          row.UserID,
			Week:            row.Week,
			CurrentPoints:   row.CurrentPoints,
			ProjectedPoints: row.ProjectedPoints,
			CompletedGames:  row.CompletedGames,
			TotalGames:      row.TotalGames,
			UpdatedAt:       row.UpdatedAt,
		})
	}

	return out, nil
}

func (r *WeeklyScoreRepository) Upsert(ctx context.Context, score weeklyscore.Score) error {
	const query = `
INSERT INTO user_weekly_scores (user_id, week, current_points, projected_points, completed_games, total_games, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (user_id, week)
DO UPDATE SET
    current_points = EXCLUDED.current_points,
    projected_points = EXCLUDED.projected_points,
    completed_games = EXCLUDED.completed_games,
    total_games = EXCLUDED.total_games,
    updated_at = EXCLUDED.updated_at`

	if _, err := r.db.ExecContext(ctx, query,
		score.UserID,
		score.Week,
		score.CurrentPoints,
		score.ProjectedPoints,
		score.CompletedGames,
		score.TotalGames,
		score.UpdatedAt,
	); err != nil {
		return fmt.Errorf("upsert weekly score: %w", err)
	}

	return nil
}
