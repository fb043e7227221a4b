package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gridironpool/pickstick/internal/domain/game"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) ListByWeek(ctx context.Context, week int) ([]game.Game, error) {
	const query = `
SELECT id, event_id, week, kickoff, home_team_id, away_team_id, home_score, away_score, spread, over_under
FROM games
WHERE week = $1
ORDER BY kickoff, id`

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, week); err != nil {
		return nil, fmt.Errorf("select games by week: %w", err)
	}

	return gamesFromRows(rows), nil
}

func (r *GameRepository) ListAll(ctx context.Context) ([]game.Game, error) {
	const query = `
SELECT id, event_id, week, kickoff, home_team_id, away_team_id, home_score, away_score, spread, over_under
FROM games
ORDER BY week, kickoff, id`

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select games: %w", err)
	}

	return gamesFromRows(rows), nil
}

func (r *GameRepository) GetByEventID(ctx context.Context, eventID int64) (game.Game, bool, error) {
	const query = `
SELECT id, event_id, week, kickoff, home_team_id, away_team_id, home_score, away_score, spread, over_under
FROM games
WHERE event_id = $1`

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, eventID); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game by event id: %w", err)
	}

	return gameFromRow(row), true, nil
}

func gamesFromRows(rows []gameTableModel) []game.Game {
	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameFromRow(row))
	}

	return out
}

func gameFromRow(row gameTableModel) game.Game {
	return game.Game{
		ID:         row.ID,
		EventID:    row.EventID,
		Week:       row.Week,
		Kickoff:    row.Kickoff,
		HomeTeamID: row.HomeTeamID,
		AwayTeamID: row.AwayTeamID,
		HomeScore:  nullInt64ToIntPtr(row.HomeScore),
		AwayScore:  nullInt64ToIntPtr(row.AwayScore),
		Spread:     nullFloat64ToFloat64Ptr(row.Spread),
		OverUnder:  nullFloat64ToFloat64Ptr(row.OverUnder),
	}
}
