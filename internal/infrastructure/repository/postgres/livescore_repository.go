package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gridironpool/pickstick/internal/domain/livescore"
)

type LiveScoreRepository struct {
	db *sqlx.DB
}

func NewLiveScoreRepository(db *sqlx.DB) *LiveScoreRepository {
	return &LiveScoreRepository{db: db}
}

func (r *LiveScoreRepository) GetByEventID(ctx context.Context, eventID int64) (livescore.LiveScore, bool, error) {
	const query = `
SELECT event_id, home_score, away_score, period, clock, is_live, is_complete, updated_at
FROM live_scores
WHERE event_id = $1`

	var row liveScoreTableModel
	if err := r.db.GetContext(ctx, &row, query, eventID); err != nil {
		if isNotFound(err) {
			return livescore.LiveScore{}, false, nil
		}
		return livescore.LiveScore{}, false, fmt.Errorf("get live score: %w", err)
	}

	return liveScoreFromRow(row), true, nil
}

func (r *LiveScoreRepository) ListByEventIDs(ctx context.Context, eventIDs []int64) (map[int64]livescore.LiveScore, error) {
	if len(eventIDs) == 0 {
		return map[int64]livescore.LiveScore{}, nil
	}

	const query = `
SELECT event_id, home_score, away_score, period, clock, is_live, is_complete, updated_at
FROM live_scores
WHERE event_id IN (?)`

	expanded, args, err := sqlx.In(query, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("bind live scores query: %w", err)
	}

	var rows []liveScoreTableModel
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(expanded), args...); err != nil {
		return nil, fmt.Errorf("select live scores: %w", err)
	}

	out := make(map[int64]livescore.LiveScore, len(rows))
	for _, row := range rows {
		out[row.EventID] = liveScoreFromRow(row)
	}

	return out, nil
}

func (r *LiveScoreRepository) Upsert(ctx context.Context, score livescore.LiveScore) error {
	const query = `
INSERT INTO live_scores (event_id, home_score, away_score, period, clock, is_live, is_complete, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (event_id)
DO UPDATE SET
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    period = EXCLUDED.period,
    clock = EXCLUDED.clock,
    is_live = EXCLUDED.is_live,
    is_complete = EXCLUDED.is_complete,
    updated_at = EXCLUDED.updated_at`

	if _, err := r.db.ExecContext(ctx, query,
		score.EventID,
		score.HomeScore,
		score.AwayScore,
		score.Period,
		score.Clock,
		score.IsLive,
		score.IsComplete,
		score.UpdatedAt,
	); err != nil {
		return fmt.Errorf("upsert live score: %w", err)
	}

	return nil
}

func (r *LiveScoreRepository) EnsureDefault(ctx context.Context, eventID int64, updatedAt time.Time) error {
	const query = `
INSERT INTO live_scores (event_id, home_score, away_score, period, clock, is_live, is_complete, updated_at)
VALUES ($1, 0, 0, '', '', FALSE, FALSE, $2)
ON CONFLICT (event_id)
DO UPDATE SET updated_at = EXCLUDED.updated_at`

	if _, err := r.db.ExecContext(ctx, query, eventID, updatedAt); err != nil {
		return fmt.Errorf("ensure default live score: %w", err)
	}

	return nil
}

func liveScoreFromRow(row liveScoreTableModel) livescore.LiveScore {
	return livescore.LiveScore{
		EventID:    row.EventID,
		HomeScore:  row.HomeScore,
		AwayScore:  row.AwayScore,
		Period:     row.Period,
		Clock:      row.Clock,
		IsLive:     row.IsLive,
		IsComplete: row.IsComplete,
		UpdatedAt:  row.UpdatedAt,
	}
}
