package postgres

import (
	"database/sql"
	"time"
)

type teamTableModel struct {
	ID       int64  `db:"id"`
	Name     string `db:"name"`
	Short    string `db:"short"`
	BadgeURL string `db:"badge_url"`
}

type userTableModel struct {
	ID        int64  `db:"id"`
	Username  string `db:"username"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
}

type gameTableModel struct {
	ID         int64           `db:"id"`
	EventID    int64           `db:"event_id"`
	Week       int             `db:"week"`
	Kickoff    time.Time       `db:"kickoff"`
	HomeTeamID int64           `db:"home_team_id"`
	AwayTeamID int64           `db:"away_team_id"`
	HomeScore  sql.NullInt64   `db:"home_score"`
	AwayScore  sql.NullInt64   `db:"away_score"`
	Spread     sql.NullFloat64 `db:"spread"`
	OverUnder  sql.NullFloat64 `db:"over_under"`
}

type liveScoreTableModel struct {
	EventID    int64     `db:"event_id"`
	HomeScore  int       `db:"home_score"`
	AwayScore  int       `db:"away_score"`
	Period     string    `db:"period"`
	Clock      string    `db:"clock"`
	IsLive     bool      `db:"is_live"`
	IsComplete bool      `db:"is_complete"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type pickTableModel struct {
	ID           int64          `db:"id"`
	Week         int            `db:"week"`
	Round        int            `db:"round"`
	UserID       int64          `db:"user_id"`
	TeamID       sql.NullInt64  `db:"team_id"`
	OrderInRound int            `db:"order_in_round"`
	AssignedByID sql.NullInt64  `db:"assigned_by_id"`
	Reasoning    sql.NullString `db:"reasoning"`
}

type weekStateTableModel struct {
	Week          int       `db:"week"`
	IsDraftLocked bool      `db:"is_draft_locked"`
	IsSimulated   bool      `db:"is_simulated"`
	Punishment    string    `db:"punishment"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type weeklyScoreTableModel struct {
	UserID          int64     `db:"user_id"`
	Week            int       `db:"week"`
	CurrentPoints   int       `db:"current_points"`
	ProjectedPoints int       `db:"projected_points"`
	CompletedGames  int       `db:"completed_games"`
	TotalGames      int       `db:"total_games"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func nullInt64ToIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	out := int(v.Int64)
	return &out
}

func nullInt64ToInt64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	out := v.Int64
	return &out
}

func nullFloat64ToFloat64Ptr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	out := v.Float64
	return &out
}

func int64PtrToNullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
