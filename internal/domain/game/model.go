package game

import "time"

// Game is one scheduled real-world NFL game. Rows are created by the schedule
// import and are read-only to this service; final scores are filled in by the
// import once a game is over.
type Game struct {
	ID         int64
	EventID    int64
	Week       int
	Kickoff    time.Time
	HomeTeamID int64
	AwayTeamID int64
	HomeScore  *int
	AwayScore  *int
	Spread     *float64
	OverUnder  *float64
}

// Involves reports whether the given team plays in this game.
func (g Game) Involves(teamID int64) bool {
	return g.HomeTeamID == teamID || g.AwayTeamID == teamID
}

// HasStarted reports whether the game's kickoff has passed.
func (g Game) HasStarted(now time.Time) bool {
	return !g.Kickoff.IsZero() && !g.Kickoff.After(now)
}
