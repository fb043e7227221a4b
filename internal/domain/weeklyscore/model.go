package weeklyscore

import "time"

// Score is a user's running point total for one week, recomputed on every
// score sync tick: the sum of live scores for the sides their picked teams
// occupy.
type Score struct {
	UserID          int64
	Week            int
	CurrentPoints   int
	ProjectedPoints int
	CompletedGames  int
	TotalGames      int
	UpdatedAt       time.Time
}
