package livescore

import "time"

// LiveScore is the most recently polled score for a game, keyed 1:1 by event id.
// The score sync loop is the only writer.
type LiveScore struct {
	EventID    int64
	HomeScore  int
	AwayScore  int
	Period     string
	Clock      string
	IsLive     bool
	IsComplete bool
	UpdatedAt  time.Time
}

// InProgress reports whether the game has begun, finished or not.
func (s LiveScore) InProgress() bool {
	return s.IsLive || s.IsComplete
}
