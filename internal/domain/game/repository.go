package game

import "context"

// Repository exposes schedule reads needed by the core.
type Repository interface {
	ListByWeek(ctx context.Context, week int) ([]Game, error)
	ListAll(ctx context.Context) ([]Game, error)
	GetByEventID(ctx context.Context, eventID int64) (Game, bool, error)
}
