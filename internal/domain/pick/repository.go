package pick

import "context"

type Repository interface {
	ListByWeek(ctx context.Context, week int) ([]Pick, error)
	ListUpToWeek(ctx context.Context, week int) ([]Pick, error)
	InsertMany(ctx context.Context, picks []Pick) error
	UpdateTeam(ctx context.Context, pickID int64, teamID int64, reasoning string) error
	DeleteByWeek(ctx context.Context, week int) error
}
