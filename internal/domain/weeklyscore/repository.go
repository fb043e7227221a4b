package weeklyscore

import "context"

type Repository interface {
	ListByWeek(ctx context.Context, week int) ([]Score, error)
	Upsert(ctx context.Context, score Score) error
}
