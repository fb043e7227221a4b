package weekstate

import "context"

type Repository interface {
	Get(ctx context.Context, week int) (State, bool, error)
	UpsertLock(ctx context.Context, week int, locked bool) error
	UpsertSimulated(ctx context.Context, week int, simulated bool) error
	UpsertPunishment(ctx context.Context, week int, punishment string) error
}
