package livescore

import (
	"context"
	"time"
)

type Repository interface {
	GetByEventID(ctx context.Context, eventID int64) (LiveScore, bool, error)
	// ListByEventIDs returns rows keyed by event id; absent events have no entry.
	ListByEventIDs(ctx context.Context, eventIDs []int64) (map[int64]LiveScore, error)
	// Upsert replaces the row for the score's event id, creating it when absent.
	Upsert(ctx context.Context, score LiveScore) error
	// EnsureDefault creates a zero "not started" row when none exists yet. An
	// existing row's scores are left untouched; only UpdatedAt is refreshed.
	EnsureDefault(ctx context.Context, eventID int64, updatedAt time.Time) error
}
