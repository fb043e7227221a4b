package memory

import (
	"context"
	"sync"
	"time"

	"github.com/gridironpool/pickstick/internal/domain/livescore"
)

type LiveScoreRepository struct {
	mu    sync.RWMutex
	items map[int64]livescore.LiveScore
}

func NewLiveScoreRepository() *LiveScoreRepository {
	return &LiveScoreRepository{items: make(map[int64]livescore.LiveScore)}
}

func (r *LiveScoreRepository) GetByEventID(_ context.Context, eventID int64) (livescore.LiveScore, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sc, ok := r.items[eventID]
	if !ok {
		return livescore.LiveScore{}, false, nil
	}
	return sc, true, nil
}

func (r *LiveScoreRepository) ListByEventIDs(_ context.Context, eventIDs []int64) (map[int64]livescore.LiveScore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[int64]livescore.LiveScore, len(eventIDs))
	for _, id := range eventIDs {
		if sc, ok := r.items[id]; ok {
			out[id] = sc
		}
	}
	return out, nil
}

func (r *LiveScoreRepository) Upsert(_ context.Context, score livescore.LiveScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[score.EventID] = score
	return nil
}

// EnsureDefault creates an all-zero row for the event if none exists, and
// only refreshes the timestamp otherwise.
func (r *LiveScoreRepository) EnsureDefault(_ context.Context, eventID int64, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sc, ok := r.items[eventID]; ok {
		sc.UpdatedAt = updatedAt
		r.items[eventID] = sc
		return nil
	}
	r.items[eventID] = livescore.LiveScore{EventID: eventID, UpdatedAt: updatedAt}
	return nil
}
