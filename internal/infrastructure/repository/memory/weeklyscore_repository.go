package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/gridironpool/pickstick/internal/domain/weeklyscore"
)

type weeklyScoreKey struct {
	userID int64
	week   int
}

type WeeklyScoreRepository struct {
	mu    sync.RWMutex
	items map[weeklyScoreKey]weeklyscore.Score
}

func NewWeeklyScoreRepository() *WeeklyScoreRepository {
	return &WeeklyScoreRepository{items: make(map[weeklyScoreKey]weeklyscore.Score)}
}

func (r *WeeklyScoreRepository) ListByWeek(_ context.Context, week int) ([]weeklyscore.Score, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]weeklyscore.Score, 0)
	for key, sc := range r.items {
		if key.week == week {
			out = append(out, sc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

func (r *WeeklyScoreRepository) Upsert(_ context.Context, score weeklyscore.Score) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[weeklyScoreKey{userID: score.UserID, week: score.Week}] = score
	return nil
}
