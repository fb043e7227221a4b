package memory

import (
	"context"
	"sync"
	"time"

	"github.com/gridironpool/pickstick/internal/domain/weekstate"
)

type WeekStateRepository struct {
	mu    sync.RWMutex
	items map[int]weekstate.State
	now   func() time.Time
}

func NewWeekStateRepository() *WeekStateRepository {
	return &WeekStateRepository{
		items: make(map[int]weekstate.State),
		now:   time.Now,
	}
}

func (r *WeekStateRepository) Get(_ context.Context, week int) (weekstate.State, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.items[week]
	if !ok {
		return weekstate.State{}, false, nil
	}
	return st, true, nil
}

func (r *WeekStateRepository) UpsertLock(_ context.Context, week int, locked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.get(week)
	st.IsDraftLocked = locked
	st.UpdatedAt = r.now()
	r.items[week] = st
	return nil
}

func (r *WeekStateRepository) UpsertSimulated(_ context.Context, week int, simulated bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.get(week)
	st.IsSimulated = simulated
	st.UpdatedAt = r.now()
	r.items[week] = st
	return nil
}

func (r *WeekStateRepository) UpsertPunishment(_ context.Context, week int, punishment string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.get(week)
	st.Punishment = punishment
	st.UpdatedAt = r.now()
	r.items[week] = st
	return nil
}

func (r *WeekStateRepository) get(week int) weekstate.State {
	st, ok := r.items[week]
	if !ok {
		st = weekstate.State{Week: week, CreatedAt: r.now()}
	}
	return st
}
