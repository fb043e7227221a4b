package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/gridironpool/pickstick/internal/domain/pick"
)

type PickRepository struct {
	mu     sync.RWMutex
	items  map[int64]pick.Pick
	nextID int64
}

func NewPickRepository() *PickRepository {
	return &PickRepository{items: make(map[int64]pick.Pick), nextID: 1}
}

func (r *PickRepository) ListByWeek(_ context.Context, week int) ([]pick.Pick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pick.Pick, 0)
	for _, p := range r.items {
		if p.Week == week {
			out = append(out, p)
		}
	}
	sortPicks(out)
	return out, nil
}

func (r *PickRepository) ListUpToWeek(_ context.Context, week int) ([]pick.Pick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pick.Pick, 0)
	for _, p := range r.items {
		if p.Week <= week {
			out = append(out, p)
		}
	}
	sortPicks(out)
	return out, nil
}

func (r *PickRepository) InsertMany(_ context.Context, picks []pick.Pick) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range picks {
		p.ID = r.nextID
		r.nextID++
		r.items[p.ID] = p
	}
	return nil
}

func (r *PickRepository) UpdateTeam(_ context.Context, pickID, teamID int64, reasoning string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[pickID]
	if !ok {
		return nil
	}
	p.TeamID = &teamID
	p.Reasoning = reasoning
	r.items[pickID] = p
	return nil
}

func (r *PickRepository) DeleteByWeek(_ context.Context, week int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, p := range r.items {
		if p.Week == week {
			delete(r.items, id)
		}
	}
	return nil
}

func sortPicks(picks []pick.Pick) {
	sort.SliceStable(picks, func(i, j int) bool {
		if picks[i].Week != picks[j].Week {
			return picks[i].Week < picks[j].Week
		}
		if picks[i].Round != picks[j].Round {
			return picks[i].Round < picks[j].Round
		}
		return picks[i].OrderInRound < picks[j].OrderInRound
	})
}
