package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/gridironpool/pickstick/internal/domain/game"
)

type GameRepository struct {
	mu    sync.RWMutex
	items map[int64]game.Game
}

func NewGameRepository(games []game.Game) *GameRepository {
	items := make(map[int64]game.Game, len(games))
	for _, g := range games {
		items[g.ID] = g
	}
	return &GameRepository{items: items}
}

// Insert adds a game to the schedule. Seeding convenience, not part of the
// domain repository contract.
func (r *GameRepository) Insert(_ context.Context, g game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[g.ID] = g
	return nil
}

func (r *GameRepository) ListByWeek(_ context.Context, week int) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0)
	for _, g := range r.items {
		if g.Week == week {
			out = append(out, g)
		}
	}
	sortGames(out)
	return out, nil
}

func (r *GameRepository) ListAll(_ context.Context) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0, len(r.items))
	for _, g := range r.items {
		out = append(out, g)
	}
	sortGames(out)
	return out, nil
}

func (r *GameRepository) GetByEventID(_ context.Context, eventID int64) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, g := range r.items {
		if g.EventID == eventID {
			return g, true, nil
		}
	}
	return game.Game{}, false, nil
}

func sortGames(games []game.Game) {
	sort.SliceStable(games, func(i, j int) bool {
		if games[i].Week != games[j].Week {
			return games[i].Week < games[j].Week
		}
		if !games[i].Kickoff.Equal(games[j].Kickoff) {
			return games[i].Kickoff.Before(games[j].Kickoff)
		}
		return games[i].ID < games[j].ID
	})
}
