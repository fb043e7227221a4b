package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/gridironpool/pickstick/internal/domain/game"
	"github.com/gridironpool/pickstick/internal/domain/livescore"
	"github.com/gridironpool/pickstick/internal/domain/pick"
	"github.com/gridironpool/pickstick/internal/domain/team"
	"github.com/gridironpool/pickstick/internal/domain/user"
	"github.com/gridironpool/pickstick/internal/platform/logging"
)

const (
	FirstWeek = 1
	LastWeek  = 18
)

type DraftOrderService struct {
	userRepo user.Repository
	gameRepo game.Repository
	pickRepo pick.Repository
	liveRepo livescore.Repository
	teamRepo team.Repository
	logger   *logging.Logger
	shuffle  func(n int, swap func(i, j int))
	now      func() time.Time
}

func NewDraftOrderService(
	userRepo user.Repository,
	gameRepo game.Repository,
	pickRepo pick.Repository,
	liveRepo livescore.Repository,
	teamRepo team.Repository,
	logger *logging.Logger,
) *DraftOrderService {
	return &DraftOrderService{
		userRepo: userRepo,
		gameRepo: gameRepo,
		pickRepo: pickRepo,
		liveRepo: liveRepo,
		teamRepo: teamRepo,
		logger:   logger,
		shuffle:  rand.Shuffle,
		now:      time.Now,
	}
}

func validWeek(week int) bool {
	return week >= FirstWeek && week <= LastWeek
}

// ComputeOrder determines who picks in which position for week. Week one is
// a random shuffle of every participant; later weeks order participants by
// ascending points scored in the immediately preceding week, ties broken by
// ascending user id. The preceding week must be fully complete.
func (s *DraftOrderService) ComputeOrder(ctx context.Context, week int) ([]int64, error) {
	ctx, span := startUsecaseSpan(ctx, "DraftOrderService.ComputeOrder")
	defer span.End()

	if !validWeek(week) {
		return nil, fmt.Errorf("%w: week must be between %d and %d", ErrInvalidInput, FirstWeek, LastWeek)
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: no participants", ErrInvalidInput)
	}

	order := make([]int64, 0, len(users))
	for _, u := range users {
		order = append(order, u.ID)
	}

	if week == FirstWeek {
		s.shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
		return order, nil
	}

	points, err := s.priorWeekPoints(ctx, week-1, order)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(order, func(i, j int) bool {
		if points[order[i]] != points[order[j]] {
			return points[order[i]] < points[order[j]]
		}
		return order[i] < order[j]
	})
	return order, nil
}

// priorWeekPoints sums the final scores of each participant's picked teams
// for week. Every game of the week must be complete, otherwise the order is
// not yet decidable and ErrOrderNotAvailable is returned.
func (s *DraftOrderService) priorWeekPoints(ctx context.Context, week int, userIDs []int64) (map[int64]int, error) {
	games, err := s.gameRepo.ListByWeek(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("list games for week %d: %w", week, err)
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("%w: week %d has no games yet", ErrOrderNotAvailable, week)
	}

	eventIDs := make([]int64, 0, len(games))
	for _, g := range games {
		eventIDs = append(eventIDs, g.EventID)
	}
	scores, err := s.liveRepo.ListByEventIDs(ctx, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("list live scores for week %d: %w", week, err)
	}
	for _, g := range games {
		sc, ok := scores[g.EventID]
		if !ok || !sc.IsComplete {
			return nil, fmt.Errorf("%w: week %d is not complete", ErrOrderNotAvailable, week)
		}
	}

	picks, err := s.pickRepo.ListByWeek(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("list picks for week %d: %w", week, err)
	}

	points := make(map[int64]int, len(userIDs))
	for _, id := range userIDs {
		points[id] = 0
	}
	for _, p := range picks {
		if !p.HasTeam() {
			continue
		}
		for _, g := range games {
			if !g.Involves(*p.TeamID) {
				continue
			}
			sc := scores[g.EventID]
			if *p.TeamID == g.HomeTeamID {
				points[p.UserID] += sc.HomeScore
			} else {
				points[p.UserID] += sc.AwayScore
			}
			break
		}
	}
	return points, nil
}

// ExpandSnake lays out four rounds of empty picks from a base order.
// Rounds one and two snake as usual. Rounds three and four keep the snake
// for who is on the clock but shift the receiving seat by one, so every
// picker drafts a team the next seat is stuck with. Rows are emitted in
// pick sequence, so OrderInRound always says who is on the clock when.
func (s *DraftOrderService) ExpandSnake(week int, order []int64) []pick.Pick {
	n := len(order)
	plan := make([]pick.Pick, 0, n*pick.Rounds)
	for round := 1; round <= pick.Rounds; round++ {
		seats := order
		if round%2 == 0 {
			seats = reversed(order)
		}
		for i := range seats {
			p := pick.Pick{
				Week:         week,
				Round:        round,
				UserID:       seats[i],
				OrderInRound: i + 1,
			}
			if round >= 3 {
				picker := seats[i]
				p.UserID = seats[(i+1)%n]
				p.AssignedByID = &picker
			}
			plan = append(plan, p)
		}
	}
	return plan
}

func reversed(order []int64) []int64 {
	out := make([]int64, len(order))
	for i, id := range order {
		out[len(order)-1-i] = id
	}
	return out
}

// StartDraft seeds the week's pick board. Seeding is idempotent: an already
// seeded but unfinished week returns the existing board, a finished week is
// rejected.
func (s *DraftOrderService) StartDraft(ctx context.Context, week int) ([]pick.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "DraftOrderService.StartDraft")
	defer span.End()

	if !validWeek(week) {
		return nil, fmt.Errorf("%w: week must be between %d and %d", ErrInvalidInput, FirstWeek, LastWeek)
	}

	existing, err := s.pickRepo.ListByWeek(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("list picks for week %d: %w", week, err)
	}
	if len(existing) > 0 {
		complete := true
		for _, p := range existing {
			if !p.HasTeam() {
				complete = false
				break
			}
		}
		if complete {
			return nil, fmt.Errorf("%w: week %d", ErrDraftAlreadyComplete, week)
		}
		return existing, nil
	}

	order, err := s.ComputeOrder(ctx, week)
	if err != nil {
		return nil, err
	}
	plan := s.ExpandSnake(week, order)
	if err := s.pickRepo.InsertMany(ctx, plan); err != nil {
		return nil, fmt.Errorf("insert picks for week %d: %w", week, err)
	}
	s.logger.InfoContext(ctx, "draft seeded", "week", week, "picks", len(plan))

	seeded, err := s.pickRepo.ListByWeek(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("list picks for week %d: %w", week, err)
	}
	return seeded, nil
}

// DraftState returns the week's picks together with the teams that can
// still be drafted, which are teams playing that week and not yet taken.
func (s *DraftOrderService) DraftState(ctx context.Context, week int) ([]pick.Pick, []team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "DraftOrderService.DraftState")
	defer span.End()

	if !validWeek(week) {
		return nil, nil, fmt.Errorf("%w: week must be between %d and %d", ErrInvalidInput, FirstWeek, LastWeek)
	}

	picks, err := s.pickRepo.ListByWeek(ctx, week)
	if err != nil {
		return nil, nil, fmt.Errorf("list picks for week %d: %w", week, err)
	}

	games, err := s.gameRepo.ListByWeek(ctx, week)
	if err != nil {
		return nil, nil, fmt.Errorf("list games for week %d: %w", week, err)
	}
	playing := make(map[int64]bool, len(games)*2)
	for _, g := range games {
		playing[g.HomeTeamID] = true
		playing[g.AwayTeamID] = true
	}

	taken := make(map[int64]bool, len(picks))
	for _, p := range picks {
		if p.HasTeam() {
			taken[*p.TeamID] = true
		}
	}

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list teams: %w", err)
	}
	available := make([]team.Team, 0, len(teams))
	for _, t := range teams {
		if playing[t.ID] && !taken[t.ID] {
			available = append(available, t)
		}
	}
	return picks, available, nil
}
