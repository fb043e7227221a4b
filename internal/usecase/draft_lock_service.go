package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/gridironpool/pickstick/internal/domain/game"
	"github.com/gridironpool/pickstick/internal/domain/livescore"
	"github.com/gridironpool/pickstick/internal/domain/pick"
	"github.com/gridironpool/pickstick/internal/domain/weekstate"
	"github.com/gridironpool/pickstick/internal/platform/logging"
)

type DraftLockService struct {
	pickRepo  pick.Repository
	gameRepo  game.Repository
	liveRepo  livescore.Repository
	stateRepo weekstate.Repository
	weekMu    *WeekMutex
	logger    *logging.Logger
	now       func() time.Time
}

func NewDraftLockService(
	pickRepo pick.Repository,
	gameRepo game.Repository,
	liveRepo livescore.Repository,
	stateRepo weekstate.Repository,
	weekMu *WeekMutex,
	logger *logging.Logger,
) *DraftLockService {
	return &DraftLockService{
		pickRepo:  pickRepo,
		gameRepo:  gameRepo,
		liveRepo:  liveRepo,
		stateRepo: stateRepo,
		weekMu:    weekMu,
		logger:    logger,
		now:       time.Now,
	}
}

// RefreshAndCheck recomputes the week's lock flag and persists it. The lock
// engages as soon as any drafted team's game has started and only an explicit
// Unlock releases it; a refresh never flips a locked week back open.
func (s *DraftLockService) RefreshAndCheck(ctx context.Context, week int) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "DraftLockService.RefreshAndCheck")
	defer span.End()

	if !validWeek(week) {
		return false, fmt.Errorf("%w: week must be between %d and %d", ErrInvalidInput, FirstWeek, LastWeek)
	}

	st, exists, err := s.stateRepo.Get(ctx, week)
	if err != nil {
		return false, fmt.Errorf("get week state %d: %w", week, err)
	}
	if exists && st.IsDraftLocked {
		return true, nil
	}

	locked, err := s.computeLock(ctx, week)
	if err != nil {
		return false, err
	}
	if locked {
		if err := s.stateRepo.UpsertLock(ctx, week, true); err != nil {
			return false, fmt.Errorf("persist lock for week %d: %w", week, err)
		}
		s.logger.InfoContext(ctx, "draft locked", "week", week)
	}
	return locked, nil
}

func (s *DraftLockService) computeLock(ctx context.Context, week int) (bool, error) {
	picks, err := s.pickRepo.ListByWeek(ctx, week)
	if err != nil {
		return false, fmt.Errorf("list picks for week %d: %w", week, err)
	}
	drafted := make(map[int64]bool)
	for _, p := range picks {
		if p.HasTeam() {
			drafted[*p.TeamID] = true
		}
	}
	if len(drafted) == 0 {
		return false, nil
	}

	games, err := s.gameRepo.ListByWeek(ctx, week)
	if err != nil {
		return false, fmt.Errorf("list games for week %d: %w", week, err)
	}
	eventIDs := make([]int64, 0, len(games))
	for _, g := range games {
		eventIDs = append(eventIDs, g.EventID)
	}
	scores, err := s.liveRepo.ListByEventIDs(ctx, eventIDs)
	if err != nil {
		return false, fmt.Errorf("list live scores for week %d: %w", week, err)
	}

	now := s.now()
	for _, g := range games {
		if !drafted[g.HomeTeamID] && !drafted[g.AwayTeamID] {
			continue
		}
		if g.HasStarted(now) {
			return true, nil
		}
		if sc, ok := scores[g.EventID]; ok && (sc.IsLive || sc.IsComplete) {
			return true, nil
		}
	}
	return false, nil
}

// IsLocked reads the persisted flag without recomputing it.
func (s *DraftLockService) IsLocked(ctx context.Context, week int) (bool, error) {
	st, exists, err := s.stateRepo.Get(ctx, week)
	if err != nil {
		return false, fmt.Errorf("get week state %d: %w", week, err)
	}
	return exists && st.IsDraftLocked, nil
}

// Unlock clears the lock flag. Idempotent. The next RefreshAndCheck will
// re-engage the lock if a drafted team's game is still underway.
func (s *DraftLockService) Unlock(ctx context.Context, week int) error {
	ctx, span := startUsecaseSpan(ctx, "DraftLockService.Unlock")
	defer span.End()

	if !validWeek(week) {
		return fmt.Errorf("%w: week must be between %d and %d", ErrInvalidInput, FirstWeek, LastWeek)
	}
	if err := s.stateRepo.UpsertLock(ctx, week, false); err != nil {
		return fmt.Errorf("unlock week %d: %w", week, err)
	}
	s.logger.InfoContext(ctx, "draft unlocked", "week", week)
	return nil
}

// SelectTeam assigns a team to an open pick slot. The assignment is refused
// when the week is locked, the team is already taken, the team does not play
// that week, or its game has started.
func (s *DraftLockService) SelectTeam(ctx context.Context, week int, pickID, teamID int64) (pick.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "DraftLockService.SelectTeam")
	defer span.End()

	if !validWeek(week) {
		return pick.Pick{}, fmt.Errorf("%w: week must be between %d and %d", ErrInvalidInput, FirstWeek, LastWeek)
	}
	if pickID <= 0 || teamID <= 0 {
		return pick.Pick{}, fmt.Errorf("%w: pick_id and team_id are required", ErrInvalidInput)
	}

	unlock := s.weekMu.Lock(week)
	defer unlock()

	locked, err := s.RefreshAndCheck(ctx, week)
	if err != nil {
		return pick.Pick{}, err
	}
	if locked {
		return pick.Pick{}, fmt.Errorf("%w: week %d", ErrDraftLocked, week)
	}

	picks, err := s.pickRepo.ListByWeek(ctx, week)
	if err != nil {
		return pick.Pick{}, fmt.Errorf("list picks for week %d: %w", week, err)
	}
	var target *pick.Pick
	for i := range picks {
		if picks[i].ID == pickID {
			target = &picks[i]
			continue
		}
		if picks[i].HasTeam() && *picks[i].TeamID == teamID {
			return pick.Pick{}, fmt.Errorf("%w: team %d", ErrTeamAlreadyPicked, teamID)
		}
	}
	if target == nil {
		return pick.Pick{}, fmt.Errorf("%w: pick %d in week %d", ErrNotFound, pickID, week)
	}

	games, err := s.gameRepo.ListByWeek(ctx, week)
	if err != nil {
		return pick.Pick{}, fmt.Errorf("list games for week %d: %w", week, err)
	}
	var teamGame *game.Game
	for i := range games {
		if games[i].Involves(teamID) {
			teamGame = &games[i]
			break
		}
	}
	if teamGame == nil {
		return pick.Pick{}, fmt.Errorf("%w: team %d does not play in week %d", ErrInvalidInput, teamID, week)
	}
	if teamGame.HasStarted(s.now()) {
		return pick.Pick{}, fmt.Errorf("%w: team %d", ErrGameAlreadyStarted, teamID)
	}
	if sc, ok, err := s.liveRepo.GetByEventID(ctx, teamGame.EventID); err != nil {
		return pick.Pick{}, fmt.Errorf("get live score %d: %w", teamGame.EventID, err)
	} else if ok && (sc.IsLive || sc.IsComplete) {
		return pick.Pick{}, fmt.Errorf("%w: team %d", ErrGameAlreadyStarted, teamID)
	}

	if err := s.pickRepo.UpdateTeam(ctx, pickID, teamID, ""); err != nil {
		return pick.Pick{}, fmt.Errorf("assign team %d to pick %d: %w", teamID, pickID, err)
	}
	s.logger.InfoContext(ctx, "team assigned", "week", week, "pick_id", pickID, "team_id", teamID)

	out := *target
	out.TeamID = &teamID
	out.Reasoning = ""
	return out, nil
}
