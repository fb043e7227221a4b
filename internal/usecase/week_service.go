package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/gridironpool/pickstick/internal/domain/game"
	"github.com/gridironpool/pickstick/internal/domain/livescore"
	"github.com/gridironpool/pickstick/internal/domain/weekstate"
	"github.com/gridironpool/pickstick/internal/platform/logging"
)

// cutoverHour is the local hour on cutover day when a finished week rolls
// over to the next one.
const cutoverHour = 6

type WeekService struct {
	gameRepo  game.Repository
	liveRepo  livescore.Repository
	stateRepo weekstate.Repository
	location  *time.Location
	logger    *logging.Logger
	now       func() time.Time
}

func NewWeekService(
	gameRepo game.Repository,
	liveRepo livescore.Repository,
	stateRepo weekstate.Repository,
	location *time.Location,
	logger *logging.Logger,
) *WeekService {
	if location == nil {
		location = time.UTC
	}
	return &WeekService{
		gameRepo:  gameRepo,
		liveRepo:  liveRepo,
		stateRepo: stateRepo,
		location:  location,
		logger:    logger,
		now:       time.Now,
	}
}

// CurrentWeek walks the schedule in week order and returns the first week
// with an unfinished game. A fully finished week still counts as current
// until the Wednesday-morning cutover after its last kickoff, so standings
// stay visible for a few days. An empty schedule resolves to week one.
func (s *WeekService) CurrentWeek(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "WeekService.CurrentWeek")
	defer span.End()

	now := s.now()
	for week := FirstWeek; week <= LastWeek; week++ {
		games, err := s.gameRepo.ListByWeek(ctx, week)
		if err != nil {
			return 0, fmt.Errorf("list games for week %d: %w", week, err)
		}
		if len(games) == 0 {
			continue
		}

		eventIDs := make([]int64, 0, len(games))
		for _, g := range games {
			eventIDs = append(eventIDs, g.EventID)
		}
		scores, err := s.liveRepo.ListByEventIDs(ctx, eventIDs)
		if err != nil {
			return 0, fmt.Errorf("list live scores for week %d: %w", week, err)
		}

		complete := true
		var latestKickoff time.Time
		for _, g := range games {
			if sc, ok := scores[g.EventID]; !ok || !sc.IsComplete {
				complete = false
				break
			}
			if g.Kickoff.After(latestKickoff) {
				latestKickoff = g.Kickoff
			}
		}
		if !complete {
			return week, nil
		}
		if now.Before(s.cutoverAfter(latestKickoff)) {
			return week, nil
		}
	}
	return FirstWeek, nil
}

// cutoverAfter finds the next Wednesday strictly after the given kickoff.
// A kickoff that itself lands on a Wednesday rolls a full seven days.
func (s *WeekService) cutoverAfter(kickoff time.Time) time.Time {
	local := kickoff.In(s.location)
	days := (int(time.Wednesday) - int(local.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	day := local.AddDate(0, 0, days)
	return time.Date(day.Year(), day.Month(), day.Day(), cutoverHour, 0, 0, 0, s.location)
}

// GetState returns the stored flags for a week. A week nobody touched yet
// reports all-default state.
func (s *WeekService) GetState(ctx context.Context, week int) (weekstate.State, error) {
	ctx, span := startUsecaseSpan(ctx, "WeekService.GetState")
	defer span.End()

	if !validWeek(week) {
		return weekstate.State{}, fmt.Errorf("%w: week must be between %d and %d", ErrInvalidInput, FirstWeek, LastWeek)
	}
	st, exists, err := s.stateRepo.Get(ctx, week)
	if err != nil {
		return weekstate.State{}, fmt.Errorf("get week state %d: %w", week, err)
	}
	if !exists {
		return weekstate.State{Week: week}, nil
	}
	return st, nil
}

func (s *WeekService) SetPunishment(ctx context.Context, week int, punishment string) error {
	ctx, span := startUsecaseSpan(ctx, "WeekService.SetPunishment")
	defer span.End()

	if !validWeek(week) {
		return fmt.Errorf("%w: week must be between %d and %d", ErrInvalidInput, FirstWeek, LastWeek)
	}
	if err := s.stateRepo.UpsertPunishment(ctx, week, punishment); err != nil {
		return fmt.Errorf("set punishment for week %d: %w", week, err)
	}
	s.logger.InfoContext(ctx, "punishment updated", "week", week)
	return nil
}
