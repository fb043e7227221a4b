package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/gridironpool/pickstick/internal/domain/game"
	"github.com/gridironpool/pickstick/internal/domain/livescore"
	"github.com/gridironpool/pickstick/internal/domain/pick"
	"github.com/gridironpool/pickstick/internal/domain/team"
	"github.com/gridironpool/pickstick/internal/domain/user"
	"github.com/gridironpool/pickstick/internal/domain/weeklyscore"
	"github.com/gridironpool/pickstick/internal/platform/logging"
)

const defaultSyncWorkers = 4

// FeedEvent is one game as reported by the external scoreboard feed.
type FeedEvent struct {
	ExternalKey  string
	HomeTeamName string
	AwayTeamName string
	HomeScore    int
	AwayScore    int
	Period       string
	Clock        string
	IsLive       bool
	IsComplete   bool
}

// LiveScoreFeed fetches the scoreboard for a single week.
type LiveScoreFeed interface {
	Fetch(ctx context.Context, week int) ([]FeedEvent, error)
}

type ScoreSyncService struct {
	feed       LiveScoreFeed
	teamRepo   team.Repository
	gameRepo   game.Repository
	pickRepo   pick.Repository
	liveRepo   livescore.Repository
	userRepo   user.Repository
	weeklyRepo weeklyscore.Repository
	workers    int
	logger     *logging.Logger
	now        func() time.Time
}

func NewScoreSyncService(
	feed LiveScoreFeed,
	teamRepo team.Repository,
	gameRepo game.Repository,
	pickRepo pick.Repository,
	liveRepo livescore.Repository,
	userRepo user.Repository,
	weeklyRepo weeklyscore.Repository,
	logger *logging.Logger,
) *ScoreSyncService {
	return &ScoreSyncService{
		feed:       feed,
		teamRepo:   teamRepo,
		gameRepo:   gameRepo,
		pickRepo:   pickRepo,
		liveRepo:   liveRepo,
		userRepo:   userRepo,
		weeklyRepo: weeklyRepo,
		workers:    defaultSyncWorkers,
		logger:     logger,
		now:        time.Now,
	}
}

// SetWorkers overrides the pool size used to recompute weekly totals.
func (s *ScoreSyncService) SetWorkers(n int) {
	if n > 0 {
		s.workers = n
	}
}

// SyncWeek pulls the scoreboard for week and applies it to storage. The
// apply is idempotent: rows are keyed by event id and games missing from the
// feed get a default zero row so every scheduled game always has one.
// Afterwards each participant's weekly total is recomputed.
func (s *ScoreSyncService) SyncWeek(ctx context.Context, week int) error {
	ctx, span := startUsecaseSpan(ctx, "ScoreSyncService.SyncWeek")
	defer span.End()

	if !validWeek(week) {
		return fmt.Errorf("%w: week must be between %d and %d", ErrInvalidInput, FirstWeek, LastWeek)
	}

	games, err := s.gameRepo.ListByWeek(ctx, week)
	if err != nil {
		return fmt.Errorf("list games for week %d: %w", week, err)
	}
	if len(games) == 0 {
		return nil
	}

	events, err := s.feed.Fetch(ctx, week)
	if err != nil {
		return fmt.Errorf("%w: fetch scoreboard for week %d: %v", ErrDependencyUnavailable, week, err)
	}

	teamIDs, err := s.teamIDsByName(ctx)
	if err != nil {
		return err
	}

	matched := make(map[int64]FeedEvent, len(events))
	for _, ev := range events {
		homeID, okHome := teamIDs[normalizeTeamName(ev.HomeTeamName)]
		awayID, okAway := teamIDs[normalizeTeamName(ev.AwayTeamName)]
		if !okHome || !okAway {
			s.logger.WarnContext(ctx, "scoreboard event with unknown team",
				"home", ev.HomeTeamName, "away", ev.AwayTeamName)
			continue
		}
		for _, g := range games {
			if g.HomeTeamID == homeID && g.AwayTeamID == awayID {
				matched[g.EventID] = ev
				break
			}
		}
	}

	now := s.now()
	for _, g := range games {
		ev, ok := matched[g.EventID]
		if !ok {
			if err := s.liveRepo.EnsureDefault(ctx, g.EventID, now); err != nil {
				return fmt.Errorf("ensure default score for event %d: %w", g.EventID, err)
			}
			continue
		}
		row := livescore.LiveScore{
			EventID:    g.EventID,
			HomeScore:  ev.HomeScore,
			AwayScore:  ev.AwayScore,
			Period:     ev.Period,
			Clock:      ev.Clock,
			IsLive:     ev.IsLive,
			IsComplete: ev.IsComplete,
			UpdatedAt:  now,
		}
		if err := s.liveRepo.Upsert(ctx, row); err != nil {
			return fmt.Errorf("upsert score for event %d: %w", g.EventID, err)
		}
	}

	if err := s.recomputeWeeklyTotals(ctx, week, games); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "week synced", "week", week, "games", len(games), "matched", len(matched))
	return nil
}

func (s *ScoreSyncService) teamIDsByName(ctx context.Context) (map[string]int64, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	out := make(map[string]int64, len(teams))
	for _, t := range teams {
		out[normalizeTeamName(t.Name)] = t.ID
	}
	return out, nil
}

func normalizeTeamName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// recomputeWeeklyTotals rebuilds every participant's score row for the week
// from their picked teams' live scores. Users are recomputed concurrently on
// a small worker pool.
func (s *ScoreSyncService) recomputeWeeklyTotals(ctx context.Context, week int, games []game.Game) error {
	picks, err := s.pickRepo.ListByWeek(ctx, week)
	if err != nil {
		return fmt.Errorf("list picks for week %d: %w", week, err)
	}
	if len(picks) == 0 {
		return nil
	}

	eventIDs := make([]int64, 0, len(games))
	for _, g := range games {
		eventIDs = append(eventIDs, g.EventID)
	}
	scores, err := s.liveRepo.ListByEventIDs(ctx, eventIDs)
	if err != nil {
		return fmt.Errorf("list live scores for week %d: %w", week, err)
	}

	byUser := make(map[int64][]pick.Pick)
	for _, p := range picks {
		byUser[p.UserID] = append(byUser[p.UserID], p)
	}

	now := s.now()
	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var failedCount atomic.Int32
	var workers sync.WaitGroup
	for userID, userPicks := range byUser {
		userID := userID
		userPicks := userPicks
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row := s.totalForUser(userID, week, userPicks, games, scores)
			row.UpdatedAt = now
			if err := s.weeklyRepo.Upsert(ctx, row); err != nil {
				failedCount.Add(1)
				s.logger.ErrorContext(ctx, "upsert weekly score failed",
					"week", week, "user_id", userID, "error", err)
			}
		}); err != nil {
			workers.Done()
			return fmt.Errorf("submit weekly score task: %w", err)
		}
	}
	workers.Wait()

	if n := failedCount.Load(); n > 0 {
		return fmt.Errorf("recompute weekly totals for week %d: %d user(s) failed", week, n)
	}
	return nil
}

func (s *ScoreSyncService) totalForUser(userID int64, week int, picks []pick.Pick, games []game.Game, scores map[int64]livescore.LiveScore) weeklyscore.Score {
	row := weeklyscore.Score{UserID: userID, Week: week}
	for _, p := range picks {
		if !p.HasTeam() {
			continue
		}
		row.TotalGames++
		for _, g := range games {
			if !g.Involves(*p.TeamID) {
				continue
			}
			sc, ok := scores[g.EventID]
			if !ok {
				break
			}
			if *p.TeamID == g.HomeTeamID {
				row.CurrentPoints += sc.HomeScore
			} else {
				row.CurrentPoints += sc.AwayScore
			}
			if sc.IsComplete {
				row.CompletedGames++
			}
			break
		}
	}
	if row.CompletedGames > 0 {
		row.ProjectedPoints = row.CurrentPoints * row.TotalGames / row.CompletedGames
	} else {
		row.ProjectedPoints = row.CurrentPoints * row.TotalGames
	}
	return row
}

// LeaderboardEntry is one participant's standing for a week.
type LeaderboardEntry struct {
	UserID          int64
	Name            string
	CurrentPoints   int
	ProjectedPoints int
	CompletedGames  int
	TotalGames      int
}

// Leaderboard returns the week's standings sorted by points, highest first.
func (s *ScoreSyncService) Leaderboard(ctx context.Context, week int) ([]LeaderboardEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoreSyncService.Leaderboard")
	defer span.End()

	if !validWeek(week) {
		return nil, fmt.Errorf("%w: week must be between %d and %d", ErrInvalidInput, FirstWeek, LastWeek)
	}

	rows, err := s.weeklyRepo.ListByWeek(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("list weekly scores for week %d: %w", week, err)
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	names := make(map[int64]string, len(users))
	for _, u := range users {
		names[u.ID] = u.FullName()
	}

	out := make([]LeaderboardEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, LeaderboardEntry{
			UserID:          r.UserID,
			Name:            names[r.UserID],
			CurrentPoints:   r.CurrentPoints,
			ProjectedPoints: r.ProjectedPoints,
			CompletedGames:  r.CompletedGames,
			TotalGames:      r.TotalGames,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CurrentPoints != out[j].CurrentPoints {
			return out[i].CurrentPoints > out[j].CurrentPoints
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}
