package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/gridironpool/pickstick/internal/domain/game"
	"github.com/gridironpool/pickstick/internal/domain/livescore"
	"github.com/gridironpool/pickstick/internal/platform/logging"
	"github.com/gridironpool/pickstick/internal/platform/resilience"
)

const (
	defaultActiveInterval      = 30 * time.Second
	defaultIdleInterval        = 5 * time.Minute
	defaultActiveCheckInterval = 5 * time.Minute

	// kickoffLookahead marks the scheduler active shortly before a game
	// starts so the first live scores land without waiting a full idle
	// interval.
	kickoffLookahead = 30 * time.Minute
)

type ScoreSchedulerConfig struct {
	ActiveInterval      time.Duration
	IdleInterval        time.Duration
	ActiveCheckInterval time.Duration
	Location            *time.Location
}

func (c ScoreSchedulerConfig) withDefaults() ScoreSchedulerConfig {
	if c.ActiveInterval <= 0 {
		c.ActiveInterval = defaultActiveInterval
	}
	if c.IdleInterval <= 0 {
		c.IdleInterval = defaultIdleInterval
	}
	if c.ActiveCheckInterval <= 0 {
		c.ActiveCheckInterval = defaultActiveCheckInterval
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	return c
}

// SchedulerStatus is a snapshot of the scheduler's internal state.
type SchedulerStatus struct {
	Running        bool      `json:"running"`
	CurrentWeek    int       `json:"currentWeek"`
	HasActiveGames bool      `json:"hasActiveGames"`
	LastActiveAt   time.Time `json:"lastActiveCheckAt"`
	LastSyncAt     time.Time `json:"lastSyncAt"`
}

// ScoreScheduler drives periodic score syncs. It ticks at the active
// cadence and decides per tick whether to actually sync: every tick while
// games are live, and once per idle interval otherwise. Overlapping runs
// are skipped rather than queued.
type ScoreScheduler struct {
	syncSvc  *ScoreSyncService
	weekSvc  *WeekService
	gameRepo game.Repository
	liveRepo livescore.Repository
	cfg      ScoreSchedulerConfig
	logger   *logging.Logger
	now      func() time.Time

	running  atomic.Bool
	inTick   atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	wg       conc.WaitGroup
	manual   resilience.SingleFlight

	mu             sync.Mutex
	currentWeek    int
	hasActiveGames bool
	lastActiveAt   time.Time
	lastSyncAt     time.Time
}

func NewScoreScheduler(
	syncSvc *ScoreSyncService,
	weekSvc *WeekService,
	gameRepo game.Repository,
	liveRepo livescore.Repository,
	cfg ScoreSchedulerConfig,
	logger *logging.Logger,
) *ScoreScheduler {
	return &ScoreScheduler{
		syncSvc:  syncSvc,
		weekSvc:  weekSvc,
		gameRepo: gameRepo,
		liveRepo: liveRepo,
		cfg:      cfg.withDefaults(),
		logger:   logger,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

func (s *ScoreScheduler) Start() {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	s.logger.Info("score scheduler started",
		"active_interval", s.cfg.ActiveInterval.String(),
		"idle_interval", s.cfg.IdleInterval.String())
	s.wg.Go(s.loop)
}

func (s *ScoreScheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	s.wg.Wait()
	s.running.Store(false)
	s.logger.Info("score scheduler stopped")
}

func (s *ScoreScheduler) loop() {
	ticker := time.NewTicker(s.cfg.ActiveInterval)
	defer ticker.Stop()

	s.tick()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *ScoreScheduler) tick() {
	if !s.inTick.CompareAndSwap(false, true) {
		return
	}
	defer s.inTick.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ActiveInterval*2)
	defer cancel()

	now := s.now()
	s.mu.Lock()
	active := s.hasActiveGames
	staleCheck := now.Sub(s.lastActiveAt) >= s.cfg.ActiveCheckInterval
	syncDue := now.Sub(s.lastSyncAt) >= s.cfg.IdleInterval
	s.mu.Unlock()

	// The expensive live-game check only runs during plausible game hours,
	// or while already active so the flag can clear after the last final.
	if active || (staleCheck && s.inGamePeriod(now)) {
		active = s.refreshActive(ctx, now)
	}
	if !active && !syncDue {
		return
	}

	week, err := s.weekSvc.CurrentWeek(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "resolve current week failed", "error", err)
		s.mu.Lock()
		s.hasActiveGames = true
		s.mu.Unlock()
		return
	}

	if err := s.syncSvc.SyncWeek(ctx, week); err != nil {
		// Feed hiccups are logged, not fatal; stay in active mode so the
		// next tick retries quickly.
		s.logger.ErrorContext(ctx, "score sync failed", "week", week, "error", err)
		s.mu.Lock()
		s.hasActiveGames = true
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.currentWeek = week
	s.lastSyncAt = s.now()
	s.mu.Unlock()
}

// refreshActive recomputes whether any game is live or about to kick off.
// Errors fail toward active so a broken check cannot silence live scoring.
func (s *ScoreScheduler) refreshActive(ctx context.Context, now time.Time) bool {
	active, err := s.checkActive(ctx, now)
	if err != nil {
		s.logger.ErrorContext(ctx, "active game check failed", "error", err)
		active = true
	}

	s.mu.Lock()
	wasActive := s.hasActiveGames
	s.hasActiveGames = active
	s.lastActiveAt = now
	s.mu.Unlock()

	if active && !wasActive {
		s.logger.Info("live games detected, polling at active cadence")
	}
	if !active && wasActive {
		s.logger.Info("no live games, dropping to idle cadence")
	}
	return active
}

func (s *ScoreScheduler) checkActive(ctx context.Context, now time.Time) (bool, error) {
	week, err := s.weekSvc.CurrentWeek(ctx)
	if err != nil {
		return false, err
	}
	games, err := s.gameRepo.ListByWeek(ctx, week)
	if err != nil {
		return false, err
	}
	if len(games) == 0 {
		return false, nil
	}

	eventIDs := make([]int64, 0, len(games))
	for _, g := range games {
		eventIDs = append(eventIDs, g.EventID)
	}
	scores, err := s.liveRepo.ListByEventIDs(ctx, eventIDs)
	if err != nil {
		return false, err
	}

	for _, g := range games {
		sc, ok := scores[g.EventID]
		if ok && sc.IsLive {
			return true, nil
		}
		if ok && sc.IsComplete {
			continue
		}
		if g.HasStarted(now) || now.Add(kickoffLookahead).After(g.Kickoff) && now.Before(g.Kickoff.Add(4*time.Hour)) {
			return true, nil
		}
	}
	return false, nil
}

// inGamePeriod is a cheap local-clock heuristic for hours when NFL games
// can plausibly be underway, including late games running past midnight.
func (s *ScoreScheduler) inGamePeriod(t time.Time) bool {
	hour := t.In(s.cfg.Location).Hour()
	return hour >= 10 || hour <= 2
}

// TriggerNow runs one synchronous sync for week, coalescing concurrent
// manual triggers for the same week into a single run.
func (s *ScoreScheduler) TriggerNow(ctx context.Context, week int) error {
	_, err, _ := s.manual.Do(fmt.Sprintf("sync-week-%d", week), func() (any, error) {
		return nil, s.syncSvc.SyncWeek(ctx, week)
	})
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.currentWeek = week
	s.lastSyncAt = s.now()
	s.mu.Unlock()
	return nil
}

func (s *ScoreScheduler) Status() SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SchedulerStatus{
		Running:        s.running.Load(),
		CurrentWeek:    s.currentWeek,
		HasActiveGames: s.hasActiveGames,
		LastActiveAt:   s.lastActiveAt,
		LastSyncAt:     s.lastSyncAt,
	}
}
