package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gridironpool/pickstick/external/espn"
	"github.com/gridironpool/pickstick/internal/config"
	"github.com/gridironpool/pickstick/internal/domain/game"
	"github.com/gridironpool/pickstick/internal/domain/livescore"
	"github.com/gridironpool/pickstick/internal/domain/pick"
	"github.com/gridironpool/pickstick/internal/domain/team"
	"github.com/gridironpool/pickstick/internal/domain/user"
	"github.com/gridironpool/pickstick/internal/domain/weeklyscore"
	"github.com/gridironpool/pickstick/internal/domain/weekstate"
	"github.com/gridironpool/pickstick/internal/infrastructure/repository/memory"
	"github.com/gridironpool/pickstick/internal/infrastructure/repository/postgres"
	"github.com/gridironpool/pickstick/internal/interfaces/httpapi"
	"github.com/gridironpool/pickstick/internal/platform/logging"
	"github.com/gridironpool/pickstick/internal/platform/resilience"
	"github.com/gridironpool/pickstick/internal/usecase"
)

type repositories struct {
	teams  team.Repository
	users  user.Repository
	games  game.Repository
	live   livescore.Repository
	picks  pick.Repository
	states weekstate.Repository
	weekly weeklyscore.Repository
}

// App bundles the HTTP server with the background score scheduler and the
// resources both need torn down on shutdown.
type App struct {
	Server    *http.Server
	Scheduler *usecase.ScoreScheduler

	db *sqlx.DB
}

// New wires the whole service. With DB_URL unset it falls back to seeded
// in-memory storage, which is enough for local development.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger, httpLogger *slog.Logger) (*App, error) {
	location, err := time.LoadLocation(cfg.TimezoneName)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.TimezoneName, err)
	}

	var (
		repos repositories
		db    *sqlx.DB
	)
	if cfg.DBURL != "" {
		db, err = postgres.Connect(ctx, cfg.DBURL, cfg.DBDisablePreparedBinary)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		repos = repositories{
			teams:  postgres.NewTeamRepository(db),
			users:  postgres.NewUserRepository(db),
			games:  postgres.NewGameRepository(db),
			live:   postgres.NewLiveScoreRepository(db),
			picks:  postgres.NewPickRepository(db),
			states: postgres.NewWeekStateRepository(db),
			weekly: postgres.NewWeeklyScoreRepository(db),
		}
		logger.Info("storage ready", "backend", "postgres")
	} else {
		repos = repositories{
			teams:  memory.NewTeamRepository(memory.SeedTeams()),
			users:  memory.NewUserRepository(memory.SeedUsers()),
			games:  memory.NewGameRepository(nil),
			live:   memory.NewLiveScoreRepository(),
			picks:  memory.NewPickRepository(),
			states: memory.NewWeekStateRepository(),
			weekly: memory.NewWeeklyScoreRepository(),
		}
		logger.Info("storage ready", "backend", "memory")
	}

	feed := espn.NewClient(espn.ClientConfig{
		BaseURL:    cfg.ESPNBaseURL,
		Timeout:    cfg.ESPNTimeout,
		MaxRetries: cfg.ESPNMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ESPNCircuitEnabled,
			FailureThreshold: cfg.ESPNCircuitFailureCount,
			OpenTimeout:      cfg.ESPNCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ESPNCircuitHalfOpenMaxReq,
		},
	})

	weekMu := usecase.NewWeekMutex()
	weekSvc := usecase.NewWeekService(repos.games, repos.live, repos.states, location, logger)
	orderSvc := usecase.NewDraftOrderService(repos.users, repos.games, repos.picks, repos.live, repos.teams, logger)
	lockSvc := usecase.NewDraftLockService(repos.picks, repos.games, repos.live, repos.states, weekMu, logger)
	simSvc := usecase.NewSimulationService(orderSvc, repos.picks, repos.games, repos.live, repos.teams, repos.states, weekMu, logger)
	syncSvc := usecase.NewScoreSyncService(feed, repos.teams, repos.games, repos.picks, repos.live, repos.users, repos.weekly, logger)
	syncSvc.SetWorkers(cfg.SyncWorkers)

	scheduler := usecase.NewScoreScheduler(syncSvc, weekSvc, repos.games, repos.live, usecase.ScoreSchedulerConfig{
		ActiveInterval:      cfg.SyncActiveInterval,
		IdleInterval:        cfg.SyncIdleInterval,
		ActiveCheckInterval: cfg.SyncActiveCheckInterval,
		Location:            location,
	}, logger)

	handler := httpapi.NewHandler(weekSvc, orderSvc, lockSvc, simSvc, syncSvc, scheduler, httpLogger)
	router := httpapi.NewRouter(handler, httpLogger, cfg.CORSAllowedOrigins, cfg.AdminToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Server:    server,
		Scheduler: scheduler,
		db:        db,
	}, nil
}

// Close releases resources held outside the HTTP server.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
