package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gridironpool/pickstick/internal/domain/game"
	"github.com/gridironpool/pickstick/internal/domain/pick"
	"github.com/gridironpool/pickstick/internal/infrastructure/repository/memory"
	"github.com/gridironpool/pickstick/internal/platform/logging"
)

type stubFeed struct {
	events []FeedEvent
	err    error
	calls  int
}

func (f *stubFeed) Fetch(_ context.Context, _ int) ([]FeedEvent, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

type syncFixture struct {
	feed   *stubFeed
	games  *memory.GameRepository
	picks  *memory.PickRepository
	lives  *memory.LiveScoreRepository
	weekly *memory.WeeklyScoreRepository
	svc    *ScoreSyncService
}

func newSyncFixture(feed *stubFeed) *syncFixture {
	f := &syncFixture{
		feed:   feed,
		games:  memory.NewGameRepository(nil),
		picks:  memory.NewPickRepository(),
		lives:  memory.NewLiveScoreRepository(),
		weekly: memory.NewWeeklyScoreRepository(),
	}
	f.svc = NewScoreSyncService(
		feed,
		memory.NewTeamRepository(memory.SeedTeams()),
		f.games,
		f.picks,
		f.lives,
		memory.NewUserRepository(memory.SeedUsers()),
		f.weekly,
		logging.NewNop(),
	)
	return f
}

func (f *syncFixture) seedGame(t *testing.T, g game.Game) {
	t.Helper()
	if err := f.games.Insert(t.Context(), g); err != nil {
		t.Fatalf("seed game: %v", err)
	}
}

func TestScoreSyncService_SyncWeek_AppliesFeed(t *testing.T) {
	feed := &stubFeed{events: []FeedEvent{
		{
			ExternalKey:  "401220101",
			HomeTeamName: "Arizona Cardinals",
			AwayTeamName: "Atlanta Falcons",
			HomeScore:    24,
			AwayScore:    17,
			Period:       "4th Quarter",
			Clock:        "2:31",
			IsLive:       true,
		},
	}}
	f := newSyncFixture(feed)

	kickoff := time.Date(2025, time.September, 7, 17, 0, 0, 0, time.UTC)
	f.seedGame(t, game.Game{ID: 1, EventID: 101, Week: 1, Kickoff: kickoff, HomeTeamID: 1, AwayTeamID: 2})
	// this game never shows up in the feed
	f.seedGame(t, game.Game{ID: 2, EventID: 102, Week: 1, Kickoff: kickoff, HomeTeamID: 3, AwayTeamID: 4})

	if err := f.svc.SyncWeek(t.Context(), 1); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	sc, ok, err := f.lives.GetByEventID(t.Context(), 101)
	if err != nil || !ok {
		t.Fatalf("live score missing: ok=%v err=%v", ok, err)
	}
	if sc.HomeScore != 24 || sc.AwayScore != 17 || !sc.IsLive {
		t.Fatalf("unexpected live score: %+v", sc)
	}

	// missing events still get a default zero row
	def, ok, err := f.lives.GetByEventID(t.Context(), 102)
	if err != nil || !ok {
		t.Fatalf("default score missing: ok=%v err=%v", ok, err)
	}
	if def.HomeScore != 0 || def.AwayScore != 0 || def.IsLive || def.IsComplete {
		t.Fatalf("default row should be all zero: %+v", def)
	}
}

func TestScoreSyncService_SyncWeek_Idempotent(t *testing.T) {
	feed := &stubFeed{events: []FeedEvent{
		{
			HomeTeamName: "Arizona Cardinals",
			AwayTeamName: "Atlanta Falcons",
			HomeScore:    31,
			AwayScore:    28,
			Period:       "Final",
			IsComplete:   true,
		},
	}}
	f := newSyncFixture(feed)
	f.seedGame(t, game.Game{ID: 1, EventID: 101, Week: 1, Kickoff: time.Now(), HomeTeamID: 1, AwayTeamID: 2})

	for i := 0; i < 3; i++ {
		if err := f.svc.SyncWeek(t.Context(), 1); err != nil {
			t.Fatalf("sync %d failed: %v", i, err)
		}
	}

	sc, ok, err := f.lives.GetByEventID(t.Context(), 101)
	if err != nil || !ok {
		t.Fatalf("live score missing: ok=%v err=%v", ok, err)
	}
	if sc.HomeScore != 31 || !sc.IsComplete {
		t.Fatalf("repeated syncs changed the row: %+v", sc)
	}
}

func TestScoreSyncService_SyncWeek_RecomputesWeeklyTotals(t *testing.T) {
	feed := &stubFeed{events: []FeedEvent{
		{HomeTeamName: "Arizona Cardinals", AwayTeamName: "Atlanta Falcons", HomeScore: 24, AwayScore: 17, Period: "Final", IsComplete: true},
		{HomeTeamName: "Baltimore Ravens", AwayTeamName: "Buffalo Bills", HomeScore: 10, AwayScore: 20, Period: "3rd Quarter", IsLive: true},
	}}
	f := newSyncFixture(feed)

	kickoff := time.Date(2025, time.September, 7, 17, 0, 0, 0, time.UTC)
	f.seedGame(t, game.Game{ID: 1, EventID: 101, Week: 1, Kickoff: kickoff, HomeTeamID: 1, AwayTeamID: 2})
	f.seedGame(t, game.Game{ID: 2, EventID: 102, Week: 1, Kickoff: kickoff, HomeTeamID: 3, AwayTeamID: 4})

	home1, away2 := int64(1), int64(4)
	if err := f.picks.InsertMany(t.Context(), []pick.Pick{
		{Week: 1, Round: 1, UserID: 1, TeamID: &home1, OrderInRound: 1},
		{Week: 1, Round: 1, UserID: 1, TeamID: &away2, OrderInRound: 2},
	}); err != nil {
		t.Fatalf("seed picks: %v", err)
	}

	if err := f.svc.SyncWeek(t.Context(), 1); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	rows, err := f.weekly.ListByWeek(t.Context(), 1)
	if err != nil {
		t.Fatalf("list weekly scores failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one weekly row, got %d", len(rows))
	}
	row := rows[0]
	if row.CurrentPoints != 44 {
		t.Fatalf("got %d points, want 44", row.CurrentPoints)
	}
	if row.TotalGames != 2 || row.CompletedGames != 1 {
		t.Fatalf("unexpected game counts: %+v", row)
	}
}

func TestScoreSyncService_SyncWeek_FeedErrorWrapped(t *testing.T) {
	feed := &stubFeed{err: errors.New("scoreboard timeout")}
	f := newSyncFixture(feed)
	f.seedGame(t, game.Game{ID: 1, EventID: 101, Week: 1, Kickoff: time.Now(), HomeTeamID: 1, AwayTeamID: 2})

	err := f.svc.SyncWeek(t.Context(), 1)
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestScoreSyncService_SyncWeek_NoGamesNoFetch(t *testing.T) {
	feed := &stubFeed{}
	f := newSyncFixture(feed)

	if err := f.svc.SyncWeek(t.Context(), 7); err != nil {
		t.Fatalf("sync of empty week failed: %v", err)
	}
	if feed.calls != 0 {
		t.Fatalf("feed should not be called for a week without games")
	}
}

func TestScoreSyncService_Leaderboard_SortedByPoints(t *testing.T) {
	feed := &stubFeed{events: []FeedEvent{
		{HomeTeamName: "Arizona Cardinals", AwayTeamName: "Atlanta Falcons", HomeScore: 24, AwayScore: 10, Period: "Final", IsComplete: true},
		{HomeTeamName: "Baltimore Ravens", AwayTeamName: "Buffalo Bills", HomeScore: 13, AwayScore: 35, Period: "Final", IsComplete: true},
	}}
	f := newSyncFixture(feed)

	kickoff := time.Date(2025, time.September, 7, 17, 0, 0, 0, time.UTC)
	f.seedGame(t, game.Game{ID: 1, EventID: 101, Week: 1, Kickoff: kickoff, HomeTeamID: 1, AwayTeamID: 2})
	f.seedGame(t, game.Game{ID: 2, EventID: 102, Week: 1, Kickoff: kickoff, HomeTeamID: 3, AwayTeamID: 4})

	cardinals, bills := int64(1), int64(4)
	if err := f.picks.InsertMany(t.Context(), []pick.Pick{
		{Week: 1, Round: 1, UserID: 1, TeamID: &cardinals, OrderInRound: 1},
		{Week: 1, Round: 1, UserID: 2, TeamID: &bills, OrderInRound: 2},
	}); err != nil {
		t.Fatalf("seed picks: %v", err)
	}
	if err := f.svc.SyncWeek(t.Context(), 1); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	board, err := f.svc.Leaderboard(t.Context(), 1)
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if len(board) != 2 {
		t.Fatalf("expected two entries, got %d", len(board))
	}
	if board[0].UserID != 2 || board[0].CurrentPoints != 35 {
		t.Fatalf("unexpected leader: %+v", board[0])
	}
	if board[1].UserID != 1 || board[1].CurrentPoints != 24 {
		t.Fatalf("unexpected runner-up: %+v", board[1])
	}
}
