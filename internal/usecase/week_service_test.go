package usecase

import (
	"testing"
	"time"

	"github.com/gridironpool/pickstick/internal/domain/game"
	"github.com/gridironpool/pickstick/internal/domain/livescore"
	"github.com/gridironpool/pickstick/internal/infrastructure/repository/memory"
	"github.com/gridironpool/pickstick/internal/platform/logging"
)

type weekFixture struct {
	games *memory.GameRepository
	lives *memory.LiveScoreRepository
	svc   *WeekService
}

func newWeekFixture(now time.Time) *weekFixture {
	f := &weekFixture{
		games: memory.NewGameRepository(nil),
		lives: memory.NewLiveScoreRepository(),
	}
	f.svc = NewWeekService(f.games, f.lives, memory.NewWeekStateRepository(), time.UTC, logging.NewNop())
	f.svc.now = func() time.Time { return now }
	return f
}

// seedWeek adds one game per week with the given kickoff, completed or not.
func (f *weekFixture) seedWeek(t *testing.T, week int, kickoff time.Time, complete bool) {
	t.Helper()

	g := game.Game{
		ID:         int64(week),
		EventID:    int64(1000 + week),
		Week:       week,
		Kickoff:    kickoff,
		HomeTeamID: int64(week*2 - 1),
		AwayTeamID: int64(week * 2),
	}
	if err := f.games.Insert(t.Context(), g); err != nil {
		t.Fatalf("seed game: %v", err)
	}
	if complete {
		if err := f.lives.Upsert(t.Context(), livescore.LiveScore{
			EventID:    g.EventID,
			HomeScore:  21,
			AwayScore:  14,
			Period:     "Final",
			IsComplete: true,
		}); err != nil {
			t.Fatalf("seed live score: %v", err)
		}
	}
}

func TestWeekService_CurrentWeek_FirstIncompleteWeek(t *testing.T) {
	now := time.Date(2025, time.September, 22, 9, 0, 0, 0, time.UTC)
	f := newWeekFixture(now)

	f.seedWeek(t, 1, time.Date(2025, time.September, 7, 17, 0, 0, 0, time.UTC), true)
	f.seedWeek(t, 2, time.Date(2025, time.September, 14, 17, 0, 0, 0, time.UTC), true)
	f.seedWeek(t, 3, time.Date(2025, time.September, 21, 17, 0, 0, 0, time.UTC), false)

	week, err := f.svc.CurrentWeek(t.Context())
	if err != nil {
		t.Fatalf("current week failed: %v", err)
	}
	if week != 3 {
		t.Fatalf("got week %d, want 3", week)
	}
}

func TestWeekService_CurrentWeek_CompleteWeekHoldsUntilWednesday(t *testing.T) {
	// week 1's only game: Sunday Sep 7. Cutover is Wednesday Sep 10, 06:00.
	kickoff := time.Date(2025, time.September, 7, 17, 0, 0, 0, time.UTC)

	beforeCutover := time.Date(2025, time.September, 10, 5, 59, 0, 0, time.UTC)
	f := newWeekFixture(beforeCutover)
	f.seedWeek(t, 1, kickoff, true)
	f.seedWeek(t, 2, kickoff.AddDate(0, 0, 7), false)

	week, err := f.svc.CurrentWeek(t.Context())
	if err != nil {
		t.Fatalf("current week failed: %v", err)
	}
	if week != 1 {
		t.Fatalf("before cutover: got week %d, want 1", week)
	}

	afterCutover := time.Date(2025, time.September, 10, 6, 0, 0, 0, time.UTC)
	f2 := newWeekFixture(afterCutover)
	f2.seedWeek(t, 1, kickoff, true)
	f2.seedWeek(t, 2, kickoff.AddDate(0, 0, 7), false)

	week, err = f2.svc.CurrentWeek(t.Context())
	if err != nil {
		t.Fatalf("current week failed: %v", err)
	}
	if week != 2 {
		t.Fatalf("after cutover: got week %d, want 2", week)
	}
}

func TestWeekService_CurrentWeek_WednesdayKickoffRollsSevenDays(t *testing.T) {
	// a Wednesday game must not cut over the same morning
	kickoff := time.Date(2025, time.September, 10, 17, 0, 0, 0, time.UTC)

	sameWeek := time.Date(2025, time.September, 15, 12, 0, 0, 0, time.UTC)
	f := newWeekFixture(sameWeek)
	f.seedWeek(t, 1, kickoff, true)
	f.seedWeek(t, 2, kickoff.AddDate(0, 0, 7), false)

	week, err := f.svc.CurrentWeek(t.Context())
	if err != nil {
		t.Fatalf("current week failed: %v", err)
	}
	if week != 1 {
		t.Fatalf("got week %d, want 1 until the following Wednesday", week)
	}

	nextWednesday := time.Date(2025, time.September, 17, 6, 30, 0, 0, time.UTC)
	f2 := newWeekFixture(nextWednesday)
	f2.seedWeek(t, 1, kickoff, true)
	f2.seedWeek(t, 2, kickoff.AddDate(0, 0, 7), false)

	week, err = f2.svc.CurrentWeek(t.Context())
	if err != nil {
		t.Fatalf("current week failed: %v", err)
	}
	if week != 2 {
		t.Fatalf("got week %d, want 2 after the following Wednesday", week)
	}
}

func TestWeekService_CurrentWeek_EmptySchedule(t *testing.T) {
	f := newWeekFixture(time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC))

	week, err := f.svc.CurrentWeek(t.Context())
	if err != nil {
		t.Fatalf("current week failed: %v", err)
	}
	if week != 1 {
		t.Fatalf("empty schedule should default to week 1, got %d", week)
	}
}

func TestWeekService_CurrentWeek_SkipsWeeksWithoutGames(t *testing.T) {
	now := time.Date(2025, time.October, 1, 12, 0, 0, 0, time.UTC)
	f := newWeekFixture(now)

	// weeks 1 and 2 have no schedule rows yet
	f.seedWeek(t, 3, time.Date(2025, time.October, 5, 17, 0, 0, 0, time.UTC), false)

	week, err := f.svc.CurrentWeek(t.Context())
	if err != nil {
		t.Fatalf("current week failed: %v", err)
	}
	if week != 3 {
		t.Fatalf("got week %d, want 3", week)
	}
}

func TestWeekService_Punishment(t *testing.T) {
	f := newWeekFixture(time.Date(2025, time.September, 10, 12, 0, 0, 0, time.UTC))

	if err := f.svc.SetPunishment(t.Context(), 4, "loser hosts wing night"); err != nil {
		t.Fatalf("set punishment failed: %v", err)
	}
	st, err := f.svc.GetState(t.Context(), 4)
	if err != nil {
		t.Fatalf("get state failed: %v", err)
	}
	if st.Punishment != "loser hosts wing night" {
		t.Fatalf("unexpected punishment: %q", st.Punishment)
	}

	blank, err := f.svc.GetState(t.Context(), 9)
	if err != nil {
		t.Fatalf("get state failed: %v", err)
	}
	if blank.Week != 9 || blank.IsDraftLocked || blank.IsSimulated {
		t.Fatalf("untouched week should report default state: %+v", blank)
	}
}
