package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/gridironpool/pickstick/internal/domain/game"
	"github.com/gridironpool/pickstick/internal/domain/livescore"
	"github.com/gridironpool/pickstick/internal/domain/pick"
	"github.com/gridironpool/pickstick/internal/domain/user"
	"github.com/gridironpool/pickstick/internal/infrastructure/repository/memory"
	"github.com/gridironpool/pickstick/internal/platform/logging"
)

func fiveUsers() []user.User {
	return []user.User{
		{ID: 1, Username: "alpha"},
		{ID: 2, Username: "bravo"},
		{ID: 3, Username: "charlie"},
		{ID: 4, Username: "delta"},
		{ID: 5, Username: "echo"},
	}
}

func newDraftOrderService(
	users *memory.UserRepository,
	games *memory.GameRepository,
	picks *memory.PickRepository,
	lives *memory.LiveScoreRepository,
) *DraftOrderService {
	teams := memory.NewTeamRepository(memory.SeedTeams())
	return NewDraftOrderService(users, games, picks, lives, teams, logging.NewNop())
}

// seedCompletedWeek gives each of the five users one completed pick in the
// week, worth the given points. Game i pairs home team 2i+1 against away
// team 2i+2 and user i+1 picked the home side.
func seedCompletedWeek(t *testing.T, week int, points []int, games *memory.GameRepository, picks *memory.PickRepository, lives *memory.LiveScoreRepository) {
	t.Helper()

	kickoff := time.Date(2025, time.September, 7, 13, 0, 0, 0, time.UTC)
	rows := make([]pick.Pick, 0, len(points))
	for i, pts := range points {
		g := game.Game{
			ID:         int64(week*100 + i),
			EventID:    int64(401220000 + week*100 + i),
			Week:       week,
			Kickoff:    kickoff,
			HomeTeamID: int64(i*2 + 1),
			AwayTeamID: int64(i*2 + 2),
		}
		if err := games.Insert(t.Context(), g); err != nil {
			t.Fatalf("seed game: %v", err)
		}

		if err := lives.Upsert(t.Context(), livescore.LiveScore{
			EventID:    g.EventID,
			HomeScore:  pts,
			AwayScore:  3,
			Period:     "Final",
			IsComplete: true,
		}); err != nil {
			t.Fatalf("seed live score: %v", err)
		}

		teamID := g.HomeTeamID
		rows = append(rows, pick.Pick{
			Week:         week,
			Round:        1,
			UserID:       int64(i + 1),
			TeamID:       &teamID,
			OrderInRound: i + 1,
		})
	}
	if err := picks.InsertMany(t.Context(), rows); err != nil {
		t.Fatalf("seed picks: %v", err)
	}
}

func TestDraftOrderService_ComputeOrder_WeekOneIsPermutation(t *testing.T) {
	users := memory.NewUserRepository(fiveUsers())
	svc := newDraftOrderService(users, memory.NewGameRepository(nil), memory.NewPickRepository(), memory.NewLiveScoreRepository())

	order, err := svc.ComputeOrder(t.Context(), 1)
	if err != nil {
		t.Fatalf("compute order failed: %v", err)
	}
	if len(order) != 5 {
		t.Fatalf("unexpected order length: %d", len(order))
	}
	seen := make(map[int64]bool)
	for _, id := range order {
		if seen[id] {
			t.Fatalf("user %d appears twice", id)
		}
		seen[id] = true
	}
}

func TestDraftOrderService_ComputeOrder_WeekOneUsesShuffle(t *testing.T) {
	users := memory.NewUserRepository(fiveUsers())
	svc := newDraftOrderService(users, memory.NewGameRepository(nil), memory.NewPickRepository(), memory.NewLiveScoreRepository())
	svc.shuffle = func(n int, swap func(i, j int)) {
		// full reversal
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			swap(i, j)
		}
	}

	order, err := svc.ComputeOrder(t.Context(), 1)
	if err != nil {
		t.Fatalf("compute order failed: %v", err)
	}
	want := []int64{5, 4, 3, 2, 1}
	for i, id := range want {
		if order[i] != id {
			t.Fatalf("position %d: got user %d, want %d", i, order[i], id)
		}
	}
}

func TestDraftOrderService_ComputeOrder_AscendingPriorPoints(t *testing.T) {
	users := memory.NewUserRepository(fiveUsers())
	games := memory.NewGameRepository(nil)
	picks := memory.NewPickRepository()
	lives := memory.NewLiveScoreRepository()
	svc := newDraftOrderService(users, games, picks, lives)

	// user1=10, user2=20, user3=5, user4=15, user5=0
	seedCompletedWeek(t, 3, []int{10, 20, 5, 15, 0}, games, picks, lives)

	order, err := svc.ComputeOrder(t.Context(), 4)
	if err != nil {
		t.Fatalf("compute order failed: %v", err)
	}
	want := []int64{5, 3, 1, 4, 2}
	for i, id := range want {
		if order[i] != id {
			t.Fatalf("position %d: got user %d, want %d", i, order[i], id)
		}
	}
}

func TestDraftOrderService_ComputeOrder_TieBreaksByUserID(t *testing.T) {
	users := memory.NewUserRepository(fiveUsers())
	games := memory.NewGameRepository(nil)
	picks := memory.NewPickRepository()
	lives := memory.NewLiveScoreRepository()
	svc := newDraftOrderService(users, games, picks, lives)

	seedCompletedWeek(t, 1, []int{7, 7, 7, 7, 7}, games, picks, lives)

	order, err := svc.ComputeOrder(t.Context(), 2)
	if err != nil {
		t.Fatalf("compute order failed: %v", err)
	}
	want := []int64{1, 2, 3, 4, 5}
	for i, id := range want {
		if order[i] != id {
			t.Fatalf("position %d: got user %d, want %d", i, order[i], id)
		}
	}
}

func TestDraftOrderService_ComputeOrder_PriorWeekIncomplete(t *testing.T) {
	users := memory.NewUserRepository(fiveUsers())
	games := memory.NewGameRepository(nil)
	picks := memory.NewPickRepository()
	lives := memory.NewLiveScoreRepository()
	svc := newDraftOrderService(users, games, picks, lives)

	seedCompletedWeek(t, 1, []int{10, 20, 5, 15, 0}, games, picks, lives)
	// one game of the week is still live
	if err := lives.Upsert(t.Context(), livescore.LiveScore{
		EventID:   401220100,
		HomeScore: 10,
		Period:    "3rd Quarter",
		IsLive:    true,
	}); err != nil {
		t.Fatalf("seed live score: %v", err)
	}

	_, err := svc.ComputeOrder(t.Context(), 2)
	if !errors.Is(err, ErrOrderNotAvailable) {
		t.Fatalf("expected ErrOrderNotAvailable, got %v", err)
	}
}

func TestDraftOrderService_ComputeOrder_InvalidWeek(t *testing.T) {
	users := memory.NewUserRepository(fiveUsers())
	svc := newDraftOrderService(users, memory.NewGameRepository(nil), memory.NewPickRepository(), memory.NewLiveScoreRepository())

	for _, week := range []int{0, -1, 19} {
		if _, err := svc.ComputeOrder(t.Context(), week); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("week %d: expected ErrInvalidInput, got %v", week, err)
		}
	}
}

func TestDraftOrderService_ExpandSnake(t *testing.T) {
	svc := newDraftOrderService(
		memory.NewUserRepository(fiveUsers()),
		memory.NewGameRepository(nil),
		memory.NewPickRepository(),
		memory.NewLiveScoreRepository(),
	)

	order := []int64{1, 2, 3, 4}
	plan := svc.ExpandSnake(5, order)
	if len(plan) != 16 {
		t.Fatalf("unexpected plan size: %d", len(plan))
	}

	rowUsers := func(round int) []int64 {
		out := make([]int64, 0, 4)
		for _, p := range plan {
			if p.Round == round {
				out = append(out, p.UserID)
			}
		}
		return out
	}
	assertSeq := func(round int, want []int64) {
		t.Helper()
		got := rowUsers(round)
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("round %d position %d: got user %d, want %d", round, i, got[i], want[i])
			}
		}
	}

	assertSeq(1, []int64{1, 2, 3, 4})
	assertSeq(2, []int64{4, 3, 2, 1})
	// stick rounds: receiver is the seat after the picker
	assertSeq(3, []int64{2, 3, 4, 1})
	assertSeq(4, []int64{3, 2, 1, 4})

	for _, p := range plan {
		if p.Round < 3 && p.AssignedByID != nil {
			t.Fatalf("round %d should have no assigner", p.Round)
		}
		if p.Round >= 3 && p.AssignedByID == nil {
			t.Fatalf("round %d pick missing assigner", p.Round)
		}
		if p.HasTeam() {
			t.Fatalf("expanded plan should have no teams")
		}
	}

	// round 3 pickers walk the base order, round 4 the reversed order
	for _, p := range plan {
		switch p.Round {
		case 3:
			if *p.AssignedByID != order[p.OrderInRound-1] {
				t.Fatalf("round 3 slot %d: assigner %d", p.OrderInRound, *p.AssignedByID)
			}
		case 4:
			if *p.AssignedByID != order[len(order)-p.OrderInRound] {
				t.Fatalf("round 4 slot %d: assigner %d", p.OrderInRound, *p.AssignedByID)
			}
		}
	}
}

func TestDraftOrderService_StartDraft_SeedsOnce(t *testing.T) {
	users := memory.NewUserRepository(fiveUsers())
	games := memory.NewGameRepository(nil)
	picks := memory.NewPickRepository()
	lives := memory.NewLiveScoreRepository()
	svc := newDraftOrderService(users, games, picks, lives)

	first, err := svc.StartDraft(t.Context(), 1)
	if err != nil {
		t.Fatalf("start draft failed: %v", err)
	}
	if len(first) != 20 {
		t.Fatalf("unexpected pick count: %d", len(first))
	}

	again, err := svc.StartDraft(t.Context(), 1)
	if err != nil {
		t.Fatalf("restart of open draft failed: %v", err)
	}
	if len(again) != 20 {
		t.Fatalf("reseed duplicated picks: %d", len(again))
	}
}

func TestDraftOrderService_StartDraft_CompleteWeekRejected(t *testing.T) {
	users := memory.NewUserRepository(fiveUsers())
	games := memory.NewGameRepository(nil)
	picks := memory.NewPickRepository()
	lives := memory.NewLiveScoreRepository()
	svc := newDraftOrderService(users, games, picks, lives)

	teamID := int64(9)
	if err := picks.InsertMany(t.Context(), []pick.Pick{
		{Week: 2, Round: 1, UserID: 1, TeamID: &teamID, OrderInRound: 1},
	}); err != nil {
		t.Fatalf("seed picks: %v", err)
	}

	_, err := svc.StartDraft(t.Context(), 2)
	if !errors.Is(err, ErrDraftAlreadyComplete) {
		t.Fatalf("expected ErrDraftAlreadyComplete, got %v", err)
	}
}
