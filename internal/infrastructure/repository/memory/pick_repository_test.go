package memory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridironpool/pickstick/internal/domain/pick"
)

func TestPickRepository_InsertAssignsIDs(t *testing.T) {
	repo := NewPickRepository()
	ctx := t.Context()

	err := repo.InsertMany(ctx, []pick.Pick{
		{Week: 1, Round: 1, UserID: 3, OrderInRound: 1},
		{Week: 1, Round: 1, UserID: 5, OrderInRound: 2},
	})
	require.NoError(t, err)

	picks, err := repo.ListByWeek(ctx, 1)
	require.NoError(t, err)
	require.Len(t, picks, 2)
	require.Equal(t, int64(1), picks[0].ID)
	require.Equal(t, int64(2), picks[1].ID)
}

func TestPickRepository_UpdateTeam(t *testing.T) {
	repo := NewPickRepository()
	ctx := t.Context()

	require.NoError(t, repo.InsertMany(ctx, []pick.Pick{{Week: 2, Round: 1, UserID: 1, OrderInRound: 1}}))
	require.NoError(t, repo.UpdateTeam(ctx, 1, 12, "only strong team left"))

	picks, err := repo.ListByWeek(ctx, 2)
	require.NoError(t, err)
	require.Len(t, picks, 1)
	require.NotNil(t, picks[0].TeamID)
	require.Equal(t, int64(12), *picks[0].TeamID)
	require.Equal(t, "only strong team left", picks[0].Reasoning)
}

func TestPickRepository_DeleteByWeekLeavesOtherWeeks(t *testing.T) {
	repo := NewPickRepository()
	ctx := t.Context()

	require.NoError(t, repo.InsertMany(ctx, []pick.Pick{
		{Week: 1, Round: 1, UserID: 1, OrderInRound: 1},
		{Week: 2, Round: 1, UserID: 1, OrderInRound: 1},
	}))
	require.NoError(t, repo.DeleteByWeek(ctx, 1))

	week1, err := repo.ListByWeek(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, week1)

	all, err := repo.ListUpToWeek(ctx, 2)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, 2, all[0].Week)
}

func TestPickRepository_ListSortsByRoundAndOrder(t *testing.T) {
	repo := NewPickRepository()
	ctx := t.Context()

	require.NoError(t, repo.InsertMany(ctx, []pick.Pick{
		{Week: 1, Round: 2, UserID: 1, OrderInRound: 2},
		{Week: 1, Round: 1, UserID: 2, OrderInRound: 2},
		{Week: 1, Round: 1, UserID: 3, OrderInRound: 1},
		{Week: 1, Round: 2, UserID: 4, OrderInRound: 1},
	}))

	picks, err := repo.ListByWeek(ctx, 1)
	require.NoError(t, err)

	got := make([][2]int, 0, len(picks))
	for _, p := range picks {
		got = append(got, [2]int{p.Round, p.OrderInRound})
	}
	require.Equal(t, [][2]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}}, got)
}
