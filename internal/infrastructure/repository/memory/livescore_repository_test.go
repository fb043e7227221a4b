package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gridironpool/pickstick/internal/domain/livescore"
)

func TestLiveScoreRepository_EnsureDefault(t *testing.T) {
	repo := NewLiveScoreRepository()
	ctx := t.Context()
	t0 := time.Date(2025, 9, 7, 13, 0, 0, 0, time.UTC)

	require.NoError(t, repo.EnsureDefault(ctx, 401220101, t0))

	sc, ok, err := repo.GetByEventID(ctx, 401220101)
	require.NoError(t, err)
	require.True(t, ok)
	require.Zero(t, sc.HomeScore)
	require.Zero(t, sc.AwayScore)
	require.False(t, sc.InProgress())
	require.Equal(t, t0, sc.UpdatedAt)
}

func TestLiveScoreRepository_EnsureDefaultKeepsExistingScores(t *testing.T) {
	repo := NewLiveScoreRepository()
	ctx := t.Context()
	t0 := time.Date(2025, 9, 7, 13, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Upsert(ctx, livescore.LiveScore{
		EventID:   401220101,
		HomeScore: 21,
		AwayScore: 14,
		IsLive:    true,
		UpdatedAt: t0,
	}))
	require.NoError(t, repo.EnsureDefault(ctx, 401220101, t0.Add(time.Minute)))

	sc, ok, err := repo.GetByEventID(ctx, 401220101)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 21, sc.HomeScore)
	require.Equal(t, 14, sc.AwayScore)
	require.True(t, sc.IsLive)
	require.Equal(t, t0.Add(time.Minute), sc.UpdatedAt)
}

func TestLiveScoreRepository_ListByEventIDsSkipsMissing(t *testing.T) {
	repo := NewLiveScoreRepository()
	ctx := t.Context()

	require.NoError(t, repo.Upsert(ctx, livescore.LiveScore{EventID: 1, HomeScore: 7}))
	require.NoError(t, repo.Upsert(ctx, livescore.LiveScore{EventID: 2, HomeScore: 3}))

	scores, err := repo.ListByEventIDs(ctx, []int64{1, 3})
	require.NoError(t, err)
	require.Len(t, scores, 1)
	require.Equal(t, 7, scores[1].HomeScore)
	require.NotContains(t, scores, int64(3))
}
