package skillrepository

import (
	"testing"
	"time"

	"github.com/Amund211/rlstats/internal/domain"
	"github.com/Amund211/rlstats/rocketleague"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func timeInTest() time.Time {
	return time.Date(2026, time.February, 3, 4, 5, 6, 0, time.UTC)
}

func newSnapshot(platform rocketleague.Platform, playerID string, playlist rocketleague.Playlist, queriedAt time.Time) domain.SkillSnapshot {
	return domain.SkillSnapshot{
		QueriedAt: queriedAt,
		Platform:  platform,
		PlayerID:  playerID,
		UserName:  "name of " + playerID,
		Playlist:  playlist,
		Tier:      ptr(int64(10)),
		Skill:     ptr(int64(900 + int64(playlist))),
		Mu:        30.5,
		Sigma:     2.25,
	}
}

func requireEqualSnapshots(t *testing.T, expected, actual []domain.SkillSnapshot) {
	t.Helper()

	require.Len(t, actual, len(expected))
	for i := range expected {
		// Time can get truncated when round-tripping to the database
		require.WithinDuration(t, expected[i].QueriedAt, actual[i].QueriedAt, time.Millisecond)

		e, a := expected[i], actual[i]
		e.QueriedAt, a.QueriedAt = time.Time{}, time.Time{}
		require.Equal(t, e, a)
	}
}

// testRepository runs the behaviour shared by every SkillRepository implementation
func testRepository(t *testing.T, newRepo func(t *testing.T) SkillRepository) {
	t.Helper()

	start := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()

		repo := newRepo(t)
		history, err := repo.GetHistory(t.Context(), rocketleague.Steam, "1", start, start.Add(time.Hour))
		require.NoError(t, err)
		require.NotNil(t, history)
		require.Empty(t, history)
	})

	t.Run("store nothing", func(t *testing.T) {
		t.Parallel()

		repo := newRepo(t)
		require.NoError(t, repo.StoreSnapshots(t.Context(), nil))
		require.NoError(t, repo.StoreSnapshots(t.Context(), []domain.SkillSnapshot{}))
	})

	t.Run("history is filtered and ordered", func(t *testing.T) {
		t.Parallel()

		repo := newRepo(t)
		ctx := t.Context()

		first := newSnapshot(rocketleague.Steam, "1", rocketleague.PlaylistRankedDoubles, start.Add(10*time.Minute))
		second := newSnapshot(rocketleague.Steam, "1", rocketleague.PlaylistRankedDuel, start.Add(20*time.Minute))
		third := newSnapshot(rocketleague.Steam, "1", rocketleague.PlaylistRankedDoubles, start.Add(20*time.Minute))
		third.Tier = nil
		third.WinStreak = ptr(int64(-3))
		beforeInterval := newSnapshot(rocketleague.Steam, "1", rocketleague.PlaylistRankedDuel, start.Add(-time.Minute))
		afterInterval := newSnapshot(rocketleague.Steam, "1", rocketleague.PlaylistRankedDuel, start.Add(2*time.Hour))
		otherPlayer := newSnapshot(rocketleague.Steam, "2", rocketleague.PlaylistRankedDuel, start.Add(10*time.Minute))
		otherPlatform := newSnapshot(rocketleague.Xbox, "1", rocketleague.PlaylistRankedDuel, start.Add(10*time.Minute))

		require.NoError(t, repo.StoreSnapshots(ctx, []domain.SkillSnapshot{third, otherPlayer, beforeInterval}))
		require.NoError(t, repo.StoreSnapshots(ctx, []domain.SkillSnapshot{afterInterval, second, first, otherPlatform}))

		history, err := repo.GetHistory(ctx, rocketleague.Steam, "1", start, start.Add(time.Hour))
		require.NoError(t, err)
		requireEqualSnapshots(t, []domain.SkillSnapshot{first, second, third}, history)

		history, err = repo.GetHistory(ctx, rocketleague.Xbox, "1", start, start.Add(time.Hour))
		require.NoError(t, err)
		requireEqualSnapshots(t, []domain.SkillSnapshot{otherPlatform}, history)
	})

	t.Run("invalid interval", func(t *testing.T) {
		t.Parallel()

		repo := newRepo(t)
		_, err := repo.GetHistory(t.Context(), rocketleague.Steam, "1", start, start.Add(-time.Second))
		require.ErrorIs(t, err, domain.ErrInvalidInterval)
	})
}
