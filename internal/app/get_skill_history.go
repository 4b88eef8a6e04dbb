package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Amund211/rlstats/internal/adapters/skillrepository"
	"github.com/Amund211/rlstats/internal/domain"
	"github.com/Amund211/rlstats/rocketleague"
)

// GetSkillHistory returns the stored snapshots of a player in [start, end].
// A zero end means now.
type GetSkillHistory func(
	ctx context.Context,
	platform rocketleague.Platform,
	playerID rocketleague.PlayerID,
	start, end time.Time,
) ([]domain.SkillSnapshot, error)

func BuildGetSkillHistory(repo skillrepository.SkillRepository, nowFunc func() time.Time) GetSkillHistory {
	return func(
		ctx context.Context,
		platform rocketleague.Platform,
		playerID rocketleague.PlayerID,
		start, end time.Time,
	) ([]domain.SkillSnapshot, error) {
		if end.IsZero() {
			end = nowFunc()
		}

		if start.After(end) {
			return nil, fmt.Errorf("%w: start (%s) is after end (%s)", domain.ErrInvalidInterval, start.Format(time.RFC3339), end.Format(time.RFC3339))
		}

		history, err := repo.GetHistory(ctx, platform, playerID, start, end)
		if err != nil {
			// NOTE: SkillRepository implementations handle their own error reporting
			return nil, fmt.Errorf("failed to get skill history: %w", err)
		}

		return history, nil
	}
}
