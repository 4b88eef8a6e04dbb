package skillrepository

import (
	"context"
	"time"

	"github.com/Amund211/rlstats/internal/domain"
	"github.com/Amund211/rlstats/rocketleague"
)

type SkillRepository interface {
	StoreSnapshots(ctx context.Context, snapshots []domain.SkillSnapshot) error
	// GetHistory returns the snapshots of a player queried within [start, end],
	// ordered by queried_at, then playlist
	GetHistory(ctx context.Context, platform rocketleague.Platform, playerID rocketleague.PlayerID, start, end time.Time) ([]domain.SkillSnapshot, error)
}
