package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Amund211/rlstats/internal/adapters/skillrepository"
	"github.com/Amund211/rlstats/internal/domain"
	"github.com/Amund211/rlstats/internal/logging"
	"github.com/Amund211/rlstats/internal/reporting"
	"github.com/Amund211/rlstats/rocketleague"
)

var ErrNoPlayerIDs = errors.New("no player ids")

// PlayerSkillsProvider is implemented by *rocketleague.Client
type PlayerSkillsProvider interface {
	GetPlayerSkills(ctx context.Context, platform rocketleague.Platform, playerID rocketleague.PlayerID) ([]rocketleague.PlayerSkillResponse, error)
	GetPlayersSkills(ctx context.Context, platform rocketleague.Platform, playerIDs []rocketleague.PlayerID) ([]rocketleague.PlayerSkillResponse, error)
}

// RecordPlayerSkills fetches the current skills of the players and stores them as snapshots
type RecordPlayerSkills func(ctx context.Context, platform rocketleague.Platform, playerIDs []rocketleague.PlayerID) ([]domain.SkillSnapshot, error)

func BuildRecordPlayerSkills(
	provider PlayerSkillsProvider,
	repo skillrepository.SkillRepository,
	nowFunc func() time.Time,
) RecordPlayerSkills {
	return func(ctx context.Context, platform rocketleague.Platform, playerIDs []rocketleague.PlayerID) ([]domain.SkillSnapshot, error) {
		ctx = reporting.AddExtrasToContext(ctx, map[string]string{
			"playerCount": strconv.Itoa(len(playerIDs)),
		})
		ctx = logging.AddMetaToContext(ctx,
			slog.String("platform", platform.Code()),
			slog.Int("playerCount", len(playerIDs)),
		)
		logger := logging.FromContext(ctx)

		var responses []rocketleague.PlayerSkillResponse
		var err error
		switch len(playerIDs) {
		case 0:
			return nil, ErrNoPlayerIDs
		case 1:
			responses, err = provider.GetPlayerSkills(ctx, platform, playerIDs[0])
		default:
			responses, err = provider.GetPlayersSkills(ctx, platform, playerIDs)
		}
		if err != nil {
			// NOTE: The client handles its own error reporting
			return nil, fmt.Errorf("could not get player skills: %w", err)
		}

		snapshots := domain.SnapshotsFromPlayerSkills(platform, responses, nowFunc())

		// Ignore cancellations from the caller and try to store the data anyway
		storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		err = repo.StoreSnapshots(storeCtx, snapshots)
		if err != nil {
			logger.Error("failed to store skill snapshots", "error", err.Error(), "count", len(snapshots))
			reporting.Report(ctx, fmt.Errorf("failed to store skill snapshots: %w", err), map[string]string{
				"platform": platform.Code(),
			})

			// NOTE: We still return the snapshots even though storing failed
		}

		return snapshots, nil
	}
}
