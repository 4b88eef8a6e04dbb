package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/Amund211/rlstats/internal/domain"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

type snapshotOutput struct {
	QueriedAt     time.Time `json:"queried_at"`
	Platform      string    `json:"platform"`
	PlayerID      string    `json:"player_id"`
	UserName      string    `json:"user_name"`
	Playlist      int64     `json:"playlist"`
	Tier          *int64    `json:"tier,omitempty"`
	TierMax       *int64    `json:"tier_max,omitempty"`
	Division      *int64    `json:"division,omitempty"`
	Skill         *int64    `json:"skill,omitempty"`
	Mu            float64   `json:"mu"`
	Sigma         float64   `json:"sigma"`
	WinStreak     *int64    `json:"win_streak,omitempty"`
	MatchesPlayed *int64    `json:"matches_played,omitempty"`
}

func snapshotsToOutput(snapshots []domain.SkillSnapshot) []snapshotOutput {
	output := make([]snapshotOutput, 0, len(snapshots))
	for _, snapshot := range snapshots {
		output = append(output, snapshotOutput{
			QueriedAt:     snapshot.QueriedAt,
			Platform:      snapshot.Platform.Code(),
			PlayerID:      snapshot.PlayerID,
			UserName:      snapshot.UserName,
			Playlist:      int64(snapshot.Playlist),
			Tier:          snapshot.Tier,
			TierMax:       snapshot.TierMax,
			Division:      snapshot.Division,
			Skill:         snapshot.Skill,
			Mu:            snapshot.Mu,
			Sigma:         snapshot.Sigma,
			WinStreak:     snapshot.WinStreak,
			MatchesPlayed: snapshot.MatchesPlayed,
		})
	}
	return output
}

func writeJSON(w io.Writer, v any, indent bool) error {
	var opts []json.Options
	if indent {
		opts = append(opts, jsontext.WithIndent("  "))
	}

	if err := json.MarshalWrite(w, v, opts...); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
