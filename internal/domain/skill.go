package domain

import (
	"time"

	"github.com/Amund211/rlstats/rocketleague"
)

// SkillSnapshot is the skill rating of a player in one playlist at a point in time
type SkillSnapshot struct {
	QueriedAt time.Time

	Platform rocketleague.Platform
	PlayerID rocketleague.PlayerID
	UserName string

	Playlist rocketleague.Playlist
	Tier     *int64
	TierMax  *int64
	Division *int64
	Skill    *int64

	Mu    float64
	Sigma float64

	WinStreak     *int64
	MatchesPlayed *int64
}

// SnapshotsFromPlayerSkills flattens the responses into one snapshot per player and playlist.
//
// Players without a user id are identified by their user name.
func SnapshotsFromPlayerSkills(platform rocketleague.Platform, responses []rocketleague.PlayerSkillResponse, queriedAt time.Time) []SkillSnapshot {
	snapshots := []SkillSnapshot{}
	for _, response := range responses {
		playerID := response.UserName
		if response.UserID != nil {
			playerID = *response.UserID
		}

		for _, skill := range response.PlayerSkills {
			snapshots = append(snapshots, SkillSnapshot{
				QueriedAt: queriedAt,

				Platform: platform,
				PlayerID: playerID,
				UserName: response.UserName,

				Playlist: rocketleague.Playlist(skill.Playlist),
				Tier:     skill.Tier,
				TierMax:  skill.TierMax,
				Division: skill.Division,
				Skill:    skill.Skill,

				Mu:    skill.Mu,
				Sigma: skill.Sigma,

				WinStreak:     skill.WinStreak,
				MatchesPlayed: skill.MatchesPlayed,
			})
		}
	}
	return snapshots
}
