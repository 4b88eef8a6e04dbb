package rocketleague

// PlayerID is the platform specific identifier of a player. It is passed to
// the API as is.
type PlayerID = string

// Stat names a tracked stat on the stat leaderboards.
type Stat string

const (
	StatAssists Stat = "assists"
	StatGoals   Stat = "goals"
	StatMVPs    Stat = "mvps"
	StatSaves   Stat = "saves"
	StatShots   Stat = "shots"
	StatWins    Stat = "wins"
)

// Stats returns every stat with a leaderboard
func Stats() []Stat {
	return []Stat{StatAssists, StatGoals, StatMVPs, StatSaves, StatShots, StatWins}
}

// Playlist is the numeric id of a game mode in the ranking system.
type Playlist int64

const (
	PlaylistRankedDuel         Playlist = 10
	PlaylistRankedDoubles      Playlist = 11
	PlaylistRankedSoloStandard Playlist = 12
	PlaylistRankedStandard     Playlist = 13
)

// Optional fields are pointers and are nil when the API omitted them.

type PlayerSkillResponse struct {
	UserID       *string                 `json:"user_id,omitempty"`
	UserName     string                  `json:"user_name"`
	PlayerSkills []PlaylistSkillResponse `json:"player_skills"`
}

type PlaylistSkillResponse struct {
	Playlist int64  `json:"playlist"`
	Tier     *int64 `json:"tier,omitempty"`
	TierMax  *int64 `json:"tier_max,omitempty"`
	Division *int64 `json:"division,omitempty"`
	Skill    *int64 `json:"skill,omitempty"`

	// Mean and uncertainty of the skill rating distribution
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`

	WinStreak     *int64 `json:"win_streak,omitempty"`
	MatchesPlayed *int64 `json:"matches_played,omitempty"`
}

type PlayerTitlesResponse struct {
	Titles []string `json:"titles"`
}

type PopulationResponse struct {
	XboxOne []PlatformPopulationResponse `json:"XboxOne"`
	Switch  []PlatformPopulationResponse `json:"Switch"`
	Steam   []PlatformPopulationResponse `json:"Steam"`
	PS4     []PlatformPopulationResponse `json:"PS4"`
}

type PlatformPopulationResponse struct {
	Playlist   int64 `json:"PlaylistID"`
	NumPlayers int64 `json:"NumPlayers"`
}

type RegionResponse struct {
	Platforms string `json:"platforms"`
	Region    string `json:"region"`
}

type SkillLeaderboardResponse struct {
	UserID   *string `json:"user_id,omitempty"`
	UserName string  `json:"user_name"`
	Tier     int64   `json:"tier"`
	Skill    int64   `json:"skill"`
}

type StatLeaderboardResponse struct {
	StatType string               `json:"stat_type"`
	Stats    []PlayerStatResponse `json:"stats"`
}

type PlayerStatResponse struct {
	UserID   *string `json:"user_id,omitempty"`
	UserName string  `json:"user_name"`
	Assists  *int64  `json:"assists,omitempty"`
	Goals    *int64  `json:"goals,omitempty"`
	MVPs     *int64  `json:"mvps,omitempty"`
	Saves    *int64  `json:"saves,omitempty"`
	Shots    *int64  `json:"shots,omitempty"`
	Wins     *int64  `json:"wins,omitempty"`
}

// StatValueForUserResponse is returned when querying a single user. The API
// returns the value as a string here, unlike StatValueForUserMultipleResponse.
type StatValueForUserResponse struct {
	UserID   *string `json:"user_id,omitempty"`
	UserName *string `json:"user_name,omitempty"`
	StatType string  `json:"stat_type"`
	Value    string  `json:"value"`
}

type StatValueForUserMultipleResponse struct {
	UserID   *string `json:"user_id,omitempty"`
	UserName *string `json:"user_name,omitempty"`
	StatType string  `json:"stat_type"`
	Value    int64   `json:"value"`
}
