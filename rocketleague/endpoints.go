package rocketleague

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Amund211/rlstats/internal/reporting"
)

// buildPath joins the given segments into an absolute path below /api/v1.
// Each segment is escaped as a single path segment.
func buildPath(segments ...string) string {
	var sb strings.Builder
	sb.WriteString("/api/v1")
	for _, segment := range segments {
		sb.WriteByte('/')
		sb.WriteString(url.PathEscape(segment))
	}
	return sb.String()
}

// platformCode is the path segment of the platform. Values outside the declared constants are rejected
// before anything is sent.
func platformCode(platform Platform) (string, error) {
	code := platform.Code()
	if code == "" {
		return "", fmt.Errorf("%w: %w: %s", ErrInternal, ErrUnknownPlatform, platform)
	}
	return code, nil
}

func decodePlayerSkills(data []byte) ([]PlayerSkillResponse, error) {
	return decodeList(data, (*wirePlayerSkill).toResponse)
}

// GetPlayerSkills gets the skill ratings of a player in every playlist.
func (c *Client) GetPlayerSkills(ctx context.Context, platform Platform, playerID PlayerID) ([]PlayerSkillResponse, error) {
	code, err := platformCode(platform)
	if err != nil {
		return nil, err
	}

	ctx = reporting.SetPlayerInContext(ctx, code, playerID)
	path := buildPath(code, "playerskills", playerID)
	return execute(ctx, c, "GetPlayerSkills", http.MethodGet, path, nil, decodePlayerSkills)
}

// GetPlayersSkills gets the skill ratings of several players in one request.
func (c *Client) GetPlayersSkills(ctx context.Context, platform Platform, playerIDs []PlayerID) ([]PlayerSkillResponse, error) {
	code, err := platformCode(platform)
	if err != nil {
		return nil, err
	}

	body, err := marshalPlayerIDs(playerIDs)
	if err != nil {
		return nil, err
	}

	path := buildPath(code, "playerskills")
	return execute(ctx, c, "GetPlayersSkills", http.MethodPost, path, body, decodePlayerSkills)
}

func (c *Client) GetPlayerTitles(ctx context.Context, platform Platform, playerID PlayerID) (PlayerTitlesResponse, error) {
	code, err := platformCode(platform)
	if err != nil {
		return PlayerTitlesResponse{}, err
	}

	ctx = reporting.SetPlayerInContext(ctx, code, playerID)
	path := buildPath(code, "playertitles", playerID)
	return execute(ctx, c, "GetPlayerTitles", http.MethodGet, path, nil, func(data []byte) (PlayerTitlesResponse, error) {
		return decodeObject(data, (*wirePlayerTitles).toResponse)
	})
}

// GetPopulation gets the number of players currently online per platform and playlist.
func (c *Client) GetPopulation(ctx context.Context) (PopulationResponse, error) {
	path := buildPath("population")
	return execute(ctx, c, "GetPopulation", http.MethodGet, path, nil, func(data []byte) (PopulationResponse, error) {
		return decodeObject(data, (*wirePopulation).toResponse)
	})
}

func (c *Client) GetRegions(ctx context.Context) ([]RegionResponse, error) {
	path := buildPath("regions")
	return execute(ctx, c, "GetRegions", http.MethodGet, path, nil, func(data []byte) ([]RegionResponse, error) {
		return decodeList(data, (*wireRegion).toResponse)
	})
}

func (c *Client) GetSkillLeaderboard(ctx context.Context, platform Platform, playlist Playlist) ([]SkillLeaderboardResponse, error) {
	code, err := platformCode(platform)
	if err != nil {
		return nil, err
	}

	path := buildPath(code, "leaderboard", "skills", strconv.FormatInt(int64(playlist), 10))
	return execute(ctx, c, "GetSkillLeaderboard", http.MethodGet, path, nil, func(data []byte) ([]SkillLeaderboardResponse, error) {
		return decodeList(data, (*wireSkillLeaderboardEntry).toResponse)
	})
}

func decodeStatLeaderboards(data []byte) ([]StatLeaderboardResponse, error) {
	return decodeList(data, (*wireStatLeaderboard).toResponse)
}

// GetStatLeaderboards gets the leaderboards of every stat.
func (c *Client) GetStatLeaderboards(ctx context.Context, platform Platform) ([]StatLeaderboardResponse, error) {
	code, err := platformCode(platform)
	if err != nil {
		return nil, err
	}

	path := buildPath(code, "leaderboard", "stats")
	return execute(ctx, c, "GetStatLeaderboards", http.MethodGet, path, nil, decodeStatLeaderboards)
}

func (c *Client) GetStatLeaderboard(ctx context.Context, platform Platform, stat Stat) ([]StatLeaderboardResponse, error) {
	code, err := platformCode(platform)
	if err != nil {
		return nil, err
	}

	path := buildPath(code, "leaderboard", "stats", string(stat))
	return execute(ctx, c, "GetStatLeaderboard", http.MethodGet, path, nil, decodeStatLeaderboards)
}

func (c *Client) GetStatValueForUser(ctx context.Context, platform Platform, stat Stat, playerID PlayerID) ([]StatValueForUserResponse, error) {
	code, err := platformCode(platform)
	if err != nil {
		return nil, err
	}

	ctx = reporting.SetPlayerInContext(ctx, code, playerID)
	path := buildPath(code, "leaderboard", "stats", string(stat), playerID)
	return execute(ctx, c, "GetStatValueForUser", http.MethodGet, path, nil, func(data []byte) ([]StatValueForUserResponse, error) {
		return decodeList(data, (*wireStatValueForUser).toResponse)
	})
}

// GetStatValuesForUsers gets the value of a stat for several players in one request.
//
// NOTE: The API returns the value as an integer here, but as a string for single players.
func (c *Client) GetStatValuesForUsers(ctx context.Context, platform Platform, stat Stat, playerIDs []PlayerID) ([]StatValueForUserMultipleResponse, error) {
	code, err := platformCode(platform)
	if err != nil {
		return nil, err
	}

	body, err := marshalPlayerIDs(playerIDs)
	if err != nil {
		return nil, err
	}

	path := buildPath(code, "leaderboard", "stats", string(stat))
	return execute(ctx, c, "GetStatValuesForUsers", http.MethodPost, path, body, func(data []byte) ([]StatValueForUserMultipleResponse, error) {
		return decodeList(data, (*wireStatValueForUserMultiple).toResponse)
	})
}
