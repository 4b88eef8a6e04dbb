package rocketleague

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-playground/validator/v10"
)

// Wire representations of the API responses.
//
// Required fields are pointers so that an omitted field can be told apart from
// a zero value. They are checked by the validator before being converted to the
// exported response types.

type wirePlayerSkill struct {
	UserID       *string             `json:"user_id"`
	UserName     *string             `json:"user_name" validate:"required"`
	PlayerSkills []wirePlaylistSkill `json:"player_skills" validate:"required,dive"`
}

type wirePlaylistSkill struct {
	Playlist      *int64   `json:"playlist" validate:"required"`
	Tier          *int64   `json:"tier"`
	TierMax       *int64   `json:"tier_max"`
	Division      *int64   `json:"division"`
	Skill         *int64   `json:"skill"`
	Mu            *float64 `json:"mu" validate:"required"`
	Sigma         *float64 `json:"sigma" validate:"required"`
	WinStreak     *int64   `json:"win_streak"`
	MatchesPlayed *int64   `json:"matches_played"`
}

type wirePlayerTitles struct {
	Titles []string `json:"titles" validate:"required"`
}

type wirePopulation struct {
	XboxOne []wirePlatformPopulation `json:"XboxOne" validate:"required,dive"`
	Switch  []wirePlatformPopulation `json:"Switch" validate:"required,dive"`
	Steam   []wirePlatformPopulation `json:"Steam" validate:"required,dive"`
	PS4     []wirePlatformPopulation `json:"PS4" validate:"required,dive"`
}

type wirePlatformPopulation struct {
	Playlist   *int64 `json:"PlaylistID" validate:"required"`
	NumPlayers *int64 `json:"NumPlayers" validate:"required"`
}

type wireRegion struct {
	Platforms *string `json:"platforms" validate:"required"`
	Region    *string `json:"region" validate:"required"`
}

type wireSkillLeaderboardEntry struct {
	UserID   *string `json:"user_id"`
	UserName *string `json:"user_name" validate:"required"`
	Tier     *int64  `json:"tier" validate:"required"`
	Skill    *int64  `json:"skill" validate:"required"`
}

type wireStatLeaderboard struct {
	StatType *string          `json:"stat_type" validate:"required"`
	Stats    []wirePlayerStat `json:"stats" validate:"required,dive"`
}

type wirePlayerStat struct {
	UserID   *string `json:"user_id"`
	UserName *string `json:"user_name" validate:"required"`
	Assists  *int64  `json:"assists"`
	Goals    *int64  `json:"goals"`
	MVPs     *int64  `json:"mvps"`
	Saves    *int64  `json:"saves"`
	Shots    *int64  `json:"shots"`
	Wins     *int64  `json:"wins"`
}

type wireStatValueForUser struct {
	UserID   *string `json:"user_id"`
	UserName *string `json:"user_name"`
	StatType *string `json:"stat_type" validate:"required"`
	Value    *string `json:"value" validate:"required"`
}

type wireStatValueForUserMultiple struct {
	UserID   *string `json:"user_id"`
	UserName *string `json:"user_name"`
	StatType *string `json:"stat_type" validate:"required"`
	Value    *int64  `json:"value" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report the wire names of the fields in validation errors
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

func validationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: failed to validate response: %s", ErrParse, err.Error())
	}

	fields := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		// Strip the name of the wire type
		_, namespace, _ := strings.Cut(fieldErr.Namespace(), ".")
		fields = append(fields, fmt.Sprintf("%s (%s)", namespace, fieldErr.Tag()))
	}

	return fmt.Errorf("%w: invalid fields in response: %s", ErrParse, strings.Join(fields, ", "))
}

func decodeObject[W any, T any](data []byte, convert func(*W) T) (T, error) {
	var empty T

	var wire W
	if err := json.Unmarshal(data, &wire); err != nil {
		return empty, fmt.Errorf("%w: failed to unmarshal response: %s", ErrParse, err.Error())
	}

	if err := validate.Struct(&wire); err != nil {
		return empty, validationError(err)
	}

	return convert(&wire), nil
}

func decodeList[W any, T any](data []byte, convert func(*W) T) ([]T, error) {
	var wire []W
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal response: %s", ErrParse, err.Error())
	}
	if wire == nil {
		return nil, fmt.Errorf("%w: expected a JSON array, got null", ErrParse)
	}

	result := make([]T, 0, len(wire))
	for i := range wire {
		if err := validate.Struct(&wire[i]); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, validationError(err))
		}
		result = append(result, convert(&wire[i]))
	}

	return result, nil
}

func convertSlice[W any, T any](wire []W, convert func(*W) T) []T {
	result := make([]T, 0, len(wire))
	for i := range wire {
		result = append(result, convert(&wire[i]))
	}
	return result
}

func (w *wirePlayerSkill) toResponse() PlayerSkillResponse {
	return PlayerSkillResponse{
		UserID:       w.UserID,
		UserName:     *w.UserName,
		PlayerSkills: convertSlice(w.PlayerSkills, (*wirePlaylistSkill).toResponse),
	}
}

func (w *wirePlaylistSkill) toResponse() PlaylistSkillResponse {
	return PlaylistSkillResponse{
		Playlist:      *w.Playlist,
		Tier:          w.Tier,
		TierMax:       w.TierMax,
		Division:      w.Division,
		Skill:         w.Skill,
		Mu:            *w.Mu,
		Sigma:         *w.Sigma,
		WinStreak:     w.WinStreak,
		MatchesPlayed: w.MatchesPlayed,
	}
}

func (w *wirePlayerTitles) toResponse() PlayerTitlesResponse {
	return PlayerTitlesResponse{Titles: w.Titles}
}

func (w *wirePopulation) toResponse() PopulationResponse {
	return PopulationResponse{
		XboxOne: convertSlice(w.XboxOne, (*wirePlatformPopulation).toResponse),
		Switch:  convertSlice(w.Switch, (*wirePlatformPopulation).toResponse),
		Steam:   convertSlice(w.Steam, (*wirePlatformPopulation).toResponse),
		PS4:     convertSlice(w.PS4, (*wirePlatformPopulation).toResponse),
	}
}

func (w *wirePlatformPopulation) toResponse() PlatformPopulationResponse {
	return PlatformPopulationResponse{
		Playlist:   *w.Playlist,
		NumPlayers: *w.NumPlayers,
	}
}

func (w *wireRegion) toResponse() RegionResponse {
	return RegionResponse{
		Platforms: *w.Platforms,
		Region:    *w.Region,
	}
}

func (w *wireSkillLeaderboardEntry) toResponse() SkillLeaderboardResponse {
	return SkillLeaderboardResponse{
		UserID:   w.UserID,
		UserName: *w.UserName,
		Tier:     *w.Tier,
		Skill:    *w.Skill,
	}
}

func (w *wireStatLeaderboard) toResponse() StatLeaderboardResponse {
	return StatLeaderboardResponse{
		StatType: *w.StatType,
		Stats:    convertSlice(w.Stats, (*wirePlayerStat).toResponse),
	}
}

func (w *wirePlayerStat) toResponse() PlayerStatResponse {
	return PlayerStatResponse{
		UserID:   w.UserID,
		UserName: *w.UserName,
		Assists:  w.Assists,
		Goals:    w.Goals,
		MVPs:     w.MVPs,
		Saves:    w.Saves,
		Shots:    w.Shots,
		Wins:     w.Wins,
	}
}

func (w *wireStatValueForUser) toResponse() StatValueForUserResponse {
	return StatValueForUserResponse{
		UserID:   w.UserID,
		UserName: w.UserName,
		StatType: *w.StatType,
		Value:    *w.Value,
	}
}

func (w *wireStatValueForUserMultiple) toResponse() StatValueForUserMultipleResponse {
	return StatValueForUserMultipleResponse{
		UserID:   w.UserID,
		UserName: w.UserName,
		StatType: *w.StatType,
		Value:    *w.Value,
	}
}

type playerIDsRequest struct {
	PlayerIDs []PlayerID `json:"player_ids"`
}

func marshalPlayerIDs(playerIDs []PlayerID) ([]byte, error) {
	if playerIDs == nil {
		playerIDs = []PlayerID{}
	}
	data, err := json.Marshal(playerIDsRequest{PlayerIDs: playerIDs})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal player ids: %s", ErrInternal, err.Error())
	}
	return data, nil
}
