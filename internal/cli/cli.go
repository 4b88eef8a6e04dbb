// Package cli contains the command tree of the rlstats command line tool.
package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/Amund211/rlstats/internal/adapters/skillrepository"
	"github.com/Amund211/rlstats/internal/app"
	"github.com/Amund211/rlstats/rocketleague"
	"github.com/alecthomas/kong"
)

// Globals are the flags shared by every command
type Globals struct {
	Platform string        `help:"Platform to query (steam, xbox or playstation)" default:"steam"`
	RPS      float64       `name:"rps" help:"Maximum requests per second sent to the API (0 disables the limit)" default:"2"`
	Timeout  time.Duration `help:"Timeout for the whole command" default:"30s"`
	Indent   bool          `help:"Indent the JSON output"`
}

// CLI represents the complete command structure of rlstats
type CLI struct {
	Globals

	Skills           SkillsCmd           `cmd:"" help:"Get the skill ratings of one or more players"`
	Titles           TitlesCmd           `cmd:"" help:"Get the titles of a player"`
	Population       PopulationCmd       `cmd:"" help:"Get the number of players online per platform and playlist"`
	Regions          RegionsCmd          `cmd:"" help:"List the server regions"`
	SkillLeaderboard SkillLeaderboardCmd `cmd:"" help:"Get the skill leaderboard of a playlist"`
	StatLeaderboard  StatLeaderboardCmd  `cmd:"" help:"Get the leaderboard of a stat, or of every stat"`
	Stat             StatCmd             `cmd:"" help:"Get the value of a stat for one or more players"`
	Record           RecordCmd           `cmd:"" help:"Fetch and store skill snapshots of one or more players"`
	History          HistoryCmd          `cmd:"" help:"Show the stored skill history of a player"`
}

// Runtime holds the dependencies commands are run with
type Runtime struct {
	Ctx      context.Context
	Client   *rocketleague.Client
	Platform rocketleague.Platform
	Out      io.Writer
	Indent   bool
	Now      func() time.Time

	// Connecting to the database is deferred until a command needs it
	SkillRepository func(ctx context.Context) (skillrepository.SkillRepository, error)
}

func NewParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	return kong.New(cli, append([]kong.Option{
		kong.Name("rlstats"),
		kong.Description("Query the Rocket League statistics API."),
		kong.UsageOnError(),
	}, options...)...)
}

func parseStat(raw string) (rocketleague.Stat, error) {
	stat := rocketleague.Stat(raw)
	if !slices.Contains(rocketleague.Stats(), stat) {
		return "", fmt.Errorf("unknown stat %q (expected one of %v)", raw, rocketleague.Stats())
	}
	return stat, nil
}

type SkillsCmd struct {
	PlayerIDs []string `arg:"" name:"player-id" help:"Platform specific player ids"`
}

func (c *SkillsCmd) Run(rt *Runtime) error {
	var skills []rocketleague.PlayerSkillResponse
	var err error
	if len(c.PlayerIDs) == 1 {
		skills, err = rt.Client.GetPlayerSkills(rt.Ctx, rt.Platform, c.PlayerIDs[0])
	} else {
		skills, err = rt.Client.GetPlayersSkills(rt.Ctx, rt.Platform, c.PlayerIDs)
	}
	if err != nil {
		return fmt.Errorf("failed to get skills: %w", err)
	}
	return writeJSON(rt.Out, skills, rt.Indent)
}

type TitlesCmd struct {
	PlayerID string `arg:"" help:"Platform specific player id"`
}

func (c *TitlesCmd) Run(rt *Runtime) error {
	titles, err := rt.Client.GetPlayerTitles(rt.Ctx, rt.Platform, c.PlayerID)
	if err != nil {
		return fmt.Errorf("failed to get titles: %w", err)
	}
	return writeJSON(rt.Out, titles, rt.Indent)
}

type PopulationCmd struct{}

func (c *PopulationCmd) Run(rt *Runtime) error {
	population, err := rt.Client.GetPopulation(rt.Ctx)
	if err != nil {
		return fmt.Errorf("failed to get population: %w", err)
	}
	return writeJSON(rt.Out, population, rt.Indent)
}

type RegionsCmd struct{}

func (c *RegionsCmd) Run(rt *Runtime) error {
	regions, err := rt.Client.GetRegions(rt.Ctx)
	if err != nil {
		return fmt.Errorf("failed to get regions: %w", err)
	}
	return writeJSON(rt.Out, regions, rt.Indent)
}

type SkillLeaderboardCmd struct {
	Playlist int64 `arg:"" help:"Playlist id, e.g. 10 (duel), 11 (doubles) or 13 (standard)"`
}

func (c *SkillLeaderboardCmd) Run(rt *Runtime) error {
	leaderboard, err := rt.Client.GetSkillLeaderboard(rt.Ctx, rt.Platform, rocketleague.Playlist(c.Playlist))
	if err != nil {
		return fmt.Errorf("failed to get skill leaderboard: %w", err)
	}
	return writeJSON(rt.Out, leaderboard, rt.Indent)
}

type StatLeaderboardCmd struct {
	Stat string `arg:"" optional:"" help:"Stat to get the leaderboard of. All stats when omitted."`
}

func (c *StatLeaderboardCmd) Run(rt *Runtime) error {
	var leaderboards []rocketleague.StatLeaderboardResponse
	if c.Stat == "" {
		var err error
		leaderboards, err = rt.Client.GetStatLeaderboards(rt.Ctx, rt.Platform)
		if err != nil {
			return fmt.Errorf("failed to get stat leaderboards: %w", err)
		}
	} else {
		stat, err := parseStat(c.Stat)
		if err != nil {
			return err
		}
		leaderboards, err = rt.Client.GetStatLeaderboard(rt.Ctx, rt.Platform, stat)
		if err != nil {
			return fmt.Errorf("failed to get stat leaderboard: %w", err)
		}
	}
	return writeJSON(rt.Out, leaderboards, rt.Indent)
}

type StatCmd struct {
	Stat      string   `arg:"" help:"Stat to get the value of"`
	PlayerIDs []string `arg:"" name:"player-id" help:"Platform specific player ids"`
}

func (c *StatCmd) Run(rt *Runtime) error {
	stat, err := parseStat(c.Stat)
	if err != nil {
		return err
	}

	if len(c.PlayerIDs) == 1 {
		values, err := rt.Client.GetStatValueForUser(rt.Ctx, rt.Platform, stat, c.PlayerIDs[0])
		if err != nil {
			return fmt.Errorf("failed to get stat value: %w", err)
		}
		return writeJSON(rt.Out, values, rt.Indent)
	}

	values, err := rt.Client.GetStatValuesForUsers(rt.Ctx, rt.Platform, stat, c.PlayerIDs)
	if err != nil {
		return fmt.Errorf("failed to get stat values: %w", err)
	}
	return writeJSON(rt.Out, values, rt.Indent)
}

type RecordCmd struct {
	PlayerIDs []string `arg:"" name:"player-id" help:"Platform specific player ids"`
}

func (c *RecordCmd) Run(rt *Runtime) error {
	repo, err := rt.SkillRepository(rt.Ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize skill repository: %w", err)
	}

	recordPlayerSkills := app.BuildRecordPlayerSkills(rt.Client, repo, rt.Now)

	snapshots, err := recordPlayerSkills(rt.Ctx, rt.Platform, c.PlayerIDs)
	if err != nil {
		return fmt.Errorf("failed to record skills: %w", err)
	}
	return writeJSON(rt.Out, snapshotsToOutput(snapshots), rt.Indent)
}

type HistoryCmd struct {
	PlayerID string        `arg:"" help:"Platform specific player id"`
	Since    time.Duration `help:"How far back to look" default:"720h"`
}

func (c *HistoryCmd) Run(rt *Runtime) error {
	if c.Since < 0 {
		return fmt.Errorf("--since must not be negative")
	}

	repo, err := rt.SkillRepository(rt.Ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize skill repository: %w", err)
	}

	getSkillHistory := app.BuildGetSkillHistory(repo, rt.Now)

	now := rt.Now()
	history, err := getSkillHistory(rt.Ctx, rt.Platform, c.PlayerID, now.Add(-c.Since), now)
	if err != nil {
		return fmt.Errorf("failed to get skill history: %w", err)
	}
	return writeJSON(rt.Out, snapshotsToOutput(history), rt.Indent)
}
