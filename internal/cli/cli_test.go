package cli_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Amund211/rlstats/internal/adapters/skillrepository"
	"github.com/Amund211/rlstats/internal/cli"
	"github.com/Amund211/rlstats/internal/fixtures"
	"github.com/Amund211/rlstats/rocketleague"
	"github.com/alecthomas/kong"
	"github.com/go-json-experiment/json"
	"github.com/stretchr/testify/require"
)

func parseCLI(t *testing.T, args ...string) (*cli.CLI, *kong.Context) {
	t.Helper()

	c := &cli.CLI{}
	parser, err := cli.NewParser(c, kong.Exit(func(code int) {
		t.Fatalf("unexpected kong exit %d", code)
	}))
	require.NoError(t, err)

	kctx, err := parser.Parse(args)
	require.NoError(t, err)

	return c, kctx
}

func newRuntime(t *testing.T, out *bytes.Buffer, repo skillrepository.SkillRepository) *cli.Runtime {
	t.Helper()

	client, err := rocketleague.New("token", rocketleague.WithHTTPClient(fixtures.NewHTTPClient()))
	require.NoError(t, err)

	now := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)

	return &cli.Runtime{
		Ctx:      t.Context(),
		Client:   client,
		Platform: rocketleague.Steam,
		Out:      out,
		Now:      func() time.Time { return now },
		SkillRepository: func(ctx context.Context) (skillrepository.SkillRepository, error) {
			if repo == nil {
				return nil, errors.New("no database")
			}
			return repo, nil
		},
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	c, _ := parseCLI(t, "regions")
	require.Equal(t, "steam", c.Platform)
	require.InDelta(t, 2.0, c.RPS, 1e-9)
	require.Equal(t, 30*time.Second, c.Timeout)
	require.False(t, c.Indent)

	c, _ = parseCLI(t, "--platform", "ps4", "--rps", "0.5", "--timeout", "5s", "--indent", "population")
	require.Equal(t, "ps4", c.Platform)
	require.InDelta(t, 0.5, c.RPS, 1e-9)
	require.Equal(t, 5*time.Second, c.Timeout)
	require.True(t, c.Indent)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{
		{"skills"},
		{"titles"},
		{"skill-leaderboard", "doubles"},
		{"unknown-command"},
	} {
		c := &cli.CLI{}
		parser, err := cli.NewParser(c, kong.Exit(func(code int) {
			t.Fatalf("unexpected kong exit %d", code)
		}))
		require.NoError(t, err)

		_, err = parser.Parse(args)
		require.Error(t, err, args)
	}
}

func TestCommands(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		args     []string
		validate func(t *testing.T, output []byte)
	}{
		{
			name: "skills for one player",
			args: []string{"skills", "76561197960287930"},
			validate: func(t *testing.T, output []byte) {
				var skills []rocketleague.PlayerSkillResponse
				require.NoError(t, json.Unmarshal(output, &skills))
				require.Len(t, skills, 1)
				require.Equal(t, "76561197960287930", *skills[0].UserID)
			},
		},
		{
			name: "skills for several players",
			args: []string{"skills", "1", "2"},
			validate: func(t *testing.T, output []byte) {
				var skills []rocketleague.PlayerSkillResponse
				require.NoError(t, json.Unmarshal(output, &skills))
				require.Len(t, skills, 2)
			},
		},
		{
			name: "titles",
			args: []string{"titles", "1"},
			validate: func(t *testing.T, output []byte) {
				require.Contains(t, string(output), "Rocketeer")
			},
		},
		{
			name: "population",
			args: []string{"population"},
			validate: func(t *testing.T, output []byte) {
				require.Contains(t, string(output), `"PlaylistID"`)
			},
		},
		{
			name: "regions",
			args: []string{"regions"},
			validate: func(t *testing.T, output []byte) {
				var regions []rocketleague.RegionResponse
				require.NoError(t, json.Unmarshal(output, &regions))
				require.Len(t, regions, 3)
			},
		},
		{
			name: "skill leaderboard",
			args: []string{"skill-leaderboard", "13"},
			validate: func(t *testing.T, output []byte) {
				require.Contains(t, string(output), "TopPlayer")
			},
		},
		{
			name: "all stat leaderboards",
			args: []string{"stat-leaderboard"},
			validate: func(t *testing.T, output []byte) {
				var leaderboards []rocketleague.StatLeaderboardResponse
				require.NoError(t, json.Unmarshal(output, &leaderboards))
				require.Len(t, leaderboards, len(rocketleague.Stats()))
			},
		},
		{
			name: "one stat leaderboard",
			args: []string{"stat-leaderboard", "goals"},
			validate: func(t *testing.T, output []byte) {
				var leaderboards []rocketleague.StatLeaderboardResponse
				require.NoError(t, json.Unmarshal(output, &leaderboards))
				require.Len(t, leaderboards, 1)
				require.Equal(t, "goals", leaderboards[0].StatType)
			},
		},
		{
			name: "stat for one player",
			args: []string{"stat", "wins", "1"},
			validate: func(t *testing.T, output []byte) {
				var values []rocketleague.StatValueForUserResponse
				require.NoError(t, json.Unmarshal(output, &values))
				require.Equal(t, "4512", values[0].Value)
			},
		},
		{
			name: "stat for several players",
			args: []string{"stat", "wins", "1", "2", "3"},
			validate: func(t *testing.T, output []byte) {
				var values []rocketleague.StatValueForUserMultipleResponse
				require.NoError(t, json.Unmarshal(output, &values))
				require.Len(t, values, 3)
				require.Equal(t, int64(3000), values[2].Value)
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			_, kctx := parseCLI(t, c.args...)

			var out bytes.Buffer
			err := kctx.Run(newRuntime(t, &out, nil))
			require.NoError(t, err)
			c.validate(t, out.Bytes())
		})
	}
}

func TestUnknownStat(t *testing.T) {
	t.Parallel()

	_, kctx := parseCLI(t, "stat", "demos", "1")

	var out bytes.Buffer
	err := kctx.Run(newRuntime(t, &out, nil))
	require.ErrorContains(t, err, "unknown stat")
	require.Empty(t, out.String())
}

func TestRecordAndHistory(t *testing.T) {
	t.Parallel()

	repo := skillrepository.NewStub()

	_, kctx := parseCLI(t, "record", "76561197960287930")
	var out bytes.Buffer
	require.NoError(t, kctx.Run(newRuntime(t, &out, repo)))
	require.Contains(t, out.String(), `"platform":"steam"`)

	_, kctx = parseCLI(t, "history", "76561197960287930", "--since", "1h")
	out.Reset()
	require.NoError(t, kctx.Run(newRuntime(t, &out, repo)))

	var history []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &history))
	require.Len(t, history, 3)

	_, kctx = parseCLI(t, "history", "someone-else")
	out.Reset()
	require.NoError(t, kctx.Run(newRuntime(t, &out, repo)))
	require.Equal(t, "[]\n", out.String())
}

func TestRecordWithoutDatabase(t *testing.T) {
	t.Parallel()

	_, kctx := parseCLI(t, "record", "1")

	var out bytes.Buffer
	err := kctx.Run(newRuntime(t, &out, nil))
	require.ErrorContains(t, err, "no database")
}

func TestIndent(t *testing.T) {
	t.Parallel()

	_, kctx := parseCLI(t, "regions")

	var out bytes.Buffer
	rt := newRuntime(t, &out, nil)
	rt.Indent = true
	require.NoError(t, kctx.Run(rt))
	require.Contains(t, out.String(), "\n  {")
}
