// Package fixtures serves canned Rocket League API responses in-process.
//
// It is used when running in development without an API token, and in tests.
package fixtures

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
)

const PlayerSkillsTemplate = `[{"user_id":"%s","user_name":"Fixture Player","player_skills":[` +
	`{"playlist":10,"tier":12,"tier_max":12,"division":2,"skill":1023,"mu":31.482,"sigma":2.617,"win_streak":-1,"matches_played":412},` +
	`{"playlist":11,"tier":15,"division":0,"skill":1240,"mu":38.95,"sigma":2.5,"matches_played":1802},` +
	`{"playlist":13,"mu":25.0,"sigma":8.333}]}]`

const PlayerTitlesResponse = `{"titles":["Season 6 Grand Champion","Rocketeer"]}`

const PopulationResponse = `{` +
	`"XboxOne":[{"PlaylistID":10,"NumPlayers":1524},{"PlaylistID":11,"NumPlayers":4811}],` +
	`"Switch":[{"PlaylistID":10,"NumPlayers":210}],` +
	`"Steam":[{"PlaylistID":10,"NumPlayers":3702},{"PlaylistID":11,"NumPlayers":10214},{"PlaylistID":13,"NumPlayers":6177}],` +
	`"PS4":[{"PlaylistID":10,"NumPlayers":2890},{"PlaylistID":11,"NumPlayers":8120}]}`

const RegionsResponse = `[{"platforms":"Steam,PS4,XboxOne","region":"USE"},{"platforms":"Steam,PS4,XboxOne","region":"EU"},{"platforms":"Steam","region":"OCE"}]`

const SkillLeaderboardResponse = `[` +
	`{"user_id":"76561198012345678","user_name":"TopPlayer","tier":19,"skill":1912},` +
	`{"user_name":"Console Champ","tier":19,"skill":1877}]`

const StatLeaderboardTemplate = `{"stat_type":"%s","stats":[` +
	`{"user_id":"76561198012345678","user_name":"TopPlayer","%s":91210},` +
	`{"user_name":"Console Champ","%s":88004}]}`

const StatValueForUserTemplate = `[{"user_id":"%s","user_name":"Fixture Player","stat_type":"%s","value":"4512"}]`

var Stats = []string{"assists", "goals", "mvps", "saves", "shots", "wins"}

func statLeaderboard(stat string) string {
	return fmt.Sprintf(StatLeaderboardTemplate, stat, stat, stat)
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Token ") {
			http.Error(w, `{"detail":"Authentication credentials were not provided."}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NewHandler returns a handler answering every endpoint of the API with canned data.
func NewHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/{platform}/playerskills/{playerID}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, fmt.Sprintf(PlayerSkillsTemplate, r.PathValue("playerID")))
	})
	mux.HandleFunc("POST /api/v1/{platform}/playerskills", func(w http.ResponseWriter, r *http.Request) {
		playerIDs, ok := readPlayerIDs(w, r)
		if !ok {
			return
		}
		entries := make([]string, 0, len(playerIDs))
		for _, playerID := range playerIDs {
			entry := fmt.Sprintf(PlayerSkillsTemplate, playerID)
			entries = append(entries, strings.TrimSuffix(strings.TrimPrefix(entry, "["), "]"))
		}
		writeJSON(w, "["+strings.Join(entries, ",")+"]")
	})
	mux.HandleFunc("GET /api/v1/{platform}/playertitles/{playerID}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, PlayerTitlesResponse)
	})
	mux.HandleFunc("GET /api/v1/population", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, PopulationResponse)
	})
	mux.HandleFunc("GET /api/v1/regions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, RegionsResponse)
	})
	mux.HandleFunc("GET /api/v1/{platform}/leaderboard/skills/{playlist}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, SkillLeaderboardResponse)
	})
	mux.HandleFunc("GET /api/v1/{platform}/leaderboard/stats", func(w http.ResponseWriter, r *http.Request) {
		boards := make([]string, 0, len(Stats))
		for _, stat := range Stats {
			boards = append(boards, statLeaderboard(stat))
		}
		writeJSON(w, "["+strings.Join(boards, ",")+"]")
	})
	mux.HandleFunc("GET /api/v1/{platform}/leaderboard/stats/{stat}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, "["+statLeaderboard(r.PathValue("stat"))+"]")
	})
	mux.HandleFunc("GET /api/v1/{platform}/leaderboard/stats/{stat}/{playerID}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, fmt.Sprintf(StatValueForUserTemplate, r.PathValue("playerID"), r.PathValue("stat")))
	})
	mux.HandleFunc("POST /api/v1/{platform}/leaderboard/stats/{stat}", func(w http.ResponseWriter, r *http.Request) {
		playerIDs, ok := readPlayerIDs(w, r)
		if !ok {
			return
		}
		entries := make([]string, 0, len(playerIDs))
		for i, playerID := range playerIDs {
			entries = append(entries, fmt.Sprintf(
				`{"user_id":%q,"user_name":"Fixture Player %d","stat_type":%q,"value":%d}`,
				playerID, i+1, r.PathValue("stat"), 1000*(i+1),
			))
		}
		writeJSON(w, "["+strings.Join(entries, ",")+"]")
	})

	return requireToken(mux)
}

// RecorderClient serves requests with a handler through an httptest.ResponseRecorder.
type RecorderClient struct {
	handler http.Handler
}

func (c *RecorderClient) Do(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	recorder := httptest.NewRecorder()
	c.handler.ServeHTTP(recorder, req)
	return recorder.Result(), nil
}

// NewHTTPClient returns a client that answers requests with NewHandler without
// touching the network.
func NewHTTPClient() *RecorderClient {
	return &RecorderClient{handler: NewHandler()}
}
