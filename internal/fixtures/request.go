package fixtures

import (
	"io"
	"net/http"

	"github.com/go-json-experiment/json"
)

type playerIDsRequest struct {
	PlayerIDs []string `json:"player_ids"`
}

func readPlayerIDs(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, `{"detail":"could not read body"}`, http.StatusBadRequest)
		return nil, false
	}

	var request playerIDsRequest
	if err := json.Unmarshal(data, &request); err != nil || request.PlayerIDs == nil {
		http.Error(w, `{"detail":"expected player_ids"}`, http.StatusBadRequest)
		return nil, false
	}

	return request.PlayerIDs, true
}
