package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/Amund211/rlstats/internal/constants"
	"github.com/Amund211/rlstats/rocketleague"
)

func makeRequest(httpClient rocketleague.HttpClient, url string, token string) ([]byte, int, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return []byte{}, -1, fmt.Errorf("Constructing request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Token %s", token))
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constants.USER_AGENT)

	resp, err := httpClient.Do(req)
	if err != nil {
		return []byte{}, -1, fmt.Errorf("Making request: %w", err)
	}

	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return []byte{}, -1, fmt.Errorf("ReadAll: %w", err)
	}

	return data, resp.StatusCode, nil
}

func main() {
	token := os.Getenv("RL_API_TOKEN")
	if token == "" {
		log.Fatal("No API token provided")
	}

	if len(os.Args) < 2 || os.Args[1] == "" {
		log.Fatal("No path provided, e.g. api/v1/steam/playerskills/76561197960287930")
	}

	baseURL := os.Getenv("RL_API_BASE_URL")
	if baseURL == "" {
		baseURL = rocketleague.DEFAULT_BASE_URL
	}

	url := strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(os.Args[1], "/")

	data, statusCode, err := makeRequest(rocketleague.NewDefaultHTTPClient(), url, token)
	if err != nil {
		log.Fatalf("Failed making request to Rocket League API: %v", err)
	}

	if statusCode != 200 {
		log.Printf("Rocket League API returned non-200 status code: %d\n", statusCode)
	}

	fmt.Println(string(data))
	fmt.Println(statusCode)
}
