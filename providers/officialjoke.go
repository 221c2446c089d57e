package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultJokeURL is the Official Joke API random-joke endpoint.
const DefaultJokeURL = "https://official-joke-api.appspot.com/random_joke"

// OfficialJokeProvider implements JokeProvider against the Official Joke
// API. The endpoint takes no parameters and needs no authentication.
type OfficialJokeProvider struct {
	Base
	httpClient *http.Client
}

// NewOfficialJoke creates a new Official Joke API provider. baseURL
// defaults to the public endpoint when empty.
func NewOfficialJoke(baseURL string) (*OfficialJokeProvider, error) {
	if baseURL == "" {
		baseURL = DefaultJokeURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	return &OfficialJokeProvider{
		Base:       Base{name: "officialjoke", baseURL: baseURL},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type officialJokeResponse struct {
	Setup     string `json:"setup"`
	Punchline string `json:"punchline"`
}

// RandomJoke fetches a random joke and normalizes it into a Joke.
func (p *OfficialJokeProvider) RandomJoke(ctx context.Context) (*Joke, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, fmt.Errorf("joke API error (%d): %s", httpResp.StatusCode, string(respBody))
	}

	var jokeResp officialJokeResponse
	if err := json.Unmarshal(respBody, &jokeResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if jokeResp.Setup == "" && jokeResp.Punchline == "" {
		return nil, fmt.Errorf("joke response missing setup and punchline")
	}

	return &Joke{
		Setup:     jokeResp.Setup,
		Punchline: jokeResp.Punchline,
	}, nil
}
