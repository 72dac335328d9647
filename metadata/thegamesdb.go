package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	gamesdbName    = "thegamesdb"
	gamesdbBaseURL = "https://api.thegamesdb.net"
)

// GamesDBSource implements Source against the TheGamesDB v1 API. It covers
// classic and retro multi-platform releases.
type GamesDBSource struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

// NewGamesDBSource creates a TheGamesDB source.
func NewGamesDBSource(apiKey string) (*GamesDBSource, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("TheGamesDB API key is required")
	}
	return &GamesDBSource{
		baseURL: gamesdbBaseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(1), 2),
	}, nil
}

// NewGamesDBSourceWithBaseURL points the source at an alternate endpoint,
// used by tests.
func NewGamesDBSourceWithBaseURL(apiKey, baseURL string) (*GamesDBSource, error) {
	s, err := NewGamesDBSource(apiKey)
	if err != nil {
		return nil, err
	}
	s.baseURL = baseURL
	return s, nil
}

func (s *GamesDBSource) Name() string { return gamesdbName }

func (s *GamesDBSource) Priority() int { return 70 }

func (s *GamesDBSource) SupportsGameType(gameType string) bool {
	switch gameType {
	case "classic_game", "retro_game", "multi_platform", GameTypeAll:
		return true
	}
	return false
}

// gamesdbGame is the subset of TheGamesDB's game JSON the source consumes.
type gamesdbGame struct {
	ID          int    `json:"id"`
	GameTitle   string `json:"game_title"`
	ReleaseDate string `json:"release_date"`
	Overview    string `json:"overview"`
}

func (g gamesdbGame) toMetadata() Metadata {
	return Metadata{
		ID:          fmt.Sprintf("%s:%d", gamesdbName, g.ID),
		Title:       g.GameTitle,
		Description: g.Overview,
		ReleaseDate: g.ReleaseDate,
	}
}

func (s *GamesDBSource) Search(ctx context.Context, title string) ([]Metadata, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v1.1/Games/ByGameName?apikey=%s&name=%s&fields=overview",
		s.baseURL, url.QueryEscape(s.apiKey), url.QueryEscape(title))

	games, err := s.fetchGames(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	results := make([]Metadata, 0, len(games))
	for _, g := range games {
		results = append(results, g.toMetadata())
	}
	return results, nil
}

func (s *GamesDBSource) GetByID(ctx context.Context, id string) (Metadata, error) {
	raw := strings.TrimPrefix(id, gamesdbName+":")
	numericID, err := strconv.Atoi(raw)
	if err != nil {
		return Metadata{}, fmt.Errorf("invalid TheGamesDB ID: %s", id)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return Metadata{}, err
	}

	endpoint := fmt.Sprintf("%s/v1/Games/ByGameID?apikey=%s&id=%d&fields=overview",
		s.baseURL, url.QueryEscape(s.apiKey), numericID)

	games, err := s.fetchGames(ctx, endpoint)
	if err != nil {
		return Metadata{}, err
	}
	if len(games) == 0 {
		return Metadata{}, fmt.Errorf("%w: thegamesdb id %d", ErrNotFound, numericID)
	}
	return games[0].toMetadata(), nil
}

func (s *GamesDBSource) fetchGames(ctx context.Context, endpoint string) ([]gamesdbGame, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("thegamesdb: unexpected status: %s", resp.Status)
	}

	var payload struct {
		Data struct {
			Games []gamesdbGame `json:"games"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Data.Games, nil
}
