package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Henry-Sarabia/igdb/v2"
	"golang.org/x/time/rate"
)

const igdbName = "igdb"

// IGDBSource implements Source against the IGDB API. The core imposes no
// per-source throttling beyond the global concurrency bound, so the source
// carries its own token bucket sized to IGDB's published 4 req/s limit.
type IGDBSource struct {
	client  *igdb.Client
	limiter *rate.Limiter
}

// NewIGDBSource creates an IGDB source. It fetches a Twitch app access
// token using the provided Client ID and Secret.
func NewIGDBSource(clientID, clientSecret string) (*IGDBSource, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("IGDB Client ID and Secret are required")
	}

	token, err := getTwitchToken(clientID, clientSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with Twitch: %w", err)
	}

	return &IGDBSource{
		client:  igdb.NewClient(clientID, token, nil),
		limiter: rate.NewLimiter(rate.Limit(4), 4),
	}, nil
}

func (s *IGDBSource) Name() string { return igdbName }

func (s *IGDBSource) Priority() int { return 80 }

// SupportsGameType reports true for everything: IGDB covers the whole
// commercial catalog.
func (s *IGDBSource) SupportsGameType(string) bool { return true }

func (s *IGDBSource) Search(ctx context.Context, title string) ([]Metadata, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	games, err := s.client.Games.Search(
		title,
		igdb.SetFields("id", "name", "summary", "first_release_date", "cover.url",
			"involved_companies.company.name", "involved_companies.developer", "involved_companies.publisher",
			"genres.name"),
		igdb.SetLimit(10),
	)
	if err != nil {
		return nil, err
	}

	results := make([]Metadata, 0, len(games))
	for _, g := range games {
		results = append(results, convertIGDBGame(g))
	}
	return results, nil
}

func (s *IGDBSource) GetByID(ctx context.Context, id string) (Metadata, error) {
	numericID, err := parseIGDBID(id)
	if err != nil {
		return Metadata{}, err
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return Metadata{}, err
	}

	game, err := s.client.Games.Get(
		numericID,
		igdb.SetFields("id", "name", "summary", "first_release_date", "cover", "involved_companies", "genres"),
	)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: igdb id %d", ErrNotFound, numericID)
	}

	return convertIGDBGame(game), nil
}

// parseIGDBID extracts the numeric part of an "igdb:12345" identifier.
func parseIGDBID(id string) (int, error) {
	parts := strings.Split(id, ":")
	if len(parts) != 2 || parts[0] != igdbName {
		return 0, fmt.Errorf("invalid IGDB ID: %s", id)
	}
	var numericID int
	if _, err := fmt.Sscanf(parts[1], "%d", &numericID); err != nil {
		return 0, fmt.Errorf("invalid numeric ID: %s", parts[1])
	}
	return numericID, nil
}

func convertIGDBGame(g *igdb.Game) Metadata {
	md := Metadata{
		ID:          fmt.Sprintf("igdb:%d", g.ID),
		Title:       g.Name,
		Description: g.Summary,
	}

	if g.FirstReleaseDate != 0 {
		md.ReleaseDate = time.Unix(int64(g.FirstReleaseDate), 0).UTC().Format("2006-01-02")
	}

	// Cover and company records come back as IDs in igdb/v2; resolving them
	// costs extra requests per result. Left unresolved until a caller needs
	// more than the query fields expanded above.

	return md
}

// getTwitchToken fetches an App Access Token from Twitch.
func getTwitchToken(clientID, clientSecret string) (string, error) {
	u := "https://id.twitch.tv/oauth2/token"
	vals := url.Values{}
	vals.Set("client_id", clientID)
	vals.Set("client_secret", clientSecret)
	vals.Set("grant_type", "client_credentials")

	resp, err := http.PostForm(u, vals)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	return result.AccessToken, nil
}
