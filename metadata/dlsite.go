package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	dlsiteName    = "dlsite"
	dlsiteBaseURL = "https://www.dlsite.com"
)

// DLsiteSource implements Source against DLsite's public JSON endpoints.
// It is the highest-priority source for doujin and visual-novel titles.
type DLsiteSource struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewDLsiteSource creates a DLsite source with the production endpoint.
func NewDLsiteSource() *DLsiteSource {
	return &DLsiteSource{
		baseURL: dlsiteBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(1), 2),
	}
}

// NewDLsiteSourceWithBaseURL creates a DLsite source pointed at an
// alternate endpoint, used by tests.
func NewDLsiteSourceWithBaseURL(baseURL string) *DLsiteSource {
	s := NewDLsiteSource()
	s.baseURL = baseURL
	return s
}

func (s *DLsiteSource) Name() string { return dlsiteName }

func (s *DLsiteSource) Priority() int { return 90 }

func (s *DLsiteSource) SupportsGameType(gameType string) bool {
	switch gameType {
	case "visual_novel", "japanese_rpg", "doujin", GameTypeAll:
		return true
	}
	return false
}

// dlsiteWork is the subset of DLsite's product JSON the source consumes.
type dlsiteWork struct {
	ProductID  string   `json:"workno"`
	WorkName   string   `json:"work_name"`
	MakerName  string   `json:"maker_name"`
	Intro      string   `json:"intro_s"`
	RegistDate string   `json:"regist_date"`
	ImageURL   string   `json:"work_image"`
	Genres     []string `json:"genres"`
}

func (w dlsiteWork) toMetadata() Metadata {
	md := Metadata{
		ID:          fmt.Sprintf("%s:%s", dlsiteName, w.ProductID),
		Title:       w.WorkName,
		CoverURL:    w.ImageURL,
		Description: w.Intro,
		Publisher:   w.MakerName,
		Genres:      w.Genres,
	}
	if w.RegistDate != "" {
		// DLsite reports "2024-01-02 00:00:00"; keep the date part.
		if len(w.RegistDate) >= 10 {
			md.ReleaseDate = w.RegistDate[:10]
		} else {
			md.ReleaseDate = w.RegistDate
		}
	}
	return md
}

func (s *DLsiteSource) Search(ctx context.Context, title string) ([]Metadata, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/maniax/fsr/ajax?keyword=%s&per_page=10", s.baseURL, url.QueryEscape(title))
	var payload struct {
		Works []dlsiteWork `json:"works"`
	}
	if err := s.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	results := make([]Metadata, 0, len(payload.Works))
	for _, w := range payload.Works {
		results = append(results, w.toMetadata())
	}
	return results, nil
}

// GetByID looks up a DLsite product ID such as "RJ01014447". The
// "dlsite:" prefix added by Search is accepted too.
func (s *DLsiteSource) GetByID(ctx context.Context, id string) (Metadata, error) {
	productID := id
	if len(id) > len(dlsiteName)+1 && id[:len(dlsiteName)+1] == dlsiteName+":" {
		productID = id[len(dlsiteName)+1:]
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return Metadata{}, err
	}

	endpoint := fmt.Sprintf("%s/maniax/product/info/ajax?product_id=%s", s.baseURL, url.QueryEscape(productID))
	// The info endpoint keys its response by product ID.
	payload := map[string]dlsiteWork{}
	if err := s.getJSON(ctx, endpoint, &payload); err != nil {
		return Metadata{}, err
	}

	work, ok := payload[productID]
	if !ok {
		return Metadata{}, fmt.Errorf("%w: dlsite product %s", ErrNotFound, productID)
	}
	if work.ProductID == "" {
		work.ProductID = productID
	}
	return work.toMetadata(), nil
}

func (s *DLsiteSource) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("dlsite: unexpected status: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
