// internal/infrastructure/rawg/client.go
package rawg

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/fireplay-backend/internal/config"
	"github.com/your-org/fireplay-backend/internal/domain/catalog"
)

var _ catalog.Client = (*Client)(nil)

// Client reads games from the RAWG video game database
type Client struct {
	baseURL         string
	apiKey          string
	defaultPageSize int
	maxPageSize     int
	http            *http.Client
	log             logrus.FieldLogger
}

// NewClient creates a RAWG client from the catalog config
func NewClient(cfg config.CatalogConfig, log logrus.FieldLogger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:         cfg.BaseURL,
		apiKey:          cfg.APIKey,
		defaultPageSize: cfg.DefaultPageSize,
		maxPageSize:     cfg.MaxPageSize,
		http:            &http.Client{Timeout: timeout},
		log:             log,
	}
}

// RAWG API structures
type gameResult struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	BackgroundImage string    `json:"background_image"`
	Rating          float64   `json:"rating"`
	Genres          []genreJS `json:"genres"`
}

type genreJS struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type listResponse struct {
	Count   int          `json:"count"`
	Results []gameResult `json:"results"`
}

type detailResponse struct {
	gameResult
	Description    string `json:"description"`
	DescriptionRaw string `json:"description_raw"`
	Released       string `json:"released"`
	Platforms      []struct {
		Platform struct {
			Name string `json:"name"`
		} `json:"platform"`
		Requirements struct {
			Minimum     string `json:"minimum"`
			Recommended string `json:"recommended"`
		} `json:"requirements"`
	} `json:"platforms"`
}

type reviewsResponse struct {
	Results []struct {
		User *struct {
			Username string `json:"username"`
		} `json:"user"`
		Rating float64 `json:"rating"`
		Text   string  `json:"text"`
	} `json:"results"`
}

type genresResponse struct {
	Results []genreJS `json:"results"`
}

// ListGames returns one page of games
func (c *Client) ListGames(ctx context.Context, params catalog.ListParams) (*catalog.Page, error) {
	params = params.Normalize(c.defaultPageSize, c.maxPageSize)

	q := url.Values{}
	q.Set("page", strconv.Itoa(params.Page))
	q.Set("page_size", strconv.Itoa(params.PageSize))
	if params.Genres != "" {
		q.Set("genres", params.Genres)
	}
	if params.Search != "" {
		q.Set("search", params.Search)
	}

	var resp listResponse
	if err := c.get(ctx, "/games", q, &resp); err != nil {
		return nil, err
	}

	items := make([]catalog.Item, len(resp.Results))
	for i, g := range resp.Results {
		items[i] = g.toItem()
	}

	return &catalog.Page{
		Count:      resp.Count,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: catalog.TotalPages(resp.Count, params.PageSize),
		Results:    items,
	}, nil
}

// GetGame returns the detail record of a game
func (c *Client) GetGame(ctx context.Context, slug string) (*catalog.Detail, error) {
	var resp detailResponse
	if err := c.get(ctx, "/games/"+url.PathEscape(slug), nil, &resp); err != nil {
		return nil, err
	}

	detail := &catalog.Detail{
		Item:           resp.toItem(),
		Description:    resp.Description,
		DescriptionRaw: resp.DescriptionRaw,
		Summary:        catalog.Summarize(resp.DescriptionRaw),
		Released:       resp.Released,
		Platforms:      make([]catalog.Platform, 0, len(resp.Platforms)),
	}
	for _, p := range resp.Platforms {
		detail.Platforms = append(detail.Platforms, catalog.Platform{
			Name: p.Platform.Name,
			Requirements: catalog.Requirements{
				Minimum:     p.Requirements.Minimum,
				Recommended: p.Requirements.Recommended,
			},
		})
	}
	return detail, nil
}

// ListReviews returns the reviews of a game
func (c *Client) ListReviews(ctx context.Context, slug string) ([]catalog.Review, error) {
	var resp reviewsResponse
	if err := c.get(ctx, "/games/"+url.PathEscape(slug)+"/reviews", nil, &resp); err != nil {
		return nil, err
	}

	reviews := make([]catalog.Review, 0, len(resp.Results))
	for _, r := range resp.Results {
		review := catalog.Review{Rating: r.Rating, Text: r.Text}
		if r.User != nil {
			review.Username = r.User.Username
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

// ListGenres returns the genre taxonomy
func (c *Client) ListGenres(ctx context.Context) ([]catalog.Genre, error) {
	var resp genresResponse
	if err := c.get(ctx, "/genres", nil, &resp); err != nil {
		return nil, err
	}

	genres := make([]catalog.Genre, len(resp.Results))
	for i, g := range resp.Results {
		genres[i] = catalog.Genre{ID: g.ID, Name: g.Name, Slug: g.Slug}
	}
	return genres, nil
}

func (g gameResult) toItem() catalog.Item {
	genres := make([]catalog.GenreRef, len(g.Genres))
	for i, gr := range g.Genres {
		genres[i] = catalog.GenreRef{Name: gr.Name}
	}
	return catalog.Item{
		ID:              g.ID,
		Name:            g.Name,
		Slug:            g.Slug,
		BackgroundImage: g.BackgroundImage,
		Rating:          g.Rating,
		Genres:          genres,
	}
}

// get performs a GET request and decodes the JSON body into out
func (c *Client) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	if q == nil {
		q = url.Values{}
	}
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("path", path).Error("catalog request failed")
		return fmt.Errorf("%w: %v", catalog.ErrUpstream, err)
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"path":        path,
		"status_code": resp.StatusCode,
		"latency":     time.Since(start),
	}).Debug("catalog request completed")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return catalog.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: RAWG API returned status %d", catalog.ErrUpstream, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", catalog.ErrUpstream, err)
	}
	return nil
}
