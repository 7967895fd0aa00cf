// Package tmdb pulls movie metadata from the TMDB catalog service and
// upserts it into the relational store.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/time/rate"

	"github.com/cinemind/cinemind/internal/config"
	"github.com/cinemind/cinemind/internal/logger"
)

// Client is a rate-limited TMDB v3 API client.
type Client struct {
	cfg        config.TMDBConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	log        hclog.Logger
}

// NewClient builds a client from the sync-job configuration.
func NewClient(cfg config.TMDBConfig) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		log:        logger.Named("tmdb"),
	}
}

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build TMDB request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	c.log.Debug("making TMDB API request", "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("TMDB request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("TMDB API returned status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode TMDB response: %w", err)
	}
	return nil
}

// MovieDetails fetches the main record for a movie.
func (c *Client) MovieDetails(ctx context.Context, tmdbID int) (*MovieDetails, error) {
	var details MovieDetails
	if err := c.get(ctx, fmt.Sprintf("/movie/%d?language=en-US", tmdbID), &details); err != nil {
		return nil, fmt.Errorf("failed to fetch movie %d: %w", tmdbID, err)
	}
	return &details, nil
}

// Credits fetches the cast list for a movie.
func (c *Client) Credits(ctx context.Context, tmdbID int) (*CreditsResponse, error) {
	var credits CreditsResponse
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/credits?language=en-US", tmdbID), &credits); err != nil {
		return nil, fmt.Errorf("failed to fetch credits for movie %d: %w", tmdbID, err)
	}
	return &credits, nil
}

// Keywords fetches the keyword list for a movie.
func (c *Client) Keywords(ctx context.Context, tmdbID int) (*KeywordsResponse, error) {
	var keywords KeywordsResponse
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/keywords", tmdbID), &keywords); err != nil {
		return nil, fmt.Errorf("failed to fetch keywords for movie %d: %w", tmdbID, err)
	}
	return &keywords, nil
}

// TrailerURL returns the watch URL of the first YouTube trailer for a movie,
// or "" when the movie has none.
func (c *Client) TrailerURL(ctx context.Context, tmdbID int) (string, error) {
	var videos VideosResponse
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/videos?language=en-US", tmdbID), &videos); err != nil {
		return "", fmt.Errorf("failed to fetch videos for movie %d: %w", tmdbID, err)
	}
	for _, v := range videos.Results {
		if strings.EqualFold(v.Site, "youtube") && strings.EqualFold(v.Type, "trailer") {
			return "https://www.youtube.com/watch?v=" + v.Key, nil
		}
	}
	return "", nil
}

// PopularIDs returns the TMDB ids on the given page of the popular listing.
func (c *Client) PopularIDs(ctx context.Context, page int) ([]int, error) {
	var popular PopularResponse
	if err := c.get(ctx, fmt.Sprintf("/movie/popular?language=en-US&page=%d", page), &popular); err != nil {
		return nil, fmt.Errorf("failed to fetch popular movies: %w", err)
	}
	ids := make([]int, 0, len(popular.Results))
	for _, r := range popular.Results {
		ids = append(ids, r.ID)
	}
	return ids, nil
}
