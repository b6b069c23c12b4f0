// Package tmdb provides the external movie-metadata client for Marquee.
// It consumes TMDB (The Movie Database) read-only: trending, search, details.
//
// The API key is injected from config; nothing here reads the environment.
// Transient failures (network errors, 5xx, 429) are retried with a doubling
// backoff; all other failures surface immediately.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/yourflock/marquee/internal/metrics"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	imageBaseURL   = "https://image.tmdb.org/t/p/w500"

	maxAttempts = 3
)

// Movie contains the metadata fields Marquee consumes for a movie.
type Movie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	Genres       []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
	Runtime          int    `json:"runtime"` // minutes
	OriginalLanguage string `json:"original_language"`
}

// PosterURL returns the full URL for the movie poster at w500 size.
func (m *Movie) PosterURL() string {
	if m.PosterPath == "" {
		return ""
	}
	return imageBaseURL + m.PosterPath
}

// BackdropURL returns the full URL for the movie backdrop at w500 size.
func (m *Movie) BackdropURL() string {
	if m.BackdropPath == "" {
		return ""
	}
	return imageBaseURL + m.BackdropPath
}

// GenreNames returns a slice of genre names.
func (m *Movie) GenreNames() []string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		names = append(names, g.Name)
	}
	return names
}

// Client is a minimal TMDB API client. Create with NewClient.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	retryDelay time.Duration
}

// NewClient creates a TMDB Client with the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		retryDelay: 500 * time.Millisecond,
	}
}

// Trending fetches this week's trending movies.
func (c *Client) Trending(ctx context.Context) ([]Movie, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)

	var result struct {
		Results []Movie `json:"results"`
	}
	if err := c.get(ctx, "trending", "/trending/movie/week?"+q.Encode(), &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// Search searches TMDB for movies by title.
func (c *Client) Search(ctx context.Context, query string) ([]Movie, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("query", query)

	var result struct {
		Results []Movie `json:"results"`
	}
	if err := c.get(ctx, "search", "/search/movie?"+q.Encode(), &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// ErrNotFound is returned by Details when TMDB has no movie with that ID.
var ErrNotFound = fmt.Errorf("tmdb: movie not found")

// Details fetches full movie details by TMDB movie ID.
func (c *Client) Details(ctx context.Context, tmdbID int) (*Movie, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)

	var movie Movie
	if err := c.get(ctx, "details", fmt.Sprintf("/movie/%d?%s", tmdbID, q.Encode()), &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// get performs a GET request against the TMDB API with retry and decodes the
// JSON response. endpoint is the metrics label, path the request path+query.
func (c *Client) get(ctx context.Context, endpoint, path string, dst interface{}) error {
	var lastErr error
	delay := c.retryDelay

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		retryable, err := c.do(ctx, endpoint, path, dst)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
	}

	return fmt.Errorf("tmdb: giving up after %d attempts: %w", maxAttempts, lastErr)
}

// do performs a single request. The bool reports whether the failure is
// transient and worth retrying.
func (c *Client) do(ctx context.Context, endpoint, path string, dst interface{}) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return false, fmt.Errorf("tmdb: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.TMDBRequests.WithLabelValues(endpoint, "network_error").Inc()
		return true, fmt.Errorf("tmdb: request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		metrics.TMDBRequests.WithLabelValues(endpoint, "not_found").Inc()
		return false, ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		metrics.TMDBRequests.WithLabelValues(endpoint, "unauthorized").Inc()
		return false, fmt.Errorf("tmdb: invalid API key")
	case resp.StatusCode == http.StatusTooManyRequests:
		metrics.TMDBRequests.WithLabelValues(endpoint, "rate_limited").Inc()
		return true, fmt.Errorf("tmdb: rate limited")
	case resp.StatusCode >= 500:
		metrics.TMDBRequests.WithLabelValues(endpoint, "upstream_error").Inc()
		return true, fmt.Errorf("tmdb: HTTP %d for %s", resp.StatusCode, endpoint)
	default:
		metrics.TMDBRequests.WithLabelValues(endpoint, "error").Inc()
		return false, fmt.Errorf("tmdb: HTTP %d for %s", resp.StatusCode, endpoint)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		metrics.TMDBRequests.WithLabelValues(endpoint, "decode_error").Inc()
		return false, fmt.Errorf("tmdb: decode response: %w", err)
	}

	metrics.TMDBRequests.WithLabelValues(endpoint, "success").Inc()
	return false, nil
}
