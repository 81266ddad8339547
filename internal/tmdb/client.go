// Package tmdb is a minimal client for The Movie Database search API,
// used by the admin import endpoint. Failures are typed so callers can
// tell a remote API error from a network failure, and both from local
// validation problems.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"

	// TMDB allows ~50 requests per second; stay well below it.
	rateLimit = 20
	rateBurst = 5
)

var (
	// ErrNoResults reports that the search matched nothing.
	ErrNoResults = fmt.Errorf("tmdb: no results")
)

// APIError is a non-2xx response from the TMDB API itself.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tmdb: API returned status %d", e.StatusCode)
}

// TransportError is a failure to reach the API at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("tmdb: request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// SearchResult is the subset of a TMDB movie record that the import
// endpoint maps onto a Movie.
type SearchResult struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
}

type searchResponse struct {
	Results []SearchResult `json:"results"`
}

// Client handles TMDB API requests with rate limiting.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// NewClient creates a new TMDB API client.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SearchMovie runs a title search and returns the best match (TMDB
// orders results by relevance, so the first one).
func (c *Client) SearchMovie(ctx context.Context, title string) (*SearchResult, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", title)
	fullURL := c.baseURL + "/search/movie?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: "unparsable response body"}
	}
	if len(result.Results) == 0 {
		return nil, ErrNoResults
	}
	return &result.Results[0], nil
}
