// Package aggregate implements the client for the backend aggregation
// service, which owns trending counters, recommendation computation and
// watchlist persistence.
package aggregate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"reelfinder/models"
)

// APIError carries the backend's error message for a failed request, when
// the response body provided one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// Client talks JSON-over-HTTP to the aggregation backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a backend client with the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Trending returns the aggregated top searched movies.
// GET /trending/get
func (c *Client) Trending(ctx context.Context) ([]models.TrendingEntry, error) {
	var entries []models.TrendingEntry
	if err := c.getJSON(ctx, c.baseURL+"/trending/get", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Recommendations returns the personalized suggestion groups for a user.
// GET /recommend/{userId}
func (c *Client) Recommendations(ctx context.Context, userID string) ([]models.SuggestionGroup, error) {
	var groups []models.SuggestionGroup
	if err := c.getJSON(ctx, c.baseURL+"/recommend/"+userID, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// Watchlist returns the user's watchlist, hydrated to full movie summaries
// by the backend.
// GET /getWatchListMovies/{userId}
func (c *Client) Watchlist(ctx context.Context, userID string) ([]models.WatchlistEntry, error) {
	var entries []models.WatchlistEntry
	if err := c.getJSON(ctx, c.baseURL+"/getWatchListMovies/"+userID, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.WatchlistEntry{}
	}
	return entries, nil
}

// AddToWatchlist saves a movie to the user's watchlist.
// POST /addToWatchList
func (c *Client) AddToWatchlist(ctx context.Context, userID string, movieID int) error {
	payload := map[string]any{
		"userId":  userID,
		"movieId": movieID,
	}
	return c.postJSON(ctx, c.baseURL+"/addToWatchList", payload)
}

// RemoveFromWatchlist removes a movie from the user's watchlist. On failure
// the backend's {error: ...} message is surfaced through APIError.
// POST /removeFromWatchList
func (c *Client) RemoveFromWatchlist(ctx context.Context, userID string, movieID int) error {
	payload := map[string]any{
		"userId":  userID,
		"movieId": movieID,
	}
	return c.postJSON(ctx, c.baseURL+"/removeFromWatchList", payload)
}

// ReportSearch notifies the backend that a search produced results, feeding
// the trending counters. Callers treat this as best effort.
// POST /trending/update
func (c *Client) ReportSearch(ctx context.Context, occurrence models.SearchOccurrence) error {
	return c.postJSON(ctx, c.baseURL+"/trending/update", occurrence)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiErrorFromBody(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiErrorFromBody(resp)
	}

	// Drain the ack so the connection can be reused.
	io.Copy(io.Discard, resp.Body)
	return nil
}

// apiErrorFromBody extracts the backend's error message from a failed
// response, falling back to the status code when the body is not JSON.
func apiErrorFromBody(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Error != "" {
			apiErr.Message = body.Error
		} else if body.Message != "" {
			apiErr.Message = body.Message
		}
	}
	return apiErr
}
