// Package catalog implements the read-only client for the external movie
// catalog API (search, discover and detail lookups).
package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"reelfinder/models"
)

// StatusError reports a transport-level failure: the catalog answered with
// a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog request failed: %s", e.Status)
}

// APIError reports an application-level failure: a 2xx response whose
// payload carries an explicit success=false flag.
type APIError struct {
	StatusMessage string
}

func (e *APIError) Error() string {
	if e.StatusMessage == "" {
		return "catalog reported failure"
	}
	return e.StatusMessage
}

// Client talks to the catalog API with bearer-token authentication. Calls
// are rate limited so watchlist hydration and bursty searches stay within
// the catalog's request budget.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// listResponse is the shape shared by search and discover listings. The
// catalog signals logical failures on a 2xx response via success=false.
type listResponse struct {
	Results       []models.Movie `json:"results"`
	Success       *bool          `json:"success,omitempty"`
	StatusMessage string         `json:"status_message,omitempty"`
}

// NewClient creates a catalog client. requestsPerSecond bounds the call
// rate; zero or negative disables the limiter.
func NewClient(baseURL, apiKey string, timeout time.Duration, requestsPerSecond float64) *Client {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// setCatalogHeaders adds the headers every catalog request needs.
func (c *Client) setCatalogHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}

// SearchMovies runs a text search and returns the result list. An empty
// result list is a valid outcome, not an error.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]models.Movie, error) {
	endpoint := c.baseURL + "/search/movie?query=" + url.QueryEscape(query)
	return c.fetchList(ctx, endpoint)
}

// DiscoverMovies returns the popularity-sorted discover listing used when
// no search term is active.
func (c *Client) DiscoverMovies(ctx context.Context) ([]models.Movie, error) {
	endpoint := c.baseURL + "/discover/movie?sort_by=popularity.desc"
	return c.fetchList(ctx, endpoint)
}

// MovieDetail fetches the full record for one movie, with credits and
// videos appended in the same round trip.
func (c *Client) MovieDetail(ctx context.Context, movieID int) (*models.MovieDetail, error) {
	endpoint := c.baseURL + "/movie/" + strconv.Itoa(movieID) + "?append_to_response=credits,videos"

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var detail models.MovieDetail
	if err := json.NewDecoder(body).Decode(&detail); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &detail, nil
}

func (c *Client) fetchList(ctx context.Context, endpoint string) ([]models.Movie, error) {
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var list listResponse
	if err := json.NewDecoder(body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if list.Success != nil && !*list.Success {
		return nil, &APIError{StatusMessage: list.StatusMessage}
	}

	if list.Results == nil {
		return []models.Movie{}, nil
	}
	return list.Results, nil
}

func (c *Client) get(ctx context.Context, endpoint string) (io.ReadCloser, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setCatalogHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog api request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return resp.Body, nil
}
