package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(srv.URL, "test-key", 5*time.Second, 0)
}

func TestSearchMoviesSendsQueryAndAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "batman begins" {
			t.Errorf("unexpected query %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"id":272,"title":"Batman Begins","poster_path":"/x.jpg","vote_average":7.7,"release_date":"2005-06-10","original_language":"en","genre_ids":[28,80]}]}`))
	}))
	defer srv.Close()

	movies, err := newTestClient(srv).SearchMovies(context.Background(), "batman begins")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(movies) != 1 {
		t.Fatalf("expected 1 movie, got %d", len(movies))
	}
	if movies[0].ID != 272 || movies[0].Title != "Batman Begins" {
		t.Fatalf("unexpected movie %+v", movies[0])
	}
	if movies[0].PosterPath == nil || *movies[0].PosterPath != "/x.jpg" {
		t.Fatalf("unexpected poster path %v", movies[0].PosterPath)
	}
}

func TestDiscoverMoviesSortsByPopularity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/discover/movie" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("sort_by"); got != "popularity.desc" {
			t.Errorf("unexpected sort_by %q", got)
		}
		w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	movies, err := newTestClient(srv).DiscoverMovies(context.Background())
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if movies == nil || len(movies) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", movies)
	}
}

func TestSuccessFalseBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"status_code":7,"status_message":"Invalid API key"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).SearchMovies(context.Background(), "x")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusMessage != "Invalid API key" {
		t.Fatalf("unexpected status message %q", apiErr.StatusMessage)
	}
}

func TestNon2xxBecomesStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).SearchMovies(context.Background(), "x")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status code %d", statusErr.StatusCode)
	}
}

func TestMovieDetailAppendsCreditsAndVideos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/272" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("append_to_response"); got != "credits,videos" {
			t.Errorf("unexpected append_to_response %q", got)
		}
		w.Write([]byte(`{"id":272,"title":"Batman Begins","overview":"...","genres":[{"id":28,"name":"Action"}],"runtime":140,"credits":{"cast":[]},"videos":{"results":[]}}`))
	}))
	defer srv.Close()

	detail, err := newTestClient(srv).MovieDetail(context.Background(), 272)
	if err != nil {
		t.Fatalf("detail failed: %v", err)
	}
	if detail.ID != 272 || detail.Runtime != 140 {
		t.Fatalf("unexpected detail %+v", detail)
	}
	if len(detail.Genres) != 1 || detail.Genres[0].Name != "Action" {
		t.Fatalf("unexpected genres %+v", detail.Genres)
	}
	if len(detail.Credits) == 0 || len(detail.Videos) == 0 {
		t.Fatalf("expected credits and videos passthrough")
	}
}
