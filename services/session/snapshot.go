package session

import (
	"reelfinder/models"
)

// ViewSnapshot is the serialized view state.
type ViewSnapshot struct {
	Mode    string `json:"mode"`
	MovieID int    `json:"movieId,omitempty"`
}

// Snapshot is a point-in-time copy of everything the presentation layer
// renders. Slices are copied so callers never alias live state.
type Snapshot struct {
	SignedIn     bool                   `json:"signedIn"`
	SearchTerm   string                 `json:"searchTerm"`
	SettledTerm  string                 `json:"settledTerm"`
	Loading      bool                   `json:"loading"`
	ErrorMessage string                 `json:"errorMessage,omitempty"`
	Movies       []models.Movie         `json:"movies"`
	Trending     []models.TrendingEntry `json:"trending"`
	Suggestions  []models.Movie         `json:"suggestions"`
	Watchlist    []models.WatchlistEntry `json:"watchlist"`
	View         ViewSnapshot           `json:"view"`
	Detail       *models.MovieDetail    `json:"detail,omitempty"`
	DetailError  string                 `json:"detailError,omitempty"`
	Pulse        *Pulse                 `json:"pulse,omitempty"`
}

// Snapshot returns a copy of the current session state. Only the first
// suggestion group's recommendations are exposed, matching what the UI
// renders.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		SignedIn:     c.identity.Present(),
		SearchTerm:   c.rawTerm,
		SettledTerm:  c.settledTerm,
		Loading:      c.loading,
		ErrorMessage: c.errorMessage,
		Movies:       append([]models.Movie{}, c.movies...),
		Trending:     append([]models.TrendingEntry{}, c.trending...),
		Watchlist:    append([]models.WatchlistEntry{}, c.watchlist...),
		Suggestions:  []models.Movie{},
		View: ViewSnapshot{
			Mode: c.view.Mode().String(),
		},
		DetailError: c.detailError,
	}

	if len(c.suggestions) > 0 {
		snap.Suggestions = append(snap.Suggestions, c.suggestions[0].Recommendations...)
	}
	if c.view.Mode() == ViewDetail {
		snap.View.MovieID = c.view.MovieID()
	}
	if c.detail != nil {
		detail := *c.detail
		snap.Detail = &detail
	}
	if c.pulse != nil {
		pulse := *c.pulse
		snap.Pulse = &pulse
	}
	return snap
}
