package models

// WatchlistEntry is a movie saved to the user's watchlist, as hydrated by
// the backend aggregation service. The backend owns the list; the session
// keeps a client-side mirror that converges with it after every mutation.
type WatchlistEntry struct {
	ID               int      `json:"id"`
	Title            string   `json:"title"`
	PosterPath       *string  `json:"poster_path"`
	BackdropPath     *string  `json:"backdrop_path,omitempty"`
	VoteAverage      *float64 `json:"vote_average"`
	VoteCount        int      `json:"vote_count,omitempty"`
	ReleaseDate      *string  `json:"release_date"`
	OriginalLanguage string   `json:"original_language"`
	GenreIDs         []int    `json:"genre_ids"`
	Overview         string   `json:"overview,omitempty"`
	Popularity       float64  `json:"popularity,omitempty"`
}
