package models

// TrendingEntry is one aggregated search-count row from the backend
// aggregation service. The backend owns the computation; we only render it.
type TrendingEntry struct {
	ID         int    `json:"_id"`
	MovieID    int    `json:"movieId"`
	MovieName  string `json:"movieName"`
	PosterPath string `json:"posterPath"`
	TotalCount int    `json:"totalCount"`
}

// SuggestionSource identifies a movie whose search history contributed to a
// recommendation group.
type SuggestionSource struct {
	MovieID     int    `json:"movieId"`
	Title       string `json:"title"`
	SearchCount int    `json:"searchCount"`
}

// SuggestionMetadata describes how a recommendation group was derived.
type SuggestionMetadata struct {
	TopGenres    []string           `json:"top_genres"`
	SourceMovies []SuggestionSource `json:"source_movies"`
}

// SuggestionGroup is one recommendation group keyed by the user's recent
// search activity. The UI renders only the first group's recommendations.
type SuggestionGroup struct {
	Recommendations []Movie            `json:"recommendations"`
	Metadata        SuggestionMetadata `json:"metadata"`
}

// SearchOccurrence is the payload reported to the aggregation backend when
// a search returns results, feeding the trending counters.
type SearchOccurrence struct {
	SearchTerm  string   `json:"searchTerm"`
	MovieID     int      `json:"movieId"`
	MovieName   string   `json:"movieName"`
	PosterPath  string   `json:"posterPath"`
	UserID      string   `json:"userId"`
	GenreIDs    []int    `json:"genre_ids"`
	VoteAverage *float64 `json:"vote_average"`
}
