package models

import (
	json "github.com/goccy/go-json"
)

// PosterBaseURL is the image CDN prefix used to turn a catalog poster path
// into a fetchable URL.
const PosterBaseURL = "https://image.tmdb.org/t/p/w500"

// Movie is a catalog movie summary as returned by search and discover
// listings. Poster path, vote average and release date may be null in the
// catalog payload.
type Movie struct {
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

// PosterURL returns the full image URL for the movie poster, or empty when
// the catalog has no poster for it.
func (m Movie) PosterURL() string {
	if m.PosterPath == nil || *m.PosterPath == "" {
		return ""
	}
	return PosterBaseURL + *m.PosterPath
}

// Genre is a resolved genre object carried on a movie detail record.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// SpokenLanguage is spoken-language metadata on a movie detail record.
type SpokenLanguage struct {
	ISO6391     string `json:"iso_639_1"`
	Name        string `json:"name"`
	EnglishName string `json:"english_name,omitempty"`
}

// MovieDetail is the full catalog record for a single movie. Credits and
// videos are appended by the catalog in the same round trip and passed
// through unmodified.
type MovieDetail struct {
	ID               int              `json:"id"`
	Title            string           `json:"title"`
	Overview         string           `json:"overview"`
	PosterPath       *string          `json:"poster_path"`
	BackdropPath     *string          `json:"backdrop_path"`
	VoteAverage      *float64         `json:"vote_average"`
	VoteCount        int              `json:"vote_count"`
	ReleaseDate      *string          `json:"release_date"`
	OriginalLanguage string           `json:"original_language"`
	OriginCountry    []string         `json:"origin_country,omitempty"`
	Genres           []Genre          `json:"genres"`
	SpokenLanguages  []SpokenLanguage `json:"spoken_languages"`
	Runtime          int              `json:"runtime,omitempty"`
	Credits          json.RawMessage  `json:"credits,omitempty"`
	Videos           json.RawMessage  `json:"videos,omitempty"`
}
