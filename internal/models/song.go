// package models defines the data model for the song dashboard
package models

import "time"

// Source column names in the input CSV header.
const (
	ColumnTitle       = "Title"
	ColumnArtist      = "Artist"
	ColumnGenre       = "Genre"
	ColumnReleaseDate = "Release Date"
	ColumnPopularity  = "Popularity"
	ColumnDuration    = "Duration"
	ColumnReleaseYear = "release_year"
)

// RequiredColumns lists the header names a source file must provide.
var RequiredColumns = []string{
	ColumnTitle,
	ColumnArtist,
	ColumnGenre,
	ColumnReleaseDate,
	ColumnPopularity,
	ColumnDuration,
}

// DisplayColumns is the explorer's fixed column order.
var DisplayColumns = []string{
	ColumnTitle,
	ColumnArtist,
	ColumnGenre,
	ColumnReleaseYear,
	ColumnPopularity,
	ColumnDuration,
}

// Song is one record of the dataset.
type Song struct {
	Title       string    `json:"title" yaml:"title"`
	Artist      string    `json:"artist" yaml:"artist"`
	Genre       string    `json:"genre" yaml:"genre"`
	ReleaseDate time.Time `json:"release_datetime" yaml:"release_datetime"`
	ReleaseYear int       `json:"release_year" yaml:"release_year"`
	Popularity  int       `json:"popularity" yaml:"popularity"`
	Duration    float64   `json:"duration" yaml:"duration"` // seconds
}

// DisplayRow is a Song projected onto [DisplayColumns].
type DisplayRow struct {
	Title       string  `json:"title" yaml:"title" csv:"Title"`
	Artist      string  `json:"artist" yaml:"artist" csv:"Artist"`
	Genre       string  `json:"genre" yaml:"genre" csv:"Genre"`
	ReleaseYear int     `json:"release_year" yaml:"release_year" csv:"release_year"`
	Popularity  int     `json:"popularity" yaml:"popularity" csv:"Popularity"`
	Duration    float64 `json:"duration" yaml:"duration" csv:"Duration"`
}

// Display projects the song onto the explorer columns.
func (s Song) Display() DisplayRow {
	return DisplayRow{
		Title:       s.Title,
		Artist:      s.Artist,
		Genre:       s.Genre,
		ReleaseYear: s.ReleaseYear,
		Popularity:  s.Popularity,
		Duration:    s.Duration,
	}
}
