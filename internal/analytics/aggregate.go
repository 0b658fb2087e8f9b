package analytics

import (
	"cmp"
	"slices"

	"github.com/desertthunder/songdash/internal/songs"
)

// YearCount is the number of songs released in a year.
type YearCount struct {
	Year  int `json:"year" yaml:"year"`
	Count int `json:"count" yaml:"count"`
}

// GenreCount is the number of songs tagged with a genre.
type GenreCount struct {
	Genre string `json:"genre" yaml:"genre"`
	Count int    `json:"count" yaml:"count"`
}

// GenreMean is the mean popularity of a genre.
type GenreMean struct {
	Genre string  `json:"genre" yaml:"genre"`
	Mean  float64 `json:"mean_popularity" yaml:"mean_popularity"`
}

// YearGenreMean is the mean popularity of a genre within a single year.
type YearGenreMean struct {
	Year  int     `json:"year" yaml:"year"`
	Genre string  `json:"genre" yaml:"genre"`
	Mean  float64 `json:"mean_popularity" yaml:"mean_popularity"`
}

// Summary holds headline figures for a dataset.
type Summary struct {
	TotalSongs        int     `json:"total_songs" yaml:"total_songs"`
	Genres            int     `json:"genres" yaml:"genres"`
	Artists           int     `json:"artists" yaml:"artists"`
	AveragePopularity float64 `json:"average_popularity" yaml:"average_popularity"`
}

type accumulator struct {
	sum   int
	count int
}

func (a accumulator) mean() float64 {
	return float64(a.sum) / float64(a.count)
}

// CountByYear returns one row per distinct release year, ordered by year.
func CountByYear(ds *songs.Dataset) []YearCount {
	counts := make(map[int]int)
	for _, s := range ds.All() {
		counts[s.ReleaseYear]++
	}

	out := make([]YearCount, 0, len(counts))
	for year, n := range counts {
		out = append(out, YearCount{Year: year, Count: n})
	}
	slices.SortFunc(out, func(a, b YearCount) int { return cmp.Compare(a.Year, b.Year) })
	return out
}

// CountByGenre returns one row per distinct genre, ordered by genre label.
func CountByGenre(ds *songs.Dataset) []GenreCount {
	counts := make(map[string]int)
	for _, s := range ds.All() {
		counts[s.Genre]++
	}

	out := make([]GenreCount, 0, len(counts))
	for genre, n := range counts {
		out = append(out, GenreCount{Genre: genre, Count: n})
	}
	slices.SortFunc(out, func(a, b GenreCount) int { return cmp.Compare(a.Genre, b.Genre) })
	return out
}

// MeanPopularityByGenre averages popularity per genre, ordered by genre label.
// Genres absent from ds have no row.
func MeanPopularityByGenre(ds *songs.Dataset) []GenreMean {
	groups := make(map[string]accumulator)
	for _, s := range ds.All() {
		acc := groups[s.Genre]
		acc.sum += s.Popularity
		acc.count++
		groups[s.Genre] = acc
	}

	out := make([]GenreMean, 0, len(groups))
	for genre, acc := range groups {
		out = append(out, GenreMean{Genre: genre, Mean: acc.mean()})
	}
	slices.SortFunc(out, func(a, b GenreMean) int { return cmp.Compare(a.Genre, b.Genre) })
	return out
}

// MeanPopularityByYearGenre averages popularity per (year, genre) pair, ordered by year then genre.
func MeanPopularityByYearGenre(ds *songs.Dataset) []YearGenreMean {
	type key struct {
		year  int
		genre string
	}

	groups := make(map[key]accumulator)
	for _, s := range ds.All() {
		k := key{s.ReleaseYear, s.Genre}
		acc := groups[k]
		acc.sum += s.Popularity
		acc.count++
		groups[k] = acc
	}

	out := make([]YearGenreMean, 0, len(groups))
	for k, acc := range groups {
		out = append(out, YearGenreMean{Year: k.year, Genre: k.genre, Mean: acc.mean()})
	}
	slices.SortFunc(out, func(a, b YearGenreMean) int {
		return cmp.Or(cmp.Compare(a.Year, b.Year), cmp.Compare(a.Genre, b.Genre))
	})
	return out
}

// Summarize computes headline figures. AveragePopularity is zero for an empty dataset.
func Summarize(ds *songs.Dataset) Summary {
	artists := make(map[string]bool)
	var total int
	for _, s := range ds.All() {
		artists[s.Artist] = true
		total += s.Popularity
	}

	summary := Summary{
		TotalSongs: ds.Len(),
		Genres:     len(ds.Genres()),
		Artists:    len(artists),
	}
	if ds.Len() > 0 {
		summary.AveragePopularity = float64(total) / float64(ds.Len())
	}
	return summary
}

// SortCountsDesc orders genre counts from most to least common, breaking ties by label.
func SortCountsDesc(counts []GenreCount) []GenreCount {
	out := slices.Clone(counts)
	slices.SortStableFunc(out, func(a, b GenreCount) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.Genre, b.Genre))
	})
	return out
}

// SortMeansDesc orders genre means from most to least popular, breaking ties by label.
func SortMeansDesc(means []GenreMean) []GenreMean {
	out := slices.Clone(means)
	slices.SortStableFunc(out, func(a, b GenreMean) int {
		return cmp.Or(cmp.Compare(b.Mean, a.Mean), cmp.Compare(a.Genre, b.Genre))
	})
	return out
}
