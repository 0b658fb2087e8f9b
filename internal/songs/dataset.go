package songs

import (
	"iter"
	"slices"
	"sort"
	"time"

	"github.com/desertthunder/songdash/internal/models"
)

// SourceInfo describes where a dataset came from.
type SourceInfo struct {
	Path        string    `json:"path" yaml:"path"`
	Fingerprint uint64    `json:"fingerprint" yaml:"fingerprint"` // xxh3 of the raw file bytes
	Columns     []string  `json:"columns" yaml:"columns"`         // header columns followed by derived columns
	RowsRead    int       `json:"rows_read" yaml:"rows_read"`
	RowsDropped int       `json:"rows_dropped" yaml:"rows_dropped"`
	LoadedAt    time.Time `json:"loaded_at" yaml:"loaded_at"`
}

// Dataset is an immutable, ordered view over song records.
type Dataset struct {
	rows  []models.Song
	index []int // nil selects every row in order
	info  SourceInfo
}

// New builds a dataset from songs. The slice is copied.
func New(songs []models.Song) *Dataset {
	return &Dataset{
		rows: slices.Clone(songs),
		info: SourceInfo{
			Columns:  append(slices.Clone(models.RequiredColumns), "release_datetime", models.ColumnReleaseYear),
			RowsRead: len(songs),
		},
	}
}

// Len returns the number of songs in the view.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	if d.index == nil {
		return len(d.rows)
	}
	return len(d.index)
}

// At returns the i-th song of the view.
func (d *Dataset) At(i int) models.Song {
	if d.index == nil {
		return d.rows[i]
	}
	return d.rows[d.index[i]]
}

// All iterates the view in order.
func (d *Dataset) All() iter.Seq2[int, models.Song] {
	return func(yield func(int, models.Song) bool) {
		for i := 0; i < d.Len(); i++ {
			if !yield(i, d.At(i)) {
				return
			}
		}
	}
}

// Songs returns a copy of the songs in the view.
func (d *Dataset) Songs() []models.Song {
	out := make([]models.Song, 0, d.Len())
	for _, s := range d.All() {
		out = append(out, s)
	}
	return out
}

// Display projects every song in the view onto the explorer columns.
func (d *Dataset) Display() []models.DisplayRow {
	out := make([]models.DisplayRow, 0, d.Len())
	for _, s := range d.All() {
		out = append(out, s.Display())
	}
	return out
}

// Source returns metadata about the file the dataset was loaded from.
//
// Views inherit their parent's source info.
func (d *Dataset) Source() SourceInfo {
	info := d.info
	info.Columns = slices.Clone(d.info.Columns)
	return info
}

// Where returns the view of songs satisfying keep.
func (d *Dataset) Where(keep func(models.Song) bool) *Dataset {
	index := make([]int, 0, d.Len())
	for i := 0; i < d.Len(); i++ {
		if keep(d.At(i)) {
			index = append(index, d.rowIndex(i))
		}
	}
	return d.derive(index)
}

// Pick returns the view made of the given positions of this view, in the given order.
//
// Positions must be within [0, Len).
func (d *Dataset) Pick(positions []int) *Dataset {
	index := make([]int, len(positions))
	for i, p := range positions {
		index[i] = d.rowIndex(p)
	}
	return d.derive(index)
}

// Head returns the first n songs of the view, or the whole view when it is shorter.
func (d *Dataset) Head(n int) *Dataset {
	n = max(0, min(n, d.Len()))
	positions := make([]int, n)
	for i := range positions {
		positions[i] = i
	}
	return d.Pick(positions)
}

// Genres returns the distinct genre labels in the view, sorted.
func (d *Dataset) Genres() []string {
	seen := make(map[string]bool)
	var genres []string
	for _, s := range d.All() {
		if !seen[s.Genre] {
			seen[s.Genre] = true
			genres = append(genres, s.Genre)
		}
	}
	sort.Strings(genres)
	return genres
}

// YearBounds returns the observed minimum and maximum release year. ok is false for an empty view.
func (d *Dataset) YearBounds() (r Range, ok bool) {
	for i, s := range d.All() {
		if i == 0 {
			r = Range{Low: s.ReleaseYear, High: s.ReleaseYear}
			continue
		}
		r.Low = min(r.Low, s.ReleaseYear)
		r.High = max(r.High, s.ReleaseYear)
	}
	return r, d.Len() > 0
}

func (d *Dataset) rowIndex(i int) int {
	if d.index == nil {
		return i
	}
	return d.index[i]
}

func (d *Dataset) derive(index []int) *Dataset {
	return &Dataset{rows: d.rows, index: index, info: d.info}
}
