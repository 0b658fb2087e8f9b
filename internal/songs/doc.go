// Package songs loads the song dataset and derives filtered views of it.
//
// # Loading
//
// [Load] reads a comma-delimited file with a header row, decodes UTF-8 (BOM optional) or BOM-marked UTF-16,
// parses the "Release Date" column with a day-month-year layout and derives the release year.
// Rows whose date does not parse are dropped and only counted in [SourceInfo.RowsDropped].
// A missing file wraps [shared.ErrNotFound]; every other failure wraps [shared.ErrLoad] and no partial dataset is returned.
//
// [Loader] memoizes the first successful load for the lifetime of the process.
// Concurrent first callers share one read through singleflight; failed loads are not cached.
//
// # Views
//
// A [Dataset] is immutable. [Filter], [Dataset.Where] and [Dataset.Pick] return new views that share
// the parent's rows through an index list, so deriving a view never copies or mutates songs.
package songs
