// Package analytics computes grouped summaries over a [songs.Dataset].
//
// Every function is pure: it reads the dataset (or a filtered view of it) and returns a new,
// small result table. Grouping keys are the literal field values, so genre labels that differ
// only by case or whitespace land in separate groups.
//
//   - [CountByYear] and [CountByGenre] count records per group
//   - [MeanPopularityByGenre] and [MeanPopularityByYearGenre] average popularity per group
//   - [Histogram] buckets a numeric field into equal-width intervals
//   - [Sample] draws an unseeded uniform sample without replacement
package analytics
