// Package dashboard composes the loader, aggregation layer and filter engine into the four
// dashboard pages.
//
// # Pages
//
// The [Engine] interface defines one operation per page:
//
//  1. [Engine.Overview] : Overview Dashboard
//     - Data preview, shape and columns
//     - Key metrics (songs, genres, artists, average popularity)
//     - Songs released per year and genre distribution
//
//  2. [Engine.Genres] : Genre Deep Dive
//     - Average popularity per genre, most popular first
//     - Average popularity per genre over time
//
//  3. [Engine.Features] : Feature & Popularity Analysis
//     - Popularity histogram
//     - Random sample for the duration vs. popularity scatter plot
//
//  4. [Engine.Explore] : Interactive Song Explorer
//     - Filters the dataset by genre, year range and popularity range
//     - Rejects an empty genre selection with [shared.ErrEmptySelection]
//
// Each call is one render pass: it reads the memoized dataset from a [DatasetSource] and
// derives fresh results without mutating it.
//
// # Progress Reporting
//
// Operations accept an optional channel of [ProgressUpdate] values. Sends never block;
// updates are dropped when the channel is full.
package dashboard
