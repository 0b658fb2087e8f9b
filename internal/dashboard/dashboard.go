package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdash/internal/analytics"
	"github.com/desertthunder/songdash/internal/models"
	"github.com/desertthunder/songdash/internal/shared"
	"github.com/desertthunder/songdash/internal/songs"
	"golang.org/x/sync/errgroup"
)

// AppTitle is the dashboard's window and page title.
const AppTitle = "Music Data Explorer (2000-2020)"

// EmptySelectionWarning is shown on the explorer when no genre is selected.
const EmptySelectionWarning = "Please select at least one genre."

// Describe phrases a render error for display.
func Describe(err error) string {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return fmt.Sprintf("Error: %v", err)
	case errors.Is(err, shared.ErrLoad):
		return fmt.Sprintf("An error occurred while loading the data: %v", err)
	case errors.Is(err, shared.ErrEmptySelection):
		return EmptySelectionWarning
	default:
		return err.Error()
	}
}

// OverviewResult contains everything shown on the Overview Dashboard.
type OverviewResult struct {
	Source            songs.SourceInfo       `json:"source" yaml:"source"`
	Rows              int                    `json:"rows" yaml:"rows"`
	Columns           []string               `json:"columns" yaml:"columns"`
	Preview           []models.Song          `json:"preview" yaml:"preview"`
	Summary           analytics.Summary      `json:"summary" yaml:"summary"`
	SongsPerYear      []analytics.YearCount  `json:"songs_per_year" yaml:"songs_per_year"`
	GenreDistribution []analytics.GenreCount `json:"genre_distribution" yaml:"genre_distribution"` // most common first
}

// GenreResult contains the Genre Deep Dive aggregates.
type GenreResult struct {
	AveragePopularity []analytics.GenreMean     `json:"average_popularity" yaml:"average_popularity"` // most popular first
	Trends            []analytics.YearGenreMean `json:"trends" yaml:"trends"`
	Genres            []string                  `json:"genres" yaml:"genres"`
}

// FeatureResult contains the popularity histogram and the scatter-plot sample.
type FeatureResult struct {
	Histogram  []analytics.Bucket  `json:"histogram" yaml:"histogram"`
	SampleSize int                 `json:"sample_size" yaml:"sample_size"`
	Sample     []models.DisplayRow `json:"sample" yaml:"sample"`
}

// ControlsResult describes the explorer inputs and their defaults.
type ControlsResult struct {
	Controls songs.Controls `json:"controls" yaml:"controls"`
	Defaults songs.Criteria `json:"defaults" yaml:"defaults"`
}

// ExploreResult contains the explorer's filtered rows.
type ExploreResult struct {
	Criteria songs.Criteria      `json:"criteria" yaml:"criteria"`
	Columns  []string            `json:"columns" yaml:"columns"`
	Count    int                 `json:"count" yaml:"count"`
	Rows     []models.DisplayRow `json:"rows" yaml:"rows"`
	view     *songs.Dataset
}

// View returns the filtered dataset backing the result.
func (r *ExploreResult) View() *songs.Dataset { return r.view }

// Report bundles the static pages and the default explorer view.
type Report struct {
	Overview *OverviewResult `json:"overview" yaml:"overview"`
	Genres   *GenreResult    `json:"genres" yaml:"genres"`
	Features *FeatureResult  `json:"features" yaml:"features"`
	Explore  *ExploreResult  `json:"explore" yaml:"explore"`
}

// DatasetSource provides the memoized dataset. Implemented by [songs.Loader].
type DatasetSource interface {
	Dataset(ctx context.Context) (*songs.Dataset, error)
	Path() string
}

// Engine defines the render pass for each dashboard page.
type Engine interface {
	// Overview computes the data preview, key metrics, release trend and genre distribution.
	Overview(ctx context.Context, progress chan<- ProgressUpdate) (*OverviewResult, error)

	// Genres computes average popularity per genre, overall and per year.
	Genres(ctx context.Context, progress chan<- ProgressUpdate) (*GenreResult, error)

	// Features computes the popularity histogram and draws the scatter-plot sample.
	Features(ctx context.Context, progress chan<- ProgressUpdate) (*FeatureResult, error)

	// Controls returns the explorer inputs for the loaded dataset and their default selection.
	Controls(ctx context.Context) (*ControlsResult, error)

	// Explore filters the dataset with c.
	Explore(ctx context.Context, progress chan<- ProgressUpdate, c songs.Criteria) (*ExploreResult, error)
}

// Dashboard implements [Engine] over a [DatasetSource].
type Dashboard struct {
	source   DatasetSource
	settings songs.Settings
	cfg      shared.DatasetConfig
	logger   *log.Logger
}

// New creates a Dashboard. A nil logger discards output.
func New(source DatasetSource, cfg *shared.Config, logger *log.Logger) *Dashboard {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Dashboard{
		source:   source,
		settings: songs.SettingsFromConfig(cfg.Explorer),
		cfg:      cfg.Dataset,
		logger:   logger,
	}
}

// Settings returns the explorer slider configuration.
func (d *Dashboard) Settings() songs.Settings { return d.settings }

// sendProgress sends a progress update through the channel without blocking.
func (d *Dashboard) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func (d *Dashboard) dataset(ctx context.Context, page Page, progress chan<- ProgressUpdate) (*songs.Dataset, error) {
	d.sendProgress(progress, loadingUpdate(page, d.source.Path()))
	ds, err := d.source.Dataset(ctx)
	if err != nil {
		d.logger.Error("render aborted", "page", page, "error", err)
		return nil, err
	}
	return ds, nil
}

// Overview computes the Overview Dashboard.
func (d *Dashboard) Overview(ctx context.Context, progress chan<- ProgressUpdate) (*OverviewResult, error) {
	ds, err := d.dataset(ctx, Overview, progress)
	if err != nil {
		return nil, err
	}

	d.sendProgress(progress, summarizingUpdate(Overview))
	info := ds.Source()
	result := &OverviewResult{
		Source:  info,
		Rows:    ds.Len(),
		Columns: info.Columns,
		Preview: ds.Head(d.cfg.PreviewRows).Songs(),
		Summary: analytics.Summarize(ds),
	}

	d.sendProgress(progress, aggregatingUpdate(Overview, "songs per year and genre"))
	result.SongsPerYear = analytics.CountByYear(ds)
	result.GenreDistribution = analytics.SortCountsDesc(analytics.CountByGenre(ds))

	d.sendProgress(progress, doneUpdate(Overview))
	return result, nil
}

// Genres computes the Genre Deep Dive.
func (d *Dashboard) Genres(ctx context.Context, progress chan<- ProgressUpdate) (*GenreResult, error) {
	ds, err := d.dataset(ctx, Genres, progress)
	if err != nil {
		return nil, err
	}

	d.sendProgress(progress, aggregatingUpdate(Genres, "popularity by genre"))
	result := &GenreResult{
		AveragePopularity: analytics.SortMeansDesc(analytics.MeanPopularityByGenre(ds)),
		Trends:            analytics.MeanPopularityByYearGenre(ds),
		Genres:            ds.Genres(),
	}

	d.sendProgress(progress, doneUpdate(Genres))
	return result, nil
}

// Features computes the Feature & Popularity Analysis page.
//
// A dataset smaller than the configured sample size fails with [shared.ErrSampleBounds].
func (d *Dashboard) Features(ctx context.Context, progress chan<- ProgressUpdate) (*FeatureResult, error) {
	ds, err := d.dataset(ctx, Features, progress)
	if err != nil {
		return nil, err
	}

	d.sendProgress(progress, bucketingUpdate(Features, d.cfg.HistogramBins))
	histogram, err := analytics.Histogram(ds, analytics.FieldPopularity, d.cfg.HistogramBins)
	if err != nil {
		return nil, err
	}

	d.sendProgress(progress, samplingUpdate(Features, d.cfg.SampleSize))
	sample, err := analytics.Sample(ds, d.cfg.SampleSize)
	if err != nil {
		d.logger.Warn("scatter sample unavailable", "requested", d.cfg.SampleSize, "rows", ds.Len())
		return nil, err
	}

	d.sendProgress(progress, doneUpdate(Features))
	return &FeatureResult{
		Histogram:  histogram,
		SampleSize: sample.Len(),
		Sample:     sample.Display(),
	}, nil
}

// Controls returns the explorer inputs for the loaded dataset.
func (d *Dashboard) Controls(ctx context.Context) (*ControlsResult, error) {
	ds, err := d.source.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return &ControlsResult{
		Controls: songs.ControlsFor(ds, d.settings),
		Defaults: songs.DefaultCriteria(ds, d.settings),
	}, nil
}

// Explore filters the dataset. An empty genre selection fails with [shared.ErrEmptySelection].
func (d *Dashboard) Explore(ctx context.Context, progress chan<- ProgressUpdate, c songs.Criteria) (*ExploreResult, error) {
	ds, err := d.dataset(ctx, Explore, progress)
	if err != nil {
		return nil, err
	}

	d.sendProgress(progress, filteringUpdate(Explore))
	view, err := songs.Filter(ds, c)
	if err != nil {
		return nil, err
	}

	d.logger.Debug("explorer filtered", "genres", len(c.Genres), "years", c.Years, "popularity", c.Popularity, "matches", view.Len())
	d.sendProgress(progress, doneUpdate(Explore))
	return &ExploreResult{
		Criteria: c,
		Columns:  models.DisplayColumns,
		Count:    view.Len(),
		Rows:     view.Display(),
		view:     view,
	}, nil
}

// Render dispatches to the operation for page. The explorer uses c, or the default
// criteria when c is nil.
func (d *Dashboard) Render(ctx context.Context, page Page, c *songs.Criteria) (any, error) {
	switch page {
	case Overview:
		return d.Overview(ctx, nil)
	case Genres:
		return d.Genres(ctx, nil)
	case Features:
		return d.Features(ctx, nil)
	case Explore:
		if c == nil {
			controls, err := d.Controls(ctx)
			if err != nil {
				return nil, err
			}
			c = &controls.Defaults
		}
		return d.Explore(ctx, nil, *c)
	default:
		return nil, fmt.Errorf("%w: unknown page %d", shared.ErrInvalidArgument, int(page))
	}
}

// Report renders every page concurrently, the explorer with its default criteria.
func (d *Dashboard) Report(ctx context.Context) (*Report, error) {
	if _, err := d.source.Dataset(ctx); err != nil {
		return nil, err
	}

	var report Report
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		report.Overview, err = d.Overview(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		report.Genres, err = d.Genres(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		report.Features, err = d.Features(gctx, nil)
		return err
	})
	g.Go(func() error {
		controls, err := d.Controls(gctx)
		if err != nil {
			return err
		}
		report.Explore, err = d.Explore(gctx, nil, controls.Defaults)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &report, nil
}
