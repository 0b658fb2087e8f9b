package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/desertthunder/songdash/internal/analytics"
	"github.com/desertthunder/songdash/internal/shared"
	"github.com/desertthunder/songdash/internal/songs"
	th "github.com/desertthunder/songdash/internal/testing"
)

type staticSource struct {
	ds  *songs.Dataset
	err error
}

func (s staticSource) Dataset(context.Context) (*songs.Dataset, error) { return s.ds, s.err }
func (s staticSource) Path() string                                    { return "static.csv" }

func newTestDashboard(t *testing.T) *Dashboard {
	t.Helper()
	cfg := shared.DefaultConfig()
	cfg.Dataset.SampleSize = 3
	cfg.Dataset.HistogramBins = 5
	cfg.Dataset.PreviewRows = 2

	loader := songs.NewLoader(th.WriteSampleSongs(t), songs.LoadOptions{}, nil)
	return New(loader, cfg, nil)
}

func TestPage(t *testing.T) {
	for _, p := range Pages() {
		got, err := ParsePage(p.String())
		if err != nil || got != p {
			t.Errorf("ParsePage(%q) = %v, %v", p.String(), got, err)
		}
		if p.Title() == "" {
			t.Errorf("page %d has no title", p)
		}
	}

	if _, err := ParsePage("settings"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
	if Overview.Heading() != "Main Dashboard: At a Glance" {
		t.Errorf("unexpected overview heading %q", Overview.Heading())
	}
}

func TestOverview(t *testing.T) {
	d := newTestDashboard(t)
	progress := make(chan ProgressUpdate, 10)

	result, err := d.Overview(context.Background(), progress)
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}

	if result.Rows != 6 || len(result.Preview) != 2 {
		t.Errorf("rows = %d, preview = %d", result.Rows, len(result.Preview))
	}
	if result.Preview[0].Title != "Midnight Drive" {
		t.Errorf("preview should start at the first row, got %s", result.Preview[0].Title)
	}
	if len(result.Columns) != 8 {
		t.Errorf("expected 8 columns, got %v", result.Columns)
	}
	if result.Summary.TotalSongs != 6 || result.Summary.Genres != 3 {
		t.Errorf("unexpected summary %+v", result.Summary)
	}
	if len(result.SongsPerYear) != 4 {
		t.Errorf("expected 4 years, got %v", result.SongsPerYear)
	}
	if len(result.GenreDistribution) != 3 {
		t.Errorf("expected 3 genres, got %v", result.GenreDistribution)
	}

	close(progress)
	var phases []Phase
	for u := range progress {
		if u.Page != Overview {
			t.Errorf("update for wrong page %v", u.Page)
		}
		phases = append(phases, u.Phase)
	}
	want := []Phase{LoadDataset, Summarize, Aggregate, Done}
	if !slices.Equal(phases, want) {
		t.Errorf("phases = %v, want %v", phases, want)
	}
}

func TestGenres(t *testing.T) {
	result, err := newTestDashboard(t).Genres(context.Background(), nil)
	if err != nil {
		t.Fatalf("Genres() error = %v", err)
	}

	want := []analytics.GenreMean{
		{Genre: "Pop", Mean: 67.5},
		{Genre: "Electronic", Mean: 61},
		{Genre: "Rock", Mean: 53.5},
	}
	if !slices.Equal(result.AveragePopularity, want) {
		t.Errorf("got %v, want %v", result.AveragePopularity, want)
	}
	if len(result.Trends) != 5 {
		t.Errorf("expected 5 year/genre rows, got %d", len(result.Trends))
	}
}

func TestFeatures(t *testing.T) {
	t.Run("histogram and sample", func(t *testing.T) {
		result, err := newTestDashboard(t).Features(context.Background(), nil)
		if err != nil {
			t.Fatalf("Features() error = %v", err)
		}

		if len(result.Histogram) != 5 {
			t.Errorf("expected 5 buckets, got %d", len(result.Histogram))
		}
		if result.SampleSize != 3 || len(result.Sample) != 3 {
			t.Errorf("expected a 3-row sample, got %d", len(result.Sample))
		}
	})

	t.Run("sample larger than dataset", func(t *testing.T) {
		cfg := shared.DefaultConfig()
		d := New(songs.NewLoader(th.WriteSampleSongs(t), songs.LoadOptions{}, nil), cfg, nil)

		if _, err := d.Features(context.Background(), nil); !errors.Is(err, shared.ErrSampleBounds) {
			t.Errorf("expected ErrSampleBounds, got %v", err)
		}
	})
}

func TestExplore(t *testing.T) {
	d := newTestDashboard(t)
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		controls, err := d.Controls(ctx)
		if err != nil {
			t.Fatalf("Controls() error = %v", err)
		}

		result, err := d.Explore(ctx, nil, controls.Defaults)
		if err != nil {
			t.Fatalf("Explore() error = %v", err)
		}
		if result.Count != 4 || len(result.Rows) != 4 {
			t.Errorf("expected 4 matches, got %d", result.Count)
		}
		if result.View().Len() != 4 {
			t.Errorf("view length = %d", result.View().Len())
		}
		if !slices.Equal(result.Columns, []string{"Title", "Artist", "Genre", "release_year", "Popularity", "Duration"}) {
			t.Errorf("unexpected columns %v", result.Columns)
		}
	})

	t.Run("empty selection", func(t *testing.T) {
		result, err := d.Explore(ctx, nil, songs.Criteria{Years: songs.Range{Low: 2000, High: 2020}})
		if !errors.Is(err, shared.ErrEmptySelection) {
			t.Errorf("expected ErrEmptySelection, got %v", err)
		}
		if result != nil {
			t.Error("expected no result")
		}
	})
}

func TestRender(t *testing.T) {
	d := newTestDashboard(t)

	for _, p := range Pages() {
		t.Run(p.String(), func(t *testing.T) {
			result, err := d.Render(context.Background(), p, nil)
			if err != nil {
				t.Fatalf("Render(%s) error = %v", p, err)
			}
			if result == nil {
				t.Error("expected a result")
			}
		})
	}

	if _, err := d.Render(context.Background(), Page(42), nil); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestReport(t *testing.T) {
	t.Run("renders every page", func(t *testing.T) {
		report, err := newTestDashboard(t).Report(context.Background())
		if err != nil {
			t.Fatalf("Report() error = %v", err)
		}
		if report.Overview == nil || report.Genres == nil || report.Features == nil || report.Explore == nil {
			t.Errorf("incomplete report %+v", report)
		}
	})

	t.Run("load failures abort every page", func(t *testing.T) {
		loadErr := fmt.Errorf("%w: the data file 'static.csv' was not found", shared.ErrNotFound)
		d := New(staticSource{err: loadErr}, shared.DefaultConfig(), nil)

		if _, err := d.Report(context.Background()); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		for _, p := range Pages() {
			if _, err := d.Render(context.Background(), p, nil); !errors.Is(err, shared.ErrNotFound) {
				t.Errorf("%s: expected ErrNotFound, got %v", p, err)
			}
		}
	})
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "missing file",
			err:  fmt.Errorf("%w: the data file 'songs.csv' was not found", shared.ErrNotFound),
			want: "Error: data file not found: the data file 'songs.csv' was not found",
		},
		{
			name: "load failure",
			err:  fmt.Errorf("%w: bad header", shared.ErrLoad),
			want: "An error occurred while loading the data: failed to load data: bad header",
		},
		{
			name: "empty selection",
			err:  fmt.Errorf("%w: please select at least one genre", shared.ErrEmptySelection),
			want: EmptySelectionWarning,
		},
		{
			name: "anything else",
			err:  errors.New("boom"),
			want: "boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.err); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}
