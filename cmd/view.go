package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/songdash/internal/dashboard"
	"github.com/desertthunder/songdash/internal/formatter"
	"github.com/desertthunder/songdash/internal/models"
	"github.com/desertthunder/songdash/internal/shared"
	"github.com/desertthunder/songdash/internal/songs"
	"github.com/urfave/cli/v3"
)

// View renders one page and prints it as text or JSON.
func (r *Runner) View(ctx context.Context, cmd *cli.Command) error {
	page, err := dashboard.ParsePage(cmd.StringArg("page"))
	if err != nil {
		return err
	}

	var criteria *songs.Criteria
	if page == dashboard.Explore {
		if criteria, err = r.criteria(ctx, cmd); err != nil {
			return err
		}
	}

	result, err := r.dashboard.Render(ctx, page, criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	r.writePlainHeader(page.Title())
	switch res := result.(type) {
	case *dashboard.OverviewResult:
		return r.printOverview(res)
	case *dashboard.GenreResult:
		return r.printGenres(res)
	case *dashboard.FeatureResult:
		return r.printFeatures(res)
	case *dashboard.ExploreResult:
		return r.printRows(res.Rows)
	default:
		return fmt.Errorf("%w: no text view for %T", shared.ErrInvalidArgument, result)
	}
}

func (r *Runner) printOverview(o *dashboard.OverviewResult) error {
	r.writePlain("Shape of Dataset: (%s, %d)\n", shared.FormatInt(o.Rows), len(o.Columns))
	r.writePlain("Columns: %v\n", o.Columns)

	r.writePlainln("Key Metrics")
	r.writePlain("  Total Songs:          %s\n", shared.FormatInt(o.Summary.TotalSongs))
	r.writePlain("  Total Genres:         %d\n", o.Summary.Genres)
	r.writePlain("  Total Unique Artists: %s\n", shared.FormatInt(o.Summary.Artists))
	r.writePlain("  Average Popularity:   %s\n", shared.FormatFloat(o.Summary.AveragePopularity))

	r.writePlainln("Music Release Trend")
	for _, y := range o.SongsPerYear {
		r.writePlain("  %d  %s\n", y.Year, shared.FormatInt(y.Count))
	}

	r.writePlainln("Genre Distribution")
	for _, g := range o.GenreDistribution {
		r.writePlain("  %-20s %s\n", g.Genre, shared.FormatInt(g.Count))
	}

	r.writePlainln("Data Preview")
	preview := make([]models.DisplayRow, len(o.Preview))
	for i, s := range o.Preview {
		preview[i] = s.Display()
	}
	return r.printRows(preview)
}

func (r *Runner) printGenres(g *dashboard.GenreResult) error {
	r.writePlain("Average Popularity by Genre\n")
	for _, m := range g.AveragePopularity {
		r.writePlain("  %-20s %s\n", m.Genre, shared.FormatFloat(m.Mean))
	}

	r.writePlainln("Popularity Trends by Genre (Over Time)")
	for _, m := range g.Trends {
		r.writePlain("  %d  %-20s %s\n", m.Year, m.Genre, shared.FormatFloat(m.Mean))
	}
	return nil
}

func (r *Runner) printFeatures(f *dashboard.FeatureResult) error {
	r.writePlain("Popularity Score Distribution\n")
	for _, b := range f.Histogram {
		r.writePlain("  %6.1f - %6.1f  %s\n", b.Low, b.High, shared.FormatInt(b.Count))
	}

	r.writePlainln("Duration vs. Popularity: a sample of %s songs", shared.FormatInt(f.SampleSize))
	return r.printRows(f.Sample)
}

func (r *Runner) printRows(rows []models.DisplayRow) error {
	text, err := formatter.ExportToText(rows)
	if err != nil {
		return err
	}
	return r.writePlain("%s", text)
}
