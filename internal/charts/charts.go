package charts

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"github.com/desertthunder/songdash/internal/analytics"
	"github.com/desertthunder/songdash/internal/models"
	"github.com/desertthunder/songdash/internal/shared"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	ChartWidth           = "100%"
	ChartHeight          = "420px"
	ChartBackgroundColor = "#ffffff"
	ChartTextColor       = "#333333"
	ScatterOpacity       = 0.4
)

// initOpts sets the canvas size. id must be a valid JavaScript identifier.
func initOpts(id string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		ChartID:         id,
		Width:           ChartWidth,
		Height:          ChartHeight,
		BackgroundColor: ChartBackgroundColor,
	})
}

func titleOpts(title string) charts.GlobalOpts {
	return charts.WithTitleOpts(opts.Title{
		Title:      title,
		TitleStyle: &opts.TextStyle{Color: ChartTextColor},
	})
}

func axisOpts(x, y string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithXAxisOpts(opts.XAxis{
			Name:         x,
			NameLocation: "center",
			NameGap:      30,
			AxisLabel:    &opts.AxisLabel{Color: ChartTextColor},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:         y,
			NameLocation: "center",
			NameGap:      50,
			AxisLabel:    &opts.AxisLabel{Color: ChartTextColor},
		}),
		charts.WithGridOpts(opts.Grid{Left: "80", Right: "40", Bottom: "60"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}),
	}
}

func years[T any](rows []T, year func(T) int) []string {
	seen := make(map[int]bool)
	var out []int
	for _, r := range rows {
		if y := year(r); !seen[y] {
			seen[y] = true
			out = append(out, y)
		}
	}
	slices.Sort(out)

	labels := make([]string, len(out))
	for i, y := range out {
		labels[i] = strconv.Itoa(y)
	}
	return labels
}

// SongsPerYear plots the music release trend.
func SongsPerYear(counts []analytics.YearCount) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(append([]charts.GlobalOpts{
		initOpts("songsPerYear"),
		titleOpts("Music Release Trend (2000-2020)"),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	}, axisOpts("Year", "Number of Songs Released")...)...)

	labels := make([]string, len(counts))
	data := make([]opts.LineData, len(counts))
	for i, c := range counts {
		labels[i] = strconv.Itoa(c.Year)
		data[i] = opts.LineData{Value: c.Count}
	}

	line.SetXAxis(labels).AddSeries("Songs", data)
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}))
	return line
}

// GenreDistribution plots the number of songs per genre in the given order.
func GenreDistribution(counts []analytics.GenreCount) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(append([]charts.GlobalOpts{
		initOpts("genreDistribution"),
		titleOpts("Genre Distribution"),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	}, axisOpts("Genre", "Number of Songs")...)...)

	labels := make([]string, len(counts))
	data := make([]opts.BarData, len(counts))
	for i, c := range counts {
		labels[i] = c.Genre
		data[i] = opts.BarData{Value: c.Count}
	}

	bar.SetXAxis(labels).AddSeries("Songs", data)
	return bar
}

// AveragePopularity plots mean popularity per genre in the given order.
func AveragePopularity(means []analytics.GenreMean) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(append([]charts.GlobalOpts{
		initOpts("averagePopularity"),
		titleOpts("Average Popularity by Genre"),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	}, axisOpts("Genre", "Average Popularity Score")...)...)

	labels := make([]string, len(means))
	data := make([]opts.BarData, len(means))
	for i, m := range means {
		labels[i] = m.Genre
		data[i] = opts.BarData{Value: round2(m.Mean)}
	}

	bar.SetXAxis(labels).AddSeries("Average Popularity", data)
	return bar
}

// PopularityTrends draws one line per genre of mean popularity by year.
//
// Years in which a genre has no songs are left as gaps.
func PopularityTrends(trends []analytics.YearGenreMean) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(append([]charts.GlobalOpts{
		initOpts("popularityTrends"),
		titleOpts("Popularity Trends by Genre (Over Time)"),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{
			Show:      opts.Bool(true),
			Top:       "30",
			Type:      "scroll",
			TextStyle: &opts.TextStyle{Color: ChartTextColor},
		}),
	}, axisOpts("Year", "Average Popularity")...)...)

	labels := years(trends, func(t analytics.YearGenreMean) int { return t.Year })
	position := make(map[string]int, len(labels))
	for i, l := range labels {
		position[l] = i
	}

	series := make(map[string][]opts.LineData)
	var genres []string
	for _, t := range trends {
		data, ok := series[t.Genre]
		if !ok {
			data = make([]opts.LineData, len(labels))
			for i := range data {
				data[i] = opts.LineData{Value: nil}
			}
			genres = append(genres, t.Genre)
		}
		data[position[strconv.Itoa(t.Year)]] = opts.LineData{Value: round2(t.Mean)}
		series[t.Genre] = data
	}
	slices.SortFunc(genres, cmp.Compare[string])

	line.SetXAxis(labels)
	for _, g := range genres {
		line.AddSeries(g, series[g])
	}
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}))
	return line
}

// PopularityHistogram plots the popularity score distribution.
func PopularityHistogram(buckets []analytics.Bucket) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(append([]charts.GlobalOpts{
		initOpts("popularityHistogram"),
		titleOpts("Popularity Score Distribution (Histogram)"),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	}, axisOpts("Popularity Score", "Number of Songs")...)...)

	labels := make([]string, len(buckets))
	data := make([]opts.BarData, len(buckets))
	for i, b := range buckets {
		labels[i] = b.String()
		data[i] = opts.BarData{Value: b.Count}
	}

	bar.SetXAxis(labels).AddSeries("Songs", data)
	bar.SetSeriesOptions(charts.WithBarChartOpts(opts.BarChart{BarCategoryGap: "1%"}))
	return bar
}

// DurationVsPopularity scatters the sampled songs by duration and popularity.
func DurationVsPopularity(sample []models.DisplayRow) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		initOpts("durationVsPopularity"),
		charts.WithTitleOpts(opts.Title{
			Title:      "Duration vs. Popularity (Scatter Plot)",
			Subtitle:   fmt.Sprintf("Sample of %s songs", shared.FormatInt(len(sample))),
			TitleStyle: &opts.TextStyle{Color: ChartTextColor},
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "item",
			Formatter: "{b}<br/>{c}",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:         "Duration (seconds)",
			Type:         "value",
			NameLocation: "center",
			NameGap:      30,
			AxisLabel:    &opts.AxisLabel{Color: ChartTextColor},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:         "Popularity Score",
			Type:         "value",
			NameLocation: "center",
			NameGap:      50,
			AxisLabel:    &opts.AxisLabel{Color: ChartTextColor},
		}),
		charts.WithGridOpts(opts.Grid{Left: "80", Right: "40", Bottom: "60"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}),
	)

	data := make([]opts.ScatterData, len(sample))
	for i, s := range sample {
		data[i] = opts.ScatterData{
			Name:  fmt.Sprintf("%s by %s", s.Title, s.Artist),
			Value: []any{s.Duration, s.Popularity},
		}
	}

	scatter.AddSeries("Songs", data, charts.WithItemStyleOpts(opts.ItemStyle{Opacity: opts.Float(ScatterOpacity)}))
	return scatter
}

func round2(v float64) float64 {
	f, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return f
}
