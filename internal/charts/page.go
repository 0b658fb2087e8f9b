package charts

import (
	"html/template"

	"github.com/desertthunder/songdash/internal/dashboard"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/render"
)

// AssetsHost serves echarts.min.js for pages that embed snippets.
const AssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// Chart is any go-echarts chart.
type Chart interface {
	components.Charter
	render.Renderer
	JSON() map[string]any
}

// Snippet is a chart split into its container element and initialisation script.
type Snippet struct {
	Element template.HTML
	Script  template.HTML
}

// Embed renders c as a snippet for inclusion in a page that loads echarts from [AssetsHost].
func Embed(c Chart) Snippet {
	s := c.RenderSnippet()
	return Snippet{
		Element: template.HTML(s.Element),
		Script:  template.HTML(s.Script),
	}
}

// Overview returns the release trend and genre distribution charts.
func Overview(r *dashboard.OverviewResult) []Chart {
	return []Chart{
		SongsPerYear(r.SongsPerYear),
		GenreDistribution(r.GenreDistribution),
	}
}

// Genres returns the average popularity and popularity trend charts.
func Genres(r *dashboard.GenreResult) []Chart {
	return []Chart{
		AveragePopularity(r.AveragePopularity),
		PopularityTrends(r.Trends),
	}
}

// Features returns the popularity histogram and the duration scatter plot.
func Features(r *dashboard.FeatureResult) []Chart {
	return []Chart{
		PopularityHistogram(r.Histogram),
		DurationVsPopularity(r.Sample),
	}
}

// Snippets embeds every chart in order.
func Snippets(cs []Chart) []Snippet {
	out := make([]Snippet, len(cs))
	for i, c := range cs {
		out[i] = Embed(c)
	}
	return out
}

// ReportPage lays out every chart of the report on one go-echarts page.
func ReportPage(r *dashboard.Report) *components.Page {
	page := components.NewPage()
	page.SetPageTitle(dashboard.AppTitle)

	var all []components.Charter
	for _, cs := range [][]Chart{Overview(r.Overview), Genres(r.Genres), Features(r.Features)} {
		for _, c := range cs {
			all = append(all, c)
		}
	}
	page.AddCharts(all...)
	return page
}
