// package formatter exports dashboard results to various formats (CSV, Markdown, plain text, JSON, YAML, HTML)
package formatter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/songdash/internal/charts"
	"github.com/desertthunder/songdash/internal/dashboard"
	"github.com/desertthunder/songdash/internal/models"
	"github.com/desertthunder/songdash/internal/shared"
	"gopkg.in/yaml.v3"
)

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatHTML     Format = "html"
)

// Formats lists every supported export format.
func Formats() []Format {
	return []Format{FormatCSV, FormatMarkdown, FormatText, FormatJSON, FormatYAML, FormatHTML}
}

// ParseFormat resolves a format name, accepting "markdown", "text" and "yml" as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// DefaultFilename returns the file name used when no output path is given.
//
// Tabular formats hold the explorer rows; the others hold the full report.
func (f Format) DefaultFilename() string {
	switch f {
	case FormatCSV, FormatText:
		return "songdash_explore." + string(f)
	default:
		return "songdash_report." + string(f)
	}
}

// ExportToCSV writes rows with exactly the display columns, in order.
//
// The header comes from the `csv` tags on [models.DisplayRow].
func ExportToCSV(rows []models.DisplayRow) ([]byte, error) {
	return writeCSV(rows)
}

// ExportToText renders rows as an aligned plain text table with a match count.
func ExportToText(rows []models.DisplayRow) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Found %s songs\n\n", shared.FormatInt(len(rows))))
	for _, line := range alignTable(models.DisplayColumns, displayCells(rows), false) {
		buf.WriteString(strings.TrimRight(line, " "))
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders every section of report as Markdown with aligned tables.
func ExportToMarkdown(report *dashboard.Report) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", dashboard.AppTitle))

	if o := report.Overview; o != nil {
		buf.WriteString(fmt.Sprintf("## %s\n\n", dashboard.Overview.Title()))
		if o.Source.Path != "" {
			buf.WriteString(fmt.Sprintf("**Source**: %s\n", o.Source.Path))
		}
		buf.WriteString(fmt.Sprintf("**Shape**: (%s, %d)\n\n", shared.FormatInt(o.Rows), len(o.Columns)))

		buf.WriteString("### Key Metrics\n\n")
		buf.WriteString(fmt.Sprintf("- **Total Songs**: %s\n", shared.FormatInt(o.Summary.TotalSongs)))
		buf.WriteString(fmt.Sprintf("- **Total Genres**: %d\n", o.Summary.Genres))
		buf.WriteString(fmt.Sprintf("- **Total Unique Artists**: %s\n", shared.FormatInt(o.Summary.Artists)))
		buf.WriteString(fmt.Sprintf("- **Average Popularity**: %s\n\n", shared.FormatFloat(o.Summary.AveragePopularity)))

		var years [][]string
		for _, y := range o.SongsPerYear {
			years = append(years, []string{strconv.Itoa(y.Year), strconv.Itoa(y.Count)})
		}
		writeMarkdownTable(&buf, "Music Release Trend", []string{"Year", "Songs"}, years)

		var genres [][]string
		for _, g := range o.GenreDistribution {
			genres = append(genres, []string{g.Genre, strconv.Itoa(g.Count)})
		}
		writeMarkdownTable(&buf, "Genre Distribution", []string{"Genre", "Songs"}, genres)
	}

	if g := report.Genres; g != nil {
		buf.WriteString(fmt.Sprintf("## %s\n\n", dashboard.Genres.Title()))
		var means [][]string
		for _, m := range g.AveragePopularity {
			means = append(means, []string{m.Genre, shared.FormatFloat(m.Mean)})
		}
		writeMarkdownTable(&buf, "Average Popularity by Genre", []string{"Genre", "Average Popularity"}, means)

		var trends [][]string
		for _, t := range g.Trends {
			trends = append(trends, []string{strconv.Itoa(t.Year), t.Genre, shared.FormatFloat(t.Mean)})
		}
		writeMarkdownTable(&buf, "Popularity Trends by Genre", []string{"Year", "Genre", "Average Popularity"}, trends)
	}

	if f := report.Features; f != nil {
		buf.WriteString(fmt.Sprintf("## %s\n\n", dashboard.Features.Title()))
		var buckets [][]string
		for _, b := range f.Histogram {
			buckets = append(buckets, []string{b.String(), strconv.Itoa(b.Count)})
		}
		writeMarkdownTable(&buf, "Popularity Score Distribution", []string{"Popularity", "Songs"}, buckets)
		buf.WriteString(fmt.Sprintf("Scatter sample: %s songs.\n\n", shared.FormatInt(f.SampleSize)))
	}

	if e := report.Explore; e != nil {
		buf.WriteString(fmt.Sprintf("## %s\n\n", dashboard.Explore.Title()))
		buf.WriteString(fmt.Sprintf("**Genres**: %s\n", strings.Join(e.Criteria.Genres, ", ")))
		buf.WriteString(fmt.Sprintf("**Release Years**: %d-%d\n", e.Criteria.Years.Low, e.Criteria.Years.High))
		buf.WriteString(fmt.Sprintf("**Popularity**: %d-%d\n\n", e.Criteria.Popularity.Low, e.Criteria.Popularity.High))
		title := fmt.Sprintf("Found %s songs matching your criteria", shared.FormatInt(e.Count))
		writeMarkdownTable(&buf, title, models.DisplayColumns, displayCells(e.Rows))
	}

	return buf.Bytes(), nil
}

// ExportToJSON marshals v, indenting when pretty is set.
func ExportToJSON(v any, pretty bool) ([]byte, error) {
	return shared.MarshalJSON(v, pretty)
}

// ExportToYAML marshals v as YAML.
func ExportToYAML(v any) ([]byte, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return data, nil
}

// ExportToHTML renders every chart of report on a standalone page.
func ExportToHTML(report *dashboard.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := charts.ReportPage(report).Render(&buf); err != nil {
		return nil, fmt.Errorf("failed to render HTML report: %w", err)
	}
	return buf.Bytes(), nil
}

// Export renders report in format f. CSV and text hold the explorer rows.
func Export(report *dashboard.Report, f Format) ([]byte, error) {
	switch f {
	case FormatCSV, FormatText:
		if report.Explore == nil {
			return nil, fmt.Errorf("%w: report has no explorer rows", shared.ErrInvalidArgument)
		}
		if f == FormatCSV {
			return ExportToCSV(report.Explore.Rows)
		}
		return ExportToText(report.Explore.Rows)
	case FormatMarkdown:
		return ExportToMarkdown(report)
	case FormatJSON:
		return ExportToJSON(report, true)
	case FormatYAML:
		return ExportToYAML(report)
	case FormatHTML:
		return ExportToHTML(report)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
	}
}

// WriteExport renders report in format f to path, creating parent directories as needed.
//
// Defaults to [Format.DefaultFilename] in the working directory. Returns the written path.
func WriteExport(report *dashboard.Report, f Format, path string) (string, error) {
	if path == "" {
		path = f.DefaultFilename()
	}

	data, err := Export(report, f)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", f, err)
	}

	return path, nil
}

func displayCells(rows []models.DisplayRow) [][]string {
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{
			r.Title,
			r.Artist,
			r.Genre,
			strconv.Itoa(r.ReleaseYear),
			strconv.Itoa(r.Popularity),
			shared.FormatDuration(r.Duration),
		}
	}
	return cells
}

func writeMarkdownTable(buf *bytes.Buffer, title string, header []string, rows [][]string) {
	buf.WriteString(fmt.Sprintf("### %s\n\n", title))
	for _, line := range alignTable(header, rows, true) {
		buf.WriteString(line)
		buf.WriteString("\n")
	}
	buf.WriteString("\n")
}
