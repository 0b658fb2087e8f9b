package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/songdash/internal/analytics"
	"github.com/desertthunder/songdash/internal/dashboard"
	"github.com/desertthunder/songdash/internal/models"
	"github.com/desertthunder/songdash/internal/shared"
	"github.com/mattn/go-runewidth"
)

const (
	barWidth      = 40
	maxLabelWidth = 24
	maxCellWidth  = 30
)

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("🎵 " + dashboard.AppTitle))
	b.WriteString("\n")
	if m.audio != "" {
		b.WriteString(styles.warn.Render(m.audio))
		b.WriteString("\n")
	}

	if m.view == MenuView {
		b.WriteString(m.menu.View())
		b.WriteString("\n\n")
		b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.up, m.keys.down, m.keys.enter, m.keys.quit}))
		return b.String()
	}

	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(styles.help.Render("Currently viewing: " + m.page.Title()))
	b.WriteString("\n\n")
	b.WriteString(m.renderBody())
	b.WriteString("\n\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m *Model) renderTabs() string {
	var tabs []string
	for i, p := range dashboard.Pages() {
		label := fmt.Sprintf("%d %s", i+1, p.Title())
		if p == m.page {
			tabs = append(tabs, styles.ok.Render("["+label+"]"))
		} else {
			tabs = append(tabs, styles.help.Render(" "+label+" "))
		}
	}
	return strings.Join(tabs, " ")
}

func (m *Model) renderBody() string {
	if m.err != nil {
		return styles.err.Render(dashboard.Describe(m.err))
	}
	if m.loading {
		return fmt.Sprintf("%s %s", m.spinner.View(), m.progress.Message)
	}

	switch m.page {
	case dashboard.Overview:
		return m.renderOverview()
	case dashboard.Genres:
		return m.renderGenres()
	case dashboard.Features:
		return m.renderFeatures()
	case dashboard.Explore:
		return m.renderExplore()
	default:
		return ""
	}
}

func (m *Model) renderHelp() string {
	keys := []key.Binding{m.keys.next, m.keys.prev, m.keys.back, m.keys.refresh, m.keys.quit}
	if m.page == dashboard.Explore {
		keys = []key.Binding{m.keys.up, m.keys.down, m.keys.toggle, m.keys.all, m.keys.left, m.keys.right, m.keys.next, m.keys.quit}
		keys = append(keys, key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")))
	}
	return m.help.ShortHelpView(keys)
}

func (m *Model) renderOverview() string {
	r := m.overview
	if r == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.heading.Render(dashboard.Overview.Heading()))
	b.WriteString("\n\n")
	b.WriteString(styles.heading.Render("Data Preview and Shape"))
	b.WriteString("\n")
	b.WriteString(m.table.View())
	fmt.Fprintf(&b, "\nShape of Dataset: (%s, %d)\n", shared.FormatInt(r.Rows), len(r.Columns))
	fmt.Fprintf(&b, "Columns: %s\n\n", strings.Join(r.Columns, ", "))

	b.WriteString(styles.heading.Render("Key Metrics"))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		metric("Total Songs", shared.FormatInt(r.Summary.TotalSongs)),
		metric("Total Genres", strconv.Itoa(r.Summary.Genres)),
		metric("Total Unique Artists", shared.FormatInt(r.Summary.Artists)),
		metric("Average Popularity", shared.FormatFloat(r.Summary.AveragePopularity)),
	))
	b.WriteString("\n\n")

	b.WriteString(styles.heading.Render("Music Release Trend (2000-2020)"))
	b.WriteString("\n")
	labels, values := make([]string, len(r.SongsPerYear)), make([]float64, len(r.SongsPerYear))
	for i, y := range r.SongsPerYear {
		labels[i], values[i] = strconv.Itoa(y.Year), float64(y.Count)
	}
	b.WriteString(bars(labels, values, func(v float64) string { return shared.FormatInt(int(v)) }))
	b.WriteString("\n")

	b.WriteString(styles.heading.Render("Genre Distribution"))
	b.WriteString("\n")
	b.WriteString(countBars(r.GenreDistribution))
	return b.String()
}

func (m *Model) renderGenres() string {
	r := m.genres
	if r == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.heading.Render(dashboard.Genres.Heading()))
	b.WriteString("\n\n")
	b.WriteString(styles.heading.Render("Average Popularity by Genre"))
	b.WriteString("\n")
	labels, values := make([]string, len(r.AveragePopularity)), make([]float64, len(r.AveragePopularity))
	for i, g := range r.AveragePopularity {
		labels[i], values[i] = g.Genre, g.Mean
	}
	b.WriteString(bars(labels, values, shared.FormatFloat))
	b.WriteString("\n")
	b.WriteString(styles.heading.Render("Popularity Trends by Genre (Over Time)"))
	b.WriteString("\n")
	b.WriteString(m.table.View())
	return b.String()
}

func (m *Model) renderFeatures() string {
	r := m.features
	if r == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.heading.Render(dashboard.Features.Heading()))
	b.WriteString("\nThis page explores the relationships between song features.\n\n")
	b.WriteString(styles.heading.Render("Popularity Score Distribution (Histogram)"))
	b.WriteString("\n")
	labels, values := make([]string, len(r.Histogram)), make([]float64, len(r.Histogram))
	for i, bucket := range r.Histogram {
		labels[i], values[i] = bucket.String(), float64(bucket.Count)
	}
	b.WriteString(bars(labels, values, func(v float64) string { return shared.FormatInt(int(v)) }))
	b.WriteString("\n")
	b.WriteString(styles.heading.Render("Duration vs. Popularity (Sample)"))
	b.WriteString("\n")
	b.WriteString(m.table.View())
	fmt.Fprintf(&b, "\n%s", styles.help.Render(fmt.Sprintf("This plot is a sample of %s songs.", shared.FormatInt(r.SampleSize))))
	return b.String()
}

func (m *Model) renderExplore() string {
	var b strings.Builder
	b.WriteString(styles.heading.Render(dashboard.Explore.Heading()))
	b.WriteString("\n\n")
	b.WriteString(m.renderControls())
	b.WriteString("\n")

	if m.warning != "" {
		b.WriteString(styles.warn.Render(m.warning))
		return b.String()
	}
	if m.explore != nil {
		b.WriteString(styles.heading.Render(fmt.Sprintf("Found %s songs matching your criteria:", shared.FormatInt(m.explore.Count))))
		b.WriteString("\n")
		b.WriteString(m.table.View())
	}
	return b.String()
}

func (m *Model) renderControls() string {
	if m.controls == nil {
		return ""
	}
	ctl := m.controls.Controls
	selected := make(map[string]bool, len(m.criteria.Genres))
	for _, g := range m.criteria.Genres {
		selected[g] = true
	}

	var b strings.Builder
	row := func(i int, text string) {
		if i == m.cursor {
			b.WriteString(styles.cursor.Render("> " + text))
		} else {
			b.WriteString("  " + text)
		}
		b.WriteString("\n")
	}

	b.WriteString(styles.heading.Render("Song Explorer Filters"))
	b.WriteString("\nSelect Genres:\n")
	for i, g := range ctl.Genres {
		box := "[ ]"
		if selected[g] {
			box = "[x]"
		}
		row(i, box+" "+g)
	}

	n := len(ctl.Genres)
	row(n, fmt.Sprintf("Release year from: %d  (%d-%d)", m.criteria.Years.Low, ctl.YearBounds.Low, ctl.YearBounds.High))
	row(n+1, fmt.Sprintf("Release year to:   %d", m.criteria.Years.High))
	row(n+2, fmt.Sprintf("Popularity from:   %d  (%d-%d)", m.criteria.Popularity.Low, ctl.PopularityBounds.Low, ctl.PopularityBounds.High))
	row(n+3, fmt.Sprintf("Popularity to:     %d", m.criteria.Popularity.High))
	return b.String()
}

// syncTable rebuilds the table for the current page from its cached result.
func (m *Model) syncTable() {
	var (
		header []string
		rows   []table.Row
	)

	switch m.page {
	case dashboard.Overview:
		if m.overview == nil {
			return
		}
		header = []string{models.ColumnTitle, models.ColumnArtist, models.ColumnGenre, models.ColumnReleaseDate, models.ColumnPopularity, models.ColumnDuration}
		for _, s := range m.overview.Preview {
			rows = append(rows, table.Row{
				s.Title, s.Artist, s.Genre,
				s.ReleaseDate.Format("02-01-2006"),
				strconv.Itoa(s.Popularity),
				shared.FormatDuration(s.Duration),
			})
		}
	case dashboard.Genres:
		if m.genres == nil {
			return
		}
		header, rows = trendRows(m.genres)
	case dashboard.Features:
		if m.features == nil {
			return
		}
		header, rows = displayRows(m.features.Sample)
	case dashboard.Explore:
		if m.explore == nil {
			m.table = table.New()
			return
		}
		header, rows = displayRows(m.explore.Rows)
	}

	m.table = table.New(
		table.WithColumns(columns(header, rows)),
		table.WithRows(rows),
		table.WithHeight(m.tableHeight(len(rows))),
		table.WithFocused(true),
	)
}

func (m *Model) tableHeight(rows int) int {
	limit := 10
	if m.height > 0 {
		limit = max(5, m.height/3)
	}
	return max(1, min(rows+1, limit))
}

func displayRows(in []models.DisplayRow) ([]string, []table.Row) {
	rows := make([]table.Row, len(in))
	for i, r := range in {
		rows[i] = table.Row{
			r.Title, r.Artist, r.Genre,
			strconv.Itoa(r.ReleaseYear),
			strconv.Itoa(r.Popularity),
			shared.FormatDuration(r.Duration),
		}
	}
	return models.DisplayColumns, rows
}

// trendRows pivots the year/genre means into one row per year.
func trendRows(r *dashboard.GenreResult) ([]string, []table.Row) {
	header := append([]string{"Year"}, r.Genres...)
	col := make(map[string]int, len(r.Genres))
	for i, g := range r.Genres {
		col[g] = i + 1
	}

	var rows []table.Row
	year := -1
	for _, t := range r.Trends {
		if t.Year != year {
			year = t.Year
			row := make(table.Row, len(header))
			row[0] = strconv.Itoa(year)
			for i := 1; i < len(row); i++ {
				row[i] = "-"
			}
			rows = append(rows, row)
		}
		if i, ok := col[t.Genre]; ok {
			rows[len(rows)-1][i] = shared.FormatFloat(t.Mean)
		}
	}
	return header, rows
}

// columns sizes each column to its widest cell.
func columns(header []string, rows []table.Row) []table.Column {
	cols := make([]table.Column, len(header))
	for i, h := range header {
		w := runewidth.StringWidth(h)
		for _, r := range rows {
			if i < len(r) {
				w = max(w, runewidth.StringWidth(r[i]))
			}
		}
		cols[i] = table.Column{Title: h, Width: min(w, maxCellWidth)}
	}
	return cols
}

func metric(label, value string) string {
	return styles.metric.Render(styles.help.Render(label) + "\n" + value)
}

func countBars(counts []analytics.GenreCount) string {
	labels, values := make([]string, len(counts)), make([]float64, len(counts))
	for i, c := range counts {
		labels[i], values[i] = c.Genre, float64(c.Count)
	}
	return bars(labels, values, func(v float64) string { return shared.FormatInt(int(v)) })
}

// bars draws a horizontal bar per label, scaled to the largest value.
func bars(labels []string, values []float64, format func(float64) string) string {
	width, peak := 0, 0.0
	for i, l := range labels {
		width = max(width, runewidth.StringWidth(l))
		peak = max(peak, values[i])
	}
	width = min(width, maxLabelWidth)

	var b strings.Builder
	for i, l := range labels {
		n := 0
		if peak > 0 {
			n = int(values[i] / peak * barWidth)
		}
		label := runewidth.FillRight(runewidth.Truncate(l, width, "…"), width)
		fmt.Fprintf(&b, "%s %s %s\n", label, styles.bar.Render(strings.Repeat("█", n)), format(values[i]))
	}
	return b.String()
}
