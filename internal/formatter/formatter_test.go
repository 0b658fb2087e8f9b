package formatter

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/desertthunder/songdash/internal/dashboard"
	"github.com/desertthunder/songdash/internal/models"
	"github.com/desertthunder/songdash/internal/shared"
	"github.com/desertthunder/songdash/internal/songs"
	th "github.com/desertthunder/songdash/internal/testing"
	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"
)

func sampleReport(t *testing.T) *dashboard.Report {
	t.Helper()
	cfg := shared.DefaultConfig()
	cfg.Dataset.SampleSize = 3
	cfg.Dataset.HistogramBins = 5

	loader := songs.NewLoader(th.WriteSampleSongs(t), songs.LoadOptions{}, nil)
	report, err := dashboard.New(loader, cfg, nil).Report(context.Background())
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	return report
}

func TestExporters(t *testing.T) {
	report := sampleReport(t)

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(report.Explore.Rows)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}
		if strings.Join(records[0], ",") != strings.Join(models.DisplayColumns, ",") {
			t.Errorf("CSV header = %v, want %v", records[0], models.DisplayColumns)
		}
		if len(records) != 5 {
			t.Fatalf("expected header plus 4 rows, got %d records", len(records))
		}
		for _, r := range records {
			if len(r) != len(models.DisplayColumns) {
				t.Errorf("record has %d fields, want %d", len(r), len(models.DisplayColumns))
			}
		}
		if got := strings.Join(records[1], ","); got != "Midnight Drive,Nova,Pop,2010,80,200" {
			t.Errorf("unexpected first row %q", got)
		}
		if records[2][5] != "240.5" {
			t.Errorf("fractional durations should be kept, got %q", records[2][5])
		}
	})

	t.Run("ExportToCSV quotes fields", func(t *testing.T) {
		data, err := ExportToCSV([]models.DisplayRow{{Title: "Hello, World", Artist: `The "Band"`}})
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}
		if !strings.Contains(string(data), `"Hello, World","The ""Band"""`) {
			t.Errorf("expected quoted fields, got %s", data)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(report.Explore.Rows)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "Found 4 songs\n\n") {
			t.Errorf("missing count line, got %q", output)
		}
		if !strings.Contains(output, "Static Bloom") || !strings.Contains(output, "5:05") {
			t.Errorf("missing row content, got %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(report)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# " + dashboard.AppTitle,
			"## Overview Dashboard",
			"- **Total Songs**: 6",
			"### Average Popularity by Genre",
			"| Pop ",
			"67.50",
			"## Interactive Song Explorer",
			"### Found 4 songs matching your criteria",
			"**Popularity**: 50-100",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q", want)
			}
		}
	})

	t.Run("ExportToYAML", func(t *testing.T) {
		data, err := ExportToYAML(report)
		if err != nil {
			t.Fatalf("ExportToYAML failed: %v", err)
		}

		var decoded map[string]any
		if err := yaml.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("output is not valid YAML: %v", err)
		}
		for _, key := range []string{"overview", "genres", "features", "explore"} {
			if _, ok := decoded[key]; !ok {
				t.Errorf("YAML missing %q section", key)
			}
		}
		if !strings.Contains(string(data), "total_songs: 6") {
			t.Error("expected snake_case summary keys")
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(report, true)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded dashboard.Report
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.Explore == nil || decoded.Explore.Count != 4 {
			t.Errorf("unexpected explore section %+v", decoded.Explore)
		}
	})

	t.Run("ExportToHTML", func(t *testing.T) {
		data, err := ExportToHTML(report)
		if err != nil {
			t.Fatalf("ExportToHTML failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "<html") {
			t.Error("expected a standalone HTML page")
		}
		if !strings.Contains(output, "durationVsPopularity") {
			t.Error("expected the scatter chart")
		}
	})
}

func TestAlignTable(t *testing.T) {
	t.Run("markdown", func(t *testing.T) {
		lines := alignTable([]string{"Title", "Genre"}, [][]string{{"夜に駆ける", "J-Pop"}, {"A|B", "Rock"}}, true)

		if len(lines) != 4 {
			t.Fatalf("expected 4 lines, got %d", len(lines))
		}
		width := runewidth.StringWidth(lines[0])
		for _, l := range lines {
			if runewidth.StringWidth(l) != width {
				t.Errorf("line %q has width %d, want %d", l, runewidth.StringWidth(l), width)
			}
		}
		if !strings.HasPrefix(lines[1], "| ---") {
			t.Errorf("expected a separator row, got %q", lines[1])
		}
		if !strings.Contains(lines[3], `A\|B`) {
			t.Errorf("pipes should be escaped, got %q", lines[3])
		}
	})

	t.Run("plain", func(t *testing.T) {
		lines := alignTable([]string{"A", "B"}, [][]string{{"long value", "x"}}, false)
		if lines[0] != "A           B" {
			t.Errorf("unexpected header %q", lines[0])
		}
		if strings.Contains(lines[0], "|") {
			t.Error("plain tables should not use pipes")
		}
	})
}

func TestFormats(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"csv", FormatCSV},
		{"markdown", FormatMarkdown},
		{"MD", FormatMarkdown},
		{"text", FormatText},
		{"yml", FormatYAML},
		{"json", FormatJSON},
		{"html", FormatHTML},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}

	if _, err := ParseFormat("xlsx"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}

	if FormatCSV.DefaultFilename() != "songdash_explore.csv" || FormatHTML.DefaultFilename() != "songdash_report.html" {
		t.Error("unexpected default filenames")
	}
}

func TestWriteExport(t *testing.T) {
	report := sampleReport(t)

	for _, f := range Formats() {
		t.Run(string(f), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out", f.DefaultFilename())

			written, err := WriteExport(report, f, path)
			if err != nil {
				t.Fatalf("WriteExport failed: %v", err)
			}
			if written != path {
				t.Errorf("expected %s, got %s", path, written)
			}
			th.AssertFileExists(t, path)
			if len(th.MustReadFile(t, path)) == 0 {
				t.Error("export file is empty")
			}
		})
	}

	t.Run("tabular formats need explorer rows", func(t *testing.T) {
		_, err := WriteExport(&dashboard.Report{}, FormatCSV, filepath.Join(t.TempDir(), "x.csv"))
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestWriteCSV(t *testing.T) {
	t.Run("display row tags match the display columns", func(t *testing.T) {
		got := csvHeader(reflect.TypeFor[models.DisplayRow]())
		if !slices.Equal(got, models.DisplayColumns) {
			t.Errorf("csvHeader(DisplayRow) = %v, want %v", got, models.DisplayColumns)
		}
	})

	t.Run("untagged fields use the field name", func(t *testing.T) {
		type row struct {
			Name  string `csv:"name"`
			Score int
			Ratio float64 `csv:"ratio"`
			note  string
		}

		data, err := writeCSV([]row{{Name: "a", Score: 3, Ratio: 0.25, note: "hidden"}})
		if err != nil {
			t.Fatalf("writeCSV failed: %v", err)
		}
		if got, want := string(data), "name,Score,ratio\na,3,0.25\n"; got != want {
			t.Errorf("writeCSV = %q, want %q", got, want)
		}
	})

	t.Run("rejects non-struct rows", func(t *testing.T) {
		if _, err := writeCSV([]string{"a"}); err == nil {
			t.Error("expected an error for string rows")
		}
	})
}
