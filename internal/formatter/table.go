package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// alignTable pads every cell to its column's display width.
//
// Markdown tables get pipes and a dashed separator row; plain tables are space separated
// with a dashed rule under the header.
func alignTable(header []string, rows [][]string, markdown bool) []string {
	if markdown {
		rows = escapePipes(rows)
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}
	if markdown {
		for i := range widths {
			widths[i] = max(widths[i], 3)
		}
	}

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, joinRow(header, widths, markdown))

	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("-", w)
	}
	lines = append(lines, joinRow(rule, widths, markdown))

	for _, row := range rows {
		lines = append(lines, joinRow(row, widths, markdown))
	}
	return lines
}

func joinRow(cells []string, widths []int, markdown bool) string {
	var sb strings.Builder
	if markdown {
		sb.WriteString("|")
	}

	for i, w := range widths {
		content := ""
		if i < len(cells) {
			content = cells[i]
		}
		if markdown {
			sb.WriteString(" ")
		} else if i > 0 {
			sb.WriteString("  ")
		}

		sb.WriteString(runewidth.FillRight(content, w))

		if markdown {
			sb.WriteString(" |")
		}
	}
	return sb.String()
}

func escapePipes(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		for j, cell := range row {
			out[i][j] = strings.ReplaceAll(cell, "|", `\|`)
		}
	}
	return out
}
