// Package formatter renders aligned text tables for CLI output.
package formatter

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"ezexport/internal/models"
)

const minColumnWidth = 3

// RenderTable renders a markdown-style table with columns padded to their
// display width, so wide runes (æøå, CJK) line up.
func RenderTable(headers []string, rows [][]string) string {
	colCount := len(headers)
	for _, row := range rows {
		colCount = max(colCount, len(row))
	}

	if colCount == 0 {
		return ""
	}

	table := make([][]string, 0, len(rows)+1)
	table = append(table, headers)
	table = append(table, rows...)

	// Calculate max widths (using display width)
	colWidths := make([]int, colCount)
	for i := range colWidths {
		colWidths[i] = minColumnWidth
	}

	for _, row := range table {
		for i, cell := range row {
			colWidths[i] = max(colWidths[i], runewidth.StringWidth(cell))
		}
	}

	var sb strings.Builder

	for i, row := range table {
		writeRow(&sb, row, colWidths)

		if i == 0 {
			separator := make([]string, colCount)
			for j, w := range colWidths {
				separator[j] = strings.Repeat("-", w)
			}

			writeRow(&sb, separator, colWidths)
		}
	}

	return sb.String()
}

func writeRow(sb *strings.Builder, row []string, colWidths []int) {
	sb.WriteString("|")

	for j, width := range colWidths {
		content := ""
		if j < len(row) {
			content = row[j]
		}

		sb.WriteString(" ")
		sb.WriteString(content)

		// Pad with spaces based on display width
		if padding := width - runewidth.StringWidth(content); padding > 0 {
			sb.WriteString(strings.Repeat(" ", padding))
		}

		sb.WriteString(" |")
	}

	sb.WriteString("\n")
}

// PageTable lists manifest records, one per line.
func PageTable(pages []models.PageRecord) string {
	rows := make([][]string, 0, len(pages))

	for _, p := range pages {
		rows = append(rows, []string{
			p.NodeID,
			string(p.Category),
			p.Org,
			p.URL,
			strings.Join(p.Tags, ", "),
		})
	}

	return RenderTable([]string{"Node", "Category", "Org", "Path", "Tags"}, rows)
}

// EnvelopeTable summarises exported pages. Titles are truncated to titleWidth cells.
func EnvelopeTable(envelopes []models.PageEnvelope, titleWidth int) string {
	rows := make([][]string, 0, len(envelopes))

	for _, e := range envelopes {
		title := e.MetaTags.Title
		if titleWidth > 0 {
			title = runewidth.Truncate(title, titleWidth, "...")
		}

		rows = append(rows, []string{
			e.PageDetails.Path,
			string(e.PageDetails.ContentType),
			e.PageDetails.EzContentType,
			title,
			strconv.Itoa(len(e.Content)),
		})
	}

	return RenderTable([]string{"Path", "Type", "Legacy", "Title", "Items"}, rows)
}
