package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// column is the resolved layout of one table column.
type column struct {
	width int
	right bool
}

// formatTable lays out headers and rows as space separated, padded lines.
// Widths are display cells, so wide runes line up.
func formatTable(headers []string, rows [][]string, rightAlign map[int]bool) []string {
	cols := layoutColumns(headers, rows, rightAlign)
	if len(cols) == 0 {
		return nil
	}
	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, joinCells(headers, cols))
	}
	for _, row := range rows {
		lines = append(lines, joinCells(row, cols))
	}
	return lines
}

func layoutColumns(headers []string, rows [][]string, rightAlign map[int]bool) []column {
	n := len(headers)
	for _, row := range rows {
		n = max(n, len(row))
	}
	cols := make([]column, n)
	for i := range cols {
		cols[i].right = rightAlign[i]
	}
	for _, line := range append([][]string{headers}, rows...) {
		for i, cell := range line {
			cols[i].width = max(cols[i].width, runewidth.StringWidth(cell))
		}
	}
	return cols
}

func joinCells(cells []string, cols []column) string {
	out := make([]string, len(cols))
	for i, c := range cols {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		if c.right {
			out[i] = runewidth.FillLeft(cell, c.width)
		} else {
			out[i] = runewidth.FillRight(cell, c.width)
		}
	}
	return strings.Join(out, " ")
}
