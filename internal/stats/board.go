package stats

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/speedtype/internal/model"
)

// Output formats for the leaderboard.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// RankLabel returns the place label shown for a 0-based board index.
func RankLabel(idx int) string {
	switch idx {
	case 0:
		return "1st"
	case 1:
		return "2nd"
	case 2:
		return "3rd"
	default:
		return fmt.Sprintf("#%d", idx+1)
	}
}

// BoardRows formats entries as table rows without headers.
func BoardRows(entries []model.ScoreRecord) [][]string {
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			RankLabel(i),
			fmt.Sprintf("%d", e.WPM),
			fmt.Sprintf("%.1f%%", e.Accuracy),
			fmt.Sprintf("%ds", e.Time),
			e.Date,
			e.Text,
		})
	}
	return rows
}

// BoardHeaders are the column titles for BoardRows.
var BoardHeaders = []string{"Rank", "WPM", "Accuracy", "Test", "Date", "Text"}

// BoardLines renders the leaderboard as aligned text lines.
func BoardLines(entries []model.ScoreRecord) []string {
	rightAlign := map[int]bool{1: true, 2: true, 3: true}
	return formatTable(BoardHeaders, BoardRows(entries), rightAlign)
}

// RenderBoard writes the leaderboard in the requested format.
func RenderBoard(w io.Writer, entries []model.ScoreRecord, format string) error {
	switch format {
	case "", FormatTable:
		if len(entries) == 0 {
			_, err := fmt.Fprintln(w, "No scores yet.")
			return err
		}
		for _, line := range BoardLines(entries) {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if entries == nil {
			entries = []model.ScoreRecord{}
		}
		return enc.Encode(entries)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want %s, %s or %s)", format, FormatTable, FormatJSON, FormatYAML)
	}
}
