package stats

import (
	"context"
	"fmt"
	"io"

	"github.com/verte-zerg/speedtype/internal/model"
)

// SessionLister lists recorded tests.
type SessionLister interface {
	ListSessions(ctx context.Context, cfg model.HistoryConfig) ([]model.SessionRecord, error)
}

// Report contains precomputed data for history rendering.
type Report struct {
	Sessions []model.SessionRecord
	Summary  Summary
	Window   int
}

// BuildReport loads and prepares data for history rendering.
func BuildReport(ctx context.Context, st SessionLister, cfg model.HistoryConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	window := cfg.Window
	if window <= 0 || window > len(sessions) {
		window = len(sessions)
	}
	return Report{
		Sessions: sessions,
		Summary:  Summarize(sessions),
		Window:   window,
	}, nil
}

// RenderReport prints the summary, trend lines and the most recent tests.
func RenderReport(w io.Writer, report Report, width int) error {
	if err := RenderSummary(w, report.Sessions); err != nil {
		return err
	}
	if len(report.Sessions) == 0 {
		return nil
	}
	if err := RenderCurves(w, report.Sessions, report.Window, width); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	recent := report.Sessions
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	rows := make([][]string, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		s := recent[i]
		rows = append(rows, []string{
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", s.WPM),
			fmt.Sprintf("%.1f%%", s.Accuracy),
			fmt.Sprintf("%d/%ds", s.Elapsed, s.Duration),
			s.Reason,
		})
	}
	headers := []string{"Ended", "WPM", "Accuracy", "Time", "Reason"}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
