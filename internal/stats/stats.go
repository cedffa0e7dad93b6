// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/verte-zerg/speedtype/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates a history of tests.
type Summary struct {
	Sessions    int
	Qualified   int
	Matched     int
	AvgWPM      float64
	BestWPM     int
	AvgAccuracy float64
}

// Summarize computes averages and bests over sessions.
func Summarize(sessions []model.SessionRecord) Summary {
	s := Summary{Sessions: len(sessions)}
	if len(sessions) == 0 {
		return s
	}
	var totalWPM, totalAcc float64
	for _, rec := range sessions {
		totalWPM += float64(rec.WPM)
		totalAcc += rec.Accuracy
		if rec.WPM > s.BestWPM {
			s.BestWPM = rec.WPM
		}
		if rec.Qualified {
			s.Qualified++
		}
		if rec.Reason == "matched" {
			s.Matched++
		}
	}
	count := float64(len(sessions))
	s.AvgWPM = totalWPM / count
	s.AvgAccuracy = totalAcc / count
	return s
}

// MovingAverage smooths values with a trailing mean of up to window points.
// The first points average over what is available so far.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window < 1 {
		window = 1
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if n > window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline maps values onto sparkChars, lowest to highest. A flat series
// renders as a row of the middle glyph.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := slices.Min(values), slices.Max(values)
	span := hi - lo
	top := len(sparkChars) - 1
	out := make([]byte, len(values))
	for i, v := range values {
		if span < 1e-9 {
			out[i] = sparkChars[len(sparkChars)/2]
			continue
		}
		idx := int(math.Round((v - lo) / span * float64(top)))
		out[i] = sparkChars[min(max(idx, 0), top)]
	}
	return string(out)
}

// RenderSummary prints a summary for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionRecord) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	s := Summarize(sessions)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d (%d completed, %d on the board)", s.Sessions, s.Matched, s.Qualified),
		fmt.Sprintf("Avg WPM: %.1f", s.AvgWPM),
		fmt.Sprintf("Best WPM: %d", s.BestWPM),
		fmt.Sprintf("Avg Accuracy: %.1f%%", s.AvgAccuracy),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints WPM and accuracy sparklines smoothed over window,
// keeping the most recent points that fit in width.
func RenderCurves(w io.Writer, sessions []model.SessionRecord, window, width int) error {
	if len(sessions) == 0 {
		return nil
	}
	wpms := make([]float64, len(sessions))
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		wpms[i] = float64(s.WPM)
		accs[i] = s.Accuracy
	}
	series := []struct {
		name   string
		values []float64
		format string
	}{
		{"WPM", MovingAverage(wpms, window), "%.0f"},
		{"Accuracy", MovingAverage(accs, window), "%.1f%%"},
	}
	const label, suffix = 10, 8
	points := width - label - suffix
	if width <= 0 || points < 1 {
		points = len(sessions)
	}
	if _, err := fmt.Fprintf(w, "Trend (window %d)\n", window); err != nil {
		return err
	}
	for _, s := range series {
		values := tail(s.values, points)
		last := fmt.Sprintf(s.format, values[len(values)-1])
		if _, err := fmt.Fprintf(w, "%-*s%s %s\n", label, s.name, Sparkline(values), last); err != nil {
			return err
		}
	}
	return nil
}

func tail(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
