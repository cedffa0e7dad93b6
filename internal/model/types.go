// Package model defines shared data structures.
package model

import "time"

// Durations lists the selectable test lengths in seconds.
var Durations = []int{15, 30, 60}

// DefaultDuration is the test length used when none is selected.
const DefaultDuration = 30

// ValidDuration reports whether seconds is one of the selectable durations.
func ValidDuration(seconds int) bool {
	for _, d := range Durations {
		if d == seconds {
			return true
		}
	}
	return false
}

// Config defines test settings.
type Config struct {
	Duration  int
	TextsPath string
	Storage   string
	LogLevel  string
}

// ScoreRecord is a single leaderboard entry.
type ScoreRecord struct {
	ID       string  `json:"id,omitempty" yaml:"id,omitempty"`
	WPM      int     `json:"wpm" yaml:"wpm"`
	Accuracy float64 `json:"accuracy" yaml:"accuracy"`
	Text     string  `json:"text" yaml:"text"`
	Date     string  `json:"date" yaml:"date"`
	Time     int     `json:"time" yaml:"time"`
}

// SessionRecord captures a completed test for history.
type SessionRecord struct {
	EndedAt   time.Time
	Duration  int
	Elapsed   int
	WPM       int
	Accuracy  float64
	Reason    string
	Text      string
	Qualified bool
}

// HistoryConfig defines filters for history output.
type HistoryConfig struct {
	Last   int
	Window int
}
