// Package scoring computes words-per-minute and accuracy for a typing test.
package scoring

import (
	"math"
	"strings"
)

// MinAccuracy is the accuracy a result must exceed to reach the leaderboard.
const MinAccuracy = 70.0

// Result is the derived outcome of a test.
type Result struct {
	Words        int
	WPM          int
	CorrectChars int
	Accuracy     float64
}

// Score computes the result for typed against sample after elapsed seconds.
func Score(typed, sample string, elapsedSeconds int) Result {
	words := len(strings.Fields(typed))
	wpm := 0
	minutes := float64(elapsedSeconds) / 60.0
	if minutes > 0 {
		wpm = int(math.Round(float64(words) / minutes))
	}

	correct := CorrectChars(typed, sample)
	accuracy := 0.0
	if total := len([]rune(sample)); total > 0 {
		accuracy = round1(float64(correct) / float64(total) * 100)
	}
	return Result{
		Words:        words,
		WPM:          wpm,
		CorrectChars: correct,
		Accuracy:     accuracy,
	}
}

// Qualifies reports whether r may be inserted into the leaderboard.
func Qualifies(r Result) bool {
	return r.WPM > 0 && r.Accuracy > MinAccuracy
}

// CorrectChars counts positions where typed matches sample. Positions past
// the shorter of the two never count.
func CorrectChars(typed, sample string) int {
	t := []rune(typed)
	s := []rune(sample)
	n := min(len(t), len(s))
	correct := 0
	for i := 0; i < n; i++ {
		if t[i] == s[i] {
			correct++
		}
	}
	return correct
}

// Flag describes how a sample character renders against the typed input.
type Flag int

const (
	// Pending characters have not been typed yet.
	Pending Flag = iota
	// Correct characters match the typed input.
	Correct
	// Incorrect characters were typed wrong.
	Incorrect
)

// Flags returns one flag per sample rune.
func Flags(typed, sample string) []Flag {
	t := []rune(typed)
	s := []rune(sample)
	out := make([]Flag, len(s))
	for i, r := range s {
		switch {
		case i >= len(t):
			out[i] = Pending
		case t[i] == r:
			out[i] = Correct
		default:
			out[i] = Incorrect
		}
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
