package scoring

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestScoreExactMatchOneMinute(t *testing.T) {
	got := Score("cat", "cat", 60)
	want := Result{Words: 1, WPM: 1, CorrectChars: 3, Accuracy: 100.0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}
	assert.True(t, Qualifies(got))
}

func TestScoreZeroElapsedHasZeroWPM(t *testing.T) {
	got := Score("abXd", "abcd", 0)
	assert.Equal(t, 0, got.WPM)
	assert.Equal(t, 75.0, got.Accuracy)
	assert.False(t, Qualifies(got))
}

func TestScoreRoundsAccuracyToOneDecimal(t *testing.T) {
	// 2 of 3 correct is 66.666...
	got := Score("abX", "abc", 30)
	assert.Equal(t, 66.7, got.Accuracy)
	assert.Equal(t, 2, got.WPM)
}

func TestScoreIgnoresPositionsPastSample(t *testing.T) {
	got := Score("abcdef", "abc", 60)
	assert.Equal(t, 3, got.CorrectChars)
	assert.Equal(t, 100.0, got.Accuracy)
}

func TestScoreEmptyInputs(t *testing.T) {
	got := Score("", "", 10)
	assert.Equal(t, Result{}, got)

	got = Score("   ", "abc", 10)
	assert.Equal(t, 0, got.Words)
	assert.Equal(t, 0, got.WPM)
	assert.Equal(t, 0.0, got.Accuracy)
}

func TestScoreCountsWhitespaceDelimitedWords(t *testing.T) {
	got := Score("  the  quick\tbrown \n fox ", "the quick brown fox", 30)
	assert.Equal(t, 4, got.Words)
	assert.Equal(t, 8, got.WPM)
}

func TestScoreWPMRoundsHalfUp(t *testing.T) {
	// 1 word in 40 seconds is 1.5 wpm.
	got := Score("word", "word", 40)
	assert.Equal(t, 2, got.WPM)
}

func TestFullAccuracyOnlyForExactMatch(t *testing.T) {
	sample := "The quick brown fox"
	assert.Equal(t, 100.0, Score(sample, sample, 5).Accuracy)

	runes := []rune(sample)
	for i := range runes {
		typed := make([]rune, len(runes))
		copy(typed, runes)
		typed[i] = '#'
		if acc := Score(string(typed), sample, 5).Accuracy; acc == 100.0 {
			t.Fatalf("expected < 100 accuracy with mismatch at %d", i)
		}
	}
}

func TestQualifiesBoundary(t *testing.T) {
	assert.False(t, Qualifies(Result{WPM: 10, Accuracy: 70}))
	assert.True(t, Qualifies(Result{WPM: 10, Accuracy: 70.1}))
	assert.False(t, Qualifies(Result{WPM: 0, Accuracy: 100}))
}

func TestFlags(t *testing.T) {
	got := Flags("aXc", "abcd")
	want := []Flag{Correct, Incorrect, Correct, Pending}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected flags (-want +got):\n%s", diff)
	}
}

func TestFlagsCountRunes(t *testing.T) {
	got := Flags("né", "néo")
	assert.Equal(t, []Flag{Correct, Correct, Pending}, got)
}
