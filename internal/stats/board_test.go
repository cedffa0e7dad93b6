package stats

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/speedtype/internal/model"
)

var testEntries = []model.ScoreRecord{
	{ID: "a", WPM: 72, Accuracy: 98.4, Text: "The quick brown fox jumps over", Date: "10/15/2026", Time: 30},
	{ID: "b", WPM: 9, Accuracy: 71.2, Text: "Typing tests are a fun way to ", Date: "10/14/2026", Time: 15},
}

func TestRankLabel(t *testing.T) {
	assert.Equal(t, "1st", RankLabel(0))
	assert.Equal(t, "3rd", RankLabel(2))
	assert.Equal(t, "#4", RankLabel(3))
	assert.Equal(t, "#10", RankLabel(9))
}

func TestRenderBoardTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderBoard(&buf, testEntries, FormatTable))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Rank WPM Accuracy Test"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1st   72    98.4%  30s"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "2nd    9    71.2%  15s"), lines[2])
}

func TestRenderBoardEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderBoard(&buf, nil, ""))
	assert.Equal(t, "No scores yet.\n", buf.String())
}

func TestRenderBoardJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderBoard(&buf, testEntries, FormatJSON))
	var got []model.ScoreRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, testEntries, got)

	buf.Reset()
	require.NoError(t, RenderBoard(&buf, nil, FormatJSON))
	assert.JSONEq(t, `[]`, buf.String())
}

func TestRenderBoardYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderBoard(&buf, testEntries, FormatYAML))
	assert.Contains(t, buf.String(), "wpm: 72")
	var got []model.ScoreRecord
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, testEntries, got)
}

func TestRenderBoardUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, RenderBoard(&buf, testEntries, "xml"))
}
