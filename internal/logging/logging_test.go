package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "speedtype.log")
	logger, err := New(path, "debug")
	require.NoError(t, err)
	logger.Debug("test complete", zap.Int("wpm", 42))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"wpm":42`), "log line: %s", data)
}

func TestNewOff(t *testing.T) {
	path := filepath.Join(t.TempDir(), "speedtype.log")
	logger, err := New(path, "OFF")
	require.NoError(t, err)
	logger.Error("dropped")
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lvl)

	lvl, err = ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
