package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/speedtype/internal/model"
	"github.com/verte-zerg/speedtype/internal/store"
)

func TestValidateConfig(t *testing.T) {
	ok := model.Config{Duration: 30, Storage: storageMemory, LogLevel: "info"}
	require.NoError(t, validateConfig(ok))

	bad := ok
	bad.Duration = 45
	assert.ErrorContains(t, validateConfig(bad), "--duration")

	bad = ok
	bad.Storage = "redis"
	assert.ErrorContains(t, validateConfig(bad), "--storage")

	bad = ok
	bad.LogLevel = "loud"
	assert.ErrorContains(t, validateConfig(bad), "--log-level")

	off := ok
	off.LogLevel = "off"
	assert.NoError(t, validateConfig(off))

	bad = ok
	bad.TextsPath = filepath.Join(t.TempDir(), "missing.txt")
	assert.ErrorContains(t, validateConfig(bad), "--texts")
}

func TestResolveConfigPrecedence(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	dir := filepath.Join(configHome, "speedtype")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"),
		[]byte("[test]\nduration = 15\nstorage = \"file\"\n"), 0o644))
	t.Setenv("SPEEDTYPE_DURATION", "")
	t.Setenv("SPEEDTYPE_TEXTS", "")
	t.Setenv("SPEEDTYPE_LOG_LEVEL", "")
	t.Setenv("SPEEDTYPE_STORAGE", "memory")

	tests := []struct {
		name         string
		args         []string
		wantDuration int
		wantStorage  string
	}{
		{name: "file and env", wantDuration: 15, wantStorage: storageMemory},
		{name: "flags win", args: []string{"--duration", "60", "--storage", "sqlite"}, wantDuration: 60, wantStorage: storageSQLite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCmd()
			require.NoError(t, cmd.ParseFlags(tt.args))
			cfg, err := resolveConfig(cmd)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDuration, cfg.Duration)
			assert.Equal(t, tt.wantStorage, cfg.Storage)
			assert.Equal(t, defaultLogLevel, cfg.LogLevel)
		})
	}
}

func TestDefaultConfigTemplateParses(t *testing.T) {
	var decoded map[string]any
	_, err := toml.Decode(defaultConfigTemplate(), &decoded)
	require.NoError(t, err)
	assert.Contains(t, defaultConfigTemplate(), "[test]")
	assert.Contains(t, defaultConfigTemplate(), "[log]")
}

func TestOpenBackendKinds(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	mem, err := openBackend(storageMemory)
	require.NoError(t, err)
	assert.Nil(t, mem.history)
	_, err = mem.kv.Get(context.Background(), "typingLeaderboard")
	assert.ErrorIs(t, err, store.ErrNotFound)

	file, err := openBackend(storageFile)
	require.NoError(t, err)
	require.NoError(t, file.kv.Put(context.Background(), "typingLeaderboard", []byte("[]")))
	_, err = os.Stat(filepath.Join(os.Getenv("XDG_DATA_HOME"), "speedtype", "typingLeaderboard.json"))
	assert.NoError(t, err)

	sqlite, err := openBackend(storageSQLite)
	require.NoError(t, err)
	assert.NotNil(t, sqlite.history)
	sqlite.close()

	_, err = openBackend("redis")
	assert.Error(t, err)
}
