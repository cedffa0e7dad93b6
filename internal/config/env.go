package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvDuration = "SPEEDTYPE_DURATION"
	EnvTexts    = "SPEEDTYPE_TEXTS"
	EnvStorage  = "SPEEDTYPE_STORAGE"
	EnvLogLevel = "SPEEDTYPE_LOG_LEVEL"
)

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are skipped and existing variables win.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// ApplyEnv overlays SPEEDTYPE_* variables onto cfg.
func ApplyEnv(cfg *FileConfig) error {
	if v, ok := lookupEnv(EnvDuration); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvDuration, err)
		}
		cfg.Test.Duration = &n
	}
	if v, ok := lookupEnv(EnvTexts); ok {
		cfg.Test.Texts = &v
	}
	if v, ok := lookupEnv(EnvStorage); ok {
		cfg.Test.Storage = &v
	}
	if v, ok := lookupEnv(EnvLogLevel); ok {
		cfg.Log.Level = &v
	}
	return nil
}

func lookupEnv(name string) (string, bool) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
