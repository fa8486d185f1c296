// Package config loads runtime settings from an optional YAML file and
// CHESSCORE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/hailam/chesscore/internal/board"
)

// Config holds every tunable setting.
type Config struct {
	LogLevel string `yaml:"log_level"`
	// DataDir is the data root; the database lives in its db subdirectory.
	// Empty means the platform data directory.
	DataDir  string `yaml:"data_dir"`
	InMemory bool   `yaml:"in_memory"`

	PerftWorkers int   `yaml:"perft_workers"` // 0 means GOMAXPROCS
	CacheEntries int64 `yaml:"cache_entries"`
	MaxHalfMoves int   `yaml:"max_half_moves"`

	RecordGames bool   `yaml:"record_games"`
	Seed        uint64 `yaml:"seed"` // 0 picks a random seed
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:     "info",
		CacheEntries: 1 << 16,
		MaxHalfMoves: board.DefaultMaxHalfMoves,
		RecordGames:  true,
	}
}

// Load reads path (skipped when empty), applies environment overrides and
// validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, err
		}
		defer f.Close()
		if err := decode(f, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.LogLevel = getenv("CHESSCORE_LOG_LEVEL", c.LogLevel)
	c.DataDir = getenv("CHESSCORE_DATA_DIR", c.DataDir)
	c.InMemory = getenb("CHESSCORE_IN_MEMORY", c.InMemory)
	c.RecordGames = getenb("CHESSCORE_RECORD_GAMES", c.RecordGames)

	var err error
	if c.PerftWorkers, err = getenvInt("CHESSCORE_PERFT_WORKERS", c.PerftWorkers); err != nil {
		return err
	}
	if c.MaxHalfMoves, err = getenvInt("CHESSCORE_MAX_HALF_MOVES", c.MaxHalfMoves); err != nil {
		return err
	}
	entries, err := getenvInt("CHESSCORE_CACHE_ENTRIES", int(c.CacheEntries))
	if err != nil {
		return err
	}
	c.CacheEntries = int64(entries)

	if v := os.Getenv("CHESSCORE_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("CHESSCORE_SEED: %w", err)
		}
		c.Seed = seed
	}
	return nil
}

// Validate rejects settings no component can run with.
func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	if c.PerftWorkers < 0 {
		return fmt.Errorf("perft_workers must not be negative, got %d", c.PerftWorkers)
	}
	if c.CacheEntries < 1 {
		return fmt.Errorf("cache_entries must be positive, got %d", c.CacheEntries)
	}
	if c.MaxHalfMoves < 0 {
		return fmt.Errorf("max_half_moves must not be negative, got %d", c.MaxHalfMoves)
	}
	return nil
}

// Logger builds a console logger writing to w at the configured level.
func (c Config) Logger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenb(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
