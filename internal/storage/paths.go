// Package storage persists perft results and finished games in BadgerDB.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
)

const appName = "chesscore"

// Location says where a Storage keeps its files.
type Location struct {
	// Root is the data directory. Empty means the database lives in memory.
	Root string
}

// Locate resolves the data location. A non-empty dataDir (config data_dir
// or CHESSCORE_DATA_DIR) wins over the platform directory; inMemory wins
// over both.
func Locate(dataDir string, inMemory bool) (Location, error) {
	switch {
	case inMemory:
		return Location{}, nil
	case dataDir != "":
		return Location{Root: filepath.Clean(dataDir)}, nil
	}
	base, err := platformDataHome()
	if err != nil {
		return Location{}, fmt.Errorf("locate data directory: %w", err)
	}
	return Location{Root: filepath.Join(base, appName)}, nil
}

// InMemory reports whether nothing is written to disk.
func (l Location) InMemory() bool { return l.Root == "" }

// DatabaseDir creates and returns the BadgerDB directory, or "" in memory.
func (l Location) DatabaseDir() (string, error) {
	if l.InMemory() {
		return "", nil
	}
	dir := filepath.Join(l.Root, "db")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create database directory: %w", err)
	}
	return dir, nil
}

// OpenAt opens the database at l.
func OpenAt(l Location, log zerolog.Logger) (*Storage, error) {
	dir, err := l.DatabaseDir()
	if err != nil {
		return nil, err
	}
	log.Debug().Str("dir", dir).Bool("in_memory", l.InMemory()).Msg("opening storage")
	return Open(dir, log)
}

// platformDataHome is the per-user data home:
// ~/Library/Application Support on macOS, %APPDATA% on Windows and
// $XDG_DATA_HOME or ~/.local/share elsewhere.
func platformDataHome() (string, error) {
	var env string
	var fallback []string
	switch runtime.GOOS {
	case "darwin":
		fallback = []string{"Library", "Application Support"}
	case "windows":
		env, fallback = "APPDATA", []string{"AppData", "Roaming"}
	default:
		env, fallback = "XDG_DATA_HOME", []string{".local", "share"}
	}
	if env != "" {
		if dir := os.Getenv(env); dir != "" {
			return dir, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, fallback...)...), nil
}
