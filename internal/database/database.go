// Package database opens the SQLite file shared by the store and the audit log.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	appDir = "servicenextcloud"
	dbFile = "servicenextcloud.db"

	// EnvPath overrides the database location when set.
	EnvPath = "SERVICENEXTCLOUD_DB"
)

var pathOverride string

// SetPath overrides the default database path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override. Intended for testing.
func ResetPath() { pathOverride = "" }

// DefaultPath returns the database path. The test override wins, then the
// SERVICENEXTCLOUD_DB environment variable, then the user config directory.
func DefaultPath() (string, error) {
	return ResolvePath("")
}

// ResolvePath is DefaultPath with a configured path ranked between the
// environment variable and the user config directory.
func ResolvePath(configured string) (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	if configured != "" {
		return configured, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("database: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, dbFile), nil
}

// Open opens a SQLite database at the provided path with WAL journaling and
// foreign key enforcement enabled on every connection.
func Open(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("database: failed to create directory %s: %w", dir, err)
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("database: failed to open database: %w", err)
	}
	return db, nil
}
