// Package store persists Nextcloud servers, their service instances and the
// billing records the lifecycle hooks read (product configuration, clients).
//
// Storage is a SQLite database at ~/.config/servicenextcloud/servicenextcloud.db
// (or the path from database.DefaultPath), shared with the audit log.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"noracloud/servicenextcloud/internal/database"
	"noracloud/servicenextcloud/internal/domain"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ServerRepository persists registered Nextcloud servers. Trashed servers
// are invisible to ListServers and GetServer.
type ServerRepository interface {
	ListServers(ctx context.Context) ([]domain.ServerConfig, error)
	GetServer(ctx context.Context, id int64) (*domain.ServerConfig, error)
	InsertServer(ctx context.Context, s *domain.ServerConfig) error
	UpdateServer(ctx context.Context, s *domain.ServerConfig) error
	TrashServer(ctx context.Context, id int64, at time.Time) error
	PurgeServers(ctx context.Context) (int64, error)
}

// ServiceRepository persists service instances, one per order.
type ServiceRepository interface {
	GetService(ctx context.Context, orderID int64) (*domain.ServiceInstance, error)
	InsertService(ctx context.Context, s *domain.ServiceInstance) error
	UpdateService(ctx context.Context, s *domain.ServiceInstance) error
	DeleteService(ctx context.Context, orderID int64) error
}

// Catalog exposes the billing records lifecycle hooks depend on.
type Catalog interface {
	Product(ctx context.Context, productID int64) (*domain.ProductConfig, error)
	SaveProduct(ctx context.Context, p domain.ProductConfig) error
	Client(ctx context.Context, id int64) (*domain.Client, error)
	SaveClient(ctx context.Context, c domain.Client) error
}

// Compile-time checks that Store satisfies every repository interface.
var (
	_ ServerRepository  = (*Store)(nil)
	_ ServiceRepository = (*Store)(nil)
	_ Catalog           = (*Store)(nil)
)

// Manifest describes a module release passed to Update.
type Manifest struct {
	Version string `json:"version"`
}

// Store implements the repositories on a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens the store at the default database path.
func Open() (*Store, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return OpenAt(path)
}

// OpenAt opens the store at path. Tables are not created until Install.
func OpenAt(path string) (*Store, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases database resources.
func (s *Store) Close() error {
	return s.db.Close()
}

const schema = `
    CREATE TABLE IF NOT EXISTS service_nextcloud_server (
        id         INTEGER PRIMARY KEY AUTOINCREMENT,
        name       TEXT    NOT NULL,
        url        TEXT    NOT NULL,
        username   TEXT    NOT NULL DEFAULT '',
        password   TEXT    NOT NULL DEFAULT '',
        config     TEXT    NOT NULL DEFAULT '{}',
        active     INTEGER NOT NULL DEFAULT 1,
        created_at TEXT    NOT NULL,
        updated_at TEXT    NOT NULL,
        deleted_at TEXT
    );
    CREATE TABLE IF NOT EXISTS service_nextcloud (
        id          INTEGER PRIMARY KEY AUTOINCREMENT,
        client_id   INTEGER NOT NULL,
        order_id    INTEGER NOT NULL UNIQUE,
        server_id   INTEGER NOT NULL REFERENCES service_nextcloud_server(id) ON DELETE CASCADE,
        server_uuid TEXT    NOT NULL DEFAULT '',
        hostname    TEXT    NOT NULL DEFAULT '',
        password    TEXT    NOT NULL DEFAULT '',
        config      TEXT    NOT NULL DEFAULT '{}',
        active      INTEGER NOT NULL DEFAULT 0,
        created_at  TEXT    NOT NULL,
        updated_at  TEXT    NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_service_nextcloud_server ON service_nextcloud(server_id);
    CREATE TABLE IF NOT EXISTS service_nextcloud_product (
        product_id INTEGER PRIMARY KEY,
        server_id  INTEGER NOT NULL REFERENCES service_nextcloud_server(id) ON DELETE CASCADE,
        config     TEXT    NOT NULL DEFAULT '{}'
    );
    CREATE TABLE IF NOT EXISTS service_nextcloud_client (
        id    INTEGER PRIMARY KEY,
        email TEXT NOT NULL DEFAULT '',
        name  TEXT NOT NULL DEFAULT ''
    );
    CREATE TABLE IF NOT EXISTS service_nextcloud_meta (
        key   TEXT PRIMARY KEY,
        value TEXT NOT NULL
    );
`

// Install creates the module tables. It is safe to run repeatedly.
func (s *Store) Install(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("store: install failed: %w", err)
	}
	return nil
}

// Uninstall drops every module table, dependents first.
func (s *Store) Uninstall(ctx context.Context) error {
	for _, table := range []string{
		"service_nextcloud",
		"service_nextcloud_product",
		"service_nextcloud_server",
		"service_nextcloud_client",
		"service_nextcloud_meta",
	} {
		if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return fmt.Errorf("store: failed to drop %s: %w", table, err)
		}
	}
	return nil
}

// Update applies the schema for a new module release and records its version.
func (s *Store) Update(ctx context.Context, m Manifest) error {
	if err := s.Install(ctx); err != nil {
		return err
	}
	if m.Version == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO service_nextcloud_meta (key, value) VALUES ('version', ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value`, m.Version)
	if err != nil {
		return fmt.Errorf("store: failed to record version: %w", err)
	}
	return nil
}

// Version returns the module version recorded by Update, or "".
func (s *Store) Version(ctx context.Context) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM service_nextcloud_meta WHERE key = 'version'`).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("store: failed to read version: %w", err)
	}
	return v, nil
}

// --- helpers ---

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func configText(raw []byte) string {
	if len(raw) == 0 {
		return "{}"
	}
	return string(raw)
}

// mapConstraint translates SQLite constraint failures into domain sentinels.
func mapConstraint(err error) error {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return err
	}
	msg := se.Error()
	switch {
	case se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE,
		se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY,
		strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	case se.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY,
		strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("referenced server does not exist: %w", domain.ErrNotFound)
	}
	return err
}

// affected returns ErrNotFound when a write touched no rows.
func affected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}
