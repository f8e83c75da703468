package auditlog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"noracloud/servicenextcloud/internal/database"
)

// Repository is the read and maintenance side of the audit log.
type Repository interface {
	Recorder
	List(ctx context.Context, limit int) ([]AuditEntry, error)
	Find(ctx context.Context, q Query) ([]AuditEntry, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	CountOlderThan(ctx context.Context, olderThan time.Duration) (int64, error)
	Close() error
}

// Query narrows Find. Zero fields match everything; Limit <= 0 means no limit.
type Query struct {
	Action       string
	ResourceType string
	ResourceID   string
	Outcome      string
	Limit        int
}

var _ Repository = (*SQLiteRepository)(nil)

// SQLiteRepository stores audit entries in the module database. Timestamps
// are kept as Unix nanoseconds so range deletes compare integers.
type SQLiteRepository struct {
	db *sql.DB
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS audit_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		at_ns         INTEGER NOT NULL,
		action        TEXT    NOT NULL,
		actor         TEXT    NOT NULL DEFAULT '',
		args          TEXT    NOT NULL DEFAULT '',
		resource_type TEXT    NOT NULL DEFAULT '',
		resource_id   TEXT    NOT NULL DEFAULT '',
		resource_name TEXT    NOT NULL DEFAULT '',
		outcome       TEXT    NOT NULL DEFAULT '',
		detail        TEXT    NOT NULL DEFAULT '',
		duration_ms   INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS audit_events_at ON audit_events(at_ns)`,
	`CREATE INDEX IF NOT EXISTS audit_events_action ON audit_events(action, at_ns)`,
	`CREATE INDEX IF NOT EXISTS audit_events_resource ON audit_events(resource_type, resource_id)`,
}

// Open opens the audit log in the default module database.
func Open() (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("auditlog: %w", err)
	}
	return OpenAt(path)
}

func OpenAt(path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("auditlog: %w", err)
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("auditlog: migrate: %w", err)
		}
	}
	return &SQLiteRepository{db: db}, nil
}

// Save appends entry and fills in its ID. A zero Timestamp means now.
func (r *SQLiteRepository) Save(ctx context.Context, entry *AuditEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	entry.Timestamp = entry.Timestamp.UTC()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_events
			(at_ns, action, actor, args, resource_type, resource_id, resource_name, outcome, detail, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Timestamp.UnixNano(), entry.Action, entry.Actor, entry.Args,
		entry.ResourceType, entry.ResourceID, entry.ResourceName,
		entry.Outcome, entry.Detail, entry.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("auditlog: save %s: %w", entry.Action, err)
	}
	if entry.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("auditlog: save %s: %w", entry.Action, err)
	}
	return nil
}

// List returns the newest limit entries.
func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]AuditEntry, error) {
	return r.Find(ctx, Query{Limit: limit})
}

// Find returns entries matching q, newest first.
func (r *SQLiteRepository) Find(ctx context.Context, q Query) ([]AuditEntry, error) {
	var (
		where []string
		args  []any
	)
	for _, f := range []struct{ col, val string }{
		{"action", q.Action},
		{"resource_type", q.ResourceType},
		{"resource_id", q.ResourceID},
		{"outcome", q.Outcome},
	} {
		if f.val != "" {
			where = append(where, f.col+" = ?")
			args = append(args, f.val)
		}
	}

	var sb strings.Builder
	sb.WriteString(`SELECT id, at_ns, action, actor, args, resource_type, resource_id,
		resource_name, outcome, detail, duration_ms FROM audit_events`)
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY at_ns DESC, id DESC")
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("auditlog: query: %w", err)
	}
	defer rows.Close()

	var out []AuditEntry
	for rows.Next() {
		var (
			e  AuditEntry
			ns int64
		)
		if err := rows.Scan(&e.ID, &ns, &e.Action, &e.Actor, &e.Args,
			&e.ResourceType, &e.ResourceID, &e.ResourceName,
			&e.Outcome, &e.Detail, &e.DurationMs); err != nil {
			return nil, fmt.Errorf("auditlog: scan: %w", err)
		}
		e.Timestamp = time.Unix(0, ns).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// Prune deletes entries recorded more than olderThan ago.
func (r *SQLiteRepository) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM audit_events WHERE at_ns < ?`, cutoff(olderThan))
	if err != nil {
		return 0, fmt.Errorf("auditlog: prune: %w", err)
	}
	return res.RowsAffected()
}

// CountOlderThan reports how many entries Prune would remove.
func (r *SQLiteRepository) CountOlderThan(ctx context.Context, olderThan time.Duration) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_events WHERE at_ns < ?`, cutoff(olderThan)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("auditlog: count: %w", err)
	}
	return n, nil
}

func cutoff(olderThan time.Duration) int64 {
	return time.Now().Add(-olderThan).UnixNano()
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
