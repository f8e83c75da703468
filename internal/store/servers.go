package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"noracloud/servicenextcloud/internal/domain"
)

const serverColumns = `id, name, url, username, password, config, active, created_at, updated_at`

// ListServers returns every non-trashed server ordered by id.
func (s *Store) ListServers(ctx context.Context) ([]domain.ServerConfig, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT `+serverColumns+`
        FROM service_nextcloud_server
        WHERE deleted_at IS NULL
        ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store: query servers failed: %w", err)
	}
	defer rows.Close()

	servers := []domain.ServerConfig{}
	for rows.Next() {
		srv, err := scanServer(rows)
		if err != nil {
			return nil, err
		}
		servers = append(servers, *srv)
	}
	return servers, rows.Err()
}

// GetServer returns the server with the given id. Trashed servers are
// reported as domain.ErrNotFound.
func (s *Store) GetServer(ctx context.Context, id int64) (*domain.ServerConfig, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT `+serverColumns+`
        FROM service_nextcloud_server
        WHERE id = ? AND deleted_at IS NULL`, id)

	srv, err := scanServer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("server %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return srv, nil
}

// InsertServer stores a new server and assigns its ID.
func (s *Store) InsertServer(ctx context.Context, srv *domain.ServerConfig) error {
	res, err := s.db.ExecContext(ctx, `
        INSERT INTO service_nextcloud_server (name, url, username, password, config, active, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		srv.Name, srv.URL, srv.Username, srv.Password, configText(srv.Config),
		boolToInt(srv.Active), formatTime(srv.CreatedAt), formatTime(srv.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("store: insert server failed: %w", mapConstraint(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("store: failed to get last insert ID: %w", err)
	}
	srv.ID = id
	return nil
}

// UpdateServer overwrites every mutable column of an existing server.
func (s *Store) UpdateServer(ctx context.Context, srv *domain.ServerConfig) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE service_nextcloud_server
        SET name = ?, url = ?, username = ?, password = ?, config = ?, active = ?, updated_at = ?
        WHERE id = ? AND deleted_at IS NULL`,
		srv.Name, srv.URL, srv.Username, srv.Password, configText(srv.Config),
		boolToInt(srv.Active), formatTime(srv.UpdatedAt), srv.ID,
	)
	if err != nil {
		return fmt.Errorf("store: update server failed: %w", err)
	}
	return affected(res, fmt.Sprintf("server %d", srv.ID))
}

// TrashServer marks a server deleted without removing the row.
func (s *Store) TrashServer(ctx context.Context, id int64, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE service_nextcloud_server
        SET deleted_at = ?, active = 0, updated_at = ?
        WHERE id = ? AND deleted_at IS NULL`,
		formatTime(at), formatTime(at), id,
	)
	if err != nil {
		return fmt.Errorf("store: trash server failed: %w", err)
	}
	return affected(res, fmt.Sprintf("server %d", id))
}

// PurgeServers physically removes trashed servers. Their service instances
// and product bindings go with them through ON DELETE CASCADE.
func (s *Store) PurgeServers(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM service_nextcloud_server WHERE deleted_at IS NOT NULL`)
	if err != nil {
		return 0, fmt.Errorf("store: purge servers failed: %w", err)
	}
	return res.RowsAffected()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanServer(sc scanner) (*domain.ServerConfig, error) {
	var (
		srv                  domain.ServerConfig
		config               string
		active               int
		createdAt, updatedAt string
	)
	err := sc.Scan(&srv.ID, &srv.Name, &srv.URL, &srv.Username, &srv.Password,
		&config, &active, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("store: scan server failed: %w", err)
	}
	srv.Config = []byte(config)
	srv.Active = active != 0
	srv.CreatedAt = parseTime(createdAt)
	srv.UpdatedAt = parseTime(updatedAt)
	return &srv, nil
}
