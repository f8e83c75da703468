package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"noracloud/servicenextcloud/internal/domain"
)

// GetService returns the service instance bound to orderID.
func (s *Store) GetService(ctx context.Context, orderID int64) (*domain.ServiceInstance, error) {
	var (
		svc                  domain.ServiceInstance
		config               string
		active               int
		createdAt, updatedAt string
	)
	err := s.db.QueryRowContext(ctx, `
        SELECT id, client_id, order_id, server_id, server_uuid, hostname, password, config,
               active, created_at, updated_at
        FROM service_nextcloud WHERE order_id = ?`, orderID,
	).Scan(&svc.ID, &svc.ClientID, &svc.OrderID, &svc.ServerID, &svc.ServerUUID,
		&svc.Hostname, &svc.Password, &config, &active, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("service for order %d: %w", orderID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: query service failed: %w", err)
	}

	svc.Config = []byte(config)
	svc.Active = active != 0
	svc.CreatedAt = parseTime(createdAt)
	svc.UpdatedAt = parseTime(updatedAt)
	return &svc, nil
}

// InsertService stores a new service instance and assigns its ID. A second
// instance for the same order fails with domain.ErrConflict.
func (s *Store) InsertService(ctx context.Context, svc *domain.ServiceInstance) error {
	res, err := s.db.ExecContext(ctx, `
        INSERT INTO service_nextcloud (client_id, order_id, server_id, server_uuid, hostname, password,
                                       config, active, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		svc.ClientID, svc.OrderID, svc.ServerID, svc.ServerUUID, svc.Hostname, svc.Password,
		configText(svc.Config), boolToInt(svc.Active), formatTime(svc.CreatedAt), formatTime(svc.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("store: insert service failed: %w", mapConstraint(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("store: failed to get last insert ID: %w", err)
	}
	svc.ID = id
	return nil
}

// UpdateService overwrites the mutable columns of the instance for svc.OrderID.
func (s *Store) UpdateService(ctx context.Context, svc *domain.ServiceInstance) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE service_nextcloud
        SET client_id = ?, server_id = ?, server_uuid = ?, hostname = ?, password = ?, config = ?,
            active = ?, updated_at = ?
        WHERE order_id = ?`,
		svc.ClientID, svc.ServerID, svc.ServerUUID, svc.Hostname, svc.Password, configText(svc.Config),
		boolToInt(svc.Active), formatTime(svc.UpdatedAt), svc.OrderID,
	)
	if err != nil {
		return fmt.Errorf("store: update service failed: %w", mapConstraint(err))
	}
	return affected(res, fmt.Sprintf("service for order %d", svc.OrderID))
}

// DeleteService removes the instance bound to orderID.
func (s *Store) DeleteService(ctx context.Context, orderID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM service_nextcloud WHERE order_id = ?`, orderID)
	if err != nil {
		return fmt.Errorf("store: delete service failed: %w", err)
	}
	return affected(res, fmt.Sprintf("service for order %d", orderID))
}
