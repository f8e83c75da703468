package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"noracloud/servicenextcloud/internal/domain"
)

// Product returns the configuration of a billable product.
func (s *Store) Product(ctx context.Context, productID int64) (*domain.ProductConfig, error) {
	var (
		p      domain.ProductConfig
		config string
	)
	err := s.db.QueryRowContext(ctx, `
        SELECT product_id, server_id, config FROM service_nextcloud_product WHERE product_id = ?`, productID,
	).Scan(&p.ProductID, &p.ServerID, &config)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %d: %w", productID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: query product failed: %w", err)
	}
	p.Config = []byte(config)
	return &p, nil
}

// SaveProduct upserts a product configuration.
func (s *Store) SaveProduct(ctx context.Context, p domain.ProductConfig) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO service_nextcloud_product (product_id, server_id, config) VALUES (?, ?, ?)
        ON CONFLICT(product_id) DO UPDATE SET server_id = excluded.server_id, config = excluded.config`,
		p.ProductID, p.ServerID, configText(p.Config),
	)
	if err != nil {
		return fmt.Errorf("store: save product failed: %w", mapConstraint(err))
	}
	return nil
}

// Client returns a billing client record.
func (s *Store) Client(ctx context.Context, id int64) (*domain.Client, error) {
	var c domain.Client
	err := s.db.QueryRowContext(ctx, `
        SELECT id, email, name FROM service_nextcloud_client WHERE id = ?`, id,
	).Scan(&c.ID, &c.Email, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("client %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: query client failed: %w", err)
	}
	return &c, nil
}

// SaveClient upserts a billing client record.
func (s *Store) SaveClient(ctx context.Context, c domain.Client) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO service_nextcloud_client (id, email, name) VALUES (?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET email = excluded.email, name = excluded.name`,
		c.ID, c.Email, c.Name,
	)
	if err != nil {
		return fmt.Errorf("store: save client failed: %w", err)
	}
	return nil
}
