// Package provisioning maps billing order lifecycle events onto service
// instance records.
//
// Every hook except Create expects the order's instance to exist and fails
// with domain.ErrNotFound otherwise. Nothing is retried or rolled back.
package provisioning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"noracloud/servicenextcloud/internal/auditlog"
	"noracloud/servicenextcloud/internal/domain"
	"noracloud/servicenextcloud/internal/logging"
	"noracloud/servicenextcloud/internal/registry"
	"noracloud/servicenextcloud/internal/store"
	"noracloud/servicenextcloud/internal/util"

	"go.uber.org/zap"
)

// Service implements the order lifecycle hooks.
type Service struct {
	services  store.ServiceRepository
	catalog   store.Catalog
	servers   registry.Reader
	newClient registry.ClientFactory
	log       *zap.Logger
	audit     auditlog.Recorder
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClientFactory replaces the factory used during activation.
func WithClientFactory(f registry.ClientFactory) Option {
	return func(s *Service) { s.newClient = f }
}

// WithLogger sets the logger for lifecycle events.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = logging.OrNop(l) }
}

// WithAuditor records every hook to rec.
func WithAuditor(rec auditlog.Recorder) Option {
	return func(s *Service) { s.audit = rec }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New returns a Service.
func New(services store.ServiceRepository, catalog store.Catalog, servers registry.Reader, opts ...Option) *Service {
	s := &Service{
		services:  services,
		catalog:   catalog,
		servers:   servers,
		newClient: registry.NewClientFactory(),
		log:       zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the service instance of an order.
func (s *Service) Get(ctx context.Context, orderID int64) (*domain.ServiceInstance, error) {
	return s.services.GetService(ctx, orderID)
}

// Create allocates an inactive service instance for a new order on the
// server its product is configured for.
func (s *Service) Create(ctx context.Context, order domain.Order) (svc *domain.ServiceInstance, err error) {
	defer s.track(ctx, "order.create", order, s.now(), &err)

	product, err := s.catalog.Product(ctx, order.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to create order %d: %w", order.ID, err)
	}
	if _, err := s.servers.Get(ctx, product.ServerID); err != nil {
		return nil, fmt.Errorf("failed to create order %d: %w", order.ID, err)
	}

	now := s.now().UTC()
	svc = &domain.ServiceInstance{
		ClientID:  order.ClientID,
		OrderID:   order.ID,
		ServerID:  product.ServerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.services.InsertService(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to create order %d: %w", order.ID, err)
	}

	s.log.Info("nextcloud service created",
		zap.Int64("order_id", order.ID), zap.Int64("server_id", svc.ServerID))
	return svc, nil
}

// Activate verifies the order's server is reachable with its stored
// credentials and marks the instance active. No remote account is created.
func (s *Service) Activate(ctx context.Context, order domain.Order) (svc *domain.ServiceInstance, err error) {
	defer s.track(ctx, "order.activate", order, s.now(), &err)

	svc, err = s.services.GetService(ctx, order.ID)
	if err != nil {
		return nil, activateError("service not found", err)
	}
	if _, err := s.catalog.Client(ctx, order.ClientID); err != nil {
		return nil, activateError("client not found", err)
	}
	product, err := s.catalog.Product(ctx, order.ProductID)
	if err != nil {
		return nil, activateError("product not found", err)
	}
	server, err := s.servers.Get(ctx, product.ServerID)
	if err != nil {
		return nil, activateError("server not found", err)
	}
	if !server.Active {
		return nil, activateError(fmt.Sprintf("server %q is inactive", server.Name), nil)
	}

	ok, err := registry.Verify(ctx, s.newClient(server.URL, server.Username, server.Password))
	if err != nil {
		return nil, activateError(fmt.Sprintf("server %q is not reachable", server.Name), err)
	}
	if !ok {
		return nil, activateError(fmt.Sprintf("server %q failed the connection test", server.Name), nil)
	}

	svc.ServerID = server.ID
	svc.Hostname = util.HostOf(server.URL)
	svc.Active = true
	svc.UpdatedAt = s.now().UTC()
	if err := s.services.UpdateService(ctx, svc); err != nil {
		return nil, activateError("failed to save service", err)
	}

	s.log.Info("nextcloud service activated",
		zap.Int64("order_id", order.ID), zap.Int64("server_id", server.ID))
	return svc, nil
}

func activateError(msg string, err error) *ServiceError {
	if errors.Is(err, domain.ErrNotFound) {
		msg += ". could not activate order"
	}
	return &ServiceError{Op: "activate", Message: msg, Err: err}
}

// Renew touches the instance. It may be called any number of times.
func (s *Service) Renew(ctx context.Context, order domain.Order) (*domain.ServiceInstance, error) {
	return s.transition(ctx, "order.renew", order, nil)
}

// Suspend deactivates the instance.
func (s *Service) Suspend(ctx context.Context, order domain.Order) (*domain.ServiceInstance, error) {
	return s.transition(ctx, "order.suspend", order, boolPtr(false))
}

// Unsuspend reactivates a suspended instance.
func (s *Service) Unsuspend(ctx context.Context, order domain.Order) (*domain.ServiceInstance, error) {
	return s.transition(ctx, "order.unsuspend", order, boolPtr(true))
}

// Cancel deactivates the instance.
func (s *Service) Cancel(ctx context.Context, order domain.Order) (*domain.ServiceInstance, error) {
	return s.transition(ctx, "order.cancel", order, boolPtr(false))
}

// Uncancel reactivates a cancelled instance.
func (s *Service) Uncancel(ctx context.Context, order domain.Order) (*domain.ServiceInstance, error) {
	return s.transition(ctx, "order.uncancel", order, boolPtr(true))
}

// Delete removes the instance.
func (s *Service) Delete(ctx context.Context, order domain.Order) (err error) {
	defer s.track(ctx, "order.delete", order, s.now(), &err)

	if err := s.services.DeleteService(ctx, order.ID); err != nil {
		return fmt.Errorf("failed to delete order %d: %w", order.ID, err)
	}
	s.log.Info("nextcloud service deleted", zap.Int64("order_id", order.ID))
	return nil
}

// transition sets Active when active is non-nil and always bumps UpdatedAt.
func (s *Service) transition(ctx context.Context, action string, order domain.Order, active *bool) (svc *domain.ServiceInstance, err error) {
	defer s.track(ctx, action, order, s.now(), &err)

	svc, err = s.services.GetService(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	if active != nil {
		svc.Active = *active
	}
	svc.UpdatedAt = s.now().UTC()
	if err := s.services.UpdateService(ctx, svc); err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}

	s.log.Info("nextcloud service updated",
		zap.String("action", action), zap.Int64("order_id", order.ID), zap.Bool("active", svc.Active))
	return svc, nil
}

// track writes the audit entry for a hook once it returns.
func (s *Service) track(ctx context.Context, action string, order domain.Order, start time.Time, errp *error) {
	ev := auditlog.Event{
		Action:       action,
		ResourceType: "order",
		ResourceID:   order.ID,
		Start:        start,
		Err:          *errp,
	}
	if err := auditlog.Record(ctx, s.audit, ev, s.now()); err != nil {
		s.log.Warn("failed to write audit entry", zap.String("action", action), zap.Error(err))
	}
}

func boolPtr(b bool) *bool { return &b }
