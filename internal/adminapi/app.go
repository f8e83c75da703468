// Package adminapi exposes the server registry and the order lifecycle hooks
// as an echo JSON API for billing platform administrators.
package adminapi

import (
	"context"

	"noracloud/servicenextcloud/internal/domain"
	"noracloud/servicenextcloud/internal/logging"
	"noracloud/servicenextcloud/internal/provisioning"
	"noracloud/servicenextcloud/internal/registry"

	"go.uber.org/zap"
)

// ServerRegistry is the registry surface the handlers use.
type ServerRegistry interface {
	List(ctx context.Context) ([]domain.ServerSummary, error)
	Get(ctx context.Context, id int64) (*domain.ServerConfig, error)
	Create(ctx context.Context, opts domain.CreateServerOpts) (*domain.ServerConfig, error)
	Update(ctx context.Context, id int64, opts domain.UpdateServerOpts) (*domain.ServerConfig, error)
	Delete(ctx context.Context, id int64) error
	TestConnection(ctx context.Context, id int64) (bool, error)
}

// Lifecycle is the provisioning surface the handlers use.
type Lifecycle interface {
	Create(ctx context.Context, order domain.Order) (*domain.ServiceInstance, error)
	Activate(ctx context.Context, order domain.Order) (*domain.ServiceInstance, error)
	Renew(ctx context.Context, order domain.Order) (*domain.ServiceInstance, error)
	Suspend(ctx context.Context, order domain.Order) (*domain.ServiceInstance, error)
	Unsuspend(ctx context.Context, order domain.Order) (*domain.ServiceInstance, error)
	Cancel(ctx context.Context, order domain.Order) (*domain.ServiceInstance, error)
	Uncancel(ctx context.Context, order domain.Order) (*domain.ServiceInstance, error)
	Delete(ctx context.Context, order domain.Order) error
	Get(ctx context.Context, orderID int64) (*domain.ServiceInstance, error)
}

var (
	_ ServerRegistry = (*registry.Registry)(nil)
	_ Lifecycle      = (*provisioning.Service)(nil)
)

type App struct {
	l    *zap.Logger
	reg  ServerRegistry
	prov Lifecycle
}

func NewApp(l *zap.Logger, reg ServerRegistry, prov Lifecycle) *App {
	return &App{
		l:    logging.OrNop(l),
		reg:  reg,
		prov: prov,
	}
}
