// Package registry manages the set of Nextcloud servers client accounts can
// be provisioned on.
//
// The Registry validates input, stamps timestamps and writes audit entries
// before delegating persistence to a store.ServerRepository. Connectivity
// checks build a transient OCS client from the stored credentials.
package registry

import (
	"context"
	"fmt"
	"time"

	"noracloud/servicenextcloud/internal/auditlog"
	"noracloud/servicenextcloud/internal/domain"
	"noracloud/servicenextcloud/internal/logging"
	"noracloud/servicenextcloud/internal/nextcloud"
	"noracloud/servicenextcloud/internal/store"

	"go.uber.org/zap"
)

// Checker is the part of the OCS client a connectivity test needs.
type Checker interface {
	TestConnection(ctx context.Context) (bool, error)
	TestAuthentication(ctx context.Context) (bool, error)
}

var _ Checker = (*nextcloud.Client)(nil)

// ClientFactory builds a Checker for a server's stored credentials.
type ClientFactory func(url, username, password string) Checker

// NewClientFactory returns a ClientFactory that builds nextcloud clients
// with opts.
func NewClientFactory(opts ...nextcloud.Option) ClientFactory {
	return func(url, username, password string) Checker {
		return nextcloud.New(url, username, password, opts...)
	}
}

// Reader is the read side of the registry other services depend on.
type Reader interface {
	Get(ctx context.Context, id int64) (*domain.ServerConfig, error)
}

// Verify runs the connection check and, only when it passes, the
// authentication check.
func Verify(ctx context.Context, c Checker) (bool, error) {
	ok, err := c.TestConnection(ctx)
	if err != nil || !ok {
		return false, err
	}
	return c.TestAuthentication(ctx)
}

// Registry is the server registry service.
type Registry struct {
	repo      store.ServerRepository
	newClient ClientFactory
	log       *zap.Logger
	audit     auditlog.Recorder
	now       func() time.Time
}

var _ Reader = (*Registry)(nil)

// Option configures a Registry.
type Option func(*Registry)

// WithClientFactory replaces the factory used by TestConnection.
func WithClientFactory(f ClientFactory) Option {
	return func(r *Registry) { r.newClient = f }
}

// WithLogger sets the logger for mutation events.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) { r.log = logging.OrNop(l) }
}

// WithAuditor records every mutation to rec.
func WithAuditor(rec auditlog.Recorder) Option {
	return func(r *Registry) { r.audit = rec }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// New returns a Registry backed by repo.
func New(repo store.ServerRepository, opts ...Option) *Registry {
	r := &Registry{
		repo:      repo,
		newClient: NewClientFactory(),
		log:       zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List returns every registered server ordered by id.
func (r *Registry) List(ctx context.Context) ([]domain.ServerSummary, error) {
	servers, err := r.repo.ListServers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}
	out := make([]domain.ServerSummary, 0, len(servers))
	for i := range servers {
		out = append(out, servers[i].Summary())
	}
	return out, nil
}

// Get returns a server by id.
func (r *Registry) Get(ctx context.Context, id int64) (*domain.ServerConfig, error) {
	srv, err := r.repo.GetServer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get server: %w", err)
	}
	return srv, nil
}

// Create validates and registers a new, active server.
func (r *Registry) Create(ctx context.Context, opts domain.CreateServerOpts) (srv *domain.ServerConfig, err error) {
	start := r.now()
	defer func() {
		ev := auditlog.Event{Action: "server.create", ResourceType: "server", ResourceName: opts.Name, Start: start, Err: err}
		if srv != nil {
			ev.ResourceID = srv.ID
		}
		r.record(ctx, ev)
	}()

	opts, err = normalizeCreate(opts)
	if err != nil {
		return nil, err
	}

	now := r.now().UTC()
	srv = &domain.ServerConfig{
		Name:      opts.Name,
		URL:       opts.URL,
		Username:  opts.Username,
		Password:  opts.Password,
		Config:    opts.Config,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.repo.InsertServer(ctx, srv); err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	r.log.Info("nextcloud server created", zap.Int64("id", srv.ID), zap.String("name", srv.Name))
	return srv, nil
}

// Update applies a partial update to an existing server.
func (r *Registry) Update(ctx context.Context, id int64, opts domain.UpdateServerOpts) (srv *domain.ServerConfig, err error) {
	start := r.now()
	defer func() {
		ev := auditlog.Event{Action: "server.update", ResourceType: "server", ResourceID: id, Start: start, Err: err}
		if srv != nil {
			ev.ResourceName = srv.Name
		}
		r.record(ctx, ev)
	}()

	srv, err = r.repo.GetServer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update server: %w", err)
	}
	if err := applyUpdate(srv, opts); err != nil {
		return nil, err
	}
	srv.UpdatedAt = r.now().UTC()

	if err := r.repo.UpdateServer(ctx, srv); err != nil {
		return nil, fmt.Errorf("failed to update server: %w", err)
	}

	r.log.Info("nextcloud server updated", zap.Int64("id", srv.ID))
	return srv, nil
}

// Delete moves a server to the trash. It no longer appears in List or Get.
func (r *Registry) Delete(ctx context.Context, id int64) (err error) {
	start := r.now()
	defer func() {
		r.record(ctx, auditlog.Event{Action: "server.delete", ResourceType: "server", ResourceID: id, Start: start, Err: err})
	}()

	if err := r.repo.TrashServer(ctx, id, r.now().UTC()); err != nil {
		return fmt.Errorf("failed to delete server: %w", err)
	}

	r.log.Info("nextcloud server deleted", zap.Int64("id", id))
	return nil
}

// Purge permanently removes trashed servers and everything bound to them.
func (r *Registry) Purge(ctx context.Context) (n int64, err error) {
	start := r.now()
	defer func() {
		r.record(ctx, auditlog.Event{Action: "server.purge", ResourceType: "server", Start: start, Err: err})
	}()

	n, err = r.repo.PurgeServers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to purge servers: %w", err)
	}

	r.log.Info("trashed nextcloud servers purged", zap.Int64("count", n))
	return n, nil
}

// TestConnection reports whether the server is reachable and accepts its
// stored credentials. Remote failures are returned as errors.
func (r *Registry) TestConnection(ctx context.Context, id int64) (bool, error) {
	srv, err := r.repo.GetServer(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to test server: %w", err)
	}

	ok, err := Verify(ctx, r.newClient(srv.URL, srv.Username, srv.Password))
	r.log.Debug("nextcloud server tested",
		zap.Int64("id", id), zap.Bool("ok", ok), zap.Error(err))
	return ok, err
}

func (r *Registry) record(ctx context.Context, ev auditlog.Event) {
	if err := auditlog.Record(ctx, r.audit, ev, r.now()); err != nil {
		r.log.Warn("failed to write audit entry", zap.String("action", ev.Action), zap.Error(err))
	}
}
