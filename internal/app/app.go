// Package app wires configuration, storage, logging and the services into
// the object graph used by the CLI and the admin API.
package app

import (
	"context"
	"errors"
	"fmt"

	"noracloud/servicenextcloud/internal/auditlog"
	"noracloud/servicenextcloud/internal/config"
	"noracloud/servicenextcloud/internal/database"
	"noracloud/servicenextcloud/internal/logging"
	"noracloud/servicenextcloud/internal/nextcloud"
	"noracloud/servicenextcloud/internal/provisioning"
	"noracloud/servicenextcloud/internal/registry"
	"noracloud/servicenextcloud/internal/store"

	"go.uber.org/zap"
)

// factoryOverride, when set, replaces the nextcloud client factory.
// Intended for testing. Use SetClientFactory / ResetClientFactory.
var factoryOverride registry.ClientFactory

// SetClientFactory overrides the client factory. Intended for testing.
func SetClientFactory(f registry.ClientFactory) { factoryOverride = f }

// ResetClientFactory clears the override. Intended for testing.
func ResetClientFactory() { factoryOverride = nil }

// Options controls how Open builds the App.
type Options struct {
	// Debug forces debug logging regardless of the config file.
	Debug bool
	// Logger replaces the logger Open would build.
	Logger *zap.Logger
	// Quiet uses a no-op logger unless debug logging is enabled.
	Quiet bool
}

// App holds the opened resources and services.
type App struct {
	Config       *config.Config
	Log          *zap.Logger
	Store        *store.Store
	Audit        *auditlog.SQLiteRepository
	Registry     *registry.Registry
	Provisioning *provisioning.Service
}

// Open loads configuration, opens and installs the store and builds the
// services.
func Open(ctx context.Context, opts Options) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := opts.Logger
	if log == nil {
		debug := opts.Debug || cfg.DebugEnabled()
		if opts.Quiet && !debug {
			log = zap.NewNop()
		} else if log, err = logging.New(debug); err != nil {
			return nil, err
		}
	}

	path, err := database.ResolvePath(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	st, err := store.OpenAt(path)
	if err != nil {
		return nil, err
	}
	if err := st.Install(ctx); err != nil {
		st.Close()
		return nil, err
	}

	audit, err := auditlog.OpenAt(path)
	if err != nil {
		st.Close()
		return nil, err
	}

	factory := factoryOverride
	if factory == nil {
		factory = registry.NewClientFactory(
			nextcloud.WithTimeout(cfg.Timeout()),
			nextcloud.WithLogger(log.Named("nextcloud")),
		)
	}

	reg := registry.New(st,
		registry.WithClientFactory(factory),
		registry.WithLogger(log.Named("registry")),
		registry.WithAuditor(audit),
	)
	prov := provisioning.New(st, st, reg,
		provisioning.WithClientFactory(factory),
		provisioning.WithLogger(log.Named("provisioning")),
		provisioning.WithAuditor(audit),
	)

	return &App{
		Config:       cfg,
		Log:          log,
		Store:        st,
		Audit:        audit,
		Registry:     reg,
		Provisioning: prov,
	}, nil
}

// Close releases the database handles and flushes the logger.
func (a *App) Close() error {
	_ = a.Log.Sync()
	return errors.Join(a.Audit.Close(), a.Store.Close())
}
