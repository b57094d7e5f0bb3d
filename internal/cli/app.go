// Package cli implements the pqx command tree. Every command builds the
// same object graph: credential store, request gateway, session and tenant
// services, and the permission evaluator on top.
package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/paquexpress/client-go/internal/core/domain"
	"github.com/paquexpress/client-go/internal/core/ports"
	"github.com/paquexpress/client-go/internal/core/service"
	"github.com/paquexpress/client-go/internal/infrastructure/config"
	"github.com/paquexpress/client-go/internal/infrastructure/gateway"
	"github.com/paquexpress/client-go/internal/infrastructure/store"
	"github.com/paquexpress/client-go/pkg/logger"
)

// App is the composed client. One instance lives for the duration of a
// single command invocation.
type App struct {
	Config      *config.Config
	Log         zerolog.Logger
	Store       ports.CredentialStore
	Gateway     *gateway.Client
	Backend     ports.Backend
	Session     *service.Session
	Tenants     *service.Tenants
	Permissions *service.Permissions

	closers []func()
}

// newApp loads configuration and wires the full client graph. The gateway
// is constructed first and bound to the session afterwards, since each side
// needs the other.
func newApp(ctx context.Context) (*App, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if hostFlag != "" {
		cfg.Host = hostFlag
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	credStore, closers, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	gw := gateway.NewClient(nil, cfg.APIOrigin, log)
	backend := gateway.NewBackend(gw)
	session := service.NewSession(credStore, backend, log)
	tenants := service.NewTenants(credStore, backend, cfg.BaseDomain, log)

	gw.Bind(session, tenants, session)
	session.OnLogout(tenants.Reset)

	return &App{
		Config:      cfg,
		Log:         log,
		Store:       credStore,
		Gateway:     gw,
		Backend:     backend,
		Session:     session,
		Tenants:     tenants,
		Permissions: service.NewPermissions(tenants),
		closers:     closers,
	}, nil
}

func buildStore(ctx context.Context, cfg *config.Config) (ports.CredentialStore, []func(), error) {
	switch cfg.Store {
	case "redis":
		client, err := store.ConnectRedis(ctx, store.RedisConfig{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		closer := func() { _ = client.Close() }
		return store.NewRedisStore(client, cfg.Redis.Prefix), []func(){closer}, nil
	case "file":
		fs, err := store.NewFileStore(cfg.StatePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open credential file: %w", err)
		}
		return fs, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// Bootstrap restores the persisted session and resolves the active empresa
// for the configured host. Commands that only clear state skip it.
// Without an authenticated session there is nothing to resolve against, so
// the empresa stays unresolved instead of hitting the backend.
func (a *App) Bootstrap(ctx context.Context) (*ports.TenantResolution, error) {
	if err := a.Session.Bootstrap(ctx); err != nil {
		return nil, err
	}
	if a.Session.State() != domain.SessionAuthenticated {
		return &ports.TenantResolution{}, nil
	}
	return a.Tenants.Resolve(ctx, a.Config.Host)
}

// Close releases the redirect timer and any store connections.
func (a *App) Close() {
	a.Tenants.Close()
	for _, fn := range a.closers {
		fn()
	}
}
