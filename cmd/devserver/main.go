// Command devserver runs the local sandbox backend. It speaks the same
// HTTP contract as the production Paquexpress API so the pqx CLI and the
// client core packages can be exercised offline.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/paquexpress/client-go/internal/sandbox"
	"github.com/paquexpress/client-go/internal/sandbox/repository"
	"github.com/paquexpress/client-go/internal/sandbox/service"
	"github.com/paquexpress/client-go/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "devserver: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := sandbox.LoadConfig(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	var (
		accounts repository.AccountRepository
		tenants  repository.TenantRepository
		tokens   repository.RefreshTokenRepository
		db       *mongo.Database
	)

	switch cfg.Backend {
	case "mongo":
		client, database, err := repository.ConnectMongo(ctx, repository.MongoConfig{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Error().Err(err).Msg("mongo disconnect")
			}
		}()
		db = database
		accounts = repository.NewMongoAccounts(database)
		tenants = repository.NewMongoTenants(database)
		tokens = repository.NewMongoTokens(database)
		log.Info().Str("database", cfg.Mongo.Database).Msg("using mongo backend")
	case "memory":
		mem := repository.NewMemory()
		accounts = mem.Accounts()
		tenants = mem.Tenants()
		tokens = mem.Tokens()
		log.Info().Msg("using in-memory backend")
	default:
		return fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	if cfg.Seed {
		if err := repository.Seed(ctx, accounts, tenants); err != nil {
			return fmt.Errorf("seed fixtures: %w", err)
		}
		log.Info().Msg("fixtures seeded")
	}

	auth := service.NewAuth(accounts, tokens, cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL, log)
	empresas := service.NewTenants(tenants)

	e := sandbox.NewRouter(cfg, auth, empresas, db, log)

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("sandbox listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server start")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	return shutdown(e)
}

func shutdown(e *echo.Echo) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
