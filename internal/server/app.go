// Package server wires the gophnotes HTTP service together: it opens the
// configured storage and revocation backends, builds the services, and runs
// the REST server until a termination signal arrives.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/redisx"
	"github.com/dmitrijs2005/gophnotes/internal/server/auth"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/revocations"
	"github.com/dmitrijs2005/gophnotes/internal/server/rest"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const limiterKeyPrefix = "gophnotes:limiter:"

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	redis       *redis.Client
	server      *rest.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, logging.NewJSON(os.Stdout, c.Env))
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: c, logger: logger}

	m, err := OpenStorage(ctx, c)
	if err != nil {
		return nil, err
	}
	app.repomanager = m

	if err := m.RunMigrations(ctx); err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("db migrate error: %w", err)
	}

	rdb, err := OpenRedis(ctx, c)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.redis = rdb

	svc := NewServices(c, m, SelectLedger(c, m, rdb), logger)

	var limiterStorage fiber.Storage
	if rdb != nil {
		limiterStorage = redisx.NewStorage(rdb, limiterKeyPrefix, c.StoreTimeout)
	}

	app.server = rest.New(c, logger, svc, m, limiterStorage)
	return app, nil
}

// OpenStorage opens the configured storage backend. It does not touch the
// schema; callers run migrations when they need them.
func OpenStorage(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	switch c.StorageBackend {
	case config.BackendMemory:
		return repomanager.NewInMemoryRepositoryManager(), nil
	case config.BackendPostgres:
		db, err := dbx.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		return repomanager.NewPostgresRepositoryManager(db), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
}

// OpenRedis connects when the configuration needs Redis and returns nil
// otherwise.
func OpenRedis(ctx context.Context, c *config.Config) (*redis.Client, error) {
	if !c.UsesRedis() {
		return nil, nil
	}
	rdb, err := redisx.NewClient(ctx, redisx.Options{
		Addr:      c.RedisAddr,
		Password:  c.RedisPassword,
		DB:        c.RedisDB,
		OpTimeout: c.StoreTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("redis init error: %w", err)
	}
	return rdb, nil
}

// SelectLedger picks the revocation ledger. rdb must be non-nil for the
// redis backend.
func SelectLedger(c *config.Config, m repomanager.RepositoryManager, rdb *redis.Client) revocations.Ledger {
	switch c.RevocationBackend {
	case config.BackendRedis:
		return revocations.NewRedisLedger(rdb)
	case config.BackendMemory:
		if c.StorageBackend != config.BackendMemory {
			return revocations.NewMemoryLedger()
		}
	}
	return m.Revocations()
}

// NewServices builds the domain services over one storage backend and ledger.
func NewServices(c *config.Config, m repomanager.RepositoryManager, ledger revocations.Ledger, logger logging.Logger) rest.Services {
	secret := []byte(c.SecretKey)
	hasher := auth.NewPasswordHasher(c.BcryptCost)
	issuer := auth.NewIssuer(secret, c.AccessTokenValidityDuration, c.RefreshTokenValidityDuration, nil)
	verifier := auth.NewVerifier(secret, ledger, nil)

	return rest.Services{
		Sessions: services.NewSessionService(m, ledger, issuer, verifier, hasher, logger),
		Notes:    services.NewNoteService(m, logger),
		Users:    services.NewUserService(m, hasher, logger),
	}
}

// Server exposes the HTTP server, mainly for tests.
func (app *App) Server() *rest.Server {
	return app.server
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases storage and Redis connections.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "env", app.config.Env,
		"storage", app.config.StorageBackend, "revocation", app.config.RevocationBackend)

	app.initSignalHandler(cancelFunc)

	runErr := app.server.Run(ctx)
	if runErr != nil {
		app.logger.Error(ctx, "http server stopped", "error", runErr.Error())
	}

	closeErr := app.Close()
	app.logger.Info(context.Background(), "App stopped")
	return errors.Join(runErr, closeErr)
}

// Close releases the storage and Redis connections.
func (app *App) Close() error {
	var errs []error
	if app.repomanager != nil {
		errs = append(errs, app.repomanager.Close())
	}
	if app.redis != nil {
		errs = append(errs, app.redis.Close())
	}
	return errors.Join(errs...)
}
