// Package bootstrap opens the configured stores and assembles the storage
// facade shared by the HTTP server and portalctl.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/campuslink/auth-portal/internal/api/handler"
	"github.com/campuslink/auth-portal/internal/core/ports"
	"github.com/campuslink/auth-portal/internal/core/storage"
	"github.com/campuslink/auth-portal/internal/infrastructure/db/memory"
	mongostore "github.com/campuslink/auth-portal/internal/infrastructure/db/mongo"
	"github.com/campuslink/auth-portal/internal/infrastructure/db/postgres"
	redisstore "github.com/campuslink/auth-portal/internal/infrastructure/db/redis"
	"github.com/campuslink/auth-portal/internal/pkg/config"
	"github.com/campuslink/auth-portal/internal/pkg/password"
)

// App holds the opened resources. Sessions is nil when Redis is not
// configured.
type App struct {
	Storage  *storage.Facade
	Sessions ports.SessionStore
	Checks   map[string]handler.CheckFunc

	closers []func(context.Context) error
}

// OnClose registers fn to run when the App is closed.
func (a *App) OnClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

// Close releases every opened connection, in reverse order of opening.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// New opens the backend selected by cfg. A configured external store that
// cannot be reached leaves the facade on the in-memory backend.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	app := &App{Checks: make(map[string]handler.CheckFunc)}
	hasher := password.NewBcryptHasher()

	policy, err := storage.ParsePolicy(cfg.Storage.Selection)
	if err != nil {
		return nil, err
	}

	fc := storage.Config{
		Fallback: storage.Backend{Kind: storage.KindMemory, Store: memory.NewStore(hasher)},
		Policy:   policy,
	}

	switch backend := cfg.ResolveBackend(); backend {
	case config.BackendMongo:
		if err := app.openMongo(ctx, cfg, hasher, &fc, log); err != nil {
			return nil, err
		}
	case config.BackendPostgres:
		if err := app.openPostgres(ctx, cfg, hasher, &fc, log); err != nil {
			return nil, err
		}
	default:
		log.Warn().Msg("no external store configured, using in-memory storage")
	}

	facade, err := storage.New(ctx, fc, log)
	if err != nil {
		_ = app.Close(ctx)
		return nil, err
	}
	app.Storage = facade

	if cfg.Redis.Addr != "" {
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			_ = app.Close(ctx)
			return nil, err
		}
		app.OnClose(func(context.Context) error { return client.Close() })
		app.Sessions = redisstore.NewSessionStore(client)
		app.Checks["redis"] = redisstore.Ping(client)
	}

	return app, nil
}

func (a *App) openMongo(ctx context.Context, cfg *config.Config, hasher ports.PasswordHasher, fc *storage.Config, log zerolog.Logger) error {
	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Warn().Err(err).Msg("mongodb unreachable, using in-memory storage")
		return nil
	}
	a.OnClose(client.Disconnect)

	store := mongostore.NewStore(db, hasher)
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = a.Close(ctx)
		return fmt.Errorf("mongo indexes: %w", err)
	}

	fc.Primary = &storage.Backend{Kind: storage.KindMongo, Store: store}
	fc.Probe = mongostore.NewProbe(client)
	a.Checks["mongodb"] = func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}
	return nil
}

func (a *App) openPostgres(ctx context.Context, cfg *config.Config, hasher ports.PasswordHasher, fc *storage.Config, log zerolog.Logger) error {
	pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
	if err != nil {
		log.Warn().Err(err).Msg("postgres unreachable, using in-memory storage")
		return nil
	}
	a.OnClose(func(context.Context) error {
		pool.Close()
		return nil
	})

	if err := postgres.Migrate(ctx, pool); err != nil {
		_ = a.Close(ctx)
		return fmt.Errorf("postgres migrations: %w", err)
	}

	fc.Primary = &storage.Backend{Kind: storage.KindPostgres, Store: postgres.NewStore(pool, hasher)}
	fc.Probe = postgres.NewProbe(pool)
	a.Checks["postgres"] = pool.Ping
	return nil
}
