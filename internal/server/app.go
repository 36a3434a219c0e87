// Package server initializes and runs the user-management application:
// database pool, migrations, cache driver, optional demo seed, and the HTTP
// server with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dbalakin/userman/internal/logging"
	"github.com/dbalakin/userman/internal/server/cache"
	"github.com/dbalakin/userman/internal/server/config"
	"github.com/dbalakin/userman/internal/server/repositories/unitofwork"
	"github.com/dbalakin/userman/internal/server/seed"
	"github.com/dbalakin/userman/internal/server/services"
	"github.com/dbalakin/userman/internal/server/web"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *web.Server
	seeder *seed.Seeder
}

func NewApp(cfg *config.Config) (*App, error) {
	zl, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}
	logger := logging.NewZapLogger(zl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	cacheStore, err := newCacheStore(cfg)
	if err != nil {
		return nil, err
	}

	uow := unitofwork.NewPostgresFactory(db, []byte(cfg.SecretKey), cfg.AccessTokenValidityDuration)
	userService := services.NewUserService(uow, cacheStore, cfg, logger)

	app := &App{
		config: cfg,
		logger: logger,
		db:     db,
		server: web.NewServer(cfg, userService, logger),
	}
	if cfg.SeedDemoData {
		app.seeder = seed.NewSeeder(uow, cfg.SeedCount, logger)
	}

	return app, nil
}

func newCacheStore(cfg *config.Config) (cache.Store, error) {
	switch cfg.CacheDriver {
	case config.CacheDriverMemory:
		return cache.NewMemoryStore(), nil
	case config.CacheDriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return cache.NewRedisStore(client), nil
	default:
		return nil, fmt.Errorf("unknown cache driver: %q", cfg.CacheDriver)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := unitofwork.RunMigrations(ctx, app.db); err != nil {
		app.logger.Error(ctx, "migration error", "error", err)
		return
	}

	if app.seeder != nil {
		if err := app.seeder.Run(ctx); err != nil {
			app.logger.Error(ctx, "seed error", "error", err)
			return
		}
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
