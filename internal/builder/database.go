package builder

import (
	"context"
	"fmt"

	"github.com/avast/retry-go/v4"
	"github.com/futig/parallel-universe/internal/config"
	"github.com/futig/parallel-universe/internal/prefs"
	"github.com/futig/parallel-universe/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// setupPreferenceStorage opens the configured preference backend. The
// returned closer releases it and is never nil.
func setupPreferenceStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (prefs.Storage, func(), error) {
	noop := func() {}
	driver := cfg.StorageCfg.Driver

	switch driver {
	case config.StorageDriverMemory:
		logger.Warn("preferences are kept in memory and will not survive a restart")
		return repository.NewPreferenceMemory(), noop, nil

	case config.StorageDriverFile:
		storage, err := repository.NewPreferenceFile(afero.NewOsFs(), cfg.StorageCfg.FileDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open file preferences: %w", err)
		}
		logger.Info("file preference storage ready", zap.String("dir", cfg.StorageCfg.FileDir))
		return storage, noop, nil

	case config.StorageDriverSQLite:
		storage, err := repository.OpenPreferenceSQLite(ctx, cfg.StorageCfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite preferences: %w", err)
		}
		logger.Info("sqlite preference storage ready", zap.String("path", cfg.StorageCfg.SQLitePath))
		return storage, func() {
			if err := storage.Close(); err != nil {
				logger.Error("close sqlite preferences", zap.Error(err))
			}
		}, nil

	case config.StorageDriverPostgres:
		db, err := setupDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("setup database: %w", err)
		}

		logger.Info("Running database migrations")
		if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("Database migrations completed successfully")

		return repository.NewPreferencePostgres(db), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// setupDatabase creates a new database connection pool and waits until it answers.
func setupDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	// Configure pool settings from config
	poolConfig.MaxConns = int32(cfg.DBMaxConns)
	poolConfig.MinConns = int32(cfg.DBMinConns)
	poolConfig.MaxConnLifetime = cfg.DBMaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.DBMaxConnIdleTime
	poolConfig.HealthCheckPeriod = cfg.DBHealthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	retryCfg := cfg.DBConnectRetry
	opts := append(retryCfg.ToRetryOptions(),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("database is not reachable yet",
				zap.Uint("attempt", n+1),
				zap.Error(err),
			)
		}),
	)

	err = retry.Do(func() error {
		pingCtx := ctx
		if retryCfg.Timeout > 0 {
			var cancel context.CancelFunc
			pingCtx, cancel = context.WithTimeout(ctx, retryCfg.Timeout)
			defer cancel()
		}
		return pool.Ping(pingCtx)
	}, opts...)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database connection pool established",
		zap.Int32("max_conns", poolConfig.MaxConns),
		zap.Int32("min_conns", poolConfig.MinConns),
		zap.Duration("max_conn_lifetime", poolConfig.MaxConnLifetime),
		zap.Duration("max_conn_idle_time", poolConfig.MaxConnIdleTime),
		zap.Duration("health_check_period", poolConfig.HealthCheckPeriod),
	)

	return pool, nil
}
