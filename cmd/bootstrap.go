package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	config "taskmind.com/taskmind/internal/configs"
	repository "taskmind.com/taskmind/internal/repositories"
	"taskmind.com/taskmind/internal/services"
)

type stores struct {
	tasks services.TaskStore
	users services.UserStore
	close func(context.Context) error
}

// loadConfig reads .env when present and builds the logger from the result.
func loadConfig() (config.Config, *slog.Logger, error) {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}

	logger := config.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		if errors.Is(envErr, fs.ErrNotExist) {
			logger.Debug(".env file not found, using environment variables")
		} else {
			logger.Warn("could not read .env file", "error", envErr)
		}
	}
	return cfg, logger, nil
}

// openStores connects the configured backend and brings its schema or
// indexes up to date.
func openStores(ctx context.Context, cfg config.Config, logger *slog.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := config.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDatabase)

		tasks := repository.NewMongoTaskRepository(db)
		users := repository.NewMongoUserRepository(db)
		if err := tasks.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		if err := users.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}

		logger.Info("connected to mongodb", "database", cfg.MongoDatabase)
		return &stores{tasks: tasks, users: users, close: client.Disconnect}, nil

	case config.DriverSQLite:
		db, err := config.NewDatabaseClient(cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sql handle: %w", err)
		}

		logger.Info("opened sqlite database", "dsn", cfg.DatabaseDSN)
		return &stores{
			tasks: repository.NewTaskRepository(db),
			users: repository.NewUserRepository(db),
			close: func(context.Context) error { return sqlDB.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}
