package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"taskmind.com/taskmind/internal/auth"
	config "taskmind.com/taskmind/internal/configs"
	httpapi "taskmind.com/taskmind/internal/http"
	"taskmind.com/taskmind/internal/ratelimit"
	"taskmind.com/taskmind/internal/reports"
	"taskmind.com/taskmind/internal/services"
	"taskmind.com/taskmind/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the taskmind HTTP API backed by the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStores(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := st.close(context.Background()); err != nil {
				logger.Warn("closing store", "error", err)
			}
		}()

		var limiter ratelimit.Store = ratelimit.NewMemoryStore()
		if cfg.RedisAddr != "" {
			redisClient, err := config.NewRedisClient(cfg.RedisAddr)
			if err != nil {
				return err
			}
			defer redisClient.Close()
			limiter = ratelimit.NewRedisStore(redisClient, cfg.RedisKeyPrefix)
			logger.Info("rate limiting through redis", "addr", cfg.RedisAddr)
		}

		images, err := storage.NewLocalStore(cfg.UploadDir, cfg.PublicURL+"/uploads")
		if err != nil {
			return err
		}

		tokens := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
		hasher := auth.NewPasswordHasher(cfg.BcryptCost)

		authService := services.NewAuthService(st.users, hasher, tokens, images, cfg.AdminInviteToken, logger)
		handler := httpapi.NewHandler(httpapi.HandlerDeps{
			Auth:           authService,
			Tasks:          services.NewTaskService(st.tasks, st.users, logger),
			Users:          services.NewUserService(st.users, st.tasks, logger),
			Dashboard:      services.NewDashboardService(st.tasks),
			Reports:        services.NewReportService(st.tasks, st.users, reports.NewExporter(), logger),
			UploadMaxBytes: cfg.UploadMaxBytes,
		})

		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		e := httpapi.NewServer(handler, httpapi.RouterConfig{
			Logger:             logger,
			Authenticator:      authService,
			RateLimitStore:     limiter,
			RateLimitPerMinute: cfg.RateLimit,
			ClientURL:          cfg.ClientURL,
			UploadDir:          images.Dir(),
			UploadMaxBytes:     cfg.UploadMaxBytes,
			Registry:           registry,
		})

		serverErr := make(chan error, 1)
		go func() {
			logger.Info("HTTP server listening", "addr", cfg.AppURL, "store", cfg.StoreDriver)
			if err := e.Start(cfg.AppURL); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
			close(serverErr)
		}()

		select {
		case <-ctx.Done():
		case err := <-serverErr:
			if err != nil {
				return err
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown", "error", err)
			return err
		}

		logger.Info("HTTP server shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
