package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/contactdesk/internal/config"
	"github.com/JonMunkholm/contactdesk/internal/core"
	"github.com/JonMunkholm/contactdesk/internal/logging"
	"github.com/JonMunkholm/contactdesk/internal/store"
	"github.com/JonMunkholm/contactdesk/internal/web"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"db_driver", cfg.Database.Driver,
		"db_max_conns", cfg.Database.MaxConns,
		"db_query_timeout", cfg.Database.QueryTimeout,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"api_key_required", cfg.Security.RequireAPIKey,
		"import_max_concurrent", cfg.Import.MaxConcurrent,
	)

	ctx := context.Background()

	// Open the store. An unreachable database is logged, not fatal.
	handle, err := store.Open(ctx, cfg.Database, cfg.Redis)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer handle.Close()

	service := core.NewService(handle,
		core.WithQueryTimeout(cfg.Database.QueryTimeout),
		core.WithImportLimit(cfg.Import.MaxConcurrent, cfg.Import.MaxWaitTime),
	)

	var opts []web.Option
	if cfg.Redis.URL != "" && cfg.Rate.Enabled {
		redisOpts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			slog.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		rdb := redis.NewClient(redisOpts)
		defer rdb.Close()
		opts = append(opts, web.WithRedis(rdb))
		slog.Info("rate limit counters shared through redis")
	}

	server, err := web.NewServer(service, cfg, opts...)
	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Let in-flight imports finish before closing connections
		if active := service.ImportStatus().Active; active > 0 {
			slog.Info("waiting for imports to complete", "active", active)
			if err := service.WaitForImports(shutdownCtx); err != nil {
				slog.Warn("shutdown timeout waiting for imports", "error", err)
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		return
	}
	<-done
	slog.Info("server stopped")
}
