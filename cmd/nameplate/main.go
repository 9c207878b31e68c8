package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"nameplate/internal/auth"
	"nameplate/internal/cache"
	"nameplate/internal/config"
	"nameplate/internal/export"
	"nameplate/internal/http/server"
	"nameplate/internal/infra/chrome"
	"nameplate/internal/infra/logging"
	"nameplate/internal/notify"
	"nameplate/internal/service"
	"nameplate/internal/storage"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()
	logging.InitLogger(
		cfg.Logger.File,
		cfg.Logger.MaxSizeMB,
		cfg.Logger.MaxBackups,
		cfg.Logger.MaxAgeDays,
		cfg.Logger.Compress,
		cfg.Logger.Level,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var artifacts *cache.Artifacts
	if cfg.Cache.Enabled && cfg.Cache.RedisHost != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.Cache.RedisHost,
			DB:   cfg.Cache.ArtifactCacheDB,
		})
		defer rdb.Close()
		artifacts = cache.NewArtifacts(rdb, cfg.Cache.TTL)
	}

	// A missing store is reported per request as a configuration error.
	store, err := storage.New(ctx, cfg)
	if err != nil {
		logging.Error("Artifact storage unavailable", "driver", cfg.Storage.Driver, "error", err)
	}

	var printer *chrome.Printer
	var htmlPrinter export.HTMLPrinter
	if cfg.PDF.Backend == "chrome" {
		printer = chrome.NewPrinter(cfg)
		defer printer.Close()
		htmlPrinter = printer
	}

	var keys *auth.Keys
	if cfg.Auth.Enabled {
		keys = auth.NewKeys()
		repo, err := auth.OpenPostgres(ctx, cfg.Auth.Postgres)
		if err != nil {
			logging.Error("Failed to open API key store", "error", err)
		} else {
			defer repo.Close()
			reloader := auth.NewReloader(repo, keys, cfg.Auth.ReloadInterval)
			if err := reloader.LoadOnce(ctx); err != nil {
				logging.Error("Failed to load API keys", "error", err)
			}
			reloader.Start(ctx)
		}
	}

	exporter := &service.Exporter{
		Renderer:         export.NewRenderer(cfg, htmlPrinter),
		Store:            store,
		Notifier:         notify.NewWebhook(cfg.Notify.WebhookURL, cfg.Notify.Timeout, cfg.Notify.SecretToken),
		Cache:            artifacts,
		Prefix:           cfg.Storage.Prefix,
		MaxLabels:        cfg.Limits.MaxLabels,
		MaxArtifactBytes: cfg.Limits.MaxArtifactBytes,
	}

	app := server.New(server.Deps{
		Config:   cfg,
		Exporter: exporter,
		Printer:  printer,
		Keys:     keys,
	})

	idleConnsClosed := make(chan struct{})
	startServer(app, cfg, idleConnsClosed)
	<-idleConnsClosed
}

// startServer starts the Fiber app and blocks until a shutdown signal arrives.
func startServer(app *fiber.App, cfg config.Config, idleConnsClosed chan struct{}) {
	go func() {
		logging.Info("Listening", "addr", cfg.Server.Host+cfg.Server.Port)
		if err := app.Listen(cfg.Server.Host + cfg.Server.Port); err != nil {
			logging.Error("Server error", "error", err)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigint)
	<-sigint

	logging.Warn("Shutdown signal received, closing server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
	}

	close(idleConnsClosed)
	logging.Info("Server stopped cleanly")
}
