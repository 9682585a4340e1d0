package main // Entry point package

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/colabri-doc/internal/config"   // layered config loader
	"github.com/iliyamo/colabri-doc/internal/database" // optional MySQL readiness target
	"github.com/iliyamo/colabri-doc/internal/docs"
	"github.com/iliyamo/colabri-doc/internal/handler"
	"github.com/iliyamo/colabri-doc/internal/logging"
	"github.com/iliyamo/colabri-doc/internal/metrics"
	"github.com/iliyamo/colabri-doc/internal/middleware"
	"github.com/iliyamo/colabri-doc/internal/queue"  // optional item-created events
	"github.com/iliyamo/colabri-doc/internal/router" // route registration
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load() // env > app.env > .env > defaults
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	log := logging.WithService(cfg.ServiceName, cfg.Pod)
	log.Info("Configuration loaded", "environment", cfg.Environment, "address", cfg.ServerAddress())

	m := metrics.New()

	var checks []handler.ReadyCheck

	if cfg.DBURL != "" {
		db, err := database.Open(cfg.DBURL)
		if err != nil {
			log.Error("Invalid DB_URL", "error", err)
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()
		checks = append(checks, handler.ReadyCheck{
			Name:  "database",
			Check: func(ctx context.Context) error { return database.Ping(ctx, db) },
		})
	} else {
		log.Warn("No DB_URL configured; readiness will not check a database")
	}

	rdb, err := config.NewRedisClient(cfg.RedisURL)
	switch {
	case err != nil:
		log.Warn("Redis unavailable; rate limiting disabled", "error", err)
	case rdb != nil:
		defer func() { _ = rdb.Close() }()
		checks = append(checks, handler.ReadyCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}

	items := handler.NewItemHandler(m)
	if cfg.AMQPURL != "" {
		publisher, err := queue.NewPublisher(cfg.AMQPURL)
		if err != nil {
			log.Warn("RabbitMQ unavailable; item events disabled", "error", err)
		} else {
			defer func() { _ = publisher.Close() }()
			items.WithEvents(publisher)
			checks = append(checks, handler.ReadyCheck{Name: "rabbitmq", Check: publisher.Ping})
		}
	}

	docsHandler, err := handler.NewDocsHandler(docs.Info{
		Title:       cfg.ServiceName,
		Version:     version,
		Description: "Health, item echo and WebSocket echo endpoints.",
	})
	if err != nil {
		log.Error("Failed to build API documentation", "error", err)
		os.Exit(1)
	}

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.HidePort = true

	router.UseMiddleware(e, cfg.AllowedOrigins())
	router.RegisterDocs(e, docsHandler)
	router.RegisterAPI(e,
		items,
		handler.NewReadyHandler(checks...),
		middleware.NewTokenBucket(cfg.RateLimit(), rdb),
	)
	router.RegisterWebSocket(e, handler.NewWebSocketHandler(cfg.AllowedOrigins(), cfg.WSMaxMessageBytes, m))
	router.RegisterMetrics(e, m.Handler())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("Server running", "http", "http://"+cfg.ServerAddress(), "swagger", docs.UIPath, "ws", "/ws")
		if err := e.Start(cfg.ServerAddress()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", "error", err)
	}
}
