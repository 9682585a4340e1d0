// Command item-events consumes the items.created queue and logs every event
// it receives. It needs AMQP_URL and reads the same configuration sources as
// the server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iliyamo/colabri-doc/internal/config"
	"github.com/iliyamo/colabri-doc/internal/logging"
	"github.com/iliyamo/colabri-doc/internal/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	log := logging.WithService(cfg.ServiceName+"-events", cfg.Pod)

	if cfg.AMQPURL == "" {
		log.Error("AMQP_URL is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Consuming item events", "queue", queue.ItemCreatedQueue)
	err = queue.Consume(ctx, cfg.AMQPURL, func(_ context.Context, ev queue.ItemCreatedEvent) error {
		log.Info("Item created",
			"item_id", ev.ID,
			"name", ev.Name,
			"description", ev.Description,
			"created_at", ev.CreatedAt,
		)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Consumer stopped", "error", err)
		os.Exit(1)
	}
	log.Info("Consumer stopped")
}
