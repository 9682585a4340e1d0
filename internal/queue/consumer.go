package queue

import (
    "context"
    "errors"
    "fmt"
    "log/slog"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

const maxBackoff = 30 * time.Second

// HandlerFunc processes one decoded event.  A returned error rejects the
// delivery without requeueing it.
type HandlerFunc func(ctx context.Context, ev ItemCreatedEvent) error

// Consume connects to RabbitMQ, declares the items.created queue and hands
// every delivery to handle.  It reconnects with exponential backoff when the
// broker goes away and only returns once ctx is cancelled.
func Consume(ctx context.Context, url string, handle HandlerFunc) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(url)
        if err != nil {
            slog.Warn("item-consumer: failed to dial broker", "error", err, "retry_in", backoff)
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            backoff = nextBackoff(backoff)
            continue
        }
        backoff = time.Second // reset after successful connect

        err = consumeLoop(ctx, conn, handle)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        slog.Warn("item-consumer: consume loop ended; reconnecting", "error", err)
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, handle HandlerFunc) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        slog.Warn("item-consumer: set QoS failed", "error", err)
    }

    if _, err := ch.QueueDeclare(ItemCreatedQueue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    msgs, err := ch.Consume(ItemCreatedQueue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := handleDelivery(ctx, d.Body, handle); err != nil {
                slog.Warn("item-consumer: handle message failed", "error", err)
                _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
                continue
            }
            _ = d.Ack(false)
        }
    }
}

func handleDelivery(ctx context.Context, body []byte, handle HandlerFunc) error {
    ev, err := DecodeItemCreated(body)
    if err != nil {
        return err
    }
    return handle(ctx, ev)
}

func nextBackoff(d time.Duration) time.Duration {
    if d *= 2; d > maxBackoff {
        return maxBackoff
    }
    return d
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}
