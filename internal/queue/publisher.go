package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log/slog"
    "sync"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends item-created events to RabbitMQ over one long-lived
// connection.  Errors are logged and returned so callers can ignore them
// without interrupting the request that triggered the event.
type Publisher struct {
    mu   sync.Mutex // amqp channels are not safe for concurrent publishes
    conn *amqp.Connection
    ch   *amqp.Channel
}

// NewPublisher dials url, opens a channel and declares the durable queue.
// An empty url is a configuration error; callers decide whether events are
// optional.
func NewPublisher(url string) (*Publisher, error) {
    if url == "" {
        return nil, errors.New("AMQP_URL is empty")
    }
    conn, err := amqp.Dial(url)
    if err != nil {
        return nil, fmt.Errorf("rabbitmq dial: %w", err)
    }

    ch, err := conn.Channel()
    if err != nil {
        _ = conn.Close()
        return nil, fmt.Errorf("rabbitmq channel: %w", err)
    }

    if _, err := ch.QueueDeclare(
        ItemCreatedQueue, // name
        true,             // durable
        false,            // autoDelete
        false,            // exclusive
        false,            // noWait
        nil,              // args
    ); err != nil {
        _ = ch.Close()
        _ = conn.Close()
        return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
    }

    return &Publisher{conn: conn, ch: ch}, nil
}

// PublishItemCreated sends ev as a persistent JSON message on the default
// exchange, routed by queue name.
func (p *Publisher) PublishItemCreated(ctx context.Context, ev ItemCreatedEvent) error {
    body, err := json.Marshal(ev)
    if err != nil {
        return fmt.Errorf("marshal event: %w", err)
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent, // store on disk
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }

    p.mu.Lock()
    defer p.mu.Unlock()
    if err := p.ch.PublishWithContext(ctx,
        "",               // default exchange
        ItemCreatedQueue, // routing key = queue name
        false,            // mandatory
        false,            // immediate
        pub,
    ); err != nil {
        slog.Warn("rabbitmq: publish failed", "queue", ItemCreatedQueue, "item_id", ev.ID, "error", err)
        return fmt.Errorf("rabbitmq publish: %w", err)
    }
    return nil
}

// Ping reports whether both the broker connection and the publishing
// channel are still open.  The broker can close the channel alone after a
// channel-level exception.
func (p *Publisher) Ping(context.Context) error {
    return checkOpen(p.conn, p.ch)
}

type closable interface{ IsClosed() bool }

func checkOpen(conn, ch closable) error {
    if conn.IsClosed() {
        return errors.New("rabbitmq connection closed")
    }
    if ch.IsClosed() {
        return errors.New("rabbitmq channel closed")
    }
    return nil
}

func (p *Publisher) Close() error {
    p.mu.Lock()
    defer p.mu.Unlock()
    _ = p.ch.Close()
    return p.conn.Close()
}
