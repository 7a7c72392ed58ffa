// Package messaging relays order lifecycle events to a RabbitMQ topic exchange so
// services outside this process can follow orders.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/deliverlabs/food-ordering-service/internal/config"
	"github.com/deliverlabs/food-ordering-service/internal/events"
)

// publishTimeout bounds a single broker publish independently of the caller.
const publishTimeout = 5 * time.Second

// Channel is the subset of *amqp.Channel the publisher needs.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher writes events to a durable topic exchange. A single channel is shared
// and guarded by a mutex since amqp channels are not safe for concurrent publishing.
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       Channel
	exchange string
	logger   *zap.Logger
}

// Dial connects to the broker and declares the exchange. It returns nil, nil when no
// URL is configured.
func Dial(cfg config.RabbitMQConfig, logger *zap.Logger) (*Publisher, error) {
	if cfg.URL == "" {
		logger.Info("RABBITMQ_URL not provided; broker relay disabled")
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	publisher, err := NewPublisher(ch, cfg.Exchange, logger)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	publisher.conn = conn
	logger.Info("connected to rabbitmq", zap.String("exchange", cfg.Exchange))
	return publisher, nil
}

// NewPublisher declares exchange on ch and returns a publisher bound to it.
func NewPublisher(ch Channel, exchange string, logger *zap.Logger) (*Publisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return &Publisher{ch: ch, exchange: exchange, logger: logger}, nil
}

// RegisterHandlers subscribes the publisher to every order lifecycle event.
func (p *Publisher) RegisterHandlers(dispatcher events.Dispatcher) {
	if p == nil || dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventNewOrder, p.Publish)
	dispatcher.Subscribe(events.EventOrderStatusUpdate, p.Publish)
}

// Publish sends event as a persistent JSON message routed by RoutingKey. The event
// has already been committed, so cancellation of ctx does not abort the publish.
func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	key := RoutingKey(event)
	p.mu.Lock()
	err = p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    event.ID,
		Timestamp:    event.Timestamp,
		Type:         string(event.Type),
		Body:         body,
	})
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", key, err)
	}

	p.logger.Debug("event published", zap.String("routing_key", key), zap.String("order_id", event.OrderID))
	return nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil && !p.conn.IsClosed() {
		_ = p.conn.Close()
	}
}

// RoutingKey builds "order.<event type>.<status>", e.g. "order.order_status_update.ready".
func RoutingKey(event events.Event) string {
	return fmt.Sprintf("order.%s.%s", event.Type, event.Status)
}
