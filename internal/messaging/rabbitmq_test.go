package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/deliverlabs/food-ordering-service/internal/config"
	"github.com/deliverlabs/food-ordering-service/internal/domain"
	"github.com/deliverlabs/food-ordering-service/internal/events"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	declared   []string
	kind       string
	durable    bool
	declareErr error
	publishErr error
	published  []published
	ctxErr     error
	deadline   time.Time
	closed     bool
}

func (c *fakeChannel) ExchangeDeclare(name, kind string, durable, _, _, _ bool, _ amqp.Table) error {
	if c.declareErr != nil {
		return c.declareErr
	}
	c.declared = append(c.declared, name)
	c.kind = kind
	c.durable = durable
	return nil
}

func (c *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.ctxErr = ctx.Err()
	c.deadline, _ = ctx.Deadline()
	if c.publishErr != nil {
		return c.publishErr
	}
	c.published = append(c.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func TestNewPublisherDeclaresDurableTopicExchange(t *testing.T) {
	ch := &fakeChannel{}
	_, err := NewPublisher(ch, "orders", zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"orders"}, ch.declared)
	assert.Equal(t, amqp.ExchangeTopic, ch.kind)
	assert.True(t, ch.durable)

	_, err = NewPublisher(&fakeChannel{declareErr: errors.New("access refused")}, "orders", nil)
	assert.ErrorContains(t, err, "access refused")
}

func TestPublisherRelaysDispatchedEvents(t *testing.T) {
	ch := &fakeChannel{}
	publisher, err := NewPublisher(ch, "orders", zaptest.NewLogger(t))
	require.NoError(t, err)

	dispatcher := events.NewInMemoryDispatcher(zaptest.NewLogger(t))
	publisher.RegisterHandlers(dispatcher)

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	event := events.Event{
		ID:        "evt-1",
		Type:      events.EventOrderStatusUpdate,
		OrderID:   "order-1",
		Status:    domain.OrderStatusReady,
		Order:     domain.Order{ID: "order-1", Status: domain.OrderStatusReady},
		Timestamp: at,
	}
	require.NoError(t, dispatcher.Publish(context.Background(), event))

	require.Len(t, ch.published, 1)
	got := ch.published[0]
	assert.Equal(t, "orders", got.exchange)
	assert.Equal(t, "order.order_status_update.ready", got.key)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, "evt-1", got.msg.MessageId)
	assert.Equal(t, "order_status_update", got.msg.Type)
	assert.Equal(t, at, got.msg.Timestamp)

	var decoded events.Event
	require.NoError(t, json.Unmarshal(got.msg.Body, &decoded))
	assert.Equal(t, "order-1", decoded.OrderID)
	assert.Equal(t, domain.OrderStatusReady, decoded.Status)

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		Type: events.EventNewOrder, OrderID: "order-2", Status: domain.OrderStatusReceived,
	}))
	require.Len(t, ch.published, 2)
	assert.Equal(t, "order.new_order.received", ch.published[1].key)
}

func TestPublishWrapsBrokerErrors(t *testing.T) {
	publisher, err := NewPublisher(&fakeChannel{publishErr: amqp.ErrClosed}, "orders", nil)
	require.NoError(t, err)

	err = publisher.Publish(context.Background(), events.Event{Type: events.EventNewOrder, Status: domain.OrderStatusReceived})
	require.Error(t, err)
	assert.ErrorIs(t, err, amqp.ErrClosed)
	assert.Contains(t, err.Error(), "order.new_order.received")
}

func TestPublishOutlivesCancelledRequest(t *testing.T) {
	ch := &fakeChannel{}
	publisher, err := NewPublisher(ch, "orders", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	before := time.Now()
	require.NoError(t, publisher.Publish(ctx, events.Event{Type: events.EventNewOrder, OrderID: "o-1", Status: domain.OrderStatusReceived}))
	require.Len(t, ch.published, 1)
	assert.NoError(t, ch.ctxErr)
	assert.WithinDuration(t, before.Add(publishTimeout), ch.deadline, time.Second)
}

func TestDialWithoutURLDisablesRelay(t *testing.T) {
	publisher, err := Dial(config.RabbitMQConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, publisher)

	publisher.RegisterHandlers(events.NewInMemoryDispatcher(nil))
	publisher.Close()
}

func TestCloseReleasesChannel(t *testing.T) {
	ch := &fakeChannel{}
	publisher, err := NewPublisher(ch, "orders", nil)
	require.NoError(t, err)

	publisher.Close()
	assert.True(t, ch.closed)
}
