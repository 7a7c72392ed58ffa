package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/deliverlabs/food-ordering-service/internal/domain"
	"github.com/deliverlabs/food-ordering-service/internal/events"
	"github.com/deliverlabs/food-ordering-service/internal/realtime"
)

type recordingSubscriber struct {
	payloads [][]byte
}

func (s *recordingSubscriber) ID() string  { return "staff-1" }
func (s *recordingSubscriber) Key() string { return "" }
func (s *recordingSubscriber) Close() error {
	return nil
}

func (s *recordingSubscriber) Send(payload []byte) error {
	s.payloads = append(s.payloads, payload)
	return nil
}

func TestStartEventWorkersWiresRelayWithoutBroker(t *testing.T) {
	logger := zaptest.NewLogger(t)
	dispatcher := events.NewInMemoryDispatcher(logger)
	hub := realtime.NewHub(logger, nil)
	sub := &recordingSubscriber{}
	require.NoError(t, hub.Register(realtime.GroupStaff, sub))

	StartEventWorkers(dispatcher, realtime.NewRelay(dispatcher, hub, logger), nil, logger)

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		Type: events.EventNewOrder, OrderID: "order-1", Status: domain.OrderStatusReceived,
	}))
	assert.Len(t, sub.payloads, 1)
}

func TestStartEventWorkersToleratesNilDispatcher(t *testing.T) {
	assert.NotPanics(t, func() {
		StartEventWorkers(nil, nil, nil, zaptest.NewLogger(t))
	})
}
