package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/deliverlabs/food-ordering-service/internal/domain"
	"github.com/deliverlabs/food-ordering-service/internal/events"
)

// Message is the JSON document pushed to subscribers.
type Message struct {
	Type    events.EventType   `json:"type"`
	OrderID string             `json:"order_id"`
	Status  domain.OrderStatus `json:"status"`
	Order   domain.Order       `json:"order"`
}

// Relay routes lifecycle events from the dispatcher to subscriber groups.
type Relay struct {
	dispatcher events.Dispatcher
	hub        *Hub
	logger     *zap.Logger
}

// NewRelay creates the relay.
func NewRelay(dispatcher events.Dispatcher, hub *Hub, logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{dispatcher: dispatcher, hub: hub, logger: logger}
}

// RegisterHandlers subscribes to lifecycle events.
func (r *Relay) RegisterHandlers() {
	if r.dispatcher == nil {
		return
	}
	r.dispatcher.Subscribe(events.EventNewOrder, r.handleNewOrder)
	r.dispatcher.Subscribe(events.EventOrderStatusUpdate, r.handleStatusUpdate)
}

func (r *Relay) handleNewOrder(_ context.Context, event events.Event) error {
	payload, err := encode(event)
	if err != nil {
		return err
	}
	res := r.hub.Broadcast(GroupStaff, payload)
	r.logger.Debug("new order broadcast",
		zap.String("order_id", event.OrderID),
		zap.Int("delivered", res.Delivered),
		zap.Int("dropped", res.Dropped))
	return nil
}

func (r *Relay) handleStatusUpdate(_ context.Context, event events.Event) error {
	payload, err := encode(event)
	if err != nil {
		return err
	}
	r.hub.Broadcast(GroupStaff, payload)
	r.hub.BroadcastTo(GroupCustomer, event.OrderID, payload)
	if event.AssignedDeliveryPerson != nil {
		r.hub.Broadcast(GroupDelivery, payload)
	}
	return nil
}

func encode(event events.Event) ([]byte, error) {
	payload, err := json.Marshal(Message{
		Type:    event.Type,
		OrderID: event.OrderID,
		Status:  event.Status,
		Order:   event.Order,
	})
	if err != nil {
		return nil, fmt.Errorf("encode %s message: %w", event.Type, err)
	}
	return payload, nil
}
