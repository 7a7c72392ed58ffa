package events

import (
	"time"

	"github.com/deliverlabs/food-ordering-service/internal/domain"
)

// EventType enumerates supported event identifiers. The values double as the
// "type" tag of messages pushed to realtime subscribers.
type EventType string

const (
	EventNewOrder          EventType = "new_order"
	EventOrderStatusUpdate EventType = "order_status_update"
)

// Actor identifies who caused an event. Empty for anonymous customers.
type Actor struct {
	Username string      `json:"username,omitempty"`
	Role     domain.Role `json:"role,omitempty"`
}

// Event is an order lifecycle event emitted by services.
type Event struct {
	ID                     string             `json:"id"`
	Type                   EventType          `json:"type"`
	OrderID                string             `json:"order_id"`
	Status                 domain.OrderStatus `json:"status"`
	PreviousStatus         domain.OrderStatus `json:"previous_status,omitempty"`
	AssignedDeliveryPerson *string            `json:"assigned_delivery_person,omitempty"`
	Order                  domain.Order       `json:"order"`
	Actor                  Actor              `json:"actor"`
	Timestamp              time.Time          `json:"timestamp"`
}
