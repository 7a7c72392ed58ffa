package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus enumerates lifecycle states for orders.
type OrderStatus string

const (
	OrderStatusReceived  OrderStatus = "received"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusOnRoute   OrderStatus = "on_route"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every state in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusReceived,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusOnRoute,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// allowedTransitions is the role-independent transition graph. Terminal states have no entry.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusReceived:  {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusOnRoute, OrderStatusCancelled},
	OrderStatusOnRoute:   {OrderStatusDelivered, OrderStatusCancelled},
}

// Valid reports whether s is a known lifecycle state.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition may leave s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// ParseOrderStatus converts raw input into a known status.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	status := OrderStatus(raw)
	if !status.Valid() {
		return "", fmt.Errorf("unknown order status %q", raw)
	}
	return status, nil
}

// CanTransition reports whether from -> to is an edge of the global transition graph.
func CanTransition(from, to OrderStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the states reachable from s in one step.
func NextStatuses(s OrderStatus) []OrderStatus {
	return append([]OrderStatus(nil), allowedTransitions[s]...)
}

// PaymentMethod enumerates accepted payment methods.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

// Valid reports whether m is an accepted payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

// LineItem references a menu item in an order.
type LineItem struct {
	MenuItemID          string `json:"menu_item_id"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"special_instructions"`
}

// DeliveryInfo describes where and to whom an order is delivered.
type DeliveryInfo struct {
	CustomerName    string   `json:"customer_name"`
	CustomerPhone   string   `json:"customer_phone"`
	DeliveryAddress string   `json:"delivery_address"`
	DeliveryZone    string   `json:"delivery_zone"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
}

// Order is the aggregate for a customer order. It is mutated only through status transitions.
type Order struct {
	ID                     string          `json:"id"`
	Items                  []LineItem      `json:"items"`
	DeliveryInfo           DeliveryInfo    `json:"delivery_info"`
	Subtotal               decimal.Decimal `json:"subtotal"`
	DeliveryFee            decimal.Decimal `json:"delivery_fee"`
	Total                  decimal.Decimal `json:"total"`
	Status                 OrderStatus     `json:"status"`
	PaymentMethod          PaymentMethod   `json:"payment_method"`
	EstimatedDelivery      time.Time       `json:"estimated_delivery"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
	AssignedDeliveryPerson *string         `json:"assigned_delivery_person"`
	DeliveryNotes          string          `json:"delivery_notes"`
}

// OrderUpdate carries the fields a status transition may write.
type OrderUpdate struct {
	Status                 OrderStatus
	UpdatedAt              time.Time
	AssignedDeliveryPerson *string
}

// Apply writes the update onto o.
func (u OrderUpdate) Apply(o *Order) {
	o.Status = u.Status
	o.UpdatedAt = u.UpdatedAt
	if u.AssignedDeliveryPerson != nil {
		person := *u.AssignedDeliveryPerson
		o.AssignedDeliveryPerson = &person
	}
}
