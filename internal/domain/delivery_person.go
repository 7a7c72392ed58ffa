package domain

import "time"

// DeliveryPerson is a courier that orders can be assigned to.
type DeliveryPerson struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	IsAvailable   bool      `json:"is_available"`
	CurrentOrders []string  `json:"current_orders"`
	CreatedAt     time.Time `json:"created_at"`
}
