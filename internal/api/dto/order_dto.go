package dto

import "github.com/deliverlabs/food-ordering-service/internal/domain"

// CreateOrderRequest payload for POST /api/orders.
type CreateOrderRequest struct {
	Items         []domain.LineItem    `json:"items"`
	DeliveryInfo  domain.DeliveryInfo  `json:"delivery_info"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	DeliveryNotes string               `json:"delivery_notes"`
}

// UpdateOrderStatusRequest payload for PUT /api/orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status                 string  `json:"status"`
	AssignedDeliveryPerson *string `json:"assigned_delivery_person"`
}
