package dto

import "github.com/shopspring/decimal"

// MenuItemRequest payload for creating or replacing a menu item.
type MenuItemRequest struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	Category        string          `json:"category"`
	ImageURL        string          `json:"image_url"`
	Available       *bool           `json:"available"`
	PreparationTime int             `json:"preparation_time"`
}

// MessageResponse acknowledges a mutation without a body.
type MessageResponse struct {
	Message string `json:"message"`
}
