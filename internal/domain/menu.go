package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem is a sellable product. Deleting an item only marks it unavailable.
type MenuItem struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	Category        string          `json:"category"`
	ImageURL        string          `json:"image_url"`
	Available       bool            `json:"available"`
	PreparationTime int             `json:"preparation_time"`
	CreatedAt       time.Time       `json:"created_at"`
}
