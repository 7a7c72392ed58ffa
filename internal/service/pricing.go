package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/deliverlabs/food-ordering-service/internal/config"
)

const defaultPreparationWindow = 45 * time.Minute

// Pricing computes delivery fees and estimated delivery times.
type Pricing struct {
	centralZone       string
	centralFee        decimal.Decimal
	standardFee       decimal.Decimal
	preparationWindow time.Duration
}

// NewPricing builds pricing from configuration.
func NewPricing(cfg config.PricingConfig) *Pricing {
	window := cfg.PreparationWindow()
	if window <= 0 {
		window = defaultPreparationWindow
	}
	return &Pricing{
		centralZone:       strings.ToLower(strings.TrimSpace(cfg.CentralZone)),
		centralFee:        decimal.NewFromInt(cfg.CentralFee),
		standardFee:       decimal.NewFromInt(cfg.StandardFee),
		preparationWindow: window,
	}
}

// DeliveryFee returns the central fee for the central zone and the standard fee for
// every other zone, including an empty one. Zone names compare case-insensitively.
func (p *Pricing) DeliveryFee(zone string) decimal.Decimal {
	if strings.ToLower(strings.TrimSpace(zone)) == p.centralZone {
		return p.centralFee
	}
	return p.standardFee
}

// EstimatedDelivery returns the delivery estimate for an order created at createdAt.
func (p *Pricing) EstimatedDelivery(createdAt time.Time) time.Time {
	return createdAt.Add(p.preparationWindow)
}
