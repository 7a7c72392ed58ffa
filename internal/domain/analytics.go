package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyAnalytics aggregates the orders created since Date.
type DailyAnalytics struct {
	TotalOrders    int64                 `json:"total_orders"`
	TotalRevenue   decimal.Decimal       `json:"total_revenue"`
	OrdersByStatus map[OrderStatus]int64 `json:"orders_by_status"`
	Date           time.Time             `json:"date"`
}
