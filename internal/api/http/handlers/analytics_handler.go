package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deliverlabs/food-ordering-service/internal/service"
)

// AnalyticsHandler exposes aggregate figures.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analyticsService}
}

// Today handles GET /api/analytics/today.
func (h *AnalyticsHandler) Today(c *fiber.Ctx) error {
	report, err := h.analytics.Today(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"total_orders":     report.TotalOrders,
		"total_revenue":    report.TotalRevenue,
		"orders_by_status": report.OrdersByStatus,
		"date":             report.Date.Format("2006-01-02"),
	}})
}
