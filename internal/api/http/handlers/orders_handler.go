package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/deliverlabs/food-ordering-service/internal/api/dto"
	"github.com/deliverlabs/food-ordering-service/internal/events"
	"github.com/deliverlabs/food-ordering-service/internal/service"
)

// OrdersHandler exposes order endpoints.
type OrdersHandler struct {
	orders *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orderService *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orderService}
}

// Create handles POST /api/orders. Customers are anonymous.
func (h *OrdersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	order, err := h.orders.CreateOrder(c.UserContext(), service.CreateOrderInput{
		Items:         req.Items,
		DeliveryInfo:  req.DeliveryInfo,
		PaymentMethod: req.PaymentMethod,
		DeliveryNotes: req.DeliveryNotes,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": order})
}

// Get handles GET /api/orders/:id.
func (h *OrdersHandler) Get(c *fiber.Ctx) error {
	order, err := h.orders.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": order})
}

// List handles GET /api/orders.
func (h *OrdersHandler) List(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	orders, err := h.orders.ListOrders(c.UserContext(), identity.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orders})
}

// ListByStatus handles GET /api/orders/status/:status.
func (h *OrdersHandler) ListByStatus(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	orders, err := h.orders.ListOrdersByStatus(c.UserContext(), identity.Role, c.Params("status"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orders})
}

// UpdateStatus handles PUT /api/orders/:id/status and returns the updated order.
func (h *OrdersHandler) UpdateStatus(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	actor := events.Actor{Username: identity.Username, Role: identity.Role}
	order, err := h.orders.ApplyTransition(c.UserContext(), actor, c.Params("id"), service.StatusUpdateInput{
		Status:                 req.Status,
		AssignedDeliveryPerson: req.AssignedDeliveryPerson,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": order})
}
