package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/deliverlabs/food-ordering-service/internal/api/dto"
	"github.com/deliverlabs/food-ordering-service/internal/service"
)

// DeliveryHandler exposes courier endpoints.
type DeliveryHandler struct {
	delivery *service.DeliveryService
}

// NewDeliveryHandler constructs handler.
func NewDeliveryHandler(deliveryService *service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{delivery: deliveryService}
}

// Create handles POST /api/delivery-persons.
func (h *DeliveryHandler) Create(c *fiber.Ctx) error {
	var req dto.DeliveryPersonRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	person, err := h.delivery.Create(c.UserContext(), service.DeliveryPersonInput{
		Name:        req.Name,
		Phone:       req.Phone,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": person})
}

// List handles GET /api/delivery-persons.
func (h *DeliveryHandler) List(c *fiber.Ctx) error {
	persons, err := h.delivery.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": persons})
}

// ListAvailable handles GET /api/delivery-persons/available.
func (h *DeliveryHandler) ListAvailable(c *fiber.Ctx) error {
	persons, err := h.delivery.ListAvailable(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": persons})
}
