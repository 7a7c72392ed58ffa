package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/deliverlabs/food-ordering-service/internal/api/dto"
	"github.com/deliverlabs/food-ordering-service/internal/service"
)

// MenuHandler exposes the menu catalogue.
type MenuHandler struct {
	menu *service.MenuService
}

// NewMenuHandler constructs handler.
func NewMenuHandler(menuService *service.MenuService) *MenuHandler {
	return &MenuHandler{menu: menuService}
}

// List handles GET /api/menu.
func (h *MenuHandler) List(c *fiber.Ctx) error {
	items, err := h.menu.ListAvailable(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListByCategory handles GET /api/menu/category/:category.
func (h *MenuHandler) ListByCategory(c *fiber.Ctx) error {
	items, err := h.menu.ListByCategory(c.UserContext(), c.Params("category"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /api/menu/:id.
func (h *MenuHandler) Get(c *fiber.Ctx) error {
	item, err := h.menu.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": item})
}

// Create handles POST /api/menu.
func (h *MenuHandler) Create(c *fiber.Ctx) error {
	var req dto.MenuItemRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	item, err := h.menu.Create(c.UserContext(), menuInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": item})
}

// Update handles PUT /api/menu/:id.
func (h *MenuHandler) Update(c *fiber.Ctx) error {
	var req dto.MenuItemRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	item, err := h.menu.Update(c.UserContext(), c.Params("id"), menuInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": item})
}

// Delete handles DELETE /api/menu/:id.
func (h *MenuHandler) Delete(c *fiber.Ctx) error {
	if err := h.menu.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.MessageResponse{Message: "menu item deactivated"}})
}

func menuInput(req dto.MenuItemRequest) service.MenuItemInput {
	return service.MenuItemInput{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		Category:        req.Category,
		ImageURL:        req.ImageURL,
		Available:       req.Available,
		PreparationTime: req.PreparationTime,
	}
}
