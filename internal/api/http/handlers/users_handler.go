package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/deliverlabs/food-ordering-service/internal/api/dto"
	"github.com/deliverlabs/food-ordering-service/internal/service"
)

// UsersHandler manages staff accounts.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Create handles POST /api/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	identity, err := h.auth.CreateIdentity(c.UserContext(), service.CreateIdentityInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(identity)})
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	identities, err := h.auth.ListIdentities(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(identities))
	for i := range identities {
		items = append(items, dto.NewUserResponse(&identities[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateRole handles PUT /api/users/:id/role.
func (h *UsersHandler) UpdateRole(c *fiber.Ctx) error {
	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	identity, err := h.auth.UpdateRole(c.UserContext(), c.Params("id"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(identity)})
}
