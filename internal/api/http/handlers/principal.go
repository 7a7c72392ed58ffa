package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deliverlabs/food-ordering-service/internal/auth"
	"github.com/deliverlabs/food-ordering-service/internal/domain"
	apperrors "github.com/deliverlabs/food-ordering-service/pkg/util"
)

func currentIdentity(c *fiber.Ctx) (*domain.Identity, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal.Identity, nil
}

func invalidPayload() error {
	return apperrors.NewValidationError("invalid payload", nil)
}
