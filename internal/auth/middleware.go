package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/deliverlabs/food-ordering-service/internal/domain"
	apperrors "github.com/deliverlabs/food-ordering-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	Identity *domain.Identity
}

// Role returns the caller's current role.
func (p *Principal) Role() domain.Role {
	if p == nil || p.Identity == nil {
		return ""
	}
	return p.Identity.Role
}

// TokenValidator resolves a bearer token into a live identity.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*domain.Identity, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	validator TokenValidator
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(validator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: validator}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return apperrors.NewUnauthorized("invalid authorization header")
	}
	return m.authenticate(c, strings.TrimSpace(parts[1]))
}

// HandleQueryToken authenticates websocket handshakes, which cannot carry headers from
// browsers, using the token query parameter. The Authorization header still wins when present.
func (m *AuthMiddleware) HandleQueryToken(c *fiber.Ctx) error {
	if c.Get(fiber.HeaderAuthorization) != "" {
		return m.Handle(c)
	}
	token := c.Query("token")
	if token == "" {
		return apperrors.NewUnauthorized("missing token")
	}
	return m.authenticate(c, token)
}

func (m *AuthMiddleware) authenticate(c *fiber.Ctx, token string) error {
	identity, err := m.validator.ValidateToken(c.UserContext(), token)
	if err != nil {
		return err
	}
	c.Locals(principalKey, &Principal{Identity: identity})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok && principal.Identity != nil
}
