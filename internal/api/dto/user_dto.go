package dto

import (
	"time"

	"github.com/deliverlabs/food-ordering-service/internal/domain"
)

// LoginRequest payload for staff login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateUserRequest payload for POST /api/users.
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateRoleRequest payload for PUT /api/users/:id/role.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// UserResponse is the public view of an identity.
type UserResponse struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FullName  string      `json:"full_name"`
	Role      domain.Role `json:"role"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewUserResponse converts an identity, dropping the password hash.
func NewUserResponse(identity *domain.Identity) UserResponse {
	return UserResponse{
		ID:        identity.ID,
		Username:  identity.Username,
		Email:     identity.Email,
		FullName:  identity.FullName,
		Role:      identity.Role,
		IsActive:  identity.Active,
		CreatedAt: identity.CreatedAt,
	}
}
