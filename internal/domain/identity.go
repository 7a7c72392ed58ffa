package domain

import (
	"fmt"
	"time"
)

// Role enumerates staff roles.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleKitchen  Role = "kitchen"
	RoleDelivery Role = "delivery"
)

// Roles lists every known role.
var Roles = []Role{RoleAdmin, RoleManager, RoleKitchen, RoleDelivery}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleKitchen, RoleDelivery:
		return true
	}
	return false
}

// ParseRole converts raw input into a known role.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return role, nil
}

// Identity is an authenticated staff actor.
type Identity struct {
	ID           string
	Username     string
	Email        string
	FullName     string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
