package auth

import (
	"fmt"

	"github.com/deliverlabs/food-ordering-service/internal/domain"
	apperrors "github.com/deliverlabs/food-ordering-service/pkg/util"
)

// Action is a coarse capability checked before a request touches a resource.
type Action string

const (
	ActionManageMenu            Action = "manage-menu"
	ActionViewAnalytics         Action = "view-analytics"
	ActionManageUsers           Action = "manage-users"
	ActionViewOrders            Action = "view-orders"
	ActionUpdateOrderStatus     Action = "update-order-status"
	ActionManageDeliveryPersons Action = "manage-delivery-persons"
)

var capabilities = map[domain.Role]map[Action]struct{}{
	domain.RoleAdmin: actionSet(
		ActionManageMenu, ActionViewAnalytics, ActionManageUsers,
		ActionViewOrders, ActionUpdateOrderStatus, ActionManageDeliveryPersons,
	),
	domain.RoleManager: actionSet(
		ActionManageMenu, ActionViewAnalytics,
		ActionViewOrders, ActionUpdateOrderStatus, ActionManageDeliveryPersons,
	),
	domain.RoleKitchen:  actionSet(ActionViewOrders, ActionUpdateOrderStatus),
	domain.RoleDelivery: actionSet(ActionViewOrders, ActionUpdateOrderStatus),
}

// visibleStatuses narrows order listings; roles without an entry see every status.
var visibleStatuses = map[domain.Role][]domain.OrderStatus{
	domain.RoleKitchen: {
		domain.OrderStatusReceived,
		domain.OrderStatusConfirmed,
		domain.OrderStatusPreparing,
		domain.OrderStatusReady,
	},
	domain.RoleDelivery: {
		domain.OrderStatusReady,
		domain.OrderStatusOnRoute,
		domain.OrderStatusDelivered,
	},
}

type transition struct {
	from domain.OrderStatus
	to   domain.OrderStatus
}

// roleTransitions narrows the global graph for operational roles. Roles without an
// entry may apply any transition of the global graph.
var roleTransitions = map[domain.Role]map[transition]struct{}{
	domain.RoleKitchen: transitionSet(
		transition{domain.OrderStatusReceived, domain.OrderStatusConfirmed},
		transition{domain.OrderStatusConfirmed, domain.OrderStatusPreparing},
		transition{domain.OrderStatusPreparing, domain.OrderStatusReady},
		transition{domain.OrderStatusReceived, domain.OrderStatusCancelled},
		transition{domain.OrderStatusConfirmed, domain.OrderStatusCancelled},
		transition{domain.OrderStatusPreparing, domain.OrderStatusCancelled},
	),
	domain.RoleDelivery: transitionSet(
		transition{domain.OrderStatusReady, domain.OrderStatusOnRoute},
		transition{domain.OrderStatusOnRoute, domain.OrderStatusDelivered},
	),
}

// Authorize returns nil when role may perform action and a Forbidden error otherwise.
func Authorize(role domain.Role, action Action) error {
	if _, ok := capabilities[role][action]; !ok {
		return apperrors.NewForbidden(fmt.Sprintf("role %q may not %s", role, action))
	}
	return nil
}

// VisibleStatuses returns the statuses role may list, or nil when it may see all of them.
func VisibleStatuses(role domain.Role) []domain.OrderStatus {
	statuses, ok := visibleStatuses[role]
	if !ok {
		return nil
	}
	return append([]domain.OrderStatus(nil), statuses...)
}

// CanView reports whether role may see orders in status.
func CanView(role domain.Role, status domain.OrderStatus) bool {
	statuses, ok := visibleStatuses[role]
	if !ok {
		return true
	}
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// CanTransition checks from -> to against the global graph first and the role subset second.
func CanTransition(role domain.Role, from, to domain.OrderStatus) error {
	if !domain.CanTransition(from, to) {
		return apperrors.NewInvalidTransition(string(from), string(to), statusNames(domain.NextStatuses(from)))
	}
	allowed, narrowed := roleTransitions[role]
	if !narrowed {
		if _, known := capabilities[role]; !known {
			return apperrors.NewForbidden(fmt.Sprintf("role %q may not update orders", role))
		}
		return nil
	}
	if _, ok := allowed[transition{from, to}]; !ok {
		return apperrors.NewForbidden(fmt.Sprintf("%s may not move order from %s to %s", role, from, to))
	}
	return nil
}

func actionSet(actions ...Action) map[Action]struct{} {
	set := make(map[Action]struct{}, len(actions))
	for _, a := range actions {
		set[a] = struct{}{}
	}
	return set
}

func transitionSet(transitions ...transition) map[transition]struct{} {
	set := make(map[transition]struct{}, len(transitions))
	for _, t := range transitions {
		set[t] = struct{}{}
	}
	return set
}

func statusNames(statuses []domain.OrderStatus) []string {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return names
}
