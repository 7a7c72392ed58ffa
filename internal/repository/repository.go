package repository

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/deliverlabs/food-ordering-service/internal/domain"
)

// ErrStatusChanged is returned by a conditional status update when the stored status
// no longer matches the status the caller read.
var ErrStatusChanged = errors.New("order status changed concurrently")

// ErrDuplicate is returned when a unique key already exists.
var ErrDuplicate = errors.New("duplicate key")

const defaultListLimit = 1000

// OrderFilter selects orders. Zero values mean "no constraint".
type OrderFilter struct {
	Statuses        []domain.OrderStatus
	ExcludeStatuses []domain.OrderStatus
	CreatedFrom     *time.Time
	Limit           int
}

// Matches reports whether o satisfies the filter.
func (f OrderFilter) Matches(o *domain.Order) bool {
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, o.Status) {
		return false
	}
	if containsStatus(f.ExcludeStatuses, o.Status) {
		return false
	}
	if f.CreatedFrom != nil && o.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	return true
}

// EffectiveLimit returns the row cap applied to listings.
func (f OrderFilter) EffectiveLimit() int {
	if f.Limit <= 0 || f.Limit > defaultListLimit {
		return defaultListLimit
	}
	return f.Limit
}

// MenuFilter selects menu items.
type MenuFilter struct {
	Category      *string
	AvailableOnly bool
}

// Matches reports whether item satisfies the filter.
func (f MenuFilter) Matches(item *domain.MenuItem) bool {
	if f.AvailableOnly && !item.Available {
		return false
	}
	if f.Category != nil && item.Category != *f.Category {
		return false
	}
	return true
}

func containsStatus(statuses []domain.OrderStatus, s domain.OrderStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
