// Package memory provides process-local repository implementations used when no
// database is configured and in tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/deliverlabs/food-ordering-service/internal/domain"
	"github.com/deliverlabs/food-ordering-service/internal/repository"
)

// OrderRepository stores orders in a map. Each update is atomic per order.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
}

// NewOrderRepository creates an empty store.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]domain.Order)}
}

var _ repository.OrderRepository = (*OrderRepository)(nil)

func (r *OrderRepository) Create(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[order.ID]; exists {
		return repository.ErrDuplicate
	}
	r.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (r *OrderRepository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := cloneOrder(order)
	return &out, nil
}

func (r *OrderRepository) UpdateStatus(_ context.Context, id string, expected domain.OrderStatus, update domain.OrderUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if order.Status != expected {
		return repository.ErrStatusChanged
	}
	update.Apply(&order)
	r.orders[id] = order
	return nil
}

func (r *OrderRepository) List(_ context.Context, filter repository.OrderFilter) ([]domain.Order, error) {
	matched := r.matching(filter)
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if limit := filter.EffectiveLimit(); len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *OrderRepository) Count(_ context.Context, filter repository.OrderFilter) (int64, error) {
	return int64(len(r.matching(filter))), nil
}

func (r *OrderRepository) SumRevenue(_ context.Context, filter repository.OrderFilter) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, order := range r.matching(filter) {
		total = total.Add(order.Total)
	}
	return total, nil
}

func (r *OrderRepository) CountByStatus(_ context.Context, filter repository.OrderFilter) (map[domain.OrderStatus]int64, error) {
	counts := map[domain.OrderStatus]int64{}
	for _, order := range r.matching(filter) {
		counts[order.Status]++
	}
	return counts, nil
}

func (r *OrderRepository) matching(filter repository.OrderFilter) []domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []domain.Order{}
	for _, order := range r.orders {
		if filter.Matches(&order) {
			result = append(result, cloneOrder(order))
		}
	}
	return result
}

func cloneOrder(o domain.Order) domain.Order {
	o.Items = append([]domain.LineItem(nil), o.Items...)
	if o.AssignedDeliveryPerson != nil {
		person := *o.AssignedDeliveryPerson
		o.AssignedDeliveryPerson = &person
	}
	return o
}
