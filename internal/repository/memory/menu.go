package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/deliverlabs/food-ordering-service/internal/domain"
	"github.com/deliverlabs/food-ordering-service/internal/repository"
)

// MenuRepository stores menu items in a map.
type MenuRepository struct {
	mu    sync.RWMutex
	items map[string]domain.MenuItem
}

// NewMenuRepository creates an empty menu.
func NewMenuRepository() *MenuRepository {
	return &MenuRepository{items: make(map[string]domain.MenuItem)}
}

var _ repository.MenuRepository = (*MenuRepository)(nil)

func (r *MenuRepository) Create(_ context.Context, item *domain.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[item.ID]; exists {
		return repository.ErrDuplicate
	}
	r.items[item.ID] = *item
	return nil
}

func (r *MenuRepository) Update(_ context.Context, item *domain.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[item.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	updated := *item
	updated.CreatedAt = existing.CreatedAt
	r.items[item.ID] = updated
	return nil
}

func (r *MenuRepository) GetByID(_ context.Context, id string) (*domain.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &item, nil
}

func (r *MenuRepository) List(_ context.Context, filter repository.MenuFilter) ([]domain.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []domain.MenuItem{}
	for _, item := range r.items {
		if filter.Matches(&item) {
			result = append(result, item)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *MenuRepository) SetAvailable(_ context.Context, id string, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return pgx.ErrNoRows
	}
	item.Available = available
	r.items[id] = item
	return nil
}
