package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/deliverlabs/food-ordering-service/internal/domain"
	"github.com/deliverlabs/food-ordering-service/internal/repository"
)

// DeliveryPersonRepository stores couriers in a map.
type DeliveryPersonRepository struct {
	mu      sync.RWMutex
	persons map[string]domain.DeliveryPerson
}

// NewDeliveryPersonRepository creates an empty store.
func NewDeliveryPersonRepository() *DeliveryPersonRepository {
	return &DeliveryPersonRepository{persons: make(map[string]domain.DeliveryPerson)}
}

var _ repository.DeliveryPersonRepository = (*DeliveryPersonRepository)(nil)

func (r *DeliveryPersonRepository) Create(_ context.Context, person *domain.DeliveryPerson) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.persons[person.ID]; exists {
		return repository.ErrDuplicate
	}
	stored := *person
	stored.CurrentOrders = append([]string{}, person.CurrentOrders...)
	r.persons[person.ID] = stored
	return nil
}

func (r *DeliveryPersonRepository) List(_ context.Context, availableOnly bool) ([]domain.DeliveryPerson, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []domain.DeliveryPerson{}
	for _, person := range r.persons {
		if availableOnly && !person.IsAvailable {
			continue
		}
		result = append(result, person)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}
