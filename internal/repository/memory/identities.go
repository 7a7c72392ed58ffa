package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/deliverlabs/food-ordering-service/internal/domain"
	"github.com/deliverlabs/food-ordering-service/internal/repository"
)

// IdentityRepository stores identities keyed by id with a username index.
type IdentityRepository struct {
	mu         sync.RWMutex
	byID       map[string]domain.Identity
	byUsername map[string]string
}

// NewIdentityRepository creates an empty store.
func NewIdentityRepository() *IdentityRepository {
	return &IdentityRepository{
		byID:       make(map[string]domain.Identity),
		byUsername: make(map[string]string),
	}
}

var _ repository.IdentityRepository = (*IdentityRepository)(nil)

func (r *IdentityRepository) Create(_ context.Context, identity *domain.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byUsername[identity.Username]; exists {
		return repository.ErrDuplicate
	}
	r.byID[identity.ID] = *identity
	r.byUsername[identity.Username] = identity.ID
	return nil
}

func (r *IdentityRepository) GetByID(_ context.Context, id string) (*domain.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	identity, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &identity, nil
}

func (r *IdentityRepository) GetByUsername(_ context.Context, username string) (*domain.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byUsername[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	identity := r.byID[id]
	return &identity, nil
}

func (r *IdentityRepository) List(_ context.Context) ([]domain.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Identity, 0, len(r.byID))
	for _, identity := range r.byID {
		result = append(result, identity)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *IdentityRepository) UpdateRole(_ context.Context, id string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	identity, ok := r.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	identity.Role = role
	identity.UpdatedAt = time.Now().UTC()
	r.byID[id] = identity
	return nil
}

// Delete removes an identity. Used to simulate accounts removed out of band.
func (r *IdentityRepository) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if identity, ok := r.byID[id]; ok {
		delete(r.byUsername, identity.Username)
		delete(r.byID, id)
	}
}
