package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/deliverlabs/food-ordering-service/internal/domain"
	"github.com/deliverlabs/food-ordering-service/internal/repository"
	apperrors "github.com/deliverlabs/food-ordering-service/pkg/util"
)

// DeliveryService manages couriers.
type DeliveryService struct {
	persons repository.DeliveryPersonRepository
	now     Clock
}

// DeliveryPersonInput describes a new courier.
type DeliveryPersonInput struct {
	Name        string
	Phone       string
	IsAvailable *bool
}

// NewDeliveryService constructs the service.
func NewDeliveryService(persons repository.DeliveryPersonRepository, clock Clock) *DeliveryService {
	return &DeliveryService{persons: persons, now: clockOrDefault(clock)}
}

// Create registers a courier with no current orders.
func (s *DeliveryService) Create(ctx context.Context, input DeliveryPersonInput) (*domain.DeliveryPerson, error) {
	name := strings.TrimSpace(input.Name)
	phone := strings.TrimSpace(input.Phone)
	if name == "" || phone == "" {
		return nil, apperrors.NewValidationError("name and phone are required", nil)
	}
	person := &domain.DeliveryPerson{
		ID:            uuid.NewString(),
		Name:          name,
		Phone:         phone,
		IsAvailable:   input.IsAvailable == nil || *input.IsAvailable,
		CurrentOrders: []string{},
		CreatedAt:     s.now(),
	}
	if err := s.persons.Create(ctx, person); err != nil {
		return nil, err
	}
	return person, nil
}

// List returns every courier.
func (s *DeliveryService) List(ctx context.Context) ([]domain.DeliveryPerson, error) {
	return s.persons.List(ctx, false)
}

// ListAvailable returns couriers accepting orders.
func (s *DeliveryService) ListAvailable(ctx context.Context) ([]domain.DeliveryPerson, error) {
	return s.persons.List(ctx, true)
}
