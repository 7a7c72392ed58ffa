package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/deliverlabs/food-ordering-service/internal/domain"
	"github.com/deliverlabs/food-ordering-service/internal/repository"
	apperrors "github.com/deliverlabs/food-ordering-service/pkg/util"
)

// MenuService manages the menu catalogue.
type MenuService struct {
	items repository.MenuRepository
	now   Clock
}

// MenuItemInput carries the editable fields of a menu item.
type MenuItemInput struct {
	Name            string
	Description     string
	Price           decimal.Decimal
	Category        string
	ImageURL        string
	Available       *bool
	PreparationTime int
}

// NewMenuService constructs the service.
func NewMenuService(items repository.MenuRepository, clock Clock) *MenuService {
	return &MenuService{items: items, now: clockOrDefault(clock)}
}

// Create adds an item to the menu. Items are available unless stated otherwise.
func (s *MenuService) Create(ctx context.Context, input MenuItemInput) (*domain.MenuItem, error) {
	if err := validateMenuInput(&input); err != nil {
		return nil, err
	}
	item := &domain.MenuItem{
		ID:              uuid.NewString(),
		Name:            input.Name,
		Description:     input.Description,
		Price:           input.Price,
		Category:        input.Category,
		ImageURL:        input.ImageURL,
		Available:       input.Available == nil || *input.Available,
		PreparationTime: input.PreparationTime,
		CreatedAt:       s.now(),
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// ListAvailable returns items currently on sale.
func (s *MenuService) ListAvailable(ctx context.Context) ([]domain.MenuItem, error) {
	return s.items.List(ctx, repository.MenuFilter{AvailableOnly: true})
}

// ListByCategory returns available items of category.
func (s *MenuService) ListByCategory(ctx context.Context, category string) ([]domain.MenuItem, error) {
	category = strings.TrimSpace(category)
	return s.items.List(ctx, repository.MenuFilter{Category: &category, AvailableOnly: true})
}

// Get returns one item.
func (s *MenuService) Get(ctx context.Context, id string) (*domain.MenuItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "menu item", id)
	}
	return item, nil
}

// Update replaces the editable fields of an item.
func (s *MenuService) Update(ctx context.Context, id string, input MenuItemInput) (*domain.MenuItem, error) {
	if err := validateMenuInput(&input); err != nil {
		return nil, err
	}
	existing, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "menu item", id)
	}
	existing.Name = input.Name
	existing.Description = input.Description
	existing.Price = input.Price
	existing.Category = input.Category
	existing.ImageURL = input.ImageURL
	existing.PreparationTime = input.PreparationTime
	if input.Available != nil {
		existing.Available = *input.Available
	}
	if err := s.items.Update(ctx, existing); err != nil {
		return nil, notFoundOr(err, "menu item", id)
	}
	return existing, nil
}

// Delete withdraws an item from sale. Orders keep referencing it.
func (s *MenuService) Delete(ctx context.Context, id string) error {
	if err := s.items.SetAvailable(ctx, id, false); err != nil {
		return notFoundOr(err, "menu item", id)
	}
	return nil
}

func validateMenuInput(input *MenuItemInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Category = strings.TrimSpace(input.Category)
	input.Description = strings.TrimSpace(input.Description)
	input.ImageURL = strings.TrimSpace(input.ImageURL)
	if input.Name == "" {
		return apperrors.NewValidationError("name is required", nil)
	}
	if input.Category == "" {
		return apperrors.NewValidationError("category is required", nil)
	}
	if input.Price.IsNegative() {
		return apperrors.NewValidationError("price must not be negative", map[string]any{"price": input.Price.String()})
	}
	if input.PreparationTime < 0 {
		return apperrors.NewValidationError("preparation_time must not be negative", nil)
	}
	return nil
}
