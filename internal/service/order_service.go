package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/deliverlabs/food-ordering-service/internal/auth"
	"github.com/deliverlabs/food-ordering-service/internal/domain"
	"github.com/deliverlabs/food-ordering-service/internal/events"
	"github.com/deliverlabs/food-ordering-service/internal/repository"
	apperrors "github.com/deliverlabs/food-ordering-service/pkg/util"
)

// OrderService coordinates order creation, listing and status transitions.
type OrderService struct {
	orders     repository.OrderRepository
	menu       repository.MenuRepository
	pricing    *Pricing
	dispatcher events.Dispatcher
	now        Clock
}

// OrderDependencies bundles collaborators for the order service.
type OrderDependencies struct {
	OrderRepo  repository.OrderRepository
	MenuRepo   repository.MenuRepository
	Pricing    *Pricing
	Dispatcher events.Dispatcher
	Clock      Clock
}

// CreateOrderInput describes a customer order submission.
type CreateOrderInput struct {
	Items         []domain.LineItem
	DeliveryInfo  domain.DeliveryInfo
	PaymentMethod domain.PaymentMethod
	DeliveryNotes string
}

// StatusUpdateInput is a requested transition. AssignedDeliveryPerson is optional and
// may accompany any transition.
type StatusUpdateInput struct {
	Status                 string
	AssignedDeliveryPerson *string
}

// NewOrderService constructs the service.
func NewOrderService(deps OrderDependencies) *OrderService {
	return &OrderService{
		orders:     deps.OrderRepo,
		menu:       deps.MenuRepo,
		pricing:    deps.Pricing,
		dispatcher: deps.Dispatcher,
		now:        clockOrDefault(deps.Clock),
	}
}

// CreateOrder prices and stores a new order in the received state, then emits new_order.
// Line items that reference unknown menu items contribute zero to the subtotal.
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if err := validateOrderInput(&input); err != nil {
		return nil, err
	}

	subtotal, err := s.subtotal(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	createdAt := s.now()
	fee := s.pricing.DeliveryFee(input.DeliveryInfo.DeliveryZone)
	order := &domain.Order{
		ID:                uuid.NewString(),
		Items:             input.Items,
		DeliveryInfo:      input.DeliveryInfo,
		Subtotal:          subtotal,
		DeliveryFee:       fee,
		Total:             subtotal.Add(fee),
		Status:            domain.OrderStatusReceived,
		PaymentMethod:     input.PaymentMethod,
		EstimatedDelivery: s.pricing.EstimatedDelivery(createdAt),
		CreatedAt:         createdAt,
		UpdatedAt:         createdAt,
		DeliveryNotes:     strings.TrimSpace(input.DeliveryNotes),
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:    events.EventNewOrder,
		OrderID: order.ID,
		Status:  order.Status,
		Order:   *order,
	})
	return order, nil
}

// GetOrder returns a single order.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "order", id)
	}
	return order, nil
}

// ListOrders returns the orders role may see, newest first.
func (s *OrderService) ListOrders(ctx context.Context, role domain.Role) ([]domain.Order, error) {
	return s.orders.List(ctx, repository.OrderFilter{Statuses: auth.VisibleStatuses(role)})
}

// ListOrdersByStatus returns orders in status. A status outside the role's visible set
// yields an empty list rather than an error.
func (s *OrderService) ListOrdersByStatus(ctx context.Context, role domain.Role, rawStatus string) ([]domain.Order, error) {
	status, err := domain.ParseOrderStatus(rawStatus)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"status": rawStatus})
	}
	if !auth.CanView(role, status) {
		return []domain.Order{}, nil
	}
	return s.orders.List(ctx, repository.OrderFilter{Statuses: []domain.OrderStatus{status}})
}

// ApplyTransition moves an order to a new status on behalf of actor. Legality is checked
// before anything is written, and the write only succeeds if the order is still in the
// status that was checked.
func (s *OrderService) ApplyTransition(ctx context.Context, actor events.Actor, orderID string, input StatusUpdateInput) (*domain.Order, error) {
	current, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(err, "order", orderID)
	}

	requested, err := domain.ParseOrderStatus(input.Status)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"status": input.Status})
	}

	if err := auth.CanTransition(actor.Role, current.Status, requested); err != nil {
		return nil, err
	}

	var assigned *string
	if input.AssignedDeliveryPerson != nil {
		person := strings.TrimSpace(*input.AssignedDeliveryPerson)
		if person == "" {
			return nil, apperrors.NewValidationError("assigned_delivery_person must not be empty", nil)
		}
		assigned = &person
	}

	updatedAt := s.now()
	if updatedAt.Before(current.CreatedAt) {
		updatedAt = current.CreatedAt
	}
	update := domain.OrderUpdate{
		Status:                 requested,
		UpdatedAt:              updatedAt,
		AssignedDeliveryPerson: assigned,
	}
	if err := s.orders.UpdateStatus(ctx, orderID, current.Status, update); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, apperrors.NewConflict("order status changed while updating; reload and retry",
				map[string]any{"order_id": orderID, "expected_status": current.Status})
		}
		return nil, notFoundOr(err, "order", orderID)
	}

	updated, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(err, "order", orderID)
	}

	s.publish(ctx, events.Event{
		Type:                   events.EventOrderStatusUpdate,
		OrderID:                updated.ID,
		Status:                 updated.Status,
		PreviousStatus:         current.Status,
		AssignedDeliveryPerson: assigned,
		Order:                  *updated,
		Actor:                  actor,
	})
	return updated, nil
}

func (s *OrderService) subtotal(ctx context.Context, items []domain.LineItem) (decimal.Decimal, error) {
	subtotal := decimal.Zero
	for _, item := range items {
		menuItem, err := s.menu.GetByID(ctx, item.MenuItemID)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return decimal.Zero, err
		}
		subtotal = subtotal.Add(menuItem.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return subtotal, nil
}

func (s *OrderService) publish(ctx context.Context, event events.Event) {
	publishEvent(ctx, s.dispatcher, s.now, event)
}

func validateOrderInput(input *CreateOrderInput) error {
	if len(input.Items) == 0 {
		return apperrors.NewValidationError("order must contain at least one item", nil)
	}
	for i, item := range input.Items {
		if strings.TrimSpace(item.MenuItemID) == "" {
			return apperrors.NewValidationError("menu_item_id is required", map[string]any{"item": i})
		}
		if item.Quantity <= 0 {
			return apperrors.NewValidationError("quantity must be positive", map[string]any{"item": i})
		}
	}

	info := &input.DeliveryInfo
	info.CustomerName = strings.TrimSpace(info.CustomerName)
	info.CustomerPhone = strings.TrimSpace(info.CustomerPhone)
	info.DeliveryAddress = strings.TrimSpace(info.DeliveryAddress)
	info.DeliveryZone = strings.TrimSpace(info.DeliveryZone)
	missing := []string{}
	if info.CustomerName == "" {
		missing = append(missing, "customer_name")
	}
	if info.CustomerPhone == "" {
		missing = append(missing, "customer_phone")
	}
	if info.DeliveryAddress == "" {
		missing = append(missing, "delivery_address")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("delivery info incomplete", map[string]any{"missing": missing})
	}

	if input.PaymentMethod == "" {
		input.PaymentMethod = domain.PaymentCash
	}
	if !input.PaymentMethod.Valid() {
		return apperrors.NewValidationError("unsupported payment method",
			map[string]any{"payment_method": input.PaymentMethod})
	}
	return nil
}
