package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deliverlabs/food-ordering-service/internal/domain"
	"github.com/deliverlabs/food-ordering-service/internal/events"
	"github.com/deliverlabs/food-ordering-service/internal/repository"
	apperrors "github.com/deliverlabs/food-ordering-service/pkg/util"
)

var (
	admin    = events.Actor{Username: "ana", Role: domain.RoleAdmin}
	manager  = events.Actor{Username: "mario", Role: domain.RoleManager}
	kitchen  = events.Actor{Username: "kai", Role: domain.RoleKitchen}
	delivery = events.Actor{Username: "dora", Role: domain.RoleDelivery}
)

func TestCreateOrderPricing(t *testing.T) {
	tests := []struct {
		zone     string
		fee      int64
		total    int64
		subtotal int64
	}{
		{"centro", 15000, 210000, 195000},
		{"Centro", 15000, 210000, 195000},
		{"san_lorenzo", 20000, 215000, 195000},
		{"lambare", 20000, 215000, 195000},
		{"", 20000, 215000, 195000},
	}

	for _, tt := range tests {
		t.Run("zone "+tt.zone, func(t *testing.T) {
			f := newOrderFixture(t)
			order := f.createOrder(t, tt.zone)

			decimalEqual(t, tt.subtotal, order.Subtotal)
			decimalEqual(t, tt.fee, order.DeliveryFee)
			decimalEqual(t, tt.total, order.Total)
			assert.True(t, order.Total.Equal(order.Subtotal.Add(order.DeliveryFee)))
			assert.Equal(t, domain.OrderStatusReceived, order.Status)
			assert.Equal(t, domain.PaymentCash, order.PaymentMethod)
			assert.Equal(t, testNow.Add(45*time.Minute), order.EstimatedDelivery)
			assert.Equal(t, order.CreatedAt, order.UpdatedAt)
			assert.NotEmpty(t, order.ID)
		})
	}
}

func TestCreateOrderUnknownMenuItemContributesZero(t *testing.T) {
	f := newOrderFixture(t)
	input := orderInput("centro")
	input.Items = append(input.Items, domain.LineItem{MenuItemID: "retired-dish", Quantity: 3})

	order, err := f.service.CreateOrder(context.Background(), input)
	require.NoError(t, err)
	decimalEqual(t, 195000, order.Subtotal)
	assert.Len(t, order.Items, 3)
}

func TestCreateOrderPersistsAndPublishes(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t, "centro")

	stored, err := f.orders.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, stored.ID)

	published := f.dispatcher.Events()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventNewOrder, published[0].Type)
	assert.Equal(t, order.ID, published[0].OrderID)
	assert.Equal(t, domain.OrderStatusReceived, published[0].Status)
	assert.NotEmpty(t, published[0].ID)
	assert.Equal(t, testNow, published[0].Timestamp)
}

func TestCreateOrderValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateOrderInput)
	}{
		{"no items", func(in *CreateOrderInput) { in.Items = nil }},
		{"zero quantity", func(in *CreateOrderInput) { in.Items[0].Quantity = 0 }},
		{"negative quantity", func(in *CreateOrderInput) { in.Items[1].Quantity = -1 }},
		{"missing menu item id", func(in *CreateOrderInput) { in.Items[0].MenuItemID = " " }},
		{"missing customer name", func(in *CreateOrderInput) { in.DeliveryInfo.CustomerName = "" }},
		{"missing address", func(in *CreateOrderInput) { in.DeliveryInfo.DeliveryAddress = "  " }},
		{"unknown payment method", func(in *CreateOrderInput) { in.PaymentMethod = "crypto" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture(t)
			input := orderInput("centro")
			tt.mutate(&input)

			_, err := f.service.CreateOrder(context.Background(), input)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed), "got %v", err)
			assert.Empty(t, f.dispatcher.Events())
		})
	}
}

func TestKitchenDrivesOrderToReady(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t, "centro")
	ctx := context.Background()

	for _, next := range []domain.OrderStatus{
		domain.OrderStatusConfirmed,
		domain.OrderStatusPreparing,
		domain.OrderStatusReady,
	} {
		f.clock.Advance(time.Minute)
		updated, err := f.service.ApplyTransition(ctx, kitchen, order.ID, StatusUpdateInput{Status: string(next)})
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
		assert.Equal(t, f.clock.Now(), updated.UpdatedAt)
	}

	_, err := f.service.ApplyTransition(ctx, kitchen, order.ID, StatusUpdateInput{Status: string(domain.OrderStatusOnRoute)})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
	assert.Contains(t, err.Error(), "ready to on_route")

	stored, err := f.service.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusReady, stored.Status, "a rejected transition writes nothing")
}

func TestDeliveryCannotConfirm(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t, "centro")

	_, err := f.service.ApplyTransition(context.Background(), delivery, order.ID,
		StatusUpdateInput{Status: string(domain.OrderStatusConfirmed)})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
}

func TestIllegalJumpFailsForEveryRole(t *testing.T) {
	for _, actor := range []events.Actor{admin, manager, kitchen, delivery} {
		t.Run(string(actor.Role), func(t *testing.T) {
			f := newOrderFixture(t)
			order := f.createOrder(t, "centro")

			_, err := f.service.ApplyTransition(context.Background(), actor, order.ID,
				StatusUpdateInput{Status: string(domain.OrderStatusDelivered)})
			assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidTransition), "got %v", err)
		})
	}
}

func TestTerminalOrdersRejectEveryTransition(t *testing.T) {
	for _, terminal := range []domain.OrderStatus{domain.OrderStatusDelivered, domain.OrderStatusCancelled} {
		t.Run(string(terminal), func(t *testing.T) {
			f := newOrderFixture(t)
			ctx := context.Background()
			order := f.createOrder(t, "centro")

			path := []domain.OrderStatus{domain.OrderStatusCancelled}
			if terminal == domain.OrderStatusDelivered {
				path = []domain.OrderStatus{
					domain.OrderStatusConfirmed, domain.OrderStatusPreparing, domain.OrderStatusReady,
					domain.OrderStatusOnRoute, domain.OrderStatusDelivered,
				}
			}
			for _, next := range path {
				_, err := f.service.ApplyTransition(ctx, admin, order.ID, StatusUpdateInput{Status: string(next)})
				require.NoError(t, err)
			}

			for _, next := range domain.OrderStatuses {
				_, err := f.service.ApplyTransition(ctx, admin, order.ID, StatusUpdateInput{Status: string(next)})
				assert.Error(t, err, "%s -> %s", terminal, next)
			}
		})
	}
}

func TestApplyTransitionAssignsDeliveryPerson(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	order := f.createOrder(t, "centro")

	courier := "courier-7"
	updated, err := f.service.ApplyTransition(ctx, manager, order.ID, StatusUpdateInput{
		Status:                 string(domain.OrderStatusConfirmed),
		AssignedDeliveryPerson: &courier,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.AssignedDeliveryPerson)
	assert.Equal(t, "courier-7", *updated.AssignedDeliveryPerson)

	published := f.dispatcher.Events()
	require.Len(t, published, 2)
	update := published[1]
	assert.Equal(t, events.EventOrderStatusUpdate, update.Type)
	assert.Equal(t, domain.OrderStatusConfirmed, update.Status)
	assert.Equal(t, domain.OrderStatusReceived, update.PreviousStatus)
	require.NotNil(t, update.AssignedDeliveryPerson)
	assert.Equal(t, "courier-7", *update.AssignedDeliveryPerson)
	assert.Equal(t, manager, update.Actor)
	assert.Equal(t, domain.OrderStatusConfirmed, update.Order.Status)

	updated, err = f.service.ApplyTransition(ctx, manager, order.ID, StatusUpdateInput{Status: string(domain.OrderStatusPreparing)})
	require.NoError(t, err)
	require.NotNil(t, updated.AssignedDeliveryPerson, "assignment survives later transitions")
	assert.Nil(t, f.dispatcher.Events()[2].AssignedDeliveryPerson, "event reports only the courier sent with this update")

	blank := "  "
	_, err = f.service.ApplyTransition(ctx, manager, order.ID, StatusUpdateInput{
		Status:                 string(domain.OrderStatusReady),
		AssignedDeliveryPerson: &blank,
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
}

func TestApplyTransitionErrors(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t, "centro")
	ctx := context.Background()

	_, err := f.service.ApplyTransition(ctx, admin, "missing", StatusUpdateInput{Status: "confirmed"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	_, err = f.service.ApplyTransition(ctx, admin, order.ID, StatusUpdateInput{Status: "shipped"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
}

func TestApplyTransitionNeverMovesUpdatedAtBeforeCreation(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t, "centro")

	f.clock.Advance(-time.Hour)
	updated, err := f.service.ApplyTransition(context.Background(), admin, order.ID, StatusUpdateInput{Status: "confirmed"})
	require.NoError(t, err)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
}

// racingRepository changes the stored status between the read and the conditional write.
type racingRepository struct {
	repository.OrderRepository
	raced bool
}

func (r *racingRepository) UpdateStatus(ctx context.Context, id string, expected domain.OrderStatus, update domain.OrderUpdate) error {
	if !r.raced {
		r.raced = true
		if err := r.OrderRepository.UpdateStatus(ctx, id, expected, domain.OrderUpdate{
			Status:    domain.OrderStatusCancelled,
			UpdatedAt: update.UpdatedAt,
		}); err != nil {
			return err
		}
	}
	return r.OrderRepository.UpdateStatus(ctx, id, expected, update)
}

func TestApplyTransitionConcurrentChangeIsConflict(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t, "centro")

	svc := NewOrderService(OrderDependencies{
		OrderRepo:  &racingRepository{OrderRepository: f.orders},
		MenuRepo:   f.menu,
		Pricing:    f.service.pricing,
		Dispatcher: f.dispatcher,
		Clock:      f.clock.Now,
	})

	_, err := svc.ApplyTransition(context.Background(), kitchen, order.ID, StatusUpdateInput{Status: "confirmed"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict), "got %v", err)

	stored, err := f.orders.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, stored.Status, "the concurrent write is not overwritten")
	assert.Len(t, f.dispatcher.Events(), 1, "no status event for a failed update")
}

func TestListOrdersFiltersByRole(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	statuses := map[string][]domain.OrderStatus{
		"received": nil,
		"ready":    {domain.OrderStatusConfirmed, domain.OrderStatusPreparing, domain.OrderStatusReady},
		"on_route": {domain.OrderStatusConfirmed, domain.OrderStatusPreparing, domain.OrderStatusReady, domain.OrderStatusOnRoute},
	}
	for _, path := range statuses {
		f.clock.Advance(time.Minute)
		order := f.createOrder(t, "centro")
		for _, next := range path {
			_, err := f.service.ApplyTransition(ctx, admin, order.ID, StatusUpdateInput{Status: string(next)})
			require.NoError(t, err)
		}
	}

	tests := []struct {
		role domain.Role
		want []domain.OrderStatus
	}{
		{domain.RoleAdmin, []domain.OrderStatus{domain.OrderStatusReceived, domain.OrderStatusReady, domain.OrderStatusOnRoute}},
		{domain.RoleManager, []domain.OrderStatus{domain.OrderStatusReceived, domain.OrderStatusReady, domain.OrderStatusOnRoute}},
		{domain.RoleKitchen, []domain.OrderStatus{domain.OrderStatusReceived, domain.OrderStatusReady}},
		{domain.RoleDelivery, []domain.OrderStatus{domain.OrderStatusReady, domain.OrderStatusOnRoute}},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			orders, err := f.service.ListOrders(ctx, tt.role)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, orderStatuses(orders))
		})
	}
}

func TestListOrdersByStatus(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	first := f.createOrder(t, "centro")
	f.clock.Advance(time.Minute)
	second := f.createOrder(t, "lambare")
	f.createOrder(t, "centro")
	for _, id := range []string{first.ID, second.ID} {
		for _, next := range []string{"confirmed", "preparing", "ready"} {
			_, err := f.service.ApplyTransition(ctx, kitchen, id, StatusUpdateInput{Status: next})
			require.NoError(t, err)
		}
	}

	ready, err := f.service.ListOrdersByStatus(ctx, domain.RoleDelivery, "ready")
	require.NoError(t, err)
	require.Len(t, ready, 2)
	assert.Equal(t, second.ID, ready[0].ID, "newest first")
	for _, o := range ready {
		assert.Equal(t, domain.OrderStatusReady, o.Status)
	}

	kitchenReady, err := f.service.ListOrdersByStatus(ctx, domain.RoleKitchen, "ready")
	require.NoError(t, err)
	assert.Len(t, kitchenReady, 2)

	kitchenOnRoute, err := f.service.ListOrdersByStatus(ctx, domain.RoleKitchen, "on_route")
	require.NoError(t, err)
	assert.NotNil(t, kitchenOnRoute)
	assert.Empty(t, kitchenOnRoute)

	deliveryReceived, err := f.service.ListOrdersByStatus(ctx, domain.RoleDelivery, "received")
	require.NoError(t, err)
	assert.Empty(t, deliveryReceived)

	_, err = f.service.ListOrdersByStatus(ctx, domain.RoleAdmin, "lost")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
}

func TestGetOrderNotFound(t *testing.T) {
	f := newOrderFixture(t)
	_, err := f.service.GetOrder(context.Background(), "missing")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func orderStatuses(orders []domain.Order) []domain.OrderStatus {
	out := make([]domain.OrderStatus, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.Status)
	}
	return out
}
