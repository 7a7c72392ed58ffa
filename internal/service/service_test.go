package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/deliverlabs/food-ordering-service/internal/config"
	"github.com/deliverlabs/food-ordering-service/internal/domain"
	"github.com/deliverlabs/food-ordering-service/internal/events"
	"github.com/deliverlabs/food-ordering-service/internal/repository/memory"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) Events() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event(nil), d.events...)
}

type orderFixture struct {
	service    *OrderService
	orders     *memory.OrderRepository
	menu       *memory.MenuRepository
	dispatcher *recordingDispatcher
	clock      *fixedClock
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	clock := &fixedClock{now: testNow}
	f := &orderFixture{
		orders:     memory.NewOrderRepository(),
		menu:       memory.NewMenuRepository(),
		dispatcher: &recordingDispatcher{},
		clock:      clock,
	}
	f.service = NewOrderService(OrderDependencies{
		OrderRepo: f.orders,
		MenuRepo:  f.menu,
		Pricing: NewPricing(config.PricingConfig{
			CentralZone:        "centro",
			CentralFee:         15000,
			StandardFee:        20000,
			PreparationMinutes: 45,
		}),
		Dispatcher: f.dispatcher,
		Clock:      clock.Now,
	})

	ctx := context.Background()
	require.NoError(t, f.menu.Create(ctx, &domain.MenuItem{
		ID: "pizza", Name: "Pizza", Category: "pizza", Price: decimal.NewFromInt(75000), Available: true, CreatedAt: testNow,
	}))
	require.NoError(t, f.menu.Create(ctx, &domain.MenuItem{
		ID: "empanada", Name: "Empanadas", Category: "starters", Price: decimal.NewFromInt(45000), Available: true, CreatedAt: testNow,
	}))
	return f
}

func orderInput(zone string) CreateOrderInput {
	return CreateOrderInput{
		Items: []domain.LineItem{
			{MenuItemID: "pizza", Quantity: 2},
			{MenuItemID: "empanada", Quantity: 1, SpecialInstructions: "no onion"},
		},
		DeliveryInfo: domain.DeliveryInfo{
			CustomerName:    "Lucia",
			CustomerPhone:   "+595981000000",
			DeliveryAddress: "Av. Mariscal Lopez 1234",
			DeliveryZone:    zone,
		},
	}
}

func (f *orderFixture) createOrder(t *testing.T, zone string) *domain.Order {
	t.Helper()
	order, err := f.service.CreateOrder(context.Background(), orderInput(zone))
	require.NoError(t, err)
	return order
}

func decimalEqual(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(decimal.NewFromInt(want)), "want %d, got %s", want, got)
}
