package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/deliverlabs/food-ordering-service/internal/domain"
)

func TestOrderFilterMatches(t *testing.T) {
	midnight := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	order := &domain.Order{Status: domain.OrderStatusReady, CreatedAt: midnight.Add(time.Hour)}

	tests := []struct {
		name   string
		filter OrderFilter
		want   bool
	}{
		{"empty filter", OrderFilter{}, true},
		{"status included", OrderFilter{Statuses: []domain.OrderStatus{domain.OrderStatusReceived, domain.OrderStatusReady}}, true},
		{"status not included", OrderFilter{Statuses: []domain.OrderStatus{domain.OrderStatusOnRoute}}, false},
		{"status excluded", OrderFilter{ExcludeStatuses: []domain.OrderStatus{domain.OrderStatusReady}}, false},
		{"created after bound", OrderFilter{CreatedFrom: &midnight}, true},
		{"created before bound", OrderFilter{CreatedFrom: timePtr(midnight.Add(2 * time.Hour))}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(order))
		})
	}
}

func TestOrderFilterEffectiveLimit(t *testing.T) {
	assert.Equal(t, defaultListLimit, OrderFilter{}.EffectiveLimit())
	assert.Equal(t, 10, OrderFilter{Limit: 10}.EffectiveLimit())
	assert.Equal(t, defaultListLimit, OrderFilter{Limit: 5000}.EffectiveLimit())
}

func TestBuildOrderWhere(t *testing.T) {
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	where, args := buildOrderWhere(OrderFilter{})
	assert.Equal(t, "1=1", where)
	assert.Empty(t, args)

	where, args = buildOrderWhere(OrderFilter{
		Statuses:        []domain.OrderStatus{domain.OrderStatusReady, domain.OrderStatusOnRoute},
		ExcludeStatuses: []domain.OrderStatus{domain.OrderStatusCancelled},
		CreatedFrom:     &from,
	})
	assert.Equal(t, "1=1 AND status IN ($1,$2) AND status NOT IN ($3) AND created_at >= $4", where)
	assert.Equal(t, []any{domain.OrderStatusReady, domain.OrderStatusOnRoute, domain.OrderStatusCancelled, from}, args)
}

func TestMenuFilterMatches(t *testing.T) {
	pizza := "pizza"
	drinks := "drinks"
	item := &domain.MenuItem{Category: "pizza", Available: false}

	assert.True(t, MenuFilter{}.Matches(item))
	assert.False(t, MenuFilter{AvailableOnly: true}.Matches(item))
	assert.True(t, MenuFilter{Category: &pizza}.Matches(item))
	assert.False(t, MenuFilter{Category: &drinks}.Matches(item))
}

func timePtr(t time.Time) *time.Time {
	return &t
}
