package service

import (
	"context"
	"time"

	"github.com/deliverlabs/food-ordering-service/internal/domain"
	"github.com/deliverlabs/food-ordering-service/internal/repository"
)

// AnalyticsService aggregates order figures.
type AnalyticsService struct {
	orders repository.OrderRepository
	now    Clock
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(orders repository.OrderRepository, clock Clock) *AnalyticsService {
	return &AnalyticsService{orders: orders, now: clockOrDefault(clock)}
}

// Today aggregates orders created since midnight UTC. Cancelled orders count towards
// the totals but not towards revenue.
func (s *AnalyticsService) Today(ctx context.Context) (*domain.DailyAnalytics, error) {
	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	filter := repository.OrderFilter{CreatedFrom: &start}
	total, err := s.orders.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	revenue, err := s.orders.SumRevenue(ctx, repository.OrderFilter{
		CreatedFrom:     &start,
		ExcludeStatuses: []domain.OrderStatus{domain.OrderStatusCancelled},
	})
	if err != nil {
		return nil, err
	}

	byStatus, err := s.orders.CountByStatus(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &domain.DailyAnalytics{
		TotalOrders:    total,
		TotalRevenue:   revenue,
		OrdersByStatus: byStatus,
		Date:           start,
	}, nil
}
