package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/deliverlabs/food-ordering-service/internal/domain"
)

// OrderRepository encapsulates order persistence.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// UpdateStatus applies update only if the stored status still equals expected.
	UpdateStatus(ctx context.Context, id string, expected domain.OrderStatus, update domain.OrderUpdate) error
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, error)
	Count(ctx context.Context, filter OrderFilter) (int64, error)
	SumRevenue(ctx context.Context, filter OrderFilter) (decimal.Decimal, error)
	CountByStatus(ctx context.Context, filter OrderFilter) (map[domain.OrderStatus]int64, error)
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository instantiates repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

const orderColumns = `id, items, delivery_info, subtotal, delivery_fee, total, status, payment_method,
               estimated_delivery, created_at, updated_at, assigned_delivery_person, delivery_notes`

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	const query = `
        INSERT INTO orders (` + orderColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`
	_, err := r.pool.Exec(ctx, query,
		order.ID,
		order.Items,
		order.DeliveryInfo,
		order.Subtotal,
		order.DeliveryFee,
		order.Total,
		order.Status,
		order.PaymentMethod,
		order.EstimatedDelivery,
		order.CreatedAt,
		order.UpdatedAt,
		order.AssignedDeliveryPerson,
		order.DeliveryNotes,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, expected domain.OrderStatus, update domain.OrderUpdate) error {
	const query = `
        UPDATE orders
        SET status=$1, updated_at=$2, assigned_delivery_person=COALESCE($3, assigned_delivery_person)
        WHERE id=$4 AND status=$5`
	cmd, err := r.pool.Exec(ctx, query,
		update.Status,
		update.UpdatedAt,
		update.AssignedDeliveryPerson,
		id,
		expected,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id=$1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return pgx.ErrNoRows
	}
	return ErrStatusChanged
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]domain.Order, error) {
	where, args := buildOrderWhere(filter)
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE %s ORDER BY created_at DESC LIMIT %d`,
		orderColumns, where, filter.EffectiveLimit())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	return result, rows.Err()
}

func (r *orderRepository) Count(ctx context.Context, filter OrderFilter) (int64, error) {
	where, args := buildOrderWhere(filter)
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE `+where, args...).Scan(&count)
	return count, err
}

func (r *orderRepository) SumRevenue(ctx context.Context, filter OrderFilter) (decimal.Decimal, error) {
	where, args := buildOrderWhere(filter)
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(total), 0) FROM orders WHERE `+where, args...).Scan(&total)
	return total, err
}

func (r *orderRepository) CountByStatus(ctx context.Context, filter OrderFilter) (map[domain.OrderStatus]int64, error) {
	where, args := buildOrderWhere(filter)
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM orders WHERE `+where+` GROUP BY status`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[domain.OrderStatus]int64{}
	for rows.Next() {
		var (
			status domain.OrderStatus
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// buildOrderWhere renders filter as a SQL predicate with positional arguments.
func buildOrderWhere(filter OrderFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.ExcludeStatuses) > 0 {
		placeholders := make([]string, len(filter.ExcludeStatuses))
		for i, status := range filter.ExcludeStatuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status NOT IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	return strings.Join(clauses, " AND "), args
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	var notes *string
	if err := row.Scan(
		&order.ID,
		&order.Items,
		&order.DeliveryInfo,
		&order.Subtotal,
		&order.DeliveryFee,
		&order.Total,
		&order.Status,
		&order.PaymentMethod,
		&order.EstimatedDelivery,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.AssignedDeliveryPerson,
		&notes,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, err
	}
	if notes != nil {
		order.DeliveryNotes = *notes
	}
	return &order, nil
}
