package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deliverlabs/food-ordering-service/internal/domain"
)

// DeliveryPersonRepository persists couriers.
type DeliveryPersonRepository interface {
	Create(ctx context.Context, person *domain.DeliveryPerson) error
	List(ctx context.Context, availableOnly bool) ([]domain.DeliveryPerson, error)
}

type deliveryPersonRepository struct {
	pool *pgxpool.Pool
}

// NewDeliveryPersonRepository instantiates the repository.
func NewDeliveryPersonRepository(pool *pgxpool.Pool) DeliveryPersonRepository {
	return &deliveryPersonRepository{pool: pool}
}

func (r *deliveryPersonRepository) Create(ctx context.Context, person *domain.DeliveryPerson) error {
	const query = `
        INSERT INTO delivery_persons (id, name, phone, is_available, current_orders, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.pool.Exec(ctx, query,
		person.ID,
		person.Name,
		person.Phone,
		person.IsAvailable,
		person.CurrentOrders,
		person.CreatedAt,
	)
	return err
}

func (r *deliveryPersonRepository) List(ctx context.Context, availableOnly bool) ([]domain.DeliveryPerson, error) {
	query := `SELECT id, name, phone, is_available, current_orders, created_at FROM delivery_persons`
	if availableOnly {
		query += " WHERE is_available = TRUE"
	}
	query += fmt.Sprintf(" ORDER BY created_at ASC LIMIT %d", defaultListLimit)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.DeliveryPerson{}
	for rows.Next() {
		var person domain.DeliveryPerson
		if err := rows.Scan(
			&person.ID,
			&person.Name,
			&person.Phone,
			&person.IsAvailable,
			&person.CurrentOrders,
			&person.CreatedAt,
		); err != nil {
			return nil, err
		}
		if person.CurrentOrders == nil {
			person.CurrentOrders = []string{}
		}
		result = append(result, person)
	}
	return result, rows.Err()
}
