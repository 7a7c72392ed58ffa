package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deliverlabs/food-ordering-service/internal/domain"
)

// IdentityRepository defines persistence access for staff identities.
type IdentityRepository interface {
	Create(ctx context.Context, identity *domain.Identity) error
	GetByID(ctx context.Context, id string) (*domain.Identity, error)
	GetByUsername(ctx context.Context, username string) (*domain.Identity, error)
	List(ctx context.Context) ([]domain.Identity, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) error
}

type identityRepository struct {
	pool *pgxpool.Pool
}

// NewIdentityRepository returns a Postgres-backed implementation.
func NewIdentityRepository(pool *pgxpool.Pool) IdentityRepository {
	return &identityRepository{pool: pool}
}

const identityColumns = `id, username, email, full_name, password_hash, role, is_active, created_at, updated_at`

func (r *identityRepository) Create(ctx context.Context, identity *domain.Identity) error {
	const query = `
        INSERT INTO users (` + identityColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := r.pool.Exec(ctx, query,
		identity.ID,
		identity.Username,
		identity.Email,
		identity.FullName,
		identity.PasswordHash,
		identity.Role,
		identity.Active,
		identity.CreatedAt,
		identity.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *identityRepository) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	return r.fetchSingle(ctx, `SELECT `+identityColumns+` FROM users WHERE id=$1`, id)
}

func (r *identityRepository) GetByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	return r.fetchSingle(ctx, `SELECT `+identityColumns+` FROM users WHERE username=$1`, username)
}

func (r *identityRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Identity, error) {
	var identity domain.Identity
	if err := scanIdentity(r.pool.QueryRow(ctx, query, arg), &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (r *identityRepository) List(ctx context.Context) ([]domain.Identity, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY created_at ASC LIMIT %d`, identityColumns, defaultListLimit)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Identity{}
	for rows.Next() {
		var identity domain.Identity
		if err := scanIdentity(rows, &identity); err != nil {
			return nil, err
		}
		result = append(result, identity)
	}
	return result, rows.Err()
}

func (r *identityRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE users SET role=$1, updated_at=NOW() WHERE id=$2`, role, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanIdentity(row pgx.Row, identity *domain.Identity) error {
	return row.Scan(
		&identity.ID,
		&identity.Username,
		&identity.Email,
		&identity.FullName,
		&identity.PasswordHash,
		&identity.Role,
		&identity.Active,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)
}
