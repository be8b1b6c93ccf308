package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/billing-api/internal/domain"
)

// customerRepository implements CustomerRepository on a pgx pool.
type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository creates a new customer repository.
func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepository{pool: pool}
}

func (r *customerRepository) List(ctx context.Context, orgID uuid.UUID) ([]domain.Customer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, org_id, name, email, phone, address, created_at, updated_at
		 FROM customers WHERE org_id = $1 ORDER BY created_at DESC`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.OrgID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *customerRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (domain.Customer, error) {
	var c domain.Customer
	err := r.pool.QueryRow(ctx,
		`SELECT id, org_id, name, email, phone, address, created_at, updated_at
		 FROM customers WHERE org_id = $1 AND id = $2`, orgID, id).
		Scan(&c.ID, &c.OrgID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Customer{}, ErrNotFound
		}
		return domain.Customer{}, fmt.Errorf("failed to get customer: %w", err)
	}
	return c, nil
}

func (r *customerRepository) Create(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO customers (id, org_id, name, email, phone, address, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		customer.ID, customer.OrgID, customer.Name, customer.Email, customer.Phone, customer.Address,
		customer.CreatedAt, customer.UpdatedAt)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

func (r *customerRepository) Update(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE customers SET name = $3, email = $4, phone = $5, address = $6, updated_at = $7
		 WHERE org_id = $1 AND id = $2`,
		customer.OrgID, customer.ID, customer.Name, customer.Email, customer.Phone, customer.Address,
		customer.UpdatedAt)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("failed to update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Customer{}, ErrNotFound
	}
	return customer, nil
}

func (r *customerRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE org_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
