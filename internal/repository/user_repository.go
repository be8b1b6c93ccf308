package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/billing-api/internal/domain"
)

// userRepository implements UserRepository on a pgx pool.
type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new user repository.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, org_id, email, name, password_hash, created_at
		 FROM users WHERE lower(email) = lower($1)`, email).
		Scan(&u.ID, &u.OrgID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, org_id, email, name, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.OrgID, user.Email, user.Name, user.PasswordHash, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.User{}, ErrDuplicateEmail
		}
		return domain.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}
