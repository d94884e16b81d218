package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gezgin/placewise/internal/models"
)

// ErrEmailTaken is returned when registering an email that already exists.
var ErrEmailTaken = errors.New("email already registered")

const uniqueViolation = "23505"

// UserRepository provides database access for users.
type UserRepository struct {
	q Querier
}

// NewUserRepository constructs a UserRepository backed by the pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{q: pool}
}

// NewUserRepositoryWithQuerier constructs a UserRepository with a custom
// Querier (for tests).
func NewUserRepositoryWithQuerier(q Querier) *UserRepository {
	return &UserRepository{q: q}
}

const userColumns = `id, email, password_hash, first_name, last_name, role, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user. A duplicate email maps to ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	const q = `
		INSERT INTO users (email, password_hash, first_name, last_name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	created, err := scanUser(r.q.QueryRow(ctx, q,
		user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Role))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("inserting user %s: %w", user.Email, err)
	}
	return created, nil
}

// GetByEmail retrieves a user by email. Returns nil, nil when not found.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.q.QueryRow(ctx, q, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying user %s: %w", email, err)
	}
	return user, nil
}

// GetByID retrieves a user by id. Returns nil, nil when not found.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.q.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying user %s: %w", id, err)
	}
	return user, nil
}
