package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khata-erp/khata-erp/internal/platform/db"
	"github.com/khata-erp/khata-erp/internal/shared"
)

// Repository defines persistence operations for the auth module. Sessions in
// postgres are the audit trail; the live token lives in redis.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, email, passwordHash string) (*User, error)
	CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time, ip, ua string) error
	DeleteSession(ctx context.Context, token string) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, is_active, created_at, updated_at
		 FROM users WHERE lower(email)=lower($1)`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *repository) CreateUser(ctx context.Context, email, passwordHash string) (*User, error) {
	var u User
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, is_active)
		 VALUES ($1, $2, TRUE)
		 RETURNING id, email, password_hash, is_active, created_at, updated_at`,
		email, passwordHash).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, shared.ErrAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (r *repository) CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time, ip, ua string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sessions (token, user_id, expires_at, ip, ua)
		 VALUES ($1, $2, $3, $4, $5)`,
		token, userID, expiresAt.UTC(), ip, ua)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *repository) DeleteSession(ctx context.Context, token string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE token=$1`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
