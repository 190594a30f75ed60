package taxrates

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khata-erp/khata-erp/internal/shared"
)

// Repository provides PostgreSQL backed persistence for tax rates.
type Repository interface {
	List(ctx context.Context) ([]TaxRate, error)
	Get(ctx context.Context, id int64) (*TaxRate, error)
	Create(ctx context.Context, rate TaxRate) (int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context) ([]TaxRate, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, rate::text, cess_rate::text, description FROM tax_rates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tax rates: %w", err)
	}
	defer rows.Close()

	var rates []TaxRate
	for rows.Next() {
		var rate TaxRate
		if err := rows.Scan(&rate.ID, &rate.Rate, &rate.CessRate, &rate.Description); err != nil {
			return nil, fmt.Errorf("scan tax rate: %w", err)
		}
		rates = append(rates, rate)
	}
	return rates, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*TaxRate, error) {
	var rate TaxRate
	err := r.pool.QueryRow(ctx, `SELECT id, rate::text, cess_rate::text, description FROM tax_rates WHERE id=$1`, id).
		Scan(&rate.ID, &rate.Rate, &rate.CessRate, &rate.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("get tax rate: %w", err)
	}
	return &rate, nil
}

func (r *repository) Create(ctx context.Context, rate TaxRate) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO tax_rates (rate, cess_rate, description) VALUES ($1::numeric,$2::numeric,$3) RETURNING id`,
		rate.Rate, rate.CessRate, rate.Description).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create tax rate: %w", err)
	}
	return id, nil
}
