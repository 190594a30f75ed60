package parties

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khata-erp/khata-erp/internal/shared"
)

// Repository provides PostgreSQL backed persistence for parties and the
// business profile.
type Repository interface {
	Get(ctx context.Context, id int64) (*Party, error)
	List(ctx context.Context, kind PartyKind) ([]Party, error)
	Create(ctx context.Context, party Party) (int64, error)
	GetProfile(ctx context.Context) (*BusinessProfile, error)
	SaveProfile(ctx context.Context, profile BusinessProfile) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Get(ctx context.Context, id int64) (*Party, error) {
	var p Party
	err := r.pool.QueryRow(ctx,
		`SELECT id, kind, name, gstin, phone, email, address, state, is_active, created_at, updated_at
		 FROM parties WHERE id=$1`, id).
		Scan(&p.ID, &p.Kind, &p.Name, &p.GSTIN, &p.Phone, &p.Email, &p.Address, &p.State, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("get party: %w", err)
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, kind PartyKind) ([]Party, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, kind, name, gstin, phone, email, address, state, is_active, created_at, updated_at
		 FROM parties WHERE ($1 = '' OR kind = $1) AND is_active ORDER BY name`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list parties: %w", err)
	}
	defer rows.Close()

	var parties []Party
	for rows.Next() {
		var p Party
		if err := rows.Scan(&p.ID, &p.Kind, &p.Name, &p.GSTIN, &p.Phone, &p.Email, &p.Address, &p.State, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan party: %w", err)
		}
		parties = append(parties, p)
	}
	return parties, rows.Err()
}

func (r *repository) Create(ctx context.Context, party Party) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO parties (kind, name, gstin, phone, email, address, state, is_active)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,true) RETURNING id`,
		party.Kind, party.Name, party.GSTIN, party.Phone, party.Email, party.Address, party.State).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create party: %w", err)
	}
	return id, nil
}

// GetProfile returns the single business profile row. A fresh install with
// no profile yet returns shared.ErrNotFound.
func (r *repository) GetProfile(ctx context.Context) (*BusinessProfile, error) {
	var p BusinessProfile
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, gstin, address, state, updated_at FROM business_profile ORDER BY id LIMIT 1`).
		Scan(&p.ID, &p.Name, &p.GSTIN, &p.Address, &p.State, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("get business profile: %w", err)
	}
	return &p, nil
}

func (r *repository) SaveProfile(ctx context.Context, profile BusinessProfile) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO business_profile (id, name, gstin, address, state, updated_at)
		 VALUES ($1,$2,$3,$4,$5,now())
		 ON CONFLICT (id) DO UPDATE SET name=$2, gstin=$3, address=$4, state=$5, updated_at=now()`,
		profile.ID, profile.Name, profile.GSTIN, profile.Address, profile.State)
	if err != nil {
		return fmt.Errorf("save business profile: %w", err)
	}
	return nil
}
