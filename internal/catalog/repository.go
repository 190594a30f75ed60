package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khata-erp/khata-erp/internal/shared"
)

const entryColumns = `id, kind, name, sales_price_with_tax, sales_price_without_tax,
	purchase_price_with_tax, purchase_price_without_tax, default_discount_percent,
	default_tax_rate_id, tax_filing_code, is_active, created_at, updated_at`

// Repository provides PostgreSQL backed persistence for the catalog.
type Repository interface {
	Get(ctx context.Context, id int64) (*Entry, error)
	GetMany(ctx context.Context, ids []int64) (map[int64]Entry, error)
	List(ctx context.Context, req ListEntriesRequest) ([]Entry, int, error)
	Create(ctx context.Context, entry Entry) (int64, error)
	Update(ctx context.Context, entry Entry) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.Kind, &e.Name, &e.SalesPriceWithTax, &e.SalesPriceWithoutTax,
		&e.PurchasePriceWithTax, &e.PurchasePriceWithoutTax, &e.DefaultDiscountPercent,
		&e.DefaultTaxRateID, &e.TaxFilingCode, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Entry, error) {
	return scanEntry(r.pool.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM catalog_entries WHERE id=$1`, id))
}

func (r *repository) GetMany(ctx context.Context, ids []int64) (map[int64]Entry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+entryColumns+` FROM catalog_entries WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get catalog entries: %w", err)
	}
	defer rows.Close()

	entries := make(map[int64]Entry, len(ids))
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Kind, &e.Name, &e.SalesPriceWithTax, &e.SalesPriceWithoutTax,
			&e.PurchasePriceWithTax, &e.PurchasePriceWithoutTax, &e.DefaultDiscountPercent,
			&e.DefaultTaxRateID, &e.TaxFilingCode, &e.IsActive, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan catalog entry: %w", err)
		}
		entries[e.ID] = e
	}
	return entries, rows.Err()
}

func (r *repository) List(ctx context.Context, req ListEntriesRequest) ([]Entry, int, error) {
	page := shared.NewPagination(req.Page, req.PerPage, 0)

	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM catalog_entries
		 WHERE ($1 = '' OR kind = $1) AND ($2 = '' OR name ILIKE '%' || $2 || '%')`,
		string(req.Kind), req.Search).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count catalog entries: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+entryColumns+` FROM catalog_entries
		 WHERE ($1 = '' OR kind = $1) AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		 ORDER BY name LIMIT $3 OFFSET $4`,
		string(req.Kind), req.Search, page.PerPage, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list catalog entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Kind, &e.Name, &e.SalesPriceWithTax, &e.SalesPriceWithoutTax,
			&e.PurchasePriceWithTax, &e.PurchasePriceWithoutTax, &e.DefaultDiscountPercent,
			&e.DefaultTaxRateID, &e.TaxFilingCode, &e.IsActive, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan catalog entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, entry Entry) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO catalog_entries (kind, name, sales_price_with_tax, sales_price_without_tax,
		   purchase_price_with_tax, purchase_price_without_tax, default_discount_percent,
		   default_tax_rate_id, tax_filing_code, is_active)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) RETURNING id`,
		entry.Kind, entry.Name, entry.SalesPriceWithTax, entry.SalesPriceWithoutTax,
		entry.PurchasePriceWithTax, entry.PurchasePriceWithoutTax, entry.DefaultDiscountPercent,
		entry.DefaultTaxRateID, entry.TaxFilingCode, entry.IsActive).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create catalog entry: %w", err)
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, entry Entry) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE catalog_entries SET name=$2, sales_price_with_tax=$3, sales_price_without_tax=$4,
		   purchase_price_with_tax=$5, purchase_price_without_tax=$6, default_discount_percent=$7,
		   default_tax_rate_id=$8, tax_filing_code=$9, is_active=$10, updated_at=now()
		 WHERE id=$1`,
		entry.ID, entry.Name, entry.SalesPriceWithTax, entry.SalesPriceWithoutTax,
		entry.PurchasePriceWithTax, entry.PurchasePriceWithoutTax, entry.DefaultDiscountPercent,
		entry.DefaultTaxRateID, entry.TaxFilingCode, entry.IsActive)
	if err != nil {
		return fmt.Errorf("update catalog entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
