package gstreports

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads flattened line facts for report building.
type Repository interface {
	LineFacts(ctx context.Context, from, to time.Time, kind string) ([]LineFact, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) LineFacts(ctx context.Context, from, to time.Time, kind string) ([]LineFact, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT d.id, d.kind, d.doc_date,
		   COALESCE(ce.tax_filing_code, ''),
		   l.quantity, l.unit_price, l.discount_percent,
		   COALESCE(tr.rate::float8, 0), COALESCE(tr.cess_rate::float8, 0),
		   l.tax_per_unit, l.cess_per_unit, l.sgst, l.cgst, l.igst, l.line_total
		 FROM document_lines l
		 JOIN documents d ON d.id = l.document_id
		 LEFT JOIN catalog_entries ce ON ce.id = l.catalog_id
		 LEFT JOIN tax_rates tr ON tr.id = l.tax_rate_id
		 WHERE d.doc_date >= $1 AND d.doc_date <= $2
		   AND ($3 = '' OR d.kind = $3)
		 ORDER BY d.doc_date, d.id, l.position`,
		from, to, kind)
	if err != nil {
		return nil, fmt.Errorf("query line facts: %w", err)
	}
	defer rows.Close()

	var facts []LineFact
	for rows.Next() {
		var f LineFact
		if err := rows.Scan(&f.DocumentID, &f.Kind, &f.DocDate, &f.FilingCode,
			&f.Quantity, &f.UnitPrice, &f.DiscountPercent,
			&f.RatePercent, &f.CessPercent,
			&f.TaxPerUnit, &f.CessPerUnit, &f.SGST, &f.CGST, &f.IGST, &f.LineTotal); err != nil {
			return nil, fmt.Errorf("scan line fact: %w", err)
		}
		facts = append(facts, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return facts, nil
}
