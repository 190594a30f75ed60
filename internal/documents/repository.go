package documents

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khata-erp/khata-erp/internal/platform/db"
	"github.com/khata-erp/khata-erp/internal/shared"
)

// Repository provides PostgreSQL backed persistence for documents.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	Get(ctx context.Context, id int64) (*Document, error)
	List(ctx context.Context, req ListDocumentsRequest) ([]Document, int, error)
}

// TxRepository exposes transactional operations. Derived state is always
// written whole: the header totals plus a full replacement of the line set.
type TxRepository interface {
	NextNumber(ctx context.Context, kind Kind) (string, error)
	CreateDocument(ctx context.Context, doc Document) (int64, error)
	UpdateHeader(ctx context.Context, doc Document) error
	ReplaceLines(ctx context.Context, documentID int64, lines []Line) error
	DeleteDocument(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx wraps callback in a repeatable-read transaction.
func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

const documentColumns = `id, kind, number, party_id, doc_date, discount_percent, payment_method,
	amount_received, is_fully_paid, taxable_amount, total_tax, grand_total, balance_due,
	created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Document, error) {
	var d Document
	err := r.pool.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id=$1`, id).
		Scan(&d.ID, &d.Kind, &d.Number, &d.PartyID, &d.DocDate, &d.DiscountPercent, &d.PaymentMethod,
			&d.AmountReceived, &d.IsFullyPaid, &d.TaxableAmount, &d.TotalTax, &d.GrandTotal, &d.BalanceDue,
			&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT uid, document_id, catalog_id, quantity, discount_percent, tax_rate_id, price_mode,
		   unit_price, tax_per_unit, cess_per_unit, sgst, cgst, igst, line_total, tax_label
		 FROM document_lines WHERE document_id=$1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("get document lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.UID, &l.DocumentID, &l.CatalogID, &l.Quantity, &l.DiscountPercent,
			&l.TaxRateID, &l.PriceMode, &l.UnitPrice, &l.TaxPerUnit, &l.CessPerUnit,
			&l.SGST, &l.CGST, &l.IGST, &l.LineTotal, &l.TaxLabel); err != nil {
			return nil, fmt.Errorf("scan document line: %w", err)
		}
		d.Lines = append(d.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) List(ctx context.Context, req ListDocumentsRequest) ([]Document, int, error) {
	page := shared.NewPagination(req.Page, req.PerPage, 0)

	const filter = `WHERE ($1 = '' OR kind = $1)
		AND ($2 = 0 OR party_id = $2)
		AND ($3::timestamptz IS NULL OR doc_date >= $3)
		AND ($4::timestamptz IS NULL OR doc_date <= $4)`

	var from, to any
	if !req.From.IsZero() {
		from = req.From
	}
	if !req.To.IsZero() {
		to = req.To
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM documents `+filter,
		string(req.Kind), req.PartyID, from, to).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count documents: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+documentColumns+` FROM documents `+filter+` ORDER BY doc_date DESC, id DESC LIMIT $5 OFFSET $6`,
		string(req.Kind), req.PartyID, from, to, page.PerPage, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Kind, &d.Number, &d.PartyID, &d.DocDate, &d.DiscountPercent, &d.PaymentMethod,
			&d.AmountReceived, &d.IsFullyPaid, &d.TaxableAmount, &d.TotalTax, &d.GrandTotal, &d.BalanceDue,
			&d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, total, rows.Err()
}

func (t *txRepo) NextNumber(ctx context.Context, kind Kind) (string, error) {
	var seq int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO document_sequences (kind, counter) VALUES ($1, 1)
		 ON CONFLICT (kind) DO UPDATE SET counter = document_sequences.counter + 1
		 RETURNING counter`, string(kind)).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("next document number: %w", err)
	}
	return fmt.Sprintf("%s-%05d", kind.numberPrefix(), seq), nil
}

func (t *txRepo) CreateDocument(ctx context.Context, doc Document) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO documents (kind, number, party_id, doc_date, discount_percent, payment_method,
		   amount_received, is_fully_paid, taxable_amount, total_tax, grand_total, balance_due)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12) RETURNING id`,
		doc.Kind, doc.Number, doc.PartyID, doc.DocDate, doc.DiscountPercent, doc.PaymentMethod,
		doc.AmountReceived, doc.IsFullyPaid, doc.TaxableAmount, doc.TotalTax, doc.GrandTotal, doc.BalanceDue).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create document: %w", err)
	}
	return id, nil
}

func (t *txRepo) UpdateHeader(ctx context.Context, doc Document) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE documents SET party_id=$2, doc_date=$3, discount_percent=$4, payment_method=$5,
		   amount_received=$6, is_fully_paid=$7, taxable_amount=$8, total_tax=$9, grand_total=$10,
		   balance_due=$11, updated_at=now()
		 WHERE id=$1`,
		doc.ID, doc.PartyID, doc.DocDate, doc.DiscountPercent, doc.PaymentMethod,
		doc.AmountReceived, doc.IsFullyPaid, doc.TaxableAmount, doc.TotalTax, doc.GrandTotal, doc.BalanceDue)
	if err != nil {
		return fmt.Errorf("update document header: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (t *txRepo) ReplaceLines(ctx context.Context, documentID int64, lines []Line) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM document_lines WHERE document_id=$1`, documentID); err != nil {
		return fmt.Errorf("clear document lines: %w", err)
	}
	for i, l := range lines {
		_, err := t.tx.Exec(ctx,
			`INSERT INTO document_lines (uid, document_id, position, catalog_id, quantity, discount_percent,
			   tax_rate_id, price_mode, unit_price, tax_per_unit, cess_per_unit, sgst, cgst, igst,
			   line_total, tax_label)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
			l.UID, documentID, i, l.CatalogID, l.Quantity, l.DiscountPercent,
			l.TaxRateID, l.PriceMode, l.UnitPrice, l.TaxPerUnit, l.CessPerUnit, l.SGST, l.CGST, l.IGST,
			l.LineTotal, l.TaxLabel)
		if err != nil {
			return fmt.Errorf("insert document line: %w", err)
		}
	}
	return nil
}

func (t *txRepo) DeleteDocument(ctx context.Context, id int64) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM document_lines WHERE document_id=$1`, id); err != nil {
		return fmt.Errorf("delete document lines: %w", err)
	}
	tag, err := t.tx.Exec(ctx, `DELETE FROM documents WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
