package documents

import (
	"time"

	"github.com/google/uuid"

	"github.com/khata-erp/khata-erp/internal/billing"
	"github.com/khata-erp/khata-erp/internal/catalog"
)

// Kind enumerates the document types that share the billing engine.
type Kind string

const (
	KindSalesInvoice    Kind = "SALES_INVOICE"
	KindProformaInvoice Kind = "PROFORMA_INVOICE"
	KindPurchaseOrder   Kind = "PURCHASE_ORDER"
	KindExpense         Kind = "EXPENSE"
	KindDebitNote       Kind = "DEBIT_NOTE"
)

// Valid reports whether the kind is one of the known document types.
func (k Kind) Valid() bool {
	switch k {
	case KindSalesInvoice, KindProformaInvoice, KindPurchaseOrder, KindExpense, KindDebitNote:
		return true
	}
	return false
}

// PriceSide maps the document type to the catalog price pair it reads:
// sales documents quote sales prices, purchase-side documents (purchase
// orders, expenses, debit notes) quote purchase prices.
func (k Kind) PriceSide() catalog.PriceSide {
	switch k {
	case KindPurchaseOrder, KindExpense, KindDebitNote:
		return catalog.SidePurchase
	}
	return catalog.SideSales
}

// numberPrefix is the document-number prefix per kind.
func (k Kind) numberPrefix() string {
	switch k {
	case KindSalesInvoice:
		return "INV"
	case KindProformaInvoice:
		return "PRO"
	case KindPurchaseOrder:
		return "PO"
	case KindExpense:
		return "EXP"
	case KindDebitNote:
		return "DN"
	}
	return "DOC"
}

// Line is one catalog entry on a document. UID is the document-local
// identity: the same catalog entry may appear on two lines. Quantity 0 means
// "not yet entered"; it computes as 1 and is persisted as entered by the
// user. All fields from UnitPrice down are derived by the billing engine on
// every recompute; SGST, CGST, IGST and the per-unit amounts follow the
// engine's per-unit convention.
type Line struct {
	UID             uuid.UUID         `json:"uid" db:"uid"`
	DocumentID      int64             `json:"document_id" db:"document_id"`
	CatalogID       int64             `json:"catalog_id" db:"catalog_id"`
	Quantity        int               `json:"quantity" db:"quantity"`
	DiscountPercent float64           `json:"discount_percent" db:"discount_percent"`
	TaxRateID       int64             `json:"tax_rate_id" db:"tax_rate_id"`
	PriceMode       billing.PriceMode `json:"price_mode" db:"price_mode"`

	UnitPrice   float64 `json:"unit_price" db:"unit_price"`
	TaxPerUnit  float64 `json:"tax_per_unit" db:"tax_per_unit"`
	CessPerUnit float64 `json:"cess_per_unit" db:"cess_per_unit"`
	SGST        float64 `json:"sgst" db:"sgst"`
	CGST        float64 `json:"cgst" db:"cgst"`
	IGST        float64 `json:"igst" db:"igst"`
	LineTotal   float64 `json:"line_total" db:"line_total"`
	TaxLabel    string  `json:"tax_label" db:"tax_label"`
}

// Document is one invoice, proforma, purchase order, expense, or debit note.
// The totals block is derived in full from Lines on every mutation.
type Document struct {
	ID              int64     `json:"id" db:"id"`
	Kind            Kind      `json:"kind" db:"kind"`
	Number          string    `json:"number" db:"number"`
	PartyID         int64     `json:"party_id" db:"party_id"`
	DocDate         time.Time `json:"doc_date" db:"doc_date"`
	DiscountPercent float64   `json:"discount_percent" db:"discount_percent"`
	PaymentMethod   string    `json:"payment_method" db:"payment_method"`
	AmountReceived  float64   `json:"amount_received" db:"amount_received"`
	IsFullyPaid     bool      `json:"is_fully_paid" db:"is_fully_paid"`

	TaxableAmount float64 `json:"taxable_amount" db:"taxable_amount"`
	TotalTax      float64 `json:"total_tax" db:"total_tax"`
	GrandTotal    float64 `json:"grand_total" db:"grand_total"`
	BalanceDue    float64 `json:"balance_due" db:"balance_due"`

	Lines     []Line    `json:"lines" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewLine is one catalog selection; the single-select and the
// multi-select-with-quantity flows both submit this shape.
type NewLine struct {
	CatalogID int64 `json:"catalog_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"gte=0"`
}

// CreateDocumentRequest opens a new document with an optional initial
// selection of lines.
type CreateDocumentRequest struct {
	Kind          Kind      `json:"kind" validate:"required"`
	PartyID       int64     `json:"party_id" validate:"gte=0"`
	DocDate       time.Time `json:"doc_date" validate:"required"`
	PaymentMethod string    `json:"payment_method" validate:"omitempty,oneof=CASH UPI CARD BANK_TRANSFER CHEQUE"`
	Lines         []NewLine `json:"lines" validate:"dive"`
}

// AddLinesRequest appends catalog selections to an existing document.
type AddLinesRequest struct {
	Lines []NewLine `json:"lines" validate:"required,min=1,dive"`
}

// UpdateLineRequest mutates one line. Any present field triggers a full
// recompute of the document's derived state.
type UpdateLineRequest struct {
	Quantity        *int     `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	DiscountPercent *float64 `json:"discount_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	TaxRateID       *int64   `json:"tax_rate_id,omitempty" validate:"omitempty,gte=0"`
}

// SetDiscountRequest sets the invoice-level discount.
type SetDiscountRequest struct {
	DiscountPercent float64 `json:"discount_percent" validate:"gte=0,lte=100"`
}

// SetPaymentRequest records a received amount and payment method.
type SetPaymentRequest struct {
	AmountReceived float64 `json:"amount_received" validate:"gte=0"`
	PaymentMethod  string  `json:"payment_method" validate:"omitempty,oneof=CASH UPI CARD BANK_TRANSFER CHEQUE"`
}

// SetFullyPaidRequest toggles the fully-paid flag.
type SetFullyPaidRequest struct {
	IsFullyPaid bool `json:"is_fully_paid"`
}

// ListDocumentsRequest filters the document listing.
type ListDocumentsRequest struct {
	Kind    Kind
	PartyID int64
	From    time.Time
	To      time.Time
	Page    int
	PerPage int
}
