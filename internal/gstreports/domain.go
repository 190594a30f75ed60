package gstreports

import (
	"time"

	"github.com/khata-erp/khata-erp/internal/documents"
)

// LineFact is one document line flattened for report aggregation. Rates come
// from the tax_rates join; a line with no tax selected carries zero rates and
// zero amounts.
type LineFact struct {
	DocumentID      int64
	Kind            documents.Kind
	DocDate         time.Time
	FilingCode      string
	Quantity        int
	UnitPrice       float64
	DiscountPercent float64
	RatePercent     float64
	CessPercent     float64
	TaxPerUnit      float64
	CessPerUnit     float64
	SGST            float64
	CGST            float64
	IGST            float64
	LineTotal       float64
}

// taxableValue is the discounted pre-tax value of the line.
func (f LineFact) taxableValue() float64 {
	base := f.UnitPrice * float64(effectiveQuantity(f.Quantity))
	return base - base*f.DiscountPercent/100
}

func effectiveQuantity(q int) int {
	if q <= 0 {
		return 1
	}
	return q
}

// RateRow is one nominal GST slab in the rate-wise summary.
type RateRow struct {
	RatePercent   float64 `json:"rate_percent"`
	CessPercent   float64 `json:"cess_percent"`
	TaxableAmount float64 `json:"taxable_amount"`
	SGST          float64 `json:"sgst"`
	CGST          float64 `json:"cgst"`
	IGST          float64 `json:"igst"`
	CessAmount    float64 `json:"cess_amount"`
	TotalTax      float64 `json:"total_tax"`

	// Display holds the en-IN grouped rendering of TotalTax.
	Display string `json:"display"`
}

// RateWiseSummary is the rate-wise tax report over a date range.
type RateWiseSummary struct {
	From          time.Time `json:"from"`
	To            time.Time `json:"to"`
	Kind          string    `json:"kind,omitempty"`
	Rows          []RateRow `json:"rows"`
	DocumentCount int       `json:"document_count"`
	TaxableAmount float64   `json:"taxable_amount"`
	TotalTax      float64   `json:"total_tax"`
	TotalDisplay  string    `json:"total_display"`
}

// FilingCodeRow is one HSN/SAC code in the filing-code summary.
type FilingCodeRow struct {
	FilingCode    string  `json:"filing_code"`
	Quantity      int     `json:"quantity"`
	TaxableAmount float64 `json:"taxable_amount"`
	TotalTax      float64 `json:"total_tax"`
	Display       string  `json:"display"`
}

// FilingCodeSummary groups lines by the HSN/SAC code of their catalog entry.
// Lines whose entry carries no code land under the empty-code row.
type FilingCodeSummary struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	Kind          string          `json:"kind,omitempty"`
	Rows          []FilingCodeRow `json:"rows"`
	TaxableAmount float64         `json:"taxable_amount"`
	TotalTax      float64         `json:"total_tax"`
}

// SummaryRequest bounds a report query. Kind narrows to one document kind;
// empty means all kinds.
type SummaryRequest struct {
	From time.Time `json:"from" validate:"required"`
	To   time.Time `json:"to" validate:"required"`
	Kind string    `json:"kind" validate:"omitempty,oneof=SALES_INVOICE PROFORMA_INVOICE PURCHASE_ORDER EXPENSE DEBIT_NOTE"`
}
