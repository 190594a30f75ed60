package catalog

import (
	"time"

	"github.com/khata-erp/khata-erp/internal/billing"
)

// EntryKind distinguishes goods from services; it decides whether the tax
// filing code field carries an HSN (items) or SAC (services) code.
type EntryKind string

const (
	KindItem    EntryKind = "ITEM"
	KindService EntryKind = "SERVICE"
)

// PriceSide selects which of the two price pairs a document reads: sales
// documents price from the sales pair, purchase documents from the purchase
// pair.
type PriceSide string

const (
	SideSales    PriceSide = "SALES"
	SidePurchase PriceSide = "PURCHASE"
)

// Entry is an item or service offered for sale or purchase. Each side quotes
// a tax-inclusive and a tax-exclusive price; either may be absent (zero).
// The billing engine only ever reads entries, it never writes them.
type Entry struct {
	ID                      int64     `json:"id" db:"id"`
	Kind                    EntryKind `json:"kind" db:"kind"`
	Name                    string    `json:"name" db:"name"`
	SalesPriceWithTax       float64   `json:"sales_price_with_tax" db:"sales_price_with_tax"`
	SalesPriceWithoutTax    float64   `json:"sales_price_without_tax" db:"sales_price_without_tax"`
	PurchasePriceWithTax    float64   `json:"purchase_price_with_tax" db:"purchase_price_with_tax"`
	PurchasePriceWithoutTax float64   `json:"purchase_price_without_tax" db:"purchase_price_without_tax"`
	DefaultDiscountPercent  float64   `json:"default_discount_percent" db:"default_discount_percent"`
	DefaultTaxRateID        int64     `json:"default_tax_rate_id" db:"default_tax_rate_id"`
	// TaxFilingCode is the HSN code for items, the SAC code for services.
	TaxFilingCode string    `json:"tax_filing_code" db:"tax_filing_code"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// PriceSource exposes the selected side's price pair to the billing engine.
func (e Entry) PriceSource(side PriceSide) billing.PriceSource {
	if side == SidePurchase {
		return billing.PriceSource{
			PriceWithTax:    e.PurchasePriceWithTax,
			PriceWithoutTax: e.PurchasePriceWithoutTax,
		}
	}
	return billing.PriceSource{
		PriceWithTax:    e.SalesPriceWithTax,
		PriceWithoutTax: e.SalesPriceWithoutTax,
	}
}

// CreateEntryRequest is the payload for adding a catalog entry.
type CreateEntryRequest struct {
	Kind                    EntryKind `json:"kind" validate:"required,oneof=ITEM SERVICE"`
	Name                    string    `json:"name" validate:"required,max=200"`
	SalesPriceWithTax       float64   `json:"sales_price_with_tax" validate:"gte=0"`
	SalesPriceWithoutTax    float64   `json:"sales_price_without_tax" validate:"gte=0"`
	PurchasePriceWithTax    float64   `json:"purchase_price_with_tax" validate:"gte=0"`
	PurchasePriceWithoutTax float64   `json:"purchase_price_without_tax" validate:"gte=0"`
	DefaultDiscountPercent  float64   `json:"default_discount_percent" validate:"gte=0,lte=100"`
	DefaultTaxRateID        int64     `json:"default_tax_rate_id" validate:"gte=0"`
	TaxFilingCode           string    `json:"tax_filing_code" validate:"omitempty,max=10"`
}

// UpdateEntryRequest carries partial catalog updates.
type UpdateEntryRequest struct {
	Name                    *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	SalesPriceWithTax       *float64 `json:"sales_price_with_tax,omitempty" validate:"omitempty,gte=0"`
	SalesPriceWithoutTax    *float64 `json:"sales_price_without_tax,omitempty" validate:"omitempty,gte=0"`
	PurchasePriceWithTax    *float64 `json:"purchase_price_with_tax,omitempty" validate:"omitempty,gte=0"`
	PurchasePriceWithoutTax *float64 `json:"purchase_price_without_tax,omitempty" validate:"omitempty,gte=0"`
	DefaultDiscountPercent  *float64 `json:"default_discount_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	DefaultTaxRateID        *int64   `json:"default_tax_rate_id,omitempty" validate:"omitempty,gte=0"`
	TaxFilingCode           *string  `json:"tax_filing_code,omitempty" validate:"omitempty,max=10"`
	IsActive                *bool    `json:"is_active,omitempty"`
}

// ListEntriesRequest filters the catalog listing.
type ListEntriesRequest struct {
	Kind    EntryKind
	Search  string
	Page    int
	PerPage int
}
