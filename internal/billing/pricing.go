package billing

// PriceMode tags whether a catalog entry's quoted price already includes tax.
// The mode selects which discount formula applies; see ApplyDiscount.
type PriceMode string

const (
	// PriceWithTax means the quoted unit price is tax-inclusive.
	PriceWithTax PriceMode = "WITH_TAX"
	// PriceWithoutTax means the quoted unit price is tax-exclusive.
	PriceWithoutTax PriceMode = "WITHOUT_TAX"
)

// PriceSource is the engine's read-only view of a catalog entry's prices.
// A price of 0 means the catalog does not carry that variant.
type PriceSource struct {
	PriceWithTax    float64
	PriceWithoutTax float64
}

// NormalizeUnitPrice derives the tax-exclusive unit price from a catalog
// entry that may quote only one of the two price variants.
//
// WithoutTax mode returns the exclusive price, falling back to the inclusive
// price, then 0. WithTax mode inverts the inclusive price using the selected
// rate: incl * 100 / (100 + rate + cess). Absent inputs degrade to 0; the
// function never fails.
func NormalizeUnitPrice(src PriceSource, mode PriceMode, rate TaxRate) float64 {
	if mode == PriceWithoutTax {
		if src.PriceWithoutTax != 0 {
			return src.PriceWithoutTax
		}
		return src.PriceWithTax
	}
	divisor := 100 + rate.RatePercent + rate.CessPercent
	if divisor == 0 {
		return 0
	}
	return src.PriceWithTax * 100 / divisor
}

// ApplyDiscount computes the fully tax-and-discount-adjusted line amount.
// Both modes discount the tax-INCLUSIVE amount, never the taxable base alone:
//
//	WithoutTax: gross the exclusive price up by rate+cess, then discount.
//	WithTax:    use the catalog's inclusive price directly, then discount.
//
// The asymmetry (WithTax never re-derives tax from the normalized price) is
// the documented billing behavior and must hold exactly.
func ApplyDiscount(mode PriceMode, unitPrice float64, src PriceSource, rate TaxRate, quantity int, discountPercent float64) float64 {
	qty := float64(effectiveQuantity(quantity))
	disc := clampDiscount(discountPercent)
	var grossPerUnit float64
	if mode == PriceWithoutTax {
		grossPerUnit = unitPrice * (1 + rate.RatePercent/100 + rate.CessPercent/100)
	} else {
		grossPerUnit = src.PriceWithTax
	}
	gross := grossPerUnit * qty
	return gross - gross*disc/100
}

// effectiveQuantity maps the "not yet entered" quantity of 0 (or invalid
// negative input) to 1 so a recompute always has a positive quantity.
func effectiveQuantity(quantity int) int {
	if quantity <= 0 {
		return 1
	}
	return quantity
}

// clampDiscount coerces invalid user input into the 0-100 range.
func clampDiscount(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
