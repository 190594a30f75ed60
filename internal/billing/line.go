package billing

// LineInput is everything ComputeLine needs to derive one line item. The
// caller supplies already-resolved reference data; the engine performs no
// lookups of its own.
type LineInput struct {
	// UID is the document-local identity of the line, distinct from the
	// catalog id since the same catalog entry may appear on two lines.
	UID             string
	CatalogID       int64
	Prices          PriceSource
	Quantity        int
	DiscountPercent float64
	Rate            TaxRate
	Mode            PriceMode
	IntraState      bool
}

// LineItem is one fully-derived document line. SGST, CGST, IGST and the two
// amount fields are PER UNIT; LineTotal is the whole line, tax and discount
// applied. Invariants:
//
//	SGST + CGST == TaxPerUnit and IGST == 0   when intra-state
//	IGST == TaxPerUnit and SGST == CGST == 0  when inter-state
//
// The split never changes LineTotal, only the attribution of the tax.
type LineItem struct {
	UID             string
	CatalogID       int64
	Quantity        int
	DiscountPercent float64
	Rate            TaxRate
	Mode            PriceMode

	UnitPrice   float64 // tax-exclusive
	TaxPerUnit  float64
	CessPerUnit float64
	SGST        float64
	CGST        float64
	IGST        float64
	LineTotal   float64
}

// ComputeLine derives the full set of line fields from its inputs. It is
// pure: every edit to quantity, discount, or tax rate re-runs the whole
// derivation for that line, leaving other lines untouched. It never fails;
// missing reference data degrades to zero amounts.
func ComputeLine(in LineInput) LineItem {
	unitPrice := NormalizeUnitPrice(in.Prices, in.Mode, in.Rate)
	breakup := ResolveTax(unitPrice, in.Rate, in.IntraState)
	total := ApplyDiscount(in.Mode, unitPrice, in.Prices, in.Rate, in.Quantity, in.DiscountPercent)

	return LineItem{
		UID:             in.UID,
		CatalogID:       in.CatalogID,
		Quantity:        effectiveQuantity(in.Quantity),
		DiscountPercent: clampDiscount(in.DiscountPercent),
		Rate:            in.Rate,
		Mode:            in.Mode,
		UnitPrice:       unitPrice,
		TaxPerUnit:      breakup.TaxPerUnit,
		CessPerUnit:     breakup.CessPerUnit,
		SGST:            breakup.SGST,
		CGST:            breakup.CGST,
		IGST:            breakup.IGST,
		LineTotal:       total,
	}
}
