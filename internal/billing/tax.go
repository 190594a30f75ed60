package billing

// SelectTaxLabel is shown for a line whose tax rate has not been chosen yet.
// An unselected rate computes as 0% GST and 0% cess; it never fails the line.
const SelectTaxLabel = "Select Tax"

// TaxRate is an immutable GST rate record from the tax-rate reference data.
// The zero value represents "no rate selected" and resolves to 0% everywhere.
type TaxRate struct {
	ID          int64
	RatePercent float64
	CessPercent float64
	Description string
}

// IsZero reports whether the rate is the unselected sentinel.
func (r TaxRate) IsZero() bool {
	return r.ID == 0 && r.RatePercent == 0 && r.CessPercent == 0 && r.Description == ""
}

// Label returns the display description, or SelectTaxLabel when no rate has
// been chosen.
func (r TaxRate) Label() string {
	if r.Description == "" {
		return SelectTaxLabel
	}
	return r.Description
}

// TaxBreakup carries the per-unit tax amounts for one line. Exactly one of
// (SGST,CGST) or IGST is populated, decided by the intra-state flag; the
// split never changes the total tax, only its attribution.
type TaxBreakup struct {
	TaxPerUnit  float64
	CessPerUnit float64
	SGST        float64
	CGST        float64
	IGST        float64
}

// ResolveTax computes the per-unit GST and cess on a tax-exclusive unit price
// and splits the GST into SGST+CGST (intra-state) or IGST (inter-state).
func ResolveTax(unitPrice float64, rate TaxRate, intraState bool) TaxBreakup {
	b := TaxBreakup{
		TaxPerUnit:  unitPrice * rate.RatePercent / 100,
		CessPerUnit: unitPrice * rate.CessPercent / 100,
	}
	if intraState {
		b.SGST = b.TaxPerUnit / 2
		b.CGST = b.TaxPerUnit / 2
	} else {
		b.IGST = b.TaxPerUnit
	}
	return b
}
