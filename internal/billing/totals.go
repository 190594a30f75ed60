package billing

// DocumentTotals is the invoice-level result of a full recompute. It is
// always rebuilt from the current line collection, never patched in place.
type DocumentTotals struct {
	// TaxableAmount is the tax-exclusive base after line discounts. It is a
	// display figure and is derived independently of LineTotal.
	TaxableAmount          float64
	TotalTax               float64
	InvoiceDiscountPercent float64
	GrandTotal             float64
	AmountReceived         float64
	IsFullyPaid            bool
	BalanceDue             float64
}

// ComputeTotals sums the line collection into document totals, applies the
// invoice-level discount, and derives the balance due.
func ComputeTotals(lines []LineItem, invoiceDiscountPercent, amountReceived float64, isFullyPaid bool) DocumentTotals {
	t := DocumentTotals{
		InvoiceDiscountPercent: clampDiscount(invoiceDiscountPercent),
		AmountReceived:         amountReceived,
		IsFullyPaid:            isFullyPaid,
	}
	for _, line := range lines {
		qty := float64(line.Quantity)
		base := line.UnitPrice * qty
		t.TaxableAmount += base - base*line.DiscountPercent/100
		t.TotalTax += (line.TaxPerUnit + line.CessPerUnit) * qty
		t.GrandTotal += line.LineTotal
	}
	t.GrandTotal -= t.GrandTotal * t.InvoiceDiscountPercent / 100
	if t.IsFullyPaid {
		t.BalanceDue = 0
	} else {
		t.BalanceDue = t.GrandTotal - t.AmountReceived
	}
	return t
}

// Payment tracks the received amount against a document. Its fully-paid flag
// is a two-state machine: flipping Partial->Full sets AmountReceived to the
// grand total at that moment, Full->Partial resets it to 0. The set is a
// one-shot side effect; later line edits do not re-sync AmountReceived while
// the flag stays on.
type Payment struct {
	AmountReceived float64
	IsFullyPaid    bool
}

// SetFullyPaid transitions the payment state. Setting the current state
// again is a no-op.
func (p *Payment) SetFullyPaid(full bool, grandTotal float64) {
	if p.IsFullyPaid == full {
		return
	}
	p.IsFullyPaid = full
	if full {
		p.AmountReceived = grandTotal
	} else {
		p.AmountReceived = 0
	}
}
