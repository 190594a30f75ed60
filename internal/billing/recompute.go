// Package billing is the pure line-item pricing, discount, and GST
// computation engine shared by every document type (sales invoices, proforma
// invoices, purchase orders, expenses, debit notes).
//
// The package performs no I/O and holds no state: callers hand in already
// resolved catalog prices, tax rates, and registration states, mutate their
// document, and run a full Recompute. Every derivation degrades to a defined
// numeric default instead of failing, because a broken line must never block
// entry of the rest of the document.
package billing

// DocumentState is the caller-owned input to a full recompute: the raw line
// inputs plus the document-level discount and payment fields.
type DocumentState struct {
	Lines                  []LineInput
	InvoiceDiscountPercent float64
	Payment                Payment
}

// DerivedState is everything a document screen renders: the derived lines,
// the rate-wise tax buckets, and the document totals.
type DerivedState struct {
	Lines   []LineItem
	Buckets map[string]TaxBucket
	Totals  DocumentTotals
}

// Recompute derives the complete state of a document from scratch. It is
// invoked after every mutation (line edit, line add/remove, invoice discount,
// received amount, fully-paid toggle); there is no incremental path.
func Recompute(doc DocumentState) DerivedState {
	lines := make([]LineItem, len(doc.Lines))
	for i, in := range doc.Lines {
		lines[i] = ComputeLine(in)
	}
	return DerivedState{
		Lines:   lines,
		Buckets: Aggregate(lines),
		Totals:  ComputeTotals(lines, doc.InvoiceDiscountPercent, doc.Payment.AmountReceived, doc.Payment.IsFullyPaid),
	}
}
