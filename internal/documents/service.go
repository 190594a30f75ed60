package documents

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/khata-erp/khata-erp/internal/billing"
	"github.com/khata-erp/khata-erp/internal/catalog"
	"github.com/khata-erp/khata-erp/internal/observability"
	"github.com/khata-erp/khata-erp/internal/shared"
)

// CatalogSource supplies the catalog entries referenced by a document.
type CatalogSource interface {
	GetMany(ctx context.Context, ids []int64) (map[int64]catalog.Entry, error)
}

// RateSource resolves tax-rate ids into the engine's numeric form.
type RateSource interface {
	Resolve(ctx context.Context, id int64) billing.TaxRate
}

// StateSource supplies the business and party registration states.
type StateSource interface {
	States(ctx context.Context, partyID int64) (businessState, partyState string)
}

// Enqueuer hands successful mutations off to background work, currently the
// report snapshot refresh. A nil enqueuer is a no-op.
type Enqueuer interface {
	EnqueueReportRefresh(ctx context.Context) error
}

// Service owns the document lifecycle. Every mutation ends in a full billing
// recompute and a whole-state write; derived fields are never patched
// incrementally.
type Service struct {
	repo       Repository
	catalog    CatalogSource
	rates      RateSource
	states     StateSource
	comparator billing.StateComparator
	enqueuer   Enqueuer
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewService constructs a documents service.
func NewService(
	repo Repository,
	catalogSrc CatalogSource,
	rates RateSource,
	states StateSource,
	comparator billing.StateComparator,
	enqueuer Enqueuer,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:       repo,
		catalog:    catalogSrc,
		rates:      rates,
		states:     states,
		comparator: comparator,
		enqueuer:   enqueuer,
		metrics:    metrics,
		logger:     logger,
	}
}

// notifyMutation kicks off the background refresh after a persisted change.
// Failure to enqueue never fails the mutation itself.
func (s *Service) notifyMutation(ctx context.Context) {
	if s.enqueuer == nil {
		return
	}
	if err := s.enqueuer.EnqueueReportRefresh(ctx); err != nil && s.logger != nil {
		s.logger.Warn("enqueue report refresh", slog.String("error", err.Error()))
	}
}

// Get returns a document with its lines.
func (s *Service) Get(ctx context.Context, id int64) (*Document, error) {
	return s.repo.Get(ctx, id)
}

// List returns document headers with pagination.
func (s *Service) List(ctx context.Context, req ListDocumentsRequest) ([]Document, shared.Pagination, error) {
	docs, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("list documents: %w", err)
	}
	return docs, shared.NewPagination(req.Page, req.PerPage, total), nil
}

// Create opens a new document, expands the initial catalog selection into
// lines with the catalog defaults applied, and persists the fully-derived
// state.
func (s *Service) Create(ctx context.Context, req CreateDocumentRequest) (*Document, error) {
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown document kind %q", shared.ErrValidation, req.Kind)
	}

	doc := &Document{
		Kind:          req.Kind,
		PartyID:       req.PartyID,
		DocDate:       req.DocDate,
		PaymentMethod: req.PaymentMethod,
	}
	if err := s.appendSelections(ctx, doc, req.Lines); err != nil {
		return nil, err
	}
	if err := s.recompute(ctx, doc); err != nil {
		return nil, err
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		number, err := tx.NextNumber(ctx, doc.Kind)
		if err != nil {
			return err
		}
		doc.Number = number
		id, err := tx.CreateDocument(ctx, *doc)
		if err != nil {
			return err
		}
		doc.ID = id
		return tx.ReplaceLines(ctx, id, doc.Lines)
	})
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	s.notifyMutation(ctx)
	return doc, nil
}

// Delete removes a document and its lines.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.DeleteDocument(ctx, id)
	})
	if err != nil {
		return err
	}
	s.notifyMutation(ctx)
	return nil
}

// AddLines appends catalog selections to a document. Single-select and
// multi-select-with-quantity both land here with the same created shape.
func (s *Service) AddLines(ctx context.Context, id int64, req AddLinesRequest) (*Document, error) {
	return s.mutate(ctx, id, func(ctx context.Context, doc *Document) error {
		return s.appendSelections(ctx, doc, req.Lines)
	})
}

// UpdateLine edits one line's quantity, discount, or tax rate. Any edit
// re-derives every field of every line; there is no partial path.
func (s *Service) UpdateLine(ctx context.Context, id int64, uid uuid.UUID, req UpdateLineRequest) (*Document, error) {
	return s.mutate(ctx, id, func(ctx context.Context, doc *Document) error {
		line := findLine(doc, uid)
		if line == nil {
			return fmt.Errorf("%w: line %s", shared.ErrNotFound, uid)
		}
		if req.Quantity != nil {
			line.Quantity = *req.Quantity
		}
		if req.DiscountPercent != nil {
			line.DiscountPercent = *req.DiscountPercent
		}
		if req.TaxRateID != nil {
			line.TaxRateID = *req.TaxRateID
		}
		return nil
	})
}

// RemoveLine deletes one line from the document.
func (s *Service) RemoveLine(ctx context.Context, id int64, uid uuid.UUID) (*Document, error) {
	return s.mutate(ctx, id, func(ctx context.Context, doc *Document) error {
		for i := range doc.Lines {
			if doc.Lines[i].UID == uid {
				doc.Lines = append(doc.Lines[:i], doc.Lines[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: line %s", shared.ErrNotFound, uid)
	})
}

// SetDiscount sets the invoice-level discount percentage.
func (s *Service) SetDiscount(ctx context.Context, id int64, req SetDiscountRequest) (*Document, error) {
	return s.mutate(ctx, id, func(ctx context.Context, doc *Document) error {
		doc.DiscountPercent = req.DiscountPercent
		return nil
	})
}

// SetPayment records a received amount and payment method.
func (s *Service) SetPayment(ctx context.Context, id int64, req SetPaymentRequest) (*Document, error) {
	return s.mutate(ctx, id, func(ctx context.Context, doc *Document) error {
		doc.AmountReceived = req.AmountReceived
		if req.PaymentMethod != "" {
			doc.PaymentMethod = req.PaymentMethod
		}
		return nil
	})
}

// SetFullyPaid toggles the fully-paid flag. Turning it on captures the grand
// total of that moment as the received amount; turning it off resets the
// received amount to zero. The capture is one-shot: later line edits do not
// re-sync the received amount while the flag stays on.
func (s *Service) SetFullyPaid(ctx context.Context, id int64, req SetFullyPaidRequest) (*Document, error) {
	return s.mutate(ctx, id, func(ctx context.Context, doc *Document) error {
		payment := billing.Payment{AmountReceived: doc.AmountReceived, IsFullyPaid: doc.IsFullyPaid}
		payment.SetFullyPaid(req.IsFullyPaid, doc.GrandTotal)
		doc.AmountReceived = payment.AmountReceived
		doc.IsFullyPaid = payment.IsFullyPaid
		return nil
	})
}

// mutate loads the document, applies the edit, recomputes the whole derived
// state, and writes it back in one transaction.
func (s *Service) mutate(ctx context.Context, id int64, edit func(context.Context, *Document) error) (*Document, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if err := edit(ctx, doc); err != nil {
		return nil, err
	}
	if err := s.recompute(ctx, doc); err != nil {
		return nil, err
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.UpdateHeader(ctx, *doc); err != nil {
			return err
		}
		return tx.ReplaceLines(ctx, doc.ID, doc.Lines)
	})
	if err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	s.notifyMutation(ctx)
	return doc, nil
}

// appendSelections expands catalog selections into lines, applying each
// entry's default discount and default tax rate. A selection referencing an
// unknown catalog id is skipped; the rest of the document still computes.
func (s *Service) appendSelections(ctx context.Context, doc *Document, selections []NewLine) error {
	if len(selections) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(selections))
	for _, sel := range selections {
		ids = append(ids, sel.CatalogID)
	}
	entries, err := s.catalog.GetMany(ctx, ids)
	if err != nil {
		return fmt.Errorf("load catalog entries: %w", err)
	}

	for _, sel := range selections {
		entry, ok := entries[sel.CatalogID]
		if !ok {
			if s.logger != nil {
				s.logger.Warn("unknown catalog entry on selection",
					slog.Int64("catalog_id", sel.CatalogID), slog.String("kind", string(doc.Kind)))
			}
			continue
		}
		doc.Lines = append(doc.Lines, Line{
			UID:             uuid.New(),
			DocumentID:      doc.ID,
			CatalogID:       sel.CatalogID,
			Quantity:        sel.Quantity,
			DiscountPercent: entry.DefaultDiscountPercent,
			TaxRateID:       entry.DefaultTaxRateID,
			PriceMode:       defaultPriceMode(entry, doc.Kind.PriceSide()),
		})
	}
	return nil
}

// defaultPriceMode picks the mode a new line starts in: exclusive pricing
// when the catalog carries a without-tax price for the document's side,
// inclusive otherwise.
func defaultPriceMode(entry catalog.Entry, side catalog.PriceSide) billing.PriceMode {
	src := entry.PriceSource(side)
	if src.PriceWithoutTax == 0 && src.PriceWithTax != 0 {
		return billing.PriceWithTax
	}
	return billing.PriceWithoutTax
}

// recompute runs the billing engine over the whole document and copies the
// derived state back onto it.
func (s *Service) recompute(ctx context.Context, doc *Document) error {
	ids := make([]int64, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		ids = append(ids, l.CatalogID)
	}
	entries, err := s.catalog.GetMany(ctx, ids)
	if err != nil {
		return fmt.Errorf("load catalog entries: %w", err)
	}

	businessState, partyState := s.states.States(ctx, doc.PartyID)
	intraState := s.comparator.IsIntraState(businessState, partyState)
	side := doc.Kind.PriceSide()

	state := billing.DocumentState{
		InvoiceDiscountPercent: doc.DiscountPercent,
		Payment:                billing.Payment{AmountReceived: doc.AmountReceived, IsFullyPaid: doc.IsFullyPaid},
	}
	rates := make([]billing.TaxRate, len(doc.Lines))
	for i, l := range doc.Lines {
		// A missing entry degrades to zero prices rather than failing.
		entry := entries[l.CatalogID]
		rates[i] = s.rates.Resolve(ctx, l.TaxRateID)
		state.Lines = append(state.Lines, billing.LineInput{
			UID:             l.UID.String(),
			CatalogID:       l.CatalogID,
			Prices:          entry.PriceSource(side),
			Quantity:        l.Quantity,
			DiscountPercent: l.DiscountPercent,
			Rate:            rates[i],
			Mode:            l.PriceMode,
			IntraState:      intraState,
		})
	}

	derived := billing.Recompute(state)
	for i := range doc.Lines {
		item := derived.Lines[i]
		doc.Lines[i].Quantity = item.Quantity
		doc.Lines[i].DiscountPercent = item.DiscountPercent
		doc.Lines[i].UnitPrice = item.UnitPrice
		doc.Lines[i].TaxPerUnit = item.TaxPerUnit
		doc.Lines[i].CessPerUnit = item.CessPerUnit
		doc.Lines[i].SGST = item.SGST
		doc.Lines[i].CGST = item.CGST
		doc.Lines[i].IGST = item.IGST
		doc.Lines[i].LineTotal = item.LineTotal
		doc.Lines[i].TaxLabel = rates[i].Label()
	}
	doc.TaxableAmount = derived.Totals.TaxableAmount
	doc.TotalTax = derived.Totals.TotalTax
	doc.GrandTotal = derived.Totals.GrandTotal
	doc.BalanceDue = derived.Totals.BalanceDue

	s.metrics.ObserveRecompute(string(doc.Kind))
	return nil
}

func findLine(doc *Document, uid uuid.UUID) *Line {
	for i := range doc.Lines {
		if doc.Lines[i].UID == uid {
			return &doc.Lines[i]
		}
	}
	return nil
}
