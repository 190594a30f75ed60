package catalog

import (
	"context"
	"fmt"

	"github.com/khata-erp/khata-erp/internal/shared"
)

// Service provides business logic for catalog operations.
type Service struct {
	repo Repository
}

// NewService constructs a catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns one catalog entry.
func (s *Service) Get(ctx context.Context, id int64) (*Entry, error) {
	entry, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get catalog entry: %w", err)
	}
	return entry, nil
}

// GetMany loads the referenced entries in one round trip. Ids with no
// matching entry are simply absent from the result; the document layer
// degrades those lines to zero prices.
func (s *Service) GetMany(ctx context.Context, ids []int64) (map[int64]Entry, error) {
	if len(ids) == 0 {
		return map[int64]Entry{}, nil
	}
	entries, err := s.repo.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get catalog entries: %w", err)
	}
	return entries, nil
}

// List returns catalog entries with pagination.
func (s *Service) List(ctx context.Context, req ListEntriesRequest) ([]Entry, shared.Pagination, error) {
	entries, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("list catalog entries: %w", err)
	}
	return entries, shared.NewPagination(req.Page, req.PerPage, total), nil
}

// Create adds a catalog entry.
func (s *Service) Create(ctx context.Context, req CreateEntryRequest) (*Entry, error) {
	entry := Entry{
		Kind:                    req.Kind,
		Name:                    req.Name,
		SalesPriceWithTax:       req.SalesPriceWithTax,
		SalesPriceWithoutTax:    req.SalesPriceWithoutTax,
		PurchasePriceWithTax:    req.PurchasePriceWithTax,
		PurchasePriceWithoutTax: req.PurchasePriceWithoutTax,
		DefaultDiscountPercent:  req.DefaultDiscountPercent,
		DefaultTaxRateID:        req.DefaultTaxRateID,
		TaxFilingCode:           req.TaxFilingCode,
		IsActive:                true,
	}
	id, err := s.repo.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("create catalog entry: %w", err)
	}
	entry.ID = id
	return &entry, nil
}

// Update applies a partial update to a catalog entry.
func (s *Service) Update(ctx context.Context, id int64, req UpdateEntryRequest) (*Entry, error) {
	entry, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get catalog entry: %w", err)
	}

	if req.Name != nil {
		entry.Name = *req.Name
	}
	if req.SalesPriceWithTax != nil {
		entry.SalesPriceWithTax = *req.SalesPriceWithTax
	}
	if req.SalesPriceWithoutTax != nil {
		entry.SalesPriceWithoutTax = *req.SalesPriceWithoutTax
	}
	if req.PurchasePriceWithTax != nil {
		entry.PurchasePriceWithTax = *req.PurchasePriceWithTax
	}
	if req.PurchasePriceWithoutTax != nil {
		entry.PurchasePriceWithoutTax = *req.PurchasePriceWithoutTax
	}
	if req.DefaultDiscountPercent != nil {
		entry.DefaultDiscountPercent = *req.DefaultDiscountPercent
	}
	if req.DefaultTaxRateID != nil {
		entry.DefaultTaxRateID = *req.DefaultTaxRateID
	}
	if req.TaxFilingCode != nil {
		entry.TaxFilingCode = *req.TaxFilingCode
	}
	if req.IsActive != nil {
		entry.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, *entry); err != nil {
		return nil, fmt.Errorf("update catalog entry: %w", err)
	}
	return entry, nil
}
