package gstreports

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/singleflight"

	"github.com/khata-erp/khata-erp/internal/billing"
)

// Service builds GST summaries from persisted document lines. Concurrent
// cache misses for the same report window collapse into one computation.
type Service struct {
	repo   Repository
	cache  *Cache
	group  singleflight.Group
	logger *slog.Logger
}

// NewService wires the report repository with the snapshot cache.
func NewService(repo Repository, cache *Cache, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

// Invalidate retires all cached report snapshots. The documents service calls
// this after every mutation; the worker re-warms the common windows.
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil && s.logger != nil {
		s.logger.Warn("report cache bump failed", slog.String("error", err.Error()))
	}
}

// RateWise returns the rate-wise tax summary for the window.
func (s *Service) RateWise(ctx context.Context, req SummaryRequest) (*RateWiseSummary, error) {
	key, err := s.cache.Key(ctx, "gstreports", "ratewise", windowToken(req))
	if err != nil {
		return nil, fmt.Errorf("report cache key: %w", err)
	}
	var summary RateWiseSummary
	err = s.cache.FetchJSON(ctx, key, &summary, func(ctx context.Context) (any, error) {
		return s.load(ctx, key, req, func(facts []LineFact) any {
			return buildRateWise(req, facts)
		})
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// FilingCodes returns the HSN/SAC summary for the window.
func (s *Service) FilingCodes(ctx context.Context, req SummaryRequest) (*FilingCodeSummary, error) {
	key, err := s.cache.Key(ctx, "gstreports", "filingcodes", windowToken(req))
	if err != nil {
		return nil, fmt.Errorf("report cache key: %w", err)
	}
	var summary FilingCodeSummary
	err = s.cache.FetchJSON(ctx, key, &summary, func(ctx context.Context) (any, error) {
		return s.load(ctx, key, req, func(facts []LineFact) any {
			return buildFilingCodes(req, facts)
		})
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// load funnels concurrent builds of one report key through a single
// repository read.
func (s *Service) load(ctx context.Context, key string, req SummaryRequest, build func([]LineFact) any) (any, error) {
	result := s.group.DoChan(key, func() (any, error) {
		facts, err := s.repo.LineFacts(ctx, req.From, req.To, req.Kind)
		if err != nil {
			return nil, fmt.Errorf("load report facts: %w", err)
		}
		return build(facts), nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-result:
		return res.Val, res.Err
	}
}

func windowToken(req SummaryRequest) string {
	kind := req.Kind
	if kind == "" {
		kind = "-"
	}
	return fmt.Sprintf("%s:%s:%s",
		req.From.Format("2006-01-02"), req.To.Format("2006-01-02"), kind)
}

func buildRateWise(req SummaryRequest, facts []LineFact) *RateWiseSummary {
	lines := make([]billing.LineItem, 0, len(facts))
	taxableByKey := make(map[string]float64, len(facts))
	docs := make(map[int64]struct{}, len(facts))
	for _, f := range facts {
		lines = append(lines, billing.LineItem{
			Quantity:    effectiveQuantity(f.Quantity),
			Rate:        billing.TaxRate{RatePercent: f.RatePercent, CessPercent: f.CessPercent},
			CessPerUnit: f.CessPerUnit,
			SGST:        f.SGST,
			CGST:        f.CGST,
			IGST:        f.IGST,
		})
		taxableByKey[billing.BucketKey(f.RatePercent)] += f.taxableValue()
		docs[f.DocumentID] = struct{}{}
	}

	summary := &RateWiseSummary{
		From:          req.From,
		To:            req.To,
		Kind:          req.Kind,
		DocumentCount: len(docs),
	}
	for key, bucket := range billing.Aggregate(lines) {
		totalTax := bucket.SGST + bucket.CGST + bucket.IGST + bucket.CessAmount
		row := RateRow{
			RatePercent:   bucket.RatePercent,
			CessPercent:   bucket.CessPercent,
			TaxableAmount: taxableByKey[key],
			SGST:          bucket.SGST,
			CGST:          bucket.CGST,
			IGST:          bucket.IGST,
			CessAmount:    bucket.CessAmount,
			TotalTax:      totalTax,
			Display:       FormatAmount(totalTax),
		}
		summary.Rows = append(summary.Rows, row)
		summary.TaxableAmount += row.TaxableAmount
		summary.TotalTax += row.TotalTax
	}
	sort.Slice(summary.Rows, func(i, j int) bool {
		return summary.Rows[i].RatePercent < summary.Rows[j].RatePercent
	})
	summary.TotalDisplay = FormatAmount(summary.TotalTax)
	return summary
}

func buildFilingCodes(req SummaryRequest, facts []LineFact) *FilingCodeSummary {
	byCode := make(map[string]FilingCodeRow, len(facts))
	for _, f := range facts {
		qty := effectiveQuantity(f.Quantity)
		row := byCode[f.FilingCode]
		row.FilingCode = f.FilingCode
		row.Quantity += qty
		row.TaxableAmount += f.taxableValue()
		row.TotalTax += (f.TaxPerUnit + f.CessPerUnit) * float64(qty)
		byCode[f.FilingCode] = row
	}

	summary := &FilingCodeSummary{From: req.From, To: req.To, Kind: req.Kind}
	for _, row := range byCode {
		row.Display = FormatAmount(row.TotalTax)
		summary.Rows = append(summary.Rows, row)
		summary.TaxableAmount += row.TaxableAmount
		summary.TotalTax += row.TotalTax
	}
	sort.Slice(summary.Rows, func(i, j int) bool {
		return summary.Rows[i].FilingCode < summary.Rows[j].FilingCode
	})
	return summary
}
