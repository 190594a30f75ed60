package taxrates

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/khata-erp/khata-erp/internal/billing"
)

const cacheKey = "taxrates:all"

// Service serves the tax-rate reference data. Rates are fetched once per
// document session, so reads go through a Redis cache with a bounded TTL;
// writes invalidate it.
type Service struct {
	repo   Repository
	cache  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewService constructs a tax-rate service.
func NewService(repo Repository, cache *redis.Client, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// List returns all tax rate records, preferring the cache. A cache failure
// falls through to Postgres; reference data must stay readable.
func (s *Service) List(ctx context.Context) ([]TaxRate, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var rates []TaxRate
			if err := json.Unmarshal(raw, &rates); err == nil {
				return rates, nil
			}
		}
	}

	rates, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tax rates: %w", err)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(rates); err == nil {
			if err := s.cache.Set(ctx, cacheKey, raw, s.ttl).Err(); err != nil && s.logger != nil {
				s.logger.Warn("cache tax rates", slog.Any("error", err))
			}
		}
	}
	return rates, nil
}

// Get returns a single rate record by id.
func (s *Service) Get(ctx context.Context, id int64) (*TaxRate, error) {
	return s.repo.Get(ctx, id)
}

// Resolve maps a rate id to the engine's numeric form. An unknown or zero id
// resolves to the unselected sentinel (0% GST, 0% cess), never an error: a
// missing rate must not block entry of the rest of the document.
func (s *Service) Resolve(ctx context.Context, id int64) billing.TaxRate {
	if id == 0 {
		return billing.TaxRate{}
	}
	rates, err := s.List(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("resolve tax rate", slog.Int64("id", id), slog.Any("error", err))
		}
		return billing.TaxRate{}
	}
	for _, rate := range rates {
		if rate.ID == id {
			return rate.ToBilling()
		}
	}
	return billing.TaxRate{}
}

// Create stores a new rate record and drops the cache.
func (s *Service) Create(ctx context.Context, req CreateTaxRateRequest) (*TaxRate, error) {
	rate := TaxRate{Rate: req.Rate, CessRate: req.CessRate, Description: req.Description}
	id, err := s.repo.Create(ctx, rate)
	if err != nil {
		return nil, fmt.Errorf("create tax rate: %w", err)
	}
	rate.ID = id

	if s.cache != nil {
		if err := s.cache.Del(ctx, cacheKey).Err(); err != nil && s.logger != nil {
			s.logger.Warn("invalidate tax rate cache", slog.Any("error", err))
		}
	}
	return &rate, nil
}
