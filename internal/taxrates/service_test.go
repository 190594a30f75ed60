package taxrates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khata-erp/khata-erp/internal/shared"
)

type mockRepository struct {
	rates     []TaxRate
	listCalls int
	listError error
	nextID    int64
}

func (m *mockRepository) List(ctx context.Context) ([]TaxRate, error) {
	m.listCalls++
	if m.listError != nil {
		return nil, m.listError
	}
	return m.rates, nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (*TaxRate, error) {
	for i := range m.rates {
		if m.rates[i].ID == id {
			return &m.rates[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockRepository) Create(ctx context.Context, rate TaxRate) (int64, error) {
	m.nextID++
	rate.ID = m.nextID
	m.rates = append(m.rates, rate)
	return rate.ID, nil
}

func standardSlabs() []TaxRate {
	return []TaxRate{
		{ID: 1, Rate: "0", CessRate: "0", Description: "GST 0%"},
		{ID: 2, Rate: "5", CessRate: "0", Description: "GST 5%"},
		{ID: 3, Rate: "18", CessRate: "0", Description: "GST 18%"},
		{ID: 4, Rate: "28", CessRate: "12", Description: "GST 28% + Cess 12%"},
	}
}

func newTestService(t *testing.T, repo Repository) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewService(repo, client, time.Hour, nil), mr
}

func TestServiceListCachesInRedis(t *testing.T) {
	repo := &mockRepository{rates: standardSlabs()}
	svc, mr := newTestService(t, repo)

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 4)
	require.Equal(t, 1, repo.listCalls)
	assert.True(t, mr.Exists(cacheKey))

	// Second read is served from the cache.
	second, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.listCalls)
}

func TestServiceListSurvivesCacheExpiry(t *testing.T) {
	repo := &mockRepository{rates: standardSlabs()}
	svc, mr := newTestService(t, repo)

	_, err := svc.List(context.Background())
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}

func TestServiceGet(t *testing.T) {
	repo := &mockRepository{rates: standardSlabs()}
	svc, _ := newTestService(t, repo)

	rate, err := svc.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "GST 18%", rate.Description)

	_, err = svc.Get(context.Background(), 999)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestServiceResolve(t *testing.T) {
	repo := &mockRepository{rates: standardSlabs()}
	svc, _ := newTestService(t, repo)

	t.Run("known id parses string decimals", func(t *testing.T) {
		rate := svc.Resolve(context.Background(), 4)
		assert.InDelta(t, 28, rate.RatePercent, 1e-9)
		assert.InDelta(t, 12, rate.CessPercent, 1e-9)
	})

	t.Run("zero id is the unselected sentinel", func(t *testing.T) {
		rate := svc.Resolve(context.Background(), 0)
		assert.True(t, rate.IsZero())
		assert.Equal(t, "Select Tax", rate.Label())
	})

	t.Run("unknown id degrades to zero rate", func(t *testing.T) {
		rate := svc.Resolve(context.Background(), 999)
		assert.Zero(t, rate.RatePercent)
	})

	t.Run("repository failure degrades to zero rate", func(t *testing.T) {
		failing := &mockRepository{listError: errors.New("pg down")}
		svc, _ := newTestService(t, failing)
		rate := svc.Resolve(context.Background(), 3)
		assert.Zero(t, rate.RatePercent)
	})
}

func TestServiceCreateInvalidatesCache(t *testing.T) {
	repo := &mockRepository{rates: standardSlabs(), nextID: 4}
	svc, mr := newTestService(t, repo)

	_, err := svc.List(context.Background())
	require.NoError(t, err)
	require.True(t, mr.Exists(cacheKey))

	created, err := svc.Create(context.Background(), CreateTaxRateRequest{Rate: "12", Description: "GST 12%"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), created.ID)
	assert.False(t, mr.Exists(cacheKey))
}

func TestTaxRateToBilling(t *testing.T) {
	rate := TaxRate{ID: 3, Rate: "18", CessRate: " 5 ", Description: "GST 18%"}
	b := rate.ToBilling()
	assert.InDelta(t, 18, b.RatePercent, 1e-9)
	assert.InDelta(t, 5, b.CessPercent, 1e-9)

	// Malformed decimals degrade to zero instead of failing the line.
	bad := TaxRate{ID: 9, Rate: "eighteen", CessRate: ""}
	assert.Zero(t, bad.ToBilling().RatePercent)
	assert.Zero(t, bad.ToBilling().CessPercent)
}
