package gstreports

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepository struct {
	facts []LineFact
	calls int
	err   error
}

func (m *mockRepository) LineFacts(ctx context.Context, from, to time.Time, kind string) ([]LineFact, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	var out []LineFact
	for _, f := range m.facts {
		if kind != "" && string(f.Kind) != kind {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func newTestService(t *testing.T, repo *mockRepository) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(repo, NewCache(client, time.Minute), nil)
}

func window() SummaryRequest {
	return SummaryRequest{
		From: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC),
	}
}

// gst18 is a 1000-exclusive line at 18% GST, discounted 10%, qty 2, one
// state split half-half.
func gst18(docID int64) LineFact {
	return LineFact{
		DocumentID:      docID,
		Kind:            "SALES_INVOICE",
		Quantity:        2,
		UnitPrice:       1000,
		DiscountPercent: 10,
		RatePercent:     18,
		TaxPerUnit:      180,
		SGST:            90,
		CGST:            90,
		LineTotal:       2124,
	}
}

// ============================================================================
// TESTS
// ============================================================================

func TestRateWiseGroupsByNominalRate(t *testing.T) {
	repo := &mockRepository{facts: []LineFact{
		gst18(1),
		gst18(2),
		{
			DocumentID:  3,
			Kind:        "SALES_INVOICE",
			Quantity:    1,
			UnitPrice:   500,
			RatePercent: 5,
			TaxPerUnit:  25,
			IGST:        25,
			LineTotal:   525,
		},
	}}
	svc := newTestService(t, repo)

	summary, err := svc.RateWise(context.Background(), window())
	require.NoError(t, err)
	require.Len(t, summary.Rows, 2)
	assert.Equal(t, 3, summary.DocumentCount)

	five, eighteen := summary.Rows[0], summary.Rows[1]
	assert.InDelta(t, 5, five.RatePercent, tolerance)
	assert.InDelta(t, 25, five.IGST, tolerance)
	assert.InDelta(t, 500, five.TaxableAmount, tolerance)

	assert.InDelta(t, 18, eighteen.RatePercent, tolerance)
	assert.InDelta(t, 360, eighteen.SGST, tolerance)
	assert.InDelta(t, 360, eighteen.CGST, tolerance)
	assert.InDelta(t, 3600, eighteen.TaxableAmount, tolerance)
	assert.InDelta(t, 720, eighteen.TotalTax, tolerance)

	assert.InDelta(t, 745, summary.TotalTax, tolerance)
}

// Lines at the same GST rate but different cess rates share one bucket; the
// summed cess stays correct while the displayed cess rate is last-seen.
func TestRateWiseCessCollision(t *testing.T) {
	repo := &mockRepository{facts: []LineFact{
		{DocumentID: 1, Quantity: 1, UnitPrice: 1000, RatePercent: 28, CessPercent: 12,
			TaxPerUnit: 280, CessPerUnit: 120, SGST: 140, CGST: 140},
		{DocumentID: 1, Quantity: 1, UnitPrice: 1000, RatePercent: 28,
			TaxPerUnit: 280, SGST: 140, CGST: 140},
	}}
	svc := newTestService(t, repo)

	summary, err := svc.RateWise(context.Background(), window())
	require.NoError(t, err)
	require.Len(t, summary.Rows, 1)

	row := summary.Rows[0]
	assert.InDelta(t, 120, row.CessAmount, tolerance)
	assert.Zero(t, row.CessPercent)
	assert.InDelta(t, 680, row.TotalTax, tolerance)
}

func TestRateWiseIndianDigitGrouping(t *testing.T) {
	repo := &mockRepository{facts: []LineFact{
		{DocumentID: 1, Quantity: 1, UnitPrice: 655555.56, RatePercent: 18,
			TaxPerUnit: 118000, SGST: 59000, CGST: 59000},
	}}
	svc := newTestService(t, repo)

	summary, err := svc.RateWise(context.Background(), window())
	require.NoError(t, err)
	require.Len(t, summary.Rows, 1)
	assert.Equal(t, "1,18,000.00", summary.Rows[0].Display)
	assert.Equal(t, "1,18,000.00", summary.TotalDisplay)
}

func TestRateWiseCachesSnapshot(t *testing.T) {
	repo := &mockRepository{facts: []LineFact{gst18(1)}}
	svc := newTestService(t, repo)

	first, err := svc.RateWise(context.Background(), window())
	require.NoError(t, err)
	second, err := svc.RateWise(context.Background(), window())
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls)
	assert.InDelta(t, first.TotalTax, second.TotalTax, tolerance)
}

func TestInvalidateRetiresSnapshot(t *testing.T) {
	repo := &mockRepository{facts: []LineFact{gst18(1)}}
	svc := newTestService(t, repo)

	_, err := svc.RateWise(context.Background(), window())
	require.NoError(t, err)

	svc.Invalidate(context.Background())
	repo.facts = append(repo.facts, gst18(2))

	summary, err := svc.RateWise(context.Background(), window())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
	assert.InDelta(t, 720, summary.TotalTax, tolerance)
}

func TestRateWiseRepositoryFailure(t *testing.T) {
	repo := &mockRepository{err: errors.New("connection refused")}
	svc := newTestService(t, repo)

	_, err := svc.RateWise(context.Background(), window())
	assert.Error(t, err)
}

func TestFilingCodesGroupsByCode(t *testing.T) {
	steel := gst18(1)
	steel.FilingCode = "7214"
	more := gst18(2)
	more.FilingCode = "7214"
	transport := LineFact{
		DocumentID: 3, Kind: "SALES_INVOICE", Quantity: 1, UnitPrice: 1000,
		RatePercent: 18, TaxPerUnit: 180, SGST: 90, CGST: 90, FilingCode: "9965",
	}
	uncoded := LineFact{DocumentID: 4, Quantity: 1, UnitPrice: 100}

	svc := newTestService(t, &mockRepository{facts: []LineFact{steel, more, transport, uncoded}})

	summary, err := svc.FilingCodes(context.Background(), window())
	require.NoError(t, err)
	require.Len(t, summary.Rows, 3)

	// Sorted by code, empty first.
	assert.Equal(t, "", summary.Rows[0].FilingCode)
	assert.Equal(t, "7214", summary.Rows[1].FilingCode)
	assert.Equal(t, 4, summary.Rows[1].Quantity)
	assert.InDelta(t, 3600, summary.Rows[1].TaxableAmount, tolerance)
	assert.InDelta(t, 720, summary.Rows[1].TotalTax, tolerance)
	assert.Equal(t, "9965", summary.Rows[2].FilingCode)
}

// Quantity zero means not yet entered and still counts as one unit.
func TestZeroQuantityCountsAsOne(t *testing.T) {
	fact := gst18(1)
	fact.Quantity = 0
	svc := newTestService(t, &mockRepository{facts: []LineFact{fact}})

	summary, err := svc.RateWise(context.Background(), window())
	require.NoError(t, err)
	require.Len(t, summary.Rows, 1)
	assert.InDelta(t, 900, summary.Rows[0].TaxableAmount, tolerance)
	assert.InDelta(t, 90, summary.Rows[0].SGST, tolerance)
	assert.InDelta(t, 90, summary.Rows[0].CGST, tolerance)
}

func TestKindFilterNarrowsFacts(t *testing.T) {
	sale := gst18(1)
	purchase := gst18(2)
	purchase.Kind = "PURCHASE_ORDER"
	svc := newTestService(t, &mockRepository{facts: []LineFact{sale, purchase}})

	req := window()
	req.Kind = "PURCHASE_ORDER"
	summary, err := svc.RateWise(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.DocumentCount)
	assert.Equal(t, "PURCHASE_ORDER", summary.Kind)
}

func TestWriteRateWiseCSV(t *testing.T) {
	svc := newTestService(t, &mockRepository{facts: []LineFact{gst18(1)}})
	summary, err := svc.RateWise(context.Background(), window())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteRateWiseCSV(&buf, *summary))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Rate %,Cess %,Taxable Amount,SGST,CGST,IGST,Cess,Total Tax", lines[0])
	assert.Equal(t, "18.00,0.00,1800.00,180.00,180.00,0.00,0.00,360.00", lines[1])
	assert.Contains(t, lines[2], "Total")
}

func TestWriteFilingCodeCSV(t *testing.T) {
	fact := gst18(1)
	fact.FilingCode = "7214"
	svc := newTestService(t, &mockRepository{facts: []LineFact{fact}})
	summary, err := svc.FilingCodes(context.Background(), window())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteFilingCodeCSV(&buf, *summary))
	assert.Contains(t, buf.String(), "7214,2,1800.00,360.00")
}
