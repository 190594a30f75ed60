package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTaxIntraState(t *testing.T) {
	rate := TaxRate{ID: 3, RatePercent: 18, Description: "GST 18%"}

	b := ResolveTax(1000, rate, true)
	require.InDelta(t, 180, b.TaxPerUnit, tolerance)
	assert.InDelta(t, 90, b.SGST, tolerance)
	assert.InDelta(t, 90, b.CGST, tolerance)
	assert.Zero(t, b.IGST)
	assert.Zero(t, b.CessPerUnit)
}

func TestResolveTaxInterState(t *testing.T) {
	rate := TaxRate{ID: 3, RatePercent: 18, Description: "GST 18%"}

	b := ResolveTax(1000, rate, false)
	require.InDelta(t, 180, b.TaxPerUnit, tolerance)
	assert.InDelta(t, 180, b.IGST, tolerance)
	assert.Zero(t, b.SGST)
	assert.Zero(t, b.CGST)
}

func TestResolveTaxCess(t *testing.T) {
	rate := TaxRate{ID: 9, RatePercent: 28, CessPercent: 12, Description: "GST 28% + Cess 12%"}

	b := ResolveTax(100, rate, true)
	assert.InDelta(t, 28, b.TaxPerUnit, tolerance)
	assert.InDelta(t, 12, b.CessPerUnit, tolerance)
	// Cess is never part of the SGST/CGST/IGST split.
	assert.InDelta(t, 14, b.SGST, tolerance)
	assert.InDelta(t, 14, b.CGST, tolerance)
}

func TestResolveTaxUnselectedRate(t *testing.T) {
	b := ResolveTax(1000, TaxRate{}, true)
	assert.Zero(t, b.TaxPerUnit)
	assert.Zero(t, b.CessPerUnit)
	assert.Zero(t, b.SGST)
	assert.Zero(t, b.CGST)
	assert.Zero(t, b.IGST)
}

func TestTaxRateLabel(t *testing.T) {
	assert.Equal(t, SelectTaxLabel, TaxRate{}.Label())
	assert.Equal(t, "GST 18%", TaxRate{ID: 3, RatePercent: 18, Description: "GST 18%"}.Label())
	assert.True(t, TaxRate{}.IsZero())
	assert.False(t, TaxRate{ID: 1}.IsZero())
}
