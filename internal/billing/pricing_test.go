package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func TestNormalizeUnitPrice(t *testing.T) {
	gst18 := TaxRate{ID: 3, RatePercent: 18, Description: "GST 18%"}

	tests := []struct {
		name string
		src  PriceSource
		mode PriceMode
		rate TaxRate
		want float64
	}{
		{
			name: "without tax uses exclusive price",
			src:  PriceSource{PriceWithoutTax: 1000, PriceWithTax: 1180},
			mode: PriceWithoutTax,
			rate: gst18,
			want: 1000,
		},
		{
			name: "without tax falls back to inclusive price",
			src:  PriceSource{PriceWithTax: 1180},
			mode: PriceWithoutTax,
			rate: gst18,
			want: 1180,
		},
		{
			name: "without tax degrades to zero",
			src:  PriceSource{},
			mode: PriceWithoutTax,
			rate: gst18,
			want: 0,
		},
		{
			name: "with tax inverts the inclusive price",
			src:  PriceSource{PriceWithTax: 1180},
			mode: PriceWithTax,
			rate: gst18,
			want: 1000,
		},
		{
			name: "with tax includes cess in the divisor",
			src:  PriceSource{PriceWithTax: 1230},
			mode: PriceWithTax,
			rate: TaxRate{ID: 7, RatePercent: 18, CessPercent: 5},
			want: 1000,
		},
		{
			name: "with tax and no rate selected returns the inclusive price",
			src:  PriceSource{PriceWithTax: 500},
			mode: PriceWithTax,
			rate: TaxRate{},
			want: 500,
		},
		{
			name: "with tax and absent price degrades to zero",
			src:  PriceSource{},
			mode: PriceWithTax,
			rate: gst18,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeUnitPrice(tt.src, tt.mode, tt.rate)
			assert.InDelta(t, tt.want, got, tolerance)
		})
	}
}

func TestApplyDiscountWithoutTaxMode(t *testing.T) {
	rate := TaxRate{ID: 3, RatePercent: 18}
	src := PriceSource{PriceWithoutTax: 1000}

	// Tax is grossed up first, discount applies to the tax-inclusive total.
	got := ApplyDiscount(PriceWithoutTax, 1000, src, rate, 2, 10)
	require.InDelta(t, 2124.00, got, tolerance)

	t.Run("zero discount keeps the grossed amount", func(t *testing.T) {
		got := ApplyDiscount(PriceWithoutTax, 1000, src, rate, 2, 0)
		assert.InDelta(t, 2360.00, got, tolerance)
	})

	t.Run("full discount zeroes the line", func(t *testing.T) {
		got := ApplyDiscount(PriceWithoutTax, 1000, src, rate, 2, 100)
		assert.InDelta(t, 0, got, tolerance)
	})

	t.Run("cess is part of the grossed amount", func(t *testing.T) {
		withCess := TaxRate{ID: 7, RatePercent: 18, CessPercent: 5}
		got := ApplyDiscount(PriceWithoutTax, 1000, PriceSource{PriceWithoutTax: 1000}, withCess, 1, 0)
		assert.InDelta(t, 1230.00, got, tolerance)
	})
}

func TestApplyDiscountWithTaxMode(t *testing.T) {
	rate := TaxRate{ID: 3, RatePercent: 18}
	src := PriceSource{PriceWithTax: 1180}
	unitPrice := NormalizeUnitPrice(src, PriceWithTax, rate)

	// The inclusive catalog price is used directly; tax is never re-derived
	// from the normalized exclusive price.
	got := ApplyDiscount(PriceWithTax, unitPrice, src, rate, 2, 10)
	assert.InDelta(t, 2124.00, got, tolerance)
}

func TestApplyDiscountQuantityAndDiscountCoercion(t *testing.T) {
	rate := TaxRate{ID: 3, RatePercent: 18}
	src := PriceSource{PriceWithoutTax: 100}

	t.Run("unentered quantity computes as one unit", func(t *testing.T) {
		got := ApplyDiscount(PriceWithoutTax, 100, src, rate, 0, 0)
		assert.InDelta(t, 118.00, got, tolerance)
	})

	t.Run("negative discount coerces to zero", func(t *testing.T) {
		got := ApplyDiscount(PriceWithoutTax, 100, src, rate, 1, -5)
		assert.InDelta(t, 118.00, got, tolerance)
	})

	t.Run("discount above hundred caps at hundred", func(t *testing.T) {
		got := ApplyDiscount(PriceWithoutTax, 100, src, rate, 1, 150)
		assert.InDelta(t, 0, got, tolerance)
	})
}
