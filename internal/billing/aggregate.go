package billing

import "strconv"

// TaxBucket accumulates the tax amounts of all lines sharing one nominal GST
// rate, for the totals panel and rate-wise reports.
type TaxBucket struct {
	RatePercent float64
	// CessPercent is the cess rate of whichever line was aggregated last
	// into this bucket. Two lines at the same GST rate but different cess
	// rates land in the same bucket: the summed CessAmount stays correct
	// but this display rate reflects only the last line.
	CessPercent float64
	SGST        float64
	CGST        float64
	IGST        float64
	CessAmount  float64
}

// BucketKey returns the aggregation key for a GST rate percent. The key is
// the nominal rate alone, not the (rate, cess) pair.
func BucketKey(ratePercent float64) string {
	return strconv.FormatFloat(ratePercent, 'f', -1, 64)
}

// Aggregate groups line items by nominal GST rate and sums the per-unit
// split amounts scaled by quantity.
func Aggregate(lines []LineItem) map[string]TaxBucket {
	buckets := make(map[string]TaxBucket, len(lines))
	for _, line := range lines {
		key := BucketKey(line.Rate.RatePercent)
		qty := float64(line.Quantity)
		b := buckets[key]
		b.RatePercent = line.Rate.RatePercent
		b.CessPercent = line.Rate.CessPercent
		b.SGST += line.SGST * qty
		b.CGST += line.CGST * qty
		b.IGST += line.IGST * qty
		b.CessAmount += line.CessPerUnit * qty
		buckets[key] = b
	}
	return buckets
}
