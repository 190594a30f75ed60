package gstreports

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteRateWiseCSV serialises the rate-wise summary in the shape GST filings
// expect.
func WriteRateWiseCSV(w io.Writer, summary RateWiseSummary) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{
		"Rate %", "Cess %", "Taxable Amount", "SGST", "CGST", "IGST", "Cess", "Total Tax",
	}); err != nil {
		return err
	}
	for _, row := range summary.Rows {
		if err := writer.Write([]string{
			formatFloat(row.RatePercent),
			formatFloat(row.CessPercent),
			formatFloat(row.TaxableAmount),
			formatFloat(row.SGST),
			formatFloat(row.CGST),
			formatFloat(row.IGST),
			formatFloat(row.CessAmount),
			formatFloat(row.TotalTax),
		}); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{
		"Total", "", formatFloat(summary.TaxableAmount), "", "", "", "", formatFloat(summary.TotalTax),
	}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// WriteFilingCodeCSV serialises the HSN/SAC summary.
func WriteFilingCodeCSV(w io.Writer, summary FilingCodeSummary) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"HSN/SAC", "Quantity", "Taxable Amount", "Total Tax"}); err != nil {
		return err
	}
	for _, row := range summary.Rows {
		if err := writer.Write([]string{
			row.FilingCode,
			strconv.Itoa(row.Quantity),
			formatFloat(row.TaxableAmount),
			formatFloat(row.TotalTax),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
