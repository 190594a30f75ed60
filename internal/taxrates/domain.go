package taxrates

import (
	"strconv"
	"strings"

	"github.com/khata-erp/khata-erp/internal/billing"
)

// TaxRate is one GST rate record as served by the reference-data API. Rate
// and CessRate travel as string decimals on the wire; ToBilling parses them.
type TaxRate struct {
	ID          int64  `json:"id" db:"id"`
	Rate        string `json:"rate" db:"rate"`
	CessRate    string `json:"cess_rate" db:"cess_rate"`
	Description string `json:"description" db:"description"`
}

// ToBilling converts the wire record into the engine's numeric form. A
// malformed decimal degrades to 0 rather than failing the document.
func (r TaxRate) ToBilling() billing.TaxRate {
	return billing.TaxRate{
		ID:          r.ID,
		RatePercent: parseDecimal(r.Rate),
		CessPercent: parseDecimal(r.CessRate),
		Description: r.Description,
	}
}

func parseDecimal(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// CreateTaxRateRequest is the admin payload for adding a rate record.
type CreateTaxRateRequest struct {
	Rate        string `json:"rate" validate:"required,max=10"`
	CessRate    string `json:"cess_rate" validate:"omitempty,max=10"`
	Description string `json:"description" validate:"required,max=100"`
}
