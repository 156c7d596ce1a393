package record

import (
	"strings"
	"time"
)

// Raw is a deal record as it arrives from the web layer or the store: a JSON
// document with no guarantees about which fields are present or how they are
// typed. All reads of a Raw go through the coercion helpers in this package.
type Raw map[string]any

// Normalized is a deal record after safe coercion. Downstream engines
// (filtering, KPIs, series, breakdowns) consume only this type.
type Normalized struct {
	ID     string
	Status string
	// DealType is retained verbatim; an empty value means "simple" to the
	// breakdown engine but is kept empty here for equality filtering.
	DealType string

	CreatedAt time.Time
	CreatedOK bool
	UpdatedAt time.Time
	UpdatedOK bool

	FMV          float64
	Compensation float64

	ClearinghousePrediction string
	ClearinghouseResult     string
	ValuationPrediction     string
	ValuationRange          string
	ActualCompensation      float64

	School       string
	BrandPartner string
	PayorName    string
	AthleteName  string
	Description  string

	// Raw keeps the original document for path-based sorting and export.
	Raw Raw
}

// Normalize coerces a raw record into the safe typed shape. It never fails:
// malformed numeric fields become 0 and unparsable dates are flagged invalid.
func Normalize(raw Raw) Normalized {
	created, createdOK := SafeDate(raw["created_at"])
	updated, updatedOK := SafeDate(raw["updated_at"])
	return Normalized{
		ID:       str(raw["id"]),
		Status:   str(raw["status"]),
		DealType: str(raw["deal_type"]),

		CreatedAt: created,
		CreatedOK: createdOK,
		UpdatedAt: updated,
		UpdatedOK: updatedOK,

		FMV:          SafeNumber(raw["fmv"]),
		Compensation: SafeNumber(raw["compensation"]),

		ClearinghousePrediction: str(raw["clearinghouse_prediction"]),
		ClearinghouseResult:     str(raw["clearinghouse_result"]),
		ValuationPrediction:     str(raw["valuation_prediction"]),
		ValuationRange:          str(raw["valuation_range"]),
		ActualCompensation:      SafeNumber(raw["actual_compensation"]),

		School:       str(raw["school"]),
		BrandPartner: str(raw["brand_partner"]),
		PayorName:    str(raw["payor_name"]),
		AthleteName:  str(raw["athlete_name"]),
		Description:  str(raw["description"]),

		Raw: raw,
	}
}

// NormalizeAll normalizes a full record set. A nil input yields an empty slice.
func NormalizeAll(raws []Raw) []Normalized {
	out := make([]Normalized, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Normalize(raw))
	}
	return out
}

// Type returns the deal type with the documented fallback category.
func (n Normalized) Type() string {
	if strings.TrimSpace(n.DealType) == "" {
		return "simple"
	}
	return n.DealType
}

// Value returns the record's monetary amount: fmv, falling back to the
// generic compensation field when fmv is absent or zero.
func (n Normalized) Value() float64 {
	if n.FMV != 0 {
		return n.FMV
	}
	return n.Compensation
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
