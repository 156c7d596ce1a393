package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"dealdesk/internal/record"
)

// Deal is a student-athlete deal row. Money-like values are stored as
// numeric to avoid float errors; the analytics boundary converts them.
type Deal struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	AthleteName  string `gorm:"type:varchar(200);index" json:"athlete_name"`
	BrandPartner string `gorm:"type:varchar(200);index" json:"brand_partner"`
	PayorName    string `gorm:"type:varchar(200)" json:"payor_name"`
	School       string `gorm:"type:varchar(200);index" json:"school"`
	Sport        string `gorm:"type:varchar(100)" json:"sport"`
	Description  string `gorm:"type:text" json:"description"`

	DealType string `gorm:"type:varchar(20);not null;index;default:'simple'" json:"deal_type"`
	Status   string `gorm:"type:varchar(20);not null;index;default:'draft'" json:"status"`

	FMV          decimal.Decimal `gorm:"type:numeric(30,10)" json:"fmv"`
	Compensation decimal.Decimal `gorm:"type:numeric(30,10)" json:"compensation"`

	ClearinghousePrediction string          `gorm:"type:varchar(50)" json:"clearinghouse_prediction"`
	ClearinghouseResult     string          `gorm:"type:varchar(50)" json:"clearinghouse_result"`
	ValuationPrediction     string          `gorm:"type:varchar(50)" json:"valuation_prediction"`
	ValuationRange          string          `gorm:"type:varchar(50)" json:"valuation_range"`
	ActualCompensation      decimal.Decimal `gorm:"type:numeric(30,10)" json:"actual_compensation"`

	// Metadata carries wizard-specific fields the engine does not interpret.
	Metadata datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (Deal) TableName() string {
	return "deals"
}

// Record converts the row to the semi-structured document the analytics and
// filter engines consume.
func (d Deal) Record() record.Raw {
	raw := record.Raw{
		"id":                       formatID(d.ID),
		"athlete_name":             d.AthleteName,
		"brand_partner":            d.BrandPartner,
		"payor_name":               d.PayorName,
		"school":                   d.School,
		"sport":                    d.Sport,
		"description":              d.Description,
		"deal_type":                d.DealType,
		"status":                   d.Status,
		"fmv":                      d.FMV.InexactFloat64(),
		"compensation":             d.Compensation.InexactFloat64(),
		"clearinghouse_prediction": d.ClearinghousePrediction,
		"clearinghouse_result":     d.ClearinghouseResult,
		"valuation_prediction":     d.ValuationPrediction,
		"valuation_range":          d.ValuationRange,
		"actual_compensation":      d.ActualCompensation.InexactFloat64(),
		"created_at":               d.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":               d.UpdatedAt.Format(time.RFC3339Nano),
	}
	if d.CreatedAt.IsZero() {
		raw["created_at"] = ""
	}
	if d.UpdatedAt.IsZero() {
		raw["updated_at"] = ""
	}
	return raw
}

func formatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// Records converts a result set in one pass.
func Records(deals []Deal) []record.Raw {
	out := make([]record.Raw, 0, len(deals))
	for _, d := range deals {
		out = append(out, d.Record())
	}
	return out
}
