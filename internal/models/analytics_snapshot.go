package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// AnalyticsSnapshot is a periodic capture of the KPI overview, written by
// the snapshot cron job so trend history survives deal edits.
type AnalyticsSnapshot struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	RangeToken string `gorm:"type:varchar(10);not null;index" json:"range_token"`

	TotalDeals     int             `gorm:"not null" json:"total_deals"`
	TotalValue     decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"total_value"`
	ActiveDeals    int             `gorm:"not null" json:"active_deals"`
	CompletedDeals int             `gorm:"not null" json:"completed_deals"`
	DraftDeals     int             `gorm:"not null" json:"draft_deals"`
	AvgDealValue   decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"avg_deal_value"`
	CompletionRate float64         `gorm:"not null" json:"completion_rate"`

	// Payload holds the full comprehensive report for later export.
	Payload datatypes.JSON `gorm:"type:jsonb" json:"payload,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index" json:"created_at"`
}

func (AnalyticsSnapshot) TableName() string {
	return "analytics_snapshots"
}
