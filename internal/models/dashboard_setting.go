package models

import (
	"time"

	"gorm.io/datatypes"
)

// DashboardSetting is a key-value row backing per-dashboard persisted state,
// most notably the serialized filter state.
type DashboardSetting struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"`

	Key string `gorm:"type:varchar(120);not null;uniqueIndex"`

	// JSON value; the filter state blob lives here under filter.StorageKey.
	Value datatypes.JSON `gorm:"type:jsonb;not null"`

	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"type:timestamptz;autoUpdateTime;index"`
}

func (DashboardSetting) TableName() string {
	return "dashboard_settings"
}
