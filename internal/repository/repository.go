package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"dealdesk/internal/models"
)

type ListDealsParams struct {
	Limit  int
	Offset int

	Status   *string
	DealType *string
	School   *string
	Since    *time.Time

	OrderBy string
	Asc     *bool
}

type ListSnapshotsParams struct {
	Limit      int
	Offset     int
	RangeToken *string
	Since      *time.Time
}

// Repository is the persistence surface consumed by services and handlers.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Deals
	CreateDeal(ctx context.Context, item *models.Deal) error
	UpdateDeal(ctx context.Context, item *models.Deal) error
	DeleteDeal(ctx context.Context, id uint64) error
	GetDealByID(ctx context.Context, id uint64) (*models.Deal, error)
	ListDeals(ctx context.Context, params ListDealsParams) ([]models.Deal, error)
	CountDeals(ctx context.Context, params ListDealsParams) (int64, error)
	// AllDeals loads the full user-scoped deal set for the in-memory engine.
	AllDeals(ctx context.Context) ([]models.Deal, error)

	// Dashboard settings (durable key-value)
	GetSettingByKey(ctx context.Context, key string) (*models.DashboardSetting, error)
	UpsertSetting(ctx context.Context, item *models.DashboardSetting) error

	// Analytics snapshots
	InsertSnapshot(ctx context.Context, item *models.AnalyticsSnapshot) error
	ListSnapshots(ctx context.Context, params ListSnapshotsParams) ([]models.AnalyticsSnapshot, error)
}
