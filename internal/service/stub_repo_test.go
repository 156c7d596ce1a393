package service

import (
	"context"

	"gorm.io/gorm"

	"dealdesk/internal/models"
	"dealdesk/internal/repository"
)

// stubRepo is an in-memory Repository for service tests.
type stubRepo struct {
	deals     []models.Deal
	settings  map[string]models.DashboardSetting
	snapshots []models.AnalyticsSnapshot
	nextID    uint64
}

func newStubRepo(deals ...models.Deal) *stubRepo {
	r := &stubRepo{settings: map[string]models.DashboardSetting{}}
	for _, d := range deals {
		d := d
		_ = r.CreateDeal(context.Background(), &d)
	}
	return r
}

func (r *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (r *stubRepo) CreateDeal(ctx context.Context, item *models.Deal) error {
	r.nextID++
	item.ID = r.nextID
	r.deals = append(r.deals, *item)
	return nil
}

func (r *stubRepo) UpdateDeal(ctx context.Context, item *models.Deal) error {
	for i := range r.deals {
		if r.deals[i].ID == item.ID {
			r.deals[i] = *item
			return nil
		}
	}
	return nil
}

func (r *stubRepo) DeleteDeal(ctx context.Context, id uint64) error {
	out := r.deals[:0]
	for _, d := range r.deals {
		if d.ID != id {
			out = append(out, d)
		}
	}
	r.deals = out
	return nil
}

func (r *stubRepo) GetDealByID(ctx context.Context, id uint64) (*models.Deal, error) {
	for i := range r.deals {
		if r.deals[i].ID == id {
			d := r.deals[i]
			return &d, nil
		}
	}
	return nil, nil
}

func (r *stubRepo) ListDeals(ctx context.Context, params repository.ListDealsParams) ([]models.Deal, error) {
	return r.deals, nil
}

func (r *stubRepo) CountDeals(ctx context.Context, params repository.ListDealsParams) (int64, error) {
	return int64(len(r.deals)), nil
}

func (r *stubRepo) AllDeals(ctx context.Context) ([]models.Deal, error) {
	return r.deals, nil
}

func (r *stubRepo) GetSettingByKey(ctx context.Context, key string) (*models.DashboardSetting, error) {
	item, ok := r.settings[key]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (r *stubRepo) UpsertSetting(ctx context.Context, item *models.DashboardSetting) error {
	r.settings[item.Key] = *item
	return nil
}

func (r *stubRepo) InsertSnapshot(ctx context.Context, item *models.AnalyticsSnapshot) error {
	r.snapshots = append(r.snapshots, *item)
	return nil
}

func (r *stubRepo) ListSnapshots(ctx context.Context, params repository.ListSnapshotsParams) ([]models.AnalyticsSnapshot, error) {
	return r.snapshots, nil
}
