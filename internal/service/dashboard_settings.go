package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"dealdesk/internal/models"
	"dealdesk/internal/repository"
)

// DashboardSettingsService exposes the settings table as the durable
// key-value primitive the filter store persists through. Failures are
// logged and swallowed here so persistence stays fire-and-forget for the
// filter engine.
type DashboardSettingsService struct {
	Repo   repository.Repository
	Logger *zap.Logger

	// Timeout bounds each settings round trip; zero means 3s.
	Timeout time.Duration
}

func (s *DashboardSettingsService) ctx() (context.Context, context.CancelFunc) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

// Get implements filter.DurableStore.
func (s *DashboardSettingsService) Get(key string) (string, bool) {
	if s == nil || s.Repo == nil {
		return "", false
	}
	ctx, cancel := s.ctx()
	defer cancel()
	item, err := s.Repo.GetSettingByKey(ctx, key)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("dashboard setting read failed", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	if item == nil {
		return "", false
	}
	return string(item.Value), true
}

// Set implements filter.DurableStore.
func (s *DashboardSettingsService) Set(key, value string) {
	if s == nil || s.Repo == nil {
		return
	}
	ctx, cancel := s.ctx()
	defer cancel()
	item := &models.DashboardSetting{
		Key:       key,
		Value:     datatypes.JSON(value),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.Repo.UpsertSetting(ctx, item); err != nil && s.Logger != nil {
		s.Logger.Warn("dashboard setting write failed", zap.String("key", key), zap.Error(err))
	}
}
