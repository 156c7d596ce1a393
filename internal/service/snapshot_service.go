package service

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"dealdesk/internal/models"
	"dealdesk/internal/repository"
)

// SnapshotService captures the comprehensive analytics report on a schedule
// so trend history survives later deal edits.
type SnapshotService struct {
	Repo      repository.Repository
	Analytics *AnalyticsService
	Logger    *zap.Logger

	// Range is the token each capture uses; empty means the service default.
	Range string
}

func (s *SnapshotService) Capture(ctx context.Context) error {
	report, err := s.Analytics.Comprehensive(ctx, s.Range)
	if err != nil {
		return err
	}
	overview, err := s.Analytics.Overview(ctx, s.Range)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return err
	}

	item := &models.AnalyticsSnapshot{
		RangeToken:     s.Analytics.rangeToken(s.Range),
		TotalDeals:     overview.Current.TotalDeals,
		TotalValue:     decimal.NewFromFloat(overview.Current.TotalValue),
		ActiveDeals:    overview.Current.ActiveDeals,
		CompletedDeals: overview.Current.CompletedDeals,
		DraftDeals:     overview.Current.DraftDeals,
		AvgDealValue:   decimal.NewFromFloat(overview.Current.AvgDealValue),
		CompletionRate: overview.Current.CompletionRate,
		Payload:        datatypes.JSON(payload),
	}
	if err := s.Repo.InsertSnapshot(ctx, item); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("analytics snapshot captured",
			zap.String("range", item.RangeToken),
			zap.Int("total_deals", item.TotalDeals),
		)
	}
	return nil
}
